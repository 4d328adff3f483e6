package helm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"helm.sh/helm/v3/pkg/chartutil"
)

// Values represents helm chart values as a map.
type Values map[string]any

// FromYAML parses YAML bytes into Values.
func FromYAML(data []byte) (Values, error) {
	var values Values
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse YAML values: %w", err)
	}
	if values == nil {
		values = Values{}
	}
	return values, nil
}

// ToYAML converts values to YAML bytes.
func (v Values) ToYAML() ([]byte, error) {
	out, err := yaml.Marshal(map[string]any(v))
	if err != nil {
		return nil, fmt.Errorf("failed to encode values to YAML: %w", err)
	}
	return out, nil
}

// Merge deep-merges value maps; later maps take precedence.
func Merge(valueMaps ...Values) Values {
	result := map[string]any{}
	for _, m := range valueMaps {
		if m == nil {
			continue
		}
		// CoalesceTables treats its first argument as authoritative.
		result = chartutil.CoalesceTables(copyMap(m), result)
	}
	return Values(result)
}

// LoadFiles reads and merges values files in order.
func LoadFiles(paths ...string) (Values, error) {
	merged := Values{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read values file %s: %w", path, err)
		}
		values, err := FromYAML(data)
		if err != nil {
			return nil, fmt.Errorf("values file %s: %w", path, err)
		}
		merged = Merge(merged, values)
	}
	return merged, nil
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = copyMap(nested)
			continue
		}
		if nested, ok := v.(Values); ok {
			out[k] = copyMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}
