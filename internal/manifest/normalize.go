package manifest

import (
	"fmt"

	"github.com/imamik/kpkg/internal/kinds"
	"github.com/imamik/kpkg/internal/util/labels"
)

// Normalizer prepares rendered manifests for the installer.
type Normalizer struct {
	// Registry lists the supported kinds.
	Registry *kinds.Registry
	// Namespace is the instance namespace, used for namespaced manifests
	// that do not set one.
	Namespace string
	// Labels are stamped on every manifest and win over existing values.
	Labels map[string]string
}

// Normalize returns a deep copy of seq in which every manifest has a
// registered kind, a name, and a namespace exactly when its kind is
// namespaced. Lists are flattened first.
func (n Normalizer) Normalize(seq Sequence) (Sequence, error) {
	if n.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if err := labels.Validate(n.Labels); err != nil {
		return nil, err
	}

	flat, err := Flatten(seq.DeepCopy())
	if err != nil {
		return nil, err
	}

	for i, obj := range flat {
		d, ok := n.Registry.Item(obj.GetKind())
		if !ok {
			return nil, fmt.Errorf("manifest %d: kind %q is not supported", i, obj.GetKind())
		}
		if apiVersion := obj.GetAPIVersion(); apiVersion == "" {
			obj.SetAPIVersion(d.APIVersion())
		} else if apiVersion != d.APIVersion() {
			return nil, fmt.Errorf("manifest %d: %s has apiVersion %s, expected %s", i, d.Kind, apiVersion, d.APIVersion())
		}
		obj.SetKind(d.Kind)

		if obj.GetName() == "" {
			return nil, fmt.Errorf("manifest %d: %s has no name", i, d.Kind)
		}

		switch {
		case !d.Namespaced:
			obj.SetNamespace("")
		case obj.GetNamespace() == "" && n.Namespace == "":
			return nil, fmt.Errorf("manifest %d: %s %s needs a namespace", i, d.Kind, obj.GetName())
		case obj.GetNamespace() == "":
			obj.SetNamespace(n.Namespace)
		}

		if len(n.Labels) > 0 {
			merged := obj.GetLabels()
			if merged == nil {
				merged = make(map[string]string, len(n.Labels))
			}
			for k, v := range n.Labels {
				merged[k] = v
			}
			obj.SetLabels(merged)
		}
	}

	return flat, nil
}
