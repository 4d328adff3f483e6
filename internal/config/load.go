package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvContext        = "KPKG_CONTEXT"
	EnvKubeconfig     = "KPKG_KUBECONFIG"
	EnvKubeconfigData = "KPKG_KUBECONFIG_DATA"
	EnvInstance       = "KPKG_INSTANCE"
	EnvNamespace      = "KPKG_NAMESPACE"
	EnvAutoRollback   = "KPKG_AUTO_ROLLBACK"
	EnvDeletePolicy   = "KPKG_DELETE_POLICY"
	EnvStore          = "KPKG_TRACKING_STORE"
	EnvS3Endpoint     = "KPKG_S3_ENDPOINT"
	EnvS3Region       = "KPKG_S3_REGION"
	EnvS3AccessKey    = "KPKG_S3_ACCESS_KEY"
	EnvS3SecretKey    = "KPKG_S3_SECRET_KEY"
	EnvMetrics        = "KPKG_METRICS_TEXTFILE"
)

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// LoadFile reads, defaults, overrides from the process environment and
// validates the config at path.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Load(data, os.LookupEnv)
}

// Load parses data and applies defaults and environment overrides from
// lookup. A nil lookup skips the environment.
func Load(data []byte, lookup LookupFunc) (*Config, error) {
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if lookup != nil {
		if err := cfg.ApplyEnv(lookup); err != nil {
			return nil, err
		}
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML without defaults or validation. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Instance.Name == "" {
		c.Instance.Name = c.Package.Name
	}
	if c.Instance.Namespace == "" {
		c.Instance.Namespace = "default"
	}
	if c.Install.DeletePolicy == "" {
		c.Install.DeletePolicy = DefaultDeletePolicy
	}
	if c.Install.PatchType == "" {
		c.Install.PatchType = DefaultPatchType
	}
	if c.Install.FieldManager == "" {
		c.Install.FieldManager = DefaultFieldManager
	}
	if c.Tracking.Store == "" {
		c.Tracking.Store = DefaultTrackingDir
	}
}

// ApplyEnv overrides fields from set environment variables.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	strs := map[string]*string{
		EnvContext:        &c.Cluster.Context,
		EnvKubeconfig:     &c.Cluster.Kubeconfig,
		EnvKubeconfigData: &c.Cluster.KubeconfigData,
		EnvInstance:       &c.Instance.Name,
		EnvNamespace:      &c.Instance.Namespace,
		EnvDeletePolicy:   &c.Install.DeletePolicy,
		EnvStore:          &c.Tracking.Store,
		EnvS3Endpoint:     &c.Tracking.S3.Endpoint,
		EnvS3Region:       &c.Tracking.S3.Region,
		EnvS3AccessKey:    &c.Tracking.S3.AccessKey,
		EnvS3SecretKey:    &c.Tracking.S3.SecretKey,
		EnvMetrics:        &c.Metrics.Textfile,
	}
	for key, field := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*field = v
		}
	}

	if v, ok := lookup(EnvAutoRollback); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAutoRollback, err)
		}
		c.Install.AutoRollback = b
	}
	return nil
}
