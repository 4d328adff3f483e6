package config

import (
	"github.com/imamik/kpkg/internal/cluster"
	"github.com/imamik/kpkg/internal/pkgdef"
	"github.com/imamik/kpkg/internal/source"
	"github.com/imamik/kpkg/internal/tracking"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "kpkg.yaml"

// Defaults applied by Load.
const (
	DefaultFieldManager = "kpkg"
	DefaultTrackingDir  = ".kpkg/state"
	DefaultDeletePolicy = "abort"
	DefaultPatchType    = PatchMerge
)

// Patch types.
const (
	PatchMerge = "merge"
	PatchApply = "apply"
)

// Config is the parsed kpkg.yaml.
type Config struct {
	Cluster  ClusterConfig  `mapstructure:"cluster" yaml:"cluster"`
	Package  PackageConfig  `mapstructure:"package" yaml:"package"`
	Instance InstanceConfig `mapstructure:"instance" yaml:"instance"`
	Install  InstallConfig  `mapstructure:"install" yaml:"install"`
	Tracking TrackingConfig `mapstructure:"tracking" yaml:"tracking"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
}

// ClusterConfig selects the cluster. Leave all fields empty for the
// default kubeconfig loading rules.
type ClusterConfig struct {
	Context    string `mapstructure:"context" yaml:"context,omitempty"`
	Kubeconfig string `mapstructure:"kubeconfig" yaml:"kubeconfig,omitempty"`

	// KubeconfigData is inline kubeconfig content, set from the
	// environment only.
	KubeconfigData string `mapstructure:"-" yaml:"-"`
}

// PackageConfig names the package and its manifest source. Without a
// source the name must be a built-in package.
type PackageConfig struct {
	Name    string       `mapstructure:"name" yaml:"name"`
	Version string       `mapstructure:"version" yaml:"version"`
	Source  *source.Spec `mapstructure:"source" yaml:"source,omitempty"`
}

// InstanceConfig names one installation of the package.
type InstanceConfig struct {
	Name      string `mapstructure:"name" yaml:"name"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
	// Settings are passed to built-in packages.
	Settings map[string]any `mapstructure:"settings" yaml:"settings,omitempty"`
}

// InstallConfig tunes the installer engine.
type InstallConfig struct {
	AutoRollback bool   `mapstructure:"autoRollback" yaml:"autoRollback"`
	DeletePolicy string `mapstructure:"deletePolicy" yaml:"deletePolicy"`
	PatchType    string `mapstructure:"patchType" yaml:"patchType"`
	FieldManager string `mapstructure:"fieldManager" yaml:"fieldManager"`
}

// TrackingConfig locates the tracking log store.
type TrackingConfig struct {
	// Store is a directory, a file:// URL or an s3://bucket/prefix URL.
	Store string   `mapstructure:"store" yaml:"store"`
	S3    S3Config `mapstructure:"s3" yaml:"s3,omitempty"`
}

// S3Config holds the non-secret S3 settings.
type S3Config struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	Region    string `mapstructure:"region" yaml:"region,omitempty"`
	PathStyle bool   `mapstructure:"pathStyle" yaml:"pathStyle,omitempty"`

	AccessKey string `mapstructure:"-" yaml:"-"`
	SecretKey string `mapstructure:"-" yaml:"-"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" yaml:"textfile,omitempty"`
}

// Identity returns the package instance identity.
func (c *Config) Identity() pkgdef.Identity {
	return pkgdef.Identity{
		Name:      c.Package.Name,
		Version:   c.Package.Version,
		Instance:  c.Instance.Name,
		Namespace: c.Instance.Namespace,
	}.WithDefaults()
}

// Access returns the cluster access settings.
func (c *Config) Access() cluster.Access {
	access := cluster.Access{Context: c.Cluster.Context, ConfigFile: c.Cluster.Kubeconfig}
	if c.Cluster.KubeconfigData != "" {
		access.ConfigData = []byte(c.Cluster.KubeconfigData)
	}
	return access
}

// ApplyOptions returns the patch settings for the cluster client.
func (c *Config) ApplyOptions() cluster.ApplyOptions {
	return cluster.ApplyOptions{
		ServerSide:   c.Install.PatchType == PatchApply,
		FieldManager: c.Install.FieldManager,
	}
}

// S3Options returns the tracking store settings for S3 locations.
func (c *Config) S3Options() tracking.S3Options {
	return tracking.S3Options{
		Endpoint:  c.Tracking.S3.Endpoint,
		Region:    c.Tracking.S3.Region,
		AccessKey: c.Tracking.S3.AccessKey,
		SecretKey: c.Tracking.S3.SecretKey,
		PathStyle: c.Tracking.S3.PathStyle,
	}
}
