package webapp

import (
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Defaults for instance settings.
const (
	DefaultImage    = "busybox:1.32"
	DefaultPort     = 8000
	DefaultReplicas = 1
	portName        = "http"
	healthPath      = "/health"
)

// VolumeMount mounts the instance ConfigMap into the container.
type VolumeMount struct {
	VolumeName string `mapstructure:"volumeName"`
	MountPath  string `mapstructure:"mountPath"`
}

// Settings configures one webapp instance.
type Settings struct {
	Image      string            `mapstructure:"image"`
	Replicas   int32             `mapstructure:"replicas"`
	Port       int32             `mapstructure:"port"`
	Args       []string          `mapstructure:"args"`
	ConfigData map[string]string `mapstructure:"configData"`

	// AutomountServiceAccountToken defaults to true.
	AutomountServiceAccountToken *bool `mapstructure:"automountServiceAccountToken"`
	// CreateNamespace renders the instance Namespace; defaults to true.
	CreateNamespace *bool `mapstructure:"createNamespace"`

	VolumeMount *VolumeMount `mapstructure:"volumeMount"`
}

// DecodeSettings reads settings from a loosely typed map, as found in the
// package section of a config file.
func DecodeSettings(raw map[string]interface{}) (Settings, error) {
	var s Settings
	if len(raw) == 0 {
		return s.withDefaults(), nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &s,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Settings{}, fmt.Errorf("failed to create settings decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Settings{}, fmt.Errorf("failed to decode webapp settings: %w", err)
	}
	return s.withDefaults(), nil
}

func (s Settings) withDefaults() Settings {
	if s.Image == "" {
		s.Image = DefaultImage
	}
	if s.Replicas == 0 {
		s.Replicas = DefaultReplicas
	}
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.ConfigData == nil {
		s.ConfigData = map[string]string{
			".env": fmt.Sprintf("HTTP_PORT=%d\nHTTP_ADDR=0.0.0.0", s.Port),
		}
	}
	if s.AutomountServiceAccountToken == nil {
		t := true
		s.AutomountServiceAccountToken = &t
	}
	if s.CreateNamespace == nil {
		t := true
		s.CreateNamespace = &t
	}
	return s
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	var errs []error
	if s.Replicas < 0 {
		errs = append(errs, fmt.Errorf("replicas must not be negative, got %d", s.Replicas))
	}
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", s.Port))
	}
	if s.VolumeMount != nil && (s.VolumeMount.VolumeName == "" || s.VolumeMount.MountPath == "") {
		errs = append(errs, errors.New("volumeMount needs volumeName and mountPath"))
	}
	return errors.Join(errs...)
}
