// Package source turns a declarative source description into a renderer
// for helm charts, kustomizations or plain manifest files.
package source

import (
	"fmt"

	"github.com/imamik/kpkg/internal/pkgdef"
	"github.com/imamik/kpkg/internal/source/helm"
	"github.com/imamik/kpkg/internal/source/kustomize"
	"github.com/imamik/kpkg/internal/source/manifests"
)

// Type selects the renderer.
type Type string

const (
	TypeHelm      Type = "helm"
	TypeKustomize Type = "kustomize"
	TypeManifests Type = "manifests"
)

// Spec describes where a package's manifests come from.
type Spec struct {
	Type Type `mapstructure:"type" yaml:"type"`
	// Path is the chart directory, the kustomization root, or a manifest
	// file or directory.
	Path string `mapstructure:"path" yaml:"path,omitempty"`
	// Paths lists further manifest files or directories.
	Paths []string `mapstructure:"paths" yaml:"paths,omitempty"`

	// Repository, Chart and Version locate a remote helm chart.
	Repository string `mapstructure:"repository" yaml:"repository,omitempty"`
	Chart      string `mapstructure:"chart" yaml:"chart,omitempty"`
	Version    string `mapstructure:"version" yaml:"version,omitempty"`

	ValuesFiles []string       `mapstructure:"valuesFiles" yaml:"valuesFiles,omitempty"`
	Values      map[string]any `mapstructure:"values" yaml:"values,omitempty"`
	KubeVersion string         `mapstructure:"kubeVersion" yaml:"kubeVersion,omitempty"`
	IncludeCRDs bool           `mapstructure:"includeCRDs" yaml:"includeCRDs,omitempty"`
}

// Validate checks the fields required by the source type.
func (s Spec) Validate() error {
	switch s.Type {
	case TypeHelm:
		if s.Path == "" && s.Repository == "" {
			return fmt.Errorf("helm source needs a path or a repository")
		}
	case TypeKustomize:
		if s.Path == "" {
			return fmt.Errorf("kustomize source needs a path")
		}
	case TypeManifests:
		if s.Path == "" && len(s.Paths) == 0 {
			return fmt.Errorf("manifests source needs at least one path")
		}
	case "":
		return fmt.Errorf("source type is required")
	default:
		return fmt.Errorf("unknown source type %q", s.Type)
	}
	return nil
}

// Open builds the renderer for spec. The identity supplies the helm
// release name and namespace.
func Open(spec Spec, id pkgdef.Identity) (pkgdef.Renderer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	switch spec.Type {
	case TypeHelm:
		values, err := helm.LoadFiles(spec.ValuesFiles...)
		if err != nil {
			return nil, err
		}
		src, err := helm.New(helm.Options{
			Chart: helm.ChartRef{
				Path:       spec.Path,
				Repository: spec.Repository,
				Name:       spec.Chart,
				Version:    spec.Version,
			},
			ReleaseName: id.Instance,
			Namespace:   id.Namespace,
			Values:      helm.Merge(values, spec.Values),
			KubeVersion: spec.KubeVersion,
			IncludeCRDs: spec.IncludeCRDs,
		})
		if err != nil {
			return nil, err
		}
		return src, nil
	case TypeKustomize:
		src, err := kustomize.New(spec.Path)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		paths := spec.Paths
		if spec.Path != "" {
			paths = append([]string{spec.Path}, paths...)
		}
		src, err := manifests.New(paths...)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}

// Package opens spec and wraps it as a package with identity id.
func Package(spec Spec, id pkgdef.Identity) (pkgdef.Package, error) {
	r, err := Open(spec, id)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s source: %w", spec.Type, err)
	}
	return pkgdef.FromSource(id, r), nil
}
