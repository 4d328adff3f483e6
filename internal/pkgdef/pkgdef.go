package pkgdef

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/kpkg/internal/kinds"
	"github.com/imamik/kpkg/internal/manifest"
	"github.com/imamik/kpkg/internal/util/labels"
)

// DefaultNamespace is used when an identity names no namespace.
const DefaultNamespace = "default"

// Identity names one instance of a package.
type Identity struct {
	Name      string `mapstructure:"name" yaml:"name"`
	Version   string `mapstructure:"version" yaml:"version"`
	Instance  string `mapstructure:"instance" yaml:"instance"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

// WithDefaults fills the namespace and falls back to the package name for
// the instance.
func (id Identity) WithDefaults() Identity {
	if id.Namespace == "" {
		id.Namespace = DefaultNamespace
	}
	if id.Instance == "" {
		id.Instance = id.Name
	}
	return id
}

// Validate checks the identity is complete and label safe.
func (id Identity) Validate() error {
	var errs []error
	if id.Name == "" {
		errs = append(errs, errors.New("package name is required"))
	}
	if id.Instance == "" {
		errs = append(errs, errors.New("instance name is required"))
	}
	if id.Namespace == "" {
		errs = append(errs, errors.New("namespace is required"))
	}
	if len(errs) == 0 {
		if err := labels.Validate(id.Labels()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Labels returns the label set stamped on every resource of the instance.
func (id Identity) Labels() map[string]string {
	return labels.NewLabelBuilder(id.Name, id.Instance).WithVersion(id.Version).Build()
}

// Selector returns the discovery selector of the instance.
func (id Identity) Selector() string {
	return labels.Selector(id.Name, id.Instance, labels.ManagedByKpkg)
}

func (id Identity) String() string {
	if id.Version == "" {
		return fmt.Sprintf("%s/%s", id.Name, id.Instance)
	}
	return fmt.Sprintf("%s@%s/%s", id.Name, id.Version, id.Instance)
}

// Renderer produces manifests.
type Renderer interface {
	Render(ctx context.Context) (manifest.Sequence, error)
}

// Package is a named, versioned bundle of manifests.
type Package interface {
	Renderer
	Identity() Identity
}

// FromSource adapts any renderer into a package with the given identity.
func FromSource(id Identity, r Renderer) Package {
	return &sourcePackage{id: id, r: r}
}

type sourcePackage struct {
	id Identity
	r  Renderer
}

func (p *sourcePackage) Identity() Identity { return p.id }

func (p *sourcePackage) Render(ctx context.Context) (manifest.Sequence, error) {
	return p.r.Render(ctx)
}

// Prepare renders pkg and normalizes the result against registry: identity
// labels are stamped and namespaces fixed up.
func Prepare(ctx context.Context, pkg Package, registry *kinds.Registry) (manifest.Sequence, error) {
	id := pkg.Identity()
	if err := id.Validate(); err != nil {
		return nil, fmt.Errorf("invalid package identity %s: %w", id, err)
	}

	seq, err := pkg.Render(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", id, err)
	}

	n := manifest.Normalizer{Registry: registry, Namespace: id.Namespace, Labels: id.Labels()}
	out, err := n.Normalize(seq)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s: %w", id, err)
	}
	return out, nil
}
