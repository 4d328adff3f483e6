package kinds

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Descriptor describes one supported resource kind.
type Descriptor struct {
	// Kind is the type tag as it appears in manifests (e.g. "Deployment").
	Kind string
	// Group is the API group, empty for the core group.
	Group string
	// Version is the API version within the group (e.g. "v1").
	Version string
	// Resource is the plural REST resource name (e.g. "deployments").
	Resource string
	// Namespaced reports whether the kind lives inside a namespace.
	Namespaced bool
	// ListOf is set for list pseudo-kinds and names the item kind.
	ListOf string
}

// APIVersion returns the manifest apiVersion string ("apps/v1", "v1").
func (d Descriptor) APIVersion() string {
	return schema.GroupVersion{Group: d.Group, Version: d.Version}.String()
}

// GroupVersionKind returns the GVK of the kind.
func (d Descriptor) GroupVersionKind() schema.GroupVersionKind {
	return schema.GroupVersionKind{Group: d.Group, Version: d.Version, Kind: d.Kind}
}

// GroupVersionResource returns the GVR used by the dynamic client.
func (d Descriptor) GroupVersionResource() schema.GroupVersionResource {
	return schema.GroupVersionResource{Group: d.Group, Version: d.Version, Resource: d.Resource}
}

// IsList reports whether the descriptor is a list pseudo-kind.
func (d Descriptor) IsList() bool {
	return d.ListOf != ""
}

// ListKind returns the kind name of list responses for this kind.
func (d Descriptor) ListKind() string {
	return d.Kind + "List"
}

// Registry is an ordered, immutable set of descriptors.
type Registry struct {
	ordered []Descriptor
	byKind  map[string]int
}

// NewRegistry builds a registry from descriptors, preserving their order.
// It fails on duplicate kinds, missing fields, and list pseudo-kinds whose
// item kind is not registered.
func NewRegistry(descriptors []Descriptor) (*Registry, error) {
	r := &Registry{
		ordered: make([]Descriptor, 0, len(descriptors)),
		byKind:  make(map[string]int, len(descriptors)),
	}

	for _, d := range descriptors {
		if d.Kind == "" || d.Version == "" {
			return nil, fmt.Errorf("descriptor %+v: kind and version are required", d)
		}
		if !d.IsList() && d.Resource == "" {
			return nil, fmt.Errorf("descriptor %s: resource is required", d.Kind)
		}
		if _, dup := r.byKind[d.Kind]; dup {
			return nil, fmt.Errorf("duplicate descriptor for kind %s", d.Kind)
		}
		r.byKind[d.Kind] = len(r.ordered)
		r.ordered = append(r.ordered, d)
	}

	for _, d := range r.ordered {
		if !d.IsList() {
			continue
		}
		item, ok := r.Lookup(d.ListOf)
		if !ok || item.IsList() {
			return nil, fmt.Errorf("list kind %s refers to unknown item kind %s", d.Kind, d.ListOf)
		}
		if item.APIVersion() != d.APIVersion() {
			return nil, fmt.Errorf("list kind %s has apiVersion %s, item kind has %s", d.Kind, d.APIVersion(), item.APIVersion())
		}
	}

	return r, nil
}

// MustRegistry is NewRegistry for static tables; it panics on error.
func MustRegistry(descriptors []Descriptor) *Registry {
	r, err := NewRegistry(descriptors)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the descriptor for kind.
func (r *Registry) Lookup(kind string) (Descriptor, bool) {
	i, ok := r.byKind[kind]
	if !ok {
		return Descriptor{}, false
	}
	return r.ordered[i], true
}

// Item resolves list pseudo-kinds to their item descriptor and returns any
// other descriptor unchanged.
func (r *Registry) Item(kind string) (Descriptor, bool) {
	d, ok := r.Lookup(kind)
	if !ok {
		return Descriptor{}, false
	}
	if d.IsList() {
		return r.Lookup(d.ListOf)
	}
	return d, true
}

// All returns every descriptor in registry order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Listable returns descriptors in registry order, skipping list pseudo-kinds.
func (r *Registry) Listable() []Descriptor {
	out := make([]Descriptor, 0, len(r.ordered))
	for _, d := range r.ordered {
		if !d.IsList() {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of descriptors.
func (r *Registry) Len() int {
	return len(r.ordered)
}

// Index returns the position of kind in registry order, or -1.
func (r *Registry) Index(kind string) int {
	i, ok := r.byKind[kind]
	if !ok {
		return -1
	}
	return i
}

// ListKinds maps every listable GVR to its list kind name. The map is the
// shape expected by the fake dynamic client.
func (r *Registry) ListKinds() map[schema.GroupVersionResource]string {
	out := make(map[schema.GroupVersionResource]string, len(r.ordered))
	for _, d := range r.Listable() {
		out[d.GroupVersionResource()] = d.ListKind()
	}
	return out
}

// Kinds returns the kind names in registry order.
func (r *Registry) Kinds() []string {
	out := make([]string, len(r.ordered))
	for i, d := range r.ordered {
		out[i] = d.Kind
	}
	return out
}

// String renders the registry as "Kind(apiVersion)" pairs, mostly for errors.
func (r *Registry) String() string {
	parts := make([]string, len(r.ordered))
	for i, d := range r.ordered {
		parts[i] = d.Kind + "(" + d.APIVersion() + ")"
	}
	return strings.Join(parts, ", ")
}
