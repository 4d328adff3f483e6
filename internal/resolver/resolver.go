package resolver

import (
	"context"
	"fmt"
	"sort"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/imamik/kpkg/internal/cluster"
	"github.com/imamik/kpkg/internal/kinds"
)

// Request carries the arguments of one call. Which fields are used depends
// on the operation: Object for create and patch, Name for get and delete,
// LabelSelector for list.
type Request struct {
	Namespace     string
	Name          string
	Object        *unstructured.Unstructured
	LabelSelector string
}

// Call is a resolved (kind, operation) pair bound to a cluster client.
type Call struct {
	Kind       string
	Op         Operation
	Facade     string
	Method     string
	Namespaced bool

	descriptor kinds.Descriptor
	resource   *cluster.Resource
	fn         handler
}

// Descriptor returns the registry entry the call was resolved from. For
// list pseudo-kinds this is the item kind.
func (c Call) Descriptor() kinds.Descriptor {
	return c.descriptor
}

// Invoke performs the call. The namespace is ignored for cluster-scoped
// calls. A namespaced list with an empty namespace spans all namespaces.
func (c Call) Invoke(ctx context.Context, req Request) (cluster.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return cluster.Outcome{}, err
	}

	ns := ""
	if c.Namespaced {
		ns = req.Namespace
		if ns == "" && c.Op != List {
			return cluster.Outcome{}, fmt.Errorf("%s: namespace is required", c.Method)
		}
	}

	switch c.Op {
	case Create, Patch:
		if req.Object == nil {
			return cluster.Outcome{}, fmt.Errorf("%s: object is required", c.Method)
		}
	case Get, Delete:
		if req.Name == "" {
			return cluster.Outcome{}, fmt.Errorf("%s: name is required", c.Method)
		}
	}

	return c.fn(ctx, c.resource, ns, req)
}

// Resolver resolves calls against one registry and one client.
type Resolver struct {
	registry *kinds.Registry
	client   *cluster.Client
	table    table
}

// New builds and validates the dispatch table for registry.
func New(registry *kinds.Registry, client *cluster.Client) (*Resolver, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if client == nil {
		return nil, fmt.Errorf("cluster client is required")
	}

	t := buildTable(registry)
	if err := t.validate(registry); err != nil {
		return nil, fmt.Errorf("invalid dispatch table: %w", err)
	}

	return &Resolver{registry: registry, client: client, table: t}, nil
}

// Registry returns the registry the resolver was built from.
func (r *Resolver) Registry() *kinds.Registry {
	return r.registry
}

// Resolve returns the call for kind and op. It looks up the namespaced
// method first and falls back to the cluster-scoped one.
func (r *Resolver) Resolve(kind string, op Operation) (Call, error) {
	d, ok := r.registry.Item(kind)
	if !ok {
		return Call{}, &UnsupportedOperationError{Kind: kind, Op: op}
	}

	facade := kinds.FacadeName(d.Group, d.Version)
	methods := r.table[facade]

	tried := make([]string, 0, 2)
	for _, namespaced := range []bool{true, false} {
		name := kinds.MethodName(string(op), d.Kind, namespaced)
		tried = append(tried, facade+"."+name)
		m, ok := methods[name]
		if !ok {
			continue
		}
		return Call{
			Kind:       kind,
			Op:         op,
			Facade:     facade,
			Method:     name,
			Namespaced: m.namespaced,
			descriptor: m.kind,
			resource:   r.client.Resource(m.kind.GroupVersionResource()),
			fn:         m.fn,
		}, nil
	}

	return Call{}, &UnsupportedOperationError{Kind: kind, Op: op, Tried: tried}
}

// Methods lists every "Facade.method" entry of the dispatch table, sorted.
func (r *Resolver) Methods() []string {
	var out []string
	for _, facade := range r.table.facades() {
		names := make([]string, 0, len(r.table[facade]))
		for name := range r.table[facade] {
			names = append(names, facade+"."+name)
		}
		sort.Strings(names)
		out = append(out, names...)
	}
	return out
}
