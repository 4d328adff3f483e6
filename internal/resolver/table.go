package resolver

import (
	"context"
	"fmt"
	"sort"

	"github.com/imamik/kpkg/internal/cluster"
	"github.com/imamik/kpkg/internal/kinds"
)

// Operation is a lifecycle verb.
type Operation string

const (
	Create Operation = "create"
	Get    Operation = "get"
	List   Operation = "list"
	Patch  Operation = "patch"
	Delete Operation = "delete"
)

// Operations lists every verb in the order they are registered.
var Operations = []Operation{Create, Get, List, Patch, Delete}

// handler performs one verb against a resource handle.
type handler func(ctx context.Context, res *cluster.Resource, namespace string, req Request) (cluster.Outcome, error)

var handlers = map[Operation]handler{
	Create: func(ctx context.Context, res *cluster.Resource, ns string, req Request) (cluster.Outcome, error) {
		return res.Create(ctx, ns, req.Object)
	},
	Get: func(ctx context.Context, res *cluster.Resource, ns string, req Request) (cluster.Outcome, error) {
		return res.Get(ctx, ns, req.Name)
	},
	List: func(ctx context.Context, res *cluster.Resource, ns string, req Request) (cluster.Outcome, error) {
		return res.List(ctx, ns, req.LabelSelector)
	},
	Patch: func(ctx context.Context, res *cluster.Resource, ns string, req Request) (cluster.Outcome, error) {
		return res.Patch(ctx, ns, req.Object)
	},
	Delete: func(ctx context.Context, res *cluster.Resource, ns string, req Request) (cluster.Outcome, error) {
		return res.Delete(ctx, ns, req.Name)
	},
}

// method is one dispatch table entry.
type method struct {
	kind       kinds.Descriptor
	op         Operation
	namespaced bool
	fn         handler
}

// table maps facade -> method name -> entry.
type table map[string]map[string]method

// buildTable registers every verb for every concrete kind of the registry
// under the scope the kind declares. List pseudo-kinds get no entries.
func buildTable(registry *kinds.Registry) table {
	t := make(table)
	for _, d := range registry.Listable() {
		facade := kinds.FacadeName(d.Group, d.Version)
		if t[facade] == nil {
			t[facade] = make(map[string]method)
		}
		for _, op := range Operations {
			t[facade][kinds.MethodName(string(op), d.Kind, d.Namespaced)] = method{
				kind:       d,
				op:         op,
				namespaced: d.Namespaced,
				fn:         handlers[op],
			}
		}
	}
	return t
}

// validate checks that every concrete kind resolves every verb in exactly
// one scope and that no entry lacks a handler. A table from buildTable is
// derived from the same registry, so this only catches method name
// collisions between kinds; the scope of each name is checked against the
// Kubernetes API surface in the resolver tests.
func (t table) validate(registry *kinds.Registry) error {
	for _, d := range registry.Listable() {
		methods := t[kinds.FacadeName(d.Group, d.Version)]
		for _, op := range Operations {
			nsEntry, nsOK := methods[kinds.MethodName(string(op), d.Kind, true)]
			clEntry, clOK := methods[kinds.MethodName(string(op), d.Kind, false)]
			switch {
			case nsOK && clOK:
				return fmt.Errorf("kind %s exposes %s in both scopes", d.Kind, op)
			case !nsOK && !clOK:
				return &UnsupportedOperationError{Kind: d.Kind, Op: op}
			case nsOK && nsEntry.fn == nil, clOK && clEntry.fn == nil:
				return fmt.Errorf("kind %s has no handler for %s", d.Kind, op)
			}
		}
	}
	return nil
}

// facades returns the facade names in sorted order.
func (t table) facades() []string {
	out := make([]string, 0, len(t))
	for f := range t {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
