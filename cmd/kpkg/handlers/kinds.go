package handlers

import (
	"github.com/imamik/kpkg/internal/cluster"
	"github.com/imamik/kpkg/internal/kinds"
	"github.com/imamik/kpkg/internal/resolver"
	"github.com/imamik/kpkg/internal/ui"
)

// Kinds handles the kinds command. It prints the supported kinds, or the
// full dispatch table when methods is set.
func Kinds(methods bool) error {
	registry := kinds.Default()
	printer := ui.NewPrinter(stdout)

	if methods {
		// The table is built offline; no call is ever made on this client.
		r, err := resolver.New(registry, cluster.NewFromClients(nil, nil))
		if err != nil {
			return err
		}
		for _, m := range r.Methods() {
			printer.Println(m)
		}
		return nil
	}

	rows := make([][]string, 0, registry.Len())
	for _, d := range registry.All() {
		scope := "Cluster"
		if d.Namespaced {
			scope = "Namespaced"
		}
		resource := d.Resource
		if d.IsList() {
			scope = "-"
			resource = "list of " + d.ListOf
		}
		rows = append(rows, []string{d.Kind, d.APIVersion(), resource, scope})
	}
	printer.Println(printer.Table([]string{"KIND", "API VERSION", "RESOURCE", "SCOPE"}, rows))
	return nil
}
