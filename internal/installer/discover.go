package installer

import (
	"context"
	"fmt"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/kpkg/internal/manifest"
	"github.com/imamik/kpkg/internal/pkgdef"
	"github.com/imamik/kpkg/internal/resolver"
)

// Discover lists every resource of the instance identified by id. Kinds
// the server does not serve yield nothing. Resources owned by another
// object are skipped, Secret payloads are redacted, and kind and
// apiVersion are filled from the registry. The result follows registry
// order, then list order.
func (e *Engine) Discover(ctx context.Context, id pkgdef.Identity) (found manifest.Sequence, err error) {
	defer e.observe("discover", time.Now(), &err)
	return e.discover(ctx, id.WithDefaults())
}

func (e *Engine) discover(ctx context.Context, id pkgdef.Identity) (manifest.Sequence, error) {
	if err := id.Validate(); err != nil {
		return nil, fmt.Errorf("invalid package identity %s: %w", id, err)
	}

	logger := log.FromContext(ctx).WithValues("package", id.String())
	selector := id.Selector()
	var found manifest.Sequence

	for _, d := range e.registry.Listable() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		call, err := e.resolver.Resolve(d.Kind, resolver.List)
		if err != nil {
			return nil, err
		}
		ns := ""
		if call.Namespaced {
			ns = id.Namespace
		}

		out, err := e.invoke(ctx, d.Kind, resolver.List, resolver.Request{Namespace: ns, LabelSelector: selector})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", d.Kind, err)
		}
		if out.IsNotFound() {
			logger.V(1).Info("Kind not served", "kind", d.Kind)
			continue
		}

		for i := range out.Items {
			item := out.Items[i].DeepCopy()
			if len(item.GetOwnerReferences()) > 0 {
				continue
			}
			item.SetKind(d.Kind)
			item.SetAPIVersion(d.APIVersion())
			manifest.Redact(item)
			found = append(found, item)
		}
	}

	logger.V(1).Info("Discovery complete", "resources", len(found))
	return found, nil
}
