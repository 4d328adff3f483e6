package installer

import (
	"context"
	"errors"
	"sort"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/kpkg/internal/manifest"
	"github.com/imamik/kpkg/internal/pkgdef"
	"github.com/imamik/kpkg/internal/resolver"
	"github.com/imamik/kpkg/internal/tracking"
)

// Revert deletes the entries of trackingLog from index from on, newest
// first, whatever the cluster currently holds. Entries leave the log as
// they are deleted or found absent. namespace is used for entries that
// carry none. It returns the entries that were actually deleted.
func (e *Engine) Revert(ctx context.Context, trackingLog *tracking.Log, namespace string, from int) (deleted manifest.Sequence, err error) {
	defer e.observe("revert", time.Now(), &err)
	if from < 0 {
		from = 0
	}

	logger := log.FromContext(ctx)
	var errs []error

	for i := trackingLog.Len() - 1; i >= from; i-- {
		obj := trackingLog.At(i)
		logger.Info("Reverting", "resource", manifest.RefOf(obj).String())

		gone, delErr := e.delete(ctx, obj, namespace)
		if delErr != nil {
			if e.deletePolicy != ContinueOnError {
				return deleted, delErr
			}
			errs = append(errs, delErr)
			continue
		}
		if gone {
			deleted = append(deleted, obj)
		}
		trackingLog.Remove(i)
	}

	return deleted, errors.Join(errs...)
}

// Uninstall discovers the instance and deletes what it found in reverse
// apply order. Resources already gone are left out of the result.
func (e *Engine) Uninstall(ctx context.Context, id pkgdef.Identity) (deleted manifest.Sequence, err error) {
	defer e.observe("uninstall", time.Now(), &err)
	id = id.WithDefaults()

	found, err := e.discover(ctx, id)
	if err != nil {
		return nil, err
	}
	sortByApplyOrder(found)

	logger := log.FromContext(ctx).WithValues("package", id.String())
	var errs []error

	for i := len(found) - 1; i >= 0; i-- {
		obj := found[i]
		gone, delErr := e.delete(ctx, obj, id.Namespace)
		if delErr != nil {
			if e.deletePolicy != ContinueOnError {
				return deleted, delErr
			}
			errs = append(errs, delErr)
			continue
		}
		if gone {
			logger.V(1).Info("Deleted resource", "resource", manifest.RefOf(obj).String())
			deleted = append(deleted, obj)
		}
	}

	logger.Info("Uninstall complete", "deleted", len(deleted))
	return deleted, errors.Join(errs...)
}

// delete removes obj. It reports false when the object was already gone.
func (e *Engine) delete(ctx context.Context, obj *unstructured.Unstructured, namespace string) (bool, error) {
	ref := manifest.RefOf(obj)
	if err := ctx.Err(); err != nil {
		return false, &DeleteError{Resource: ref, Err: err}
	}

	ns := obj.GetNamespace()
	if ns == "" {
		ns = namespace
	}

	out, err := e.invoke(ctx, obj.GetKind(), resolver.Delete, resolver.Request{Namespace: ns, Name: obj.GetName()})
	if err != nil {
		return false, &DeleteError{Resource: ref, Err: err}
	}
	if out.IsNotFound() {
		log.FromContext(ctx).V(1).Info("Already absent", "resource", ref.String())
		return false, nil
	}
	e.metrics.ObserveDeleted(obj.GetKind())
	return true, nil
}

// sortByApplyOrder orders resources by their recorded apply position.
// Resources without one keep their relative order and go last, so they
// are deleted first.
func sortByApplyOrder(seq manifest.Sequence) {
	sort.SliceStable(seq, func(i, j int) bool {
		a, aok := applyOrder(seq[i])
		b, bok := applyOrder(seq[j])
		switch {
		case aok && bok:
			return a < b
		default:
			return aok && !bok
		}
	})
}
