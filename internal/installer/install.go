package installer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/kpkg/internal/manifest"
	"github.com/imamik/kpkg/internal/pkgdef"
	"github.com/imamik/kpkg/internal/resolver"
	"github.com/imamik/kpkg/internal/tracking"
)

// ApplyOrderAnnotation records the position a resource had in the
// sequence that last applied it.
const ApplyOrderAnnotation = "kpkg.io/apply-order"

// Install applies seq in order. Each resource is read first: an existing
// object is patched, a missing one is created. Every server answer is
// appended to trackingLog, so after a failure the log holds exactly the
// resources applied before it. The first failure stops the install and
// is returned as *InstallError.
func (e *Engine) Install(ctx context.Context, seq manifest.Sequence, trackingLog *tracking.Log) error {
	return e.install(ctx, seq, trackingLog, e.autoRollback)
}

func (e *Engine) install(ctx context.Context, seq manifest.Sequence, trackingLog *tracking.Log, autoRollback bool) (err error) {
	if trackingLog == nil {
		return fmt.Errorf("tracking log is required")
	}
	defer e.observe("install", time.Now(), &err)

	logger := log.FromContext(ctx)
	start := trackingLog.Len()

	for i, m := range seq {
		if applyErr := e.apply(ctx, i, m, trackingLog); applyErr != nil {
			logger.Error(applyErr, "Install failed", "resource", manifest.RefOf(m).String(), "applied", trackingLog.Len()-start)
			if !autoRollback {
				return applyErr
			}
			return e.rollback(ctx, applyErr, trackingLog, start)
		}
	}

	logger.Info("Install complete", "resources", len(seq))
	return nil
}

// InstallPackage renders pkg and installs the result.
func (e *Engine) InstallPackage(ctx context.Context, pkg pkgdef.Package, trackingLog *tracking.Log) error {
	return e.installPackage(ctx, pkg, trackingLog, e.autoRollback)
}

func (e *Engine) installPackage(ctx context.Context, pkg pkgdef.Package, trackingLog *tracking.Log, autoRollback bool) error {
	seq, err := pkgdef.Prepare(ctx, pkg, e.registry)
	if err != nil {
		return err
	}
	ctx = log.IntoContext(ctx, log.FromContext(ctx).WithValues("package", pkg.Identity().String()))
	return e.install(ctx, seq, trackingLog, autoRollback)
}

// apply performs get-or-create-or-patch for one manifest.
func (e *Engine) apply(ctx context.Context, index int, m *unstructured.Unstructured, trackingLog *tracking.Log) error {
	fail := func(op resolver.Operation, err error) error {
		return &InstallError{Manifest: m, Index: index, Op: op, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(resolver.Get, err)
	}

	obj := m.DeepCopy()
	stampApplyOrder(obj, index)
	kind := obj.GetKind()
	ns := obj.GetNamespace()

	got, err := e.invoke(ctx, kind, resolver.Get, resolver.Request{Namespace: ns, Name: obj.GetName()})
	if err != nil {
		return fail(resolver.Get, err)
	}

	op := resolver.Create
	if !got.IsNotFound() {
		op = resolver.Patch
	}

	out, err := e.invoke(ctx, kind, op, resolver.Request{Namespace: ns, Object: obj})
	if err != nil {
		return fail(op, err)
	}
	applied := out.Object
	if applied == nil {
		applied = obj
	}
	trackingLog.Append(applied)
	e.metrics.ObserveApplied(kind, string(op))

	log.FromContext(ctx).V(1).Info("Applied resource", "resource", manifest.RefOf(obj).String(), "op", string(op))
	return nil
}

// rollback reverts everything applied by the failed install. The install
// error is kept and joined with any revert failure.
func (e *Engine) rollback(ctx context.Context, installErr error, trackingLog *tracking.Log, from int) error {
	log.FromContext(ctx).Info("Rolling back partial install", "resources", trackingLog.Len()-from)

	if _, err := e.Revert(context.WithoutCancel(ctx), trackingLog, "", from); err != nil {
		return errors.Join(installErr, fmt.Errorf("failed to roll back: %w", err))
	}
	return installErr
}

func stampApplyOrder(obj *unstructured.Unstructured, index int) {
	annotations := obj.GetAnnotations()
	if annotations == nil {
		annotations = map[string]string{}
	}
	annotations[ApplyOrderAnnotation] = strconv.Itoa(index)
	obj.SetAnnotations(annotations)
}

// applyOrder returns the recorded position of obj, or false.
func applyOrder(obj *unstructured.Unstructured) (int, bool) {
	v, ok := obj.GetAnnotations()[ApplyOrderAnnotation]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
