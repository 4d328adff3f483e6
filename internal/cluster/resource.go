package cluster

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
)

// Resource performs the five lifecycle verbs for one GVR. An empty
// namespace addresses the cluster-scoped endpoint.
type Resource struct {
	gvr   schema.GroupVersionResource
	iface dynamic.NamespaceableResourceInterface
	apply ApplyOptions
}

// GroupVersionResource returns the GVR the handle addresses.
func (r *Resource) GroupVersionResource() schema.GroupVersionResource {
	return r.gvr
}

func (r *Resource) scoped(namespace string) dynamic.ResourceInterface {
	if namespace == "" {
		return r.iface
	}
	return r.iface.Namespace(namespace)
}

// Get reads one object by name.
func (r *Resource) Get(ctx context.Context, namespace, name string) (Outcome, error) {
	obj, err := r.scoped(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return classify("get", err)
	}
	return Outcome{Status: Found, Object: obj}, nil
}

// Create creates obj and returns the server representation.
func (r *Resource) Create(ctx context.Context, namespace string, obj *unstructured.Unstructured) (Outcome, error) {
	created, err := r.scoped(namespace).Create(ctx, obj, metav1.CreateOptions{FieldManager: r.apply.FieldManager})
	if err != nil {
		return Outcome{}, statusError("create", err)
	}
	return Outcome{Status: Found, Object: created}, nil
}

// Patch updates the named object with the content of obj, either as a JSON
// merge patch or as a server-side apply. A missing object is an error.
func (r *Resource) Patch(ctx context.Context, namespace string, obj *unstructured.Unstructured) (Outcome, error) {
	data, err := obj.MarshalJSON()
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to marshal %s %s: %w", obj.GetKind(), obj.GetName(), err)
	}

	patchType := types.MergePatchType
	opts := metav1.PatchOptions{FieldManager: r.apply.FieldManager}
	if r.apply.ServerSide {
		force := true
		patchType = types.ApplyPatchType
		opts.Force = &force
	}

	patched, err := r.scoped(namespace).Patch(ctx, obj.GetName(), patchType, data, opts)
	if err != nil {
		return Outcome{}, statusError("patch", err)
	}
	return Outcome{Status: Found, Object: patched}, nil
}

// List returns objects matching the label selector.
func (r *Resource) List(ctx context.Context, namespace, labelSelector string) (Outcome, error) {
	list, err := r.scoped(namespace).List(ctx, metav1.ListOptions{LabelSelector: labelSelector})
	if err != nil {
		return classify("list", err)
	}
	return Outcome{Status: Found, Items: list.Items}, nil
}

// Delete removes the named object. Dependents are garbage collected in
// the background.
func (r *Resource) Delete(ctx context.Context, namespace, name string) (Outcome, error) {
	policy := metav1.DeletePropagationBackground
	err := r.scoped(namespace).Delete(ctx, name, metav1.DeleteOptions{PropagationPolicy: &policy})
	if err != nil {
		return classify("delete", err)
	}
	return Outcome{Status: Found}, nil
}
