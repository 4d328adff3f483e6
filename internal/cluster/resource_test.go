package cluster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	clienttesting "k8s.io/client-go/testing"
)

var (
	configMapGVR = schema.GroupVersionResource{Version: "v1", Resource: "configmaps"}
	namespaceGVR = schema.GroupVersionResource{Version: "v1", Resource: "namespaces"}
)

func newFakeDynamic(objects ...runtime.Object) *dynamicfake.FakeDynamicClient {
	return dynamicfake.NewSimpleDynamicClientWithCustomListKinds(runtime.NewScheme(), map[schema.GroupVersionResource]string{
		configMapGVR: "ConfigMapList",
		namespaceGVR: "NamespaceList",
	}, objects...)
}

func configMap(namespace, name string, labels map[string]string, data map[string]interface{}) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "ConfigMap",
		"metadata": map[string]interface{}{
			"name":      name,
			"namespace": namespace,
		},
		"data": data,
	}}
	if labels != nil {
		obj.SetLabels(labels)
	}
	return obj
}

func TestResource_GetNotFound(t *testing.T) {
	t.Parallel()
	c := NewFromClients(newFakeDynamic(), nil)

	out, err := c.Resource(configMapGVR).Get(context.Background(), "default", "missing")
	require.NoError(t, err)
	assert.True(t, out.IsNotFound())
	assert.Nil(t, out.Object)
}

func TestResource_CreateGetPatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewFromClients(newFakeDynamic(), nil)
	cm := c.Resource(configMapGVR)

	created, err := cm.Create(ctx, "default", configMap("default", "settings", nil, map[string]interface{}{"a": "1"}))
	require.NoError(t, err)
	assert.Equal(t, Found, created.Status)
	assert.Equal(t, "settings", created.Object.GetName())

	_, err = cm.Create(ctx, "default", configMap("default", "settings", nil, nil))
	require.Error(t, err)
	assert.True(t, apierrors.IsAlreadyExists(err))
	assert.Equal(t, int32(409), StatusCode(err))

	patched, err := cm.Patch(ctx, "default", configMap("default", "settings", nil, map[string]interface{}{"b": "2"}))
	require.NoError(t, err)
	data, _, _ := unstructured.NestedStringMap(patched.Object.Object, "data")
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, data)

	got, err := cm.Get(ctx, "default", "settings")
	require.NoError(t, err)
	assert.Equal(t, Found, got.Status)
	assert.Equal(t, patched.Object.Object["data"], got.Object.Object["data"])
}

func TestResource_PatchMissing(t *testing.T) {
	t.Parallel()
	c := NewFromClients(newFakeDynamic(), nil)

	_, err := c.Resource(configMapGVR).Patch(context.Background(), "default", configMap("default", "ghost", nil, nil))

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "patch", se.Verb)
	assert.Equal(t, int32(404), StatusCode(err))
}

func TestResource_CreateNotFound(t *testing.T) {
	t.Parallel()
	fake := newFakeDynamic()
	fake.PrependReactor("create", "configmaps", func(clienttesting.Action) (bool, runtime.Object, error) {
		return true, nil, apierrors.NewNotFound(schema.GroupResource{Resource: "namespaces"}, "default")
	})
	c := NewFromClients(fake, nil)

	_, err := c.Resource(configMapGVR).Create(context.Background(), "default", configMap("default", "a", nil, nil))

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "create", se.Verb)
	assert.Equal(t, int32(404), se.Code)
	assert.True(t, apierrors.IsNotFound(err))
}

func TestResource_ListBySelector(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewFromClients(newFakeDynamic(
		configMap("default", "a", map[string]string{"app": "web"}, nil),
		configMap("default", "b", map[string]string{"app": "db"}, nil),
		configMap("other", "c", map[string]string{"app": "web"}, nil),
	), nil)

	out, err := c.Resource(configMapGVR).List(ctx, "default", "app=web")
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "a", out.Items[0].GetName())

	all, err := c.Resource(configMapGVR).List(ctx, "", "app=web")
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}

func TestResource_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fake := newFakeDynamic(configMap("default", "a", nil, nil))
	c := NewFromClients(fake, nil)

	out, err := c.Resource(configMapGVR).Delete(ctx, "default", "a")
	require.NoError(t, err)
	assert.Equal(t, Found, out.Status)

	again, err := c.Resource(configMapGVR).Delete(ctx, "default", "a")
	require.NoError(t, err)
	assert.True(t, again.IsNotFound())

	var deletes int
	for _, action := range fake.Actions() {
		if action.GetVerb() == "delete" {
			deletes++
		}
	}
	assert.Equal(t, 2, deletes)
}

func TestResource_ClusterScoped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewFromClients(newFakeDynamic(), nil)
	ns := c.Resource(namespaceGVR)

	obj := &unstructured.Unstructured{}
	obj.SetAPIVersion("v1")
	obj.SetKind("Namespace")
	obj.SetName("team-a")

	_, err := ns.Create(ctx, "", obj)
	require.NoError(t, err)

	got, err := ns.Get(ctx, "", "team-a")
	require.NoError(t, err)
	assert.Equal(t, Found, got.Status)
	assert.Equal(t, namespaceGVR, ns.GroupVersionResource())
}

func TestResource_ServerErrorSurfaces(t *testing.T) {
	t.Parallel()
	fake := newFakeDynamic()
	fake.PrependReactor("get", "configmaps", func(clienttesting.Action) (bool, runtime.Object, error) {
		return true, nil, apierrors.NewForbidden(configMapGVR.GroupResource(), "a", assert.AnError)
	})
	c := NewFromClients(fake, nil)

	_, err := c.Resource(configMapGVR).Get(context.Background(), "default", "a")
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "get", se.Verb)
	assert.Equal(t, int32(403), se.Code)
}
