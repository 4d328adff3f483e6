package installer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	clienttesting "k8s.io/client-go/testing"

	"github.com/imamik/kpkg/internal/cluster"
	"github.com/imamik/kpkg/internal/kinds"
	"github.com/imamik/kpkg/internal/manifest"
	"github.com/imamik/kpkg/internal/pkgdef"
	"github.com/imamik/kpkg/internal/pkgdef/webapp"
	"github.com/imamik/kpkg/internal/resolver"
)

var shopIdentity = pkgdef.Identity{Name: webapp.Name, Version: "1.0.0", Instance: "shop", Namespace: "shop"}

type harness struct {
	engine *Engine
	fake   *dynamicfake.FakeDynamicClient
}

func newHarness(t *testing.T, objects []runtime.Object, opts ...Option) *harness {
	t.Helper()
	registry := kinds.Default()
	fake := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(runtime.NewScheme(), registry.ListKinds(), objects...)
	r, err := resolver.New(registry, cluster.NewFromClients(fake, nil))
	require.NoError(t, err)
	return &harness{engine: New(r, opts...), fake: fake}
}

// deletes returns "resource/name" for every delete action, in order.
func (h *harness) deletes() []string {
	var out []string
	for _, a := range h.fake.Actions() {
		if a.GetVerb() != "delete" {
			continue
		}
		out = append(out, a.GetResource().Resource+"/"+a.(clienttesting.DeleteAction).GetName())
	}
	return out
}

// verbs returns "verb resource" for every action touching resource.
func (h *harness) verbs(resource string) []string {
	var out []string
	for _, a := range h.fake.Actions() {
		if a.GetResource().Resource == resource {
			out = append(out, a.GetVerb())
		}
	}
	return out
}

func newWebapp(t *testing.T, settings webapp.Settings) *webapp.Package {
	t.Helper()
	pkg, err := webapp.New(shopIdentity, settings)
	require.NoError(t, err)
	return pkg
}

// shopSequence is the normalized five-resource webapp sequence.
func shopSequence(t *testing.T) manifest.Sequence {
	t.Helper()
	seq, err := pkgdef.Prepare(context.Background(), newWebapp(t, webapp.Settings{}), kinds.Default())
	require.NoError(t, err)
	require.Len(t, seq, 5)
	return seq
}

func object(apiVersion, kind, namespace, name string, labels map[string]string) *unstructured.Unstructured {
	u := &unstructured.Unstructured{}
	u.SetAPIVersion(apiVersion)
	u.SetKind(kind)
	u.SetNamespace(namespace)
	u.SetName(name)
	if labels != nil {
		u.SetLabels(labels)
	}
	return u
}
