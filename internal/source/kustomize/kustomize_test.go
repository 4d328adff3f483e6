package kustomize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/kustomize/kyaml/filesys"

	"github.com/imamik/kpkg/internal/manifest"
)

func writeFile(t *testing.T, fs filesys.FileSystem, path, content string) {
	t.Helper()
	require.NoError(t, fs.WriteFile(path, []byte(content)))
}

func newTestFS(t *testing.T) filesys.FileSystem {
	t.Helper()
	fs := filesys.MakeFsInMemory()
	require.NoError(t, fs.MkdirAll("/app"))

	writeFile(t, fs, "/app/kustomization.yaml", `apiVersion: kustomize.config.k8s.io/v1beta1
kind: Kustomization
namespace: shop
namePrefix: prod-
resources:
- deployment.yaml
- namespace.yaml
configMapGenerator:
- name: settings
  literals:
  - MODE=prod
`)
	writeFile(t, fs, "/app/namespace.yaml", `apiVersion: v1
kind: Namespace
metadata:
  name: shop
`)
	writeFile(t, fs, "/app/deployment.yaml", `apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
spec:
  template:
    spec:
      containers:
      - name: web
        image: nginx
`)
	return fs
}

func TestRender(t *testing.T) {
	t.Parallel()

	s, err := NewWithFileSystem(newTestFS(t), "/app")
	require.NoError(t, err)

	seq, err := s.Render(context.Background())
	require.NoError(t, err)
	require.Len(t, seq, 3)

	refs := seq.Refs()
	assert.Equal(t, manifest.Ref{Kind: "Namespace", Name: "shop"}, refs[0])

	var names []string
	for _, r := range refs {
		names = append(names, r.Kind+"/"+r.Name)
	}
	assert.Contains(t, names, "Deployment/prod-web")

	var cmName string
	for _, obj := range seq {
		if obj.GetKind() == "ConfigMap" {
			cmName = obj.GetName()
			assert.Equal(t, "shop", obj.GetNamespace())
		}
	}
	assert.Contains(t, cmName, "prod-settings-")
}

func TestRender_BuildError(t *testing.T) {
	t.Parallel()
	fs := filesys.MakeFsInMemory()
	require.NoError(t, fs.MkdirAll("/broken"))
	writeFile(t, fs, "/broken/kustomization.yaml", "resources:\n- missing.yaml\n")

	s, err := NewWithFileSystem(fs, "/broken")
	require.NoError(t, err)

	_, err = s.Render(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build kustomization")
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	fs := filesys.MakeFsInMemory()

	_, err := NewWithFileSystem(fs, "")
	require.Error(t, err)

	_, err = NewWithFileSystem(fs, "/nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
