package helm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"helm.sh/helm/v3/pkg/chart"

	"github.com/imamik/kpkg/internal/manifest"
)

func testChart() *chart.Chart {
	return &chart.Chart{
		Metadata: &chart.Metadata{
			Name:    "shop",
			Version: "1.0.0",
		},
		Values: map[string]interface{}{
			"replicas": 1,
			"image":    "nginx:1.27",
		},
		Templates: []*chart.File{
			{
				Name: "templates/deployment.yaml",
				Data: []byte(`apiVersion: apps/v1
kind: Deployment
metadata:
  name: {{ .Release.Name }}
  namespace: {{ .Release.Namespace }}
spec:
  replicas: {{ .Values.replicas }}
  template:
    spec:
      containers:
      - name: app
        image: {{ .Values.image }}
`),
			},
			{
				Name: "templates/service.yaml",
				Data: []byte(`apiVersion: v1
kind: Service
metadata:
  name: {{ .Release.Name }}
`),
			},
			{
				Name: "templates/namespace.yaml",
				Data: []byte(`apiVersion: v1
kind: Namespace
metadata:
  name: {{ .Release.Namespace }}
`),
			},
			{
				Name: "templates/hook.yaml",
				Data: []byte(`apiVersion: batch/v1
kind: Job
metadata:
  name: migrate
  annotations:
    "helm.sh/hook": pre-install
`),
			},
			{
				Name: "templates/_helpers.tpl",
				Data: []byte(`{{- define "shop.name" -}}shop{{- end -}}`),
			},
			{
				Name: "templates/NOTES.txt",
				Data: []byte(`Thanks for installing {{ .Release.Name }}`),
			},
		},
	}
}

func newTestSource(t *testing.T, opts Options, ch *chart.Chart) *Source {
	t.Helper()
	if opts.Chart == (ChartRef{}) {
		opts.Chart = ChartRef{Path: "in-memory"}
	}
	s, err := New(opts)
	require.NoError(t, err)
	s.load = func(context.Context, ChartRef) (*chart.Chart, error) { return ch, nil }
	return s
}

func TestRender_InstallOrder(t *testing.T) {
	t.Parallel()
	s := newTestSource(t, Options{ReleaseName: "web", Namespace: "shop"}, testChart())

	seq, err := s.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []manifest.Ref{
		{Kind: "Namespace", Name: "shop"},
		{Kind: "Service", Name: "web"},
		{Kind: "Deployment", Namespace: "shop", Name: "web"},
	}, seq.Refs())
}

func TestRender_ValuesOverrideDefaults(t *testing.T) {
	t.Parallel()
	s := newTestSource(t, Options{ReleaseName: "web", Namespace: "shop", Values: Values{"replicas": 4}}, testChart())

	seq, err := s.Render(context.Background())
	require.NoError(t, err)
	dep := seq[2]

	spec := dep.Object["spec"].(map[string]interface{})
	assert.EqualValues(t, 4, spec["replicas"])

	containers := spec["template"].(map[string]interface{})["spec"].(map[string]interface{})["containers"].([]interface{})
	assert.Equal(t, "nginx:1.27", containers[0].(map[string]interface{})["image"])
}

func TestRender_IncludeCRDs(t *testing.T) {
	t.Parallel()
	ch := testChart()
	ch.Files = append(ch.Files, &chart.File{
		Name: "crds/widgets.yaml",
		Data: []byte(`apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
metadata:
  name: widgets.example.com
`),
	})

	s := newTestSource(t, Options{ReleaseName: "web", Namespace: "shop", IncludeCRDs: true}, ch)
	seq, err := s.Render(context.Background())
	require.NoError(t, err)
	require.Len(t, seq, 4)
	assert.Equal(t, "CustomResourceDefinition", seq[0].GetKind())
}

func TestRender_TemplateError(t *testing.T) {
	t.Parallel()
	ch := testChart()
	ch.Templates = append(ch.Templates, &chart.File{
		Name: "templates/broken.yaml",
		Data: []byte(`{{ .Values.missing.field }}`),
	})

	s := newTestSource(t, Options{ReleaseName: "web", Namespace: "shop"}, ch)
	_, err := s.Render(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render chart")
}

func TestRender_LoadError(t *testing.T) {
	t.Parallel()
	s, err := New(Options{Chart: ChartRef{Path: "x"}, ReleaseName: "web"})
	require.NoError(t, err)
	s.load = func(context.Context, ChartRef) (*chart.Chart, error) { return nil, errors.New("offline") }

	_, err = s.Render(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
}

func TestRender_InvalidKubeVersion(t *testing.T) {
	t.Parallel()
	s := newTestSource(t, Options{ReleaseName: "web", KubeVersion: "not-a-version"}, testChart())

	_, err := s.Render(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid kube version")
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{name: "no chart", opts: Options{ReleaseName: "web"}, wantErr: "path or repository is required"},
		{name: "both", opts: Options{ReleaseName: "web", Chart: ChartRef{Path: "a", Repository: "https://x"}}, wantErr: "mutually exclusive"},
		{name: "repo without name", opts: Options{ReleaseName: "web", Chart: ChartRef{Repository: "https://x"}}, wantErr: "chart name is required"},
		{name: "no release", opts: Options{Chart: ChartRef{Path: "a"}}, wantErr: "release name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadChart_FromDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Chart.yaml"), []byte("apiVersion: v2\nname: local\nversion: 0.1.0\n"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "cm.yaml"), []byte(`apiVersion: v1
kind: ConfigMap
metadata:
  name: {{ .Release.Name }}-cm
`), 0o600))

	s, err := New(Options{Chart: ChartRef{Path: dir}, ReleaseName: "local", Namespace: "default"})
	require.NoError(t, err)

	seq, err := s.Render(context.Background())
	require.NoError(t, err)
	require.Len(t, seq, 1)
	assert.Equal(t, "local-cm", seq[0].GetName())
}

func TestChartRef_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "./chart", ChartRef{Path: "./chart"}.String())
	assert.Equal(t, "https://charts.example.com/web@1.2.3", ChartRef{Repository: "https://charts.example.com/", Name: "web", Version: "1.2.3"}.String())
	assert.Equal(t, "oci://ghcr.io/acme/web", ChartRef{Repository: "oci://ghcr.io/acme", Name: "web"}.String())
}
