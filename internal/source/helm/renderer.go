package helm

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chartutil"
	"helm.sh/helm/v3/pkg/engine"
	"helm.sh/helm/v3/pkg/releaseutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/kpkg/internal/manifest"
)

// DefaultKubeVersion is reported to templates through .Capabilities.
const DefaultKubeVersion = "v1.35.0"

// Options configures a chart source.
type Options struct {
	Chart       ChartRef
	ReleaseName string
	Namespace   string
	Values      Values
	// KubeVersion overrides DefaultKubeVersion.
	KubeVersion string
	// IncludeCRDs renders the chart's crds/ directory ahead of templates.
	IncludeCRDs bool
}

// Source renders one chart with fixed values.
type Source struct {
	opts Options
	load func(context.Context, ChartRef) (*chart.Chart, error)
}

// New validates opts and returns a chart source.
func New(opts Options) (*Source, error) {
	if err := opts.Chart.Validate(); err != nil {
		return nil, err
	}
	if opts.ReleaseName == "" {
		return nil, fmt.Errorf("release name is required")
	}
	if opts.KubeVersion == "" {
		opts.KubeVersion = DefaultKubeVersion
	}
	return &Source{opts: opts, load: loadChart}, nil
}

// Render loads the chart and renders it in Helm install order. Hooks are
// not part of the package and are skipped.
func (s *Source) Render(ctx context.Context) (manifest.Sequence, error) {
	ch, err := s.load(ctx, s.opts.Chart)
	if err != nil {
		return nil, err
	}

	data, err := s.renderChart(ctx, ch)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart %s: %w", s.opts.Chart, err)
	}

	seq, err := manifest.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("chart %s produced invalid manifests: %w", s.opts.Chart, err)
	}
	return seq, nil
}

// renderChart uses the helm engine to render the chart with values.
func (s *Source) renderChart(ctx context.Context, ch *chart.Chart) ([]byte, error) {
	logger := log.FromContext(ctx)

	capabilities := chartutil.DefaultCapabilities.Copy()
	kubeVersion, err := chartutil.ParseKubeVersion(s.opts.KubeVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid kube version %q: %w", s.opts.KubeVersion, err)
	}
	capabilities.KubeVersion = *kubeVersion

	releaseOptions := chartutil.ReleaseOptions{
		Name:      s.opts.ReleaseName,
		Namespace: s.opts.Namespace,
		IsInstall: true,
	}

	// ToRenderValues coalesces the chart's own values.yaml underneath ours.
	valuesToRender, err := chartutil.ToRenderValues(ch, copyMap(s.opts.Values), releaseOptions, capabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare values: %w", err)
	}

	rendered, err := engine.Render(ch, valuesToRender)
	if err != nil {
		return nil, fmt.Errorf("failed to render templates: %w", err)
	}

	for name := range rendered {
		if path.Base(name) == "NOTES.txt" {
			delete(rendered, name)
		}
	}

	hooks, manifests, err := releaseutil.SortManifests(rendered, capabilities.APIVersions, releaseutil.InstallOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to sort manifests: %w", err)
	}
	if len(hooks) > 0 {
		logger.V(1).Info("skipping chart hooks", "chart", ch.Name(), "count", len(hooks))
	}

	var combined bytes.Buffer
	write := func(content string) {
		trimmed := strings.TrimSpace(content)
		if trimmed == "" {
			return
		}
		if combined.Len() > 0 {
			combined.WriteString("\n---\n")
		}
		combined.WriteString(trimmed)
		combined.WriteString("\n")
	}

	if s.opts.IncludeCRDs {
		for _, crd := range ch.CRDObjects() {
			write(string(crd.File.Data))
		}
	}
	for _, m := range manifests {
		write(m.Content)
	}

	return combined.Bytes(), nil
}
