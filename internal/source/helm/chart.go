package helm

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/getter"
	"helm.sh/helm/v3/pkg/repo"
)

// ChartRef locates a chart. Either Path or Repository plus Name is set.
type ChartRef struct {
	// Path is a local chart directory or .tgz archive.
	Path string
	// Repository is an http(s):// chart repository or an oci:// registry.
	Repository string
	Name       string
	Version    string
}

// Validate checks that exactly one location is given.
func (r ChartRef) Validate() error {
	switch {
	case r.Path != "" && r.Repository != "":
		return fmt.Errorf("chart path and repository are mutually exclusive")
	case r.Path == "" && r.Repository == "":
		return fmt.Errorf("chart path or repository is required")
	case r.Repository != "" && r.Name == "":
		return fmt.Errorf("chart name is required with a repository")
	}
	return nil
}

func (r ChartRef) String() string {
	if r.Path != "" {
		return r.Path
	}
	ref := strings.TrimSuffix(r.Repository, "/") + "/" + r.Name
	if r.Version != "" {
		ref += "@" + r.Version
	}
	return ref
}

// loadChart fetches and loads the chart.
func loadChart(ctx context.Context, ref ChartRef) (*chart.Chart, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if ref.Path != "" {
		ch, err := loader.Load(ref.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load chart from %s: %w", ref.Path, err)
		}
		return ch, nil
	}

	providers := getter.All(cli.New())

	chartURL := strings.TrimSuffix(ref.Repository, "/") + "/" + ref.Name
	if strings.HasPrefix(ref.Repository, "oci://") {
		if ref.Version != "" {
			chartURL += ":" + ref.Version
		}
	} else {
		found, err := repo.FindChartInRepoURL(ref.Repository, ref.Name, ref.Version, "", "", "", providers)
		if err != nil {
			return nil, fmt.Errorf("failed to find chart %s in repo %s: %w", ref.Name, ref.Repository, err)
		}
		chartURL = found
	}

	u, err := url.Parse(chartURL)
	if err != nil {
		return nil, fmt.Errorf("invalid chart URL %s: %w", chartURL, err)
	}
	g, err := providers.ByScheme(u.Scheme)
	if err != nil {
		return nil, fmt.Errorf("no getter for %s: %w", chartURL, err)
	}

	buf, err := g.Get(chartURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download chart %s: %w", chartURL, err)
	}

	ch, err := loader.LoadArchive(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart archive %s: %w", chartURL, err)
	}
	return ch, nil
}
