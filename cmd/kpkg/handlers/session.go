package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/kpkg/internal/cluster"
	"github.com/imamik/kpkg/internal/config"
	"github.com/imamik/kpkg/internal/installer"
	"github.com/imamik/kpkg/internal/kinds"
	"github.com/imamik/kpkg/internal/metrics"
	"github.com/imamik/kpkg/internal/resolver"
	"github.com/imamik/kpkg/internal/tracking"
	"github.com/imamik/kpkg/internal/ui"
)

// Options are the flags shared by every command. Non-empty values
// override kpkg.yaml.
type Options struct {
	ConfigPath string
	Context    string
	Kubeconfig string
	Namespace  string
	Instance   string
	// Yes skips confirmation prompts.
	Yes bool
}

// confirmer asks the user before destructive operations.
type confirmer interface {
	Confirm(title, description string) error
}

// Factory function variables - can be replaced in tests.
var (
	loadConfig = config.LoadFile

	newClusterClient = func(access cluster.Access, apply cluster.ApplyOptions) (*cluster.Client, error) {
		return cluster.New(access, cluster.WithApplyOptions(apply))
	}

	probeCluster = func(ctx context.Context, c *cluster.Client) error {
		_, err := c.WaitForAPIServer(ctx)
		return err
	}

	openStore = tracking.OpenStore

	newPrompter = func() confirmer {
		return ui.NewPrompter()
	}

	stdout io.Writer = os.Stdout
)

// session is what a cluster command works with.
type session struct {
	cfg     *config.Config
	engine  *installer.Engine
	store   tracking.Store
	metrics *metrics.Recorder
	printer *ui.Printer
}

// loadOptions reads the config and applies flag overrides.
func loadOptions(opts Options) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}

	if opts.Context != "" {
		cfg.Cluster.Context = opts.Context
	}
	if opts.Kubeconfig != "" {
		cfg.Cluster.Kubeconfig = opts.Kubeconfig
	}
	if opts.Namespace != "" {
		cfg.Instance.Namespace = opts.Namespace
	}
	if opts.Instance != "" {
		cfg.Instance.Name = opts.Instance
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// setup connects to the cluster and builds the engine and store.
func setup(ctx context.Context, opts Options) (*session, error) {
	cfg, err := loadOptions(opts)
	if err != nil {
		return nil, err
	}

	client, err := newClusterClient(cfg.Access(), cfg.ApplyOptions())
	if err != nil {
		return nil, err
	}
	log.FromContext(ctx).V(1).Info("Connecting", "cluster", cfg.Access().Describe())
	if err := probeCluster(ctx, client); err != nil {
		return nil, err
	}

	r, err := resolver.New(kinds.Default(), client)
	if err != nil {
		return nil, err
	}

	policy, err := installer.ParseDeletePolicy(cfg.Install.DeletePolicy)
	if err != nil {
		return nil, err
	}

	var rec *metrics.Recorder
	if cfg.Metrics.Textfile != "" {
		rec = metrics.NewRecorder()
	}

	store, err := openStore(ctx, cfg.Tracking.Store, cfg.S3Options())
	if err != nil {
		return nil, fmt.Errorf("failed to open tracking store: %w", err)
	}

	return &session{
		cfg: cfg,
		engine: installer.New(r,
			installer.WithAutoRollback(cfg.Install.AutoRollback),
			installer.WithDeletePolicy(policy),
			installer.WithMetrics(rec),
		),
		store:   store,
		metrics: rec,
		printer: ui.NewPrinter(stdout),
	}, nil
}

// finish writes the metrics textfile when one is configured. A write
// failure is logged and never fails the command.
func (s *session) finish(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.WriteTextfile(s.cfg.Metrics.Textfile); err != nil {
		log.FromContext(ctx).Error(err, "Failed to write metrics")
	}
}

// saveLog stores trackingLog under the instance key, or removes the key
// when the log is empty. It runs even when ctx is canceled, so an
// interrupted install still leaves a log to revert.
func (s *session) saveLog(ctx context.Context, trackingLog *tracking.Log) error {
	ctx = context.WithoutCancel(ctx)
	key := tracking.Key(s.cfg.Identity())
	if trackingLog.Len() == 0 {
		return s.store.Delete(ctx, key)
	}
	return s.store.Save(ctx, key, trackingLog)
}

// confirm asks unless opts.Yes is set.
func confirm(opts Options, title, description string) error {
	if opts.Yes {
		return nil
	}
	return newPrompter().Confirm(title, description)
}
