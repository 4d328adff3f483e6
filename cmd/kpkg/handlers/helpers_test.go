package handlers

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	clienttesting "k8s.io/client-go/testing"
	"sigs.k8s.io/kustomize/kyaml/filesys"

	"github.com/imamik/kpkg/internal/cluster"
	"github.com/imamik/kpkg/internal/config"
	"github.com/imamik/kpkg/internal/kinds"
	"github.com/imamik/kpkg/internal/tracking"
)

type stubConfirmer struct {
	err    error
	called *bool
}

func (s stubConfirmer) Confirm(string, string) error {
	if s.called != nil {
		*s.called = true
	}
	return s.err
}

type fakes struct {
	dynamic *dynamicfake.FakeDynamicClient
	store   *tracking.FileStore
	out     *bytes.Buffer
	cfg     *config.Config
}

func webappConfig() *config.Config {
	cfg := &config.Config{
		Package:  config.PackageConfig{Name: "webapp", Version: "1.0.0"},
		Instance: config.InstanceConfig{Name: "shop", Namespace: "shop"},
	}
	cfg.ApplyDefaults()
	return cfg
}

// withFakes replaces every factory variable for the duration of the test.
func withFakes(t *testing.T, cfg *config.Config, objects ...runtime.Object) *fakes {
	t.Helper()
	origLoad := loadConfig
	origClient := newClusterClient
	origProbe := probeCluster
	origStore := openStore
	origPrompter := newPrompter
	origStdout := stdout
	t.Cleanup(func() {
		loadConfig = origLoad
		newClusterClient = origClient
		probeCluster = origProbe
		openStore = origStore
		newPrompter = origPrompter
		stdout = origStdout
	})

	registry := kinds.Default()
	f := &fakes{
		dynamic: dynamicfake.NewSimpleDynamicClientWithCustomListKinds(runtime.NewScheme(), registry.ListKinds(), objects...),
		store:   tracking.NewFileStoreWithFileSystem(filesys.MakeFsInMemory(), "/state"),
		out:     &bytes.Buffer{},
		cfg:     cfg,
	}

	loadConfig = func(string) (*config.Config, error) {
		c := *f.cfg
		return &c, nil
	}
	newClusterClient = func(cluster.Access, cluster.ApplyOptions) (*cluster.Client, error) {
		return cluster.NewFromClients(f.dynamic, nil), nil
	}
	probeCluster = func(context.Context, *cluster.Client) error { return nil }
	openStore = func(context.Context, string, tracking.S3Options) (tracking.Store, error) {
		return f.store, nil
	}
	newPrompter = func() confirmer { return stubConfirmer{} }
	stdout = f.out

	return f
}

func (f *fakes) storedLog(t *testing.T) (*tracking.Log, error) {
	t.Helper()
	return f.store.Load(context.Background(), tracking.Key(f.cfg.Identity()))
}

func (f *fakes) deleteCount() int {
	n := 0
	for _, a := range f.dynamic.Actions() {
		if a.GetVerb() == "delete" {
			n++
		}
	}
	return n
}

func reactWith(err error) clienttesting.ReactionFunc {
	return func(clienttesting.Action) (bool, runtime.Object, error) {
		return true, nil, err
	}
}

func mustInstall(t *testing.T) {
	t.Helper()
	require.NoError(t, Install(context.Background(), Options{}))
}
