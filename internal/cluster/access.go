package cluster

import (
	"errors"
	"fmt"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// ErrKubeConfig reports contradictory or unusable cluster access settings.
var ErrKubeConfig = errors.New("invalid kubeconfig")

// userAgent is sent with every request.
const userAgent = "kpkg"

// Access selects how to reach the cluster. At most one field may be set;
// when none is, the default loading rules apply (KUBECONFIG, then
// ~/.kube/config, current context).
type Access struct {
	// Context names a context in the default kubeconfig.
	Context string
	// ConfigFile is an explicit kubeconfig path.
	ConfigFile string
	// ConfigData is kubeconfig content held in memory.
	ConfigData []byte
}

// Validate checks that at most one access method is set.
func (a Access) Validate() error {
	set := 0
	if a.Context != "" {
		set++
	}
	if a.ConfigFile != "" {
		set++
	}
	if len(a.ConfigData) > 0 {
		set++
	}
	if set > 1 {
		return fmt.Errorf("%w: only one of context, config file or config data may be given", ErrKubeConfig)
	}
	return nil
}

// RESTConfig resolves the access settings into a client config. It never
// contacts the cluster.
func (a Access) RESTConfig() (*rest.Config, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	var (
		cfg *rest.Config
		err error
	)
	switch {
	case len(a.ConfigData) > 0:
		cfg, err = clientcmd.RESTConfigFromKubeConfig(a.ConfigData)
	case a.ConfigFile != "":
		cfg, err = clientcmd.BuildConfigFromFlags("", a.ConfigFile)
	default:
		rules := clientcmd.NewDefaultClientConfigLoadingRules()
		overrides := &clientcmd.ConfigOverrides{CurrentContext: a.Context}
		cfg, err = clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKubeConfig, err)
	}

	cfg.UserAgent = userAgent
	return cfg, nil
}

// Describe returns a short human readable form of the access method.
func (a Access) Describe() string {
	switch {
	case len(a.ConfigData) > 0:
		return "inline kubeconfig"
	case a.ConfigFile != "":
		return "kubeconfig " + a.ConfigFile
	case a.Context != "":
		return "context " + a.Context
	default:
		return "default kubeconfig"
	}
}
