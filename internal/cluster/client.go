package cluster

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/version"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/kpkg/internal/util/retry"
)

// Client is the transport handle shared by all resolver calls. It is
// immutable once built: one Client talks to one cluster with one set of
// credentials.
type Client struct {
	dynamic   dynamic.Interface
	discovery discovery.DiscoveryInterface
	apply     ApplyOptions
}

// ApplyOptions controls how patches are sent.
type ApplyOptions struct {
	// ServerSide switches patch from JSON merge patch to server-side apply.
	ServerSide bool
	// FieldManager identifies the actor for server-side apply and is also
	// recorded on create.
	FieldManager string
}

// Option configures a Client.
type Option func(*Client)

// WithApplyOptions sets the patch behaviour.
func WithApplyOptions(o ApplyOptions) Option {
	return func(c *Client) {
		c.apply = o
	}
}

// New builds a Client for the given access settings.
func New(access Access, opts ...Option) (*Client, error) {
	restConfig, err := access.RESTConfig()
	if err != nil {
		return nil, err
	}
	return NewFromRESTConfig(restConfig, opts...)
}

// NewFromRESTConfig builds a Client from an existing REST config.
func NewFromRESTConfig(restConfig *rest.Config, opts ...Option) (*Client, error) {
	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}

	return NewFromClients(dynamicClient, discoveryClient, opts...), nil
}

// NewFromClients builds a Client from pre-configured clients.
// This is useful for testing with fake clients.
func NewFromClients(dynamicClient dynamic.Interface, discoveryClient discovery.DiscoveryInterface, opts ...Option) *Client {
	c := &Client{
		dynamic:   dynamicClient,
		discovery: discoveryClient,
		apply:     ApplyOptions{FieldManager: userAgent},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resource returns the handle for one GVR.
func (c *Client) Resource(gvr schema.GroupVersionResource) *Resource {
	return &Resource{
		gvr:   gvr,
		iface: c.dynamic.Resource(gvr),
		apply: c.apply,
	}
}

// ServerVersion asks the API server for its version.
func (c *Client) ServerVersion() (*version.Info, error) {
	if c.discovery == nil {
		return nil, fmt.Errorf("no discovery client configured")
	}
	return c.discovery.ServerVersion()
}

// WaitForAPIServer polls the server version endpoint until it answers.
// It is a pre-flight check; the installer itself never retries.
func (c *Client) WaitForAPIServer(ctx context.Context, opts ...retry.Option) (*version.Info, error) {
	logger := log.FromContext(ctx)

	var info *version.Info
	opts = append([]retry.Option{
		retry.WithOnRetry(func(attempt int, err error, wait time.Duration) {
			logger.V(1).Info("API server not reachable yet", "attempt", attempt, "retryIn", wait.String(), "error", err.Error())
		}),
	}, opts...)

	err := retry.Do(ctx, func(context.Context) error {
		v, err := c.ServerVersion()
		if err != nil {
			if StatusCode(err) == 401 || StatusCode(err) == 403 {
				return retry.Permanent(err)
			}
			return err
		}
		info = v
		return nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to reach API server: %w", err)
	}

	logger.V(1).Info("API server reachable", "version", info.GitVersion)
	return info, nil
}
