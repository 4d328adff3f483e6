package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/kpkg/internal/cluster"
	"github.com/imamik/kpkg/internal/kinds"
	"github.com/imamik/kpkg/internal/metrics"
	"github.com/imamik/kpkg/internal/resolver"
)

// DeletePolicy decides what happens when a delete fails.
type DeletePolicy string

const (
	// AbortOnError stops at the first failed delete.
	AbortOnError DeletePolicy = "abort"
	// ContinueOnError keeps deleting and returns all failures joined.
	ContinueOnError DeletePolicy = "continue"
)

// ParseDeletePolicy maps a config value onto a DeletePolicy.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(s) {
	case "", AbortOnError:
		return AbortOnError, nil
	case ContinueOnError:
		return ContinueOnError, nil
	default:
		return "", fmt.Errorf("unknown delete policy %q (expected %s or %s)", s, AbortOnError, ContinueOnError)
	}
}

// Engine runs lifecycle operations through one resolver.
type Engine struct {
	resolver     *resolver.Resolver
	registry     *kinds.Registry
	autoRollback bool
	deletePolicy DeletePolicy
	metrics      *metrics.Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithAutoRollback makes a failed Install revert what it applied.
func WithAutoRollback(enabled bool) Option {
	return func(e *Engine) {
		e.autoRollback = enabled
	}
}

// WithDeletePolicy sets the failure policy of Revert and Uninstall.
func WithDeletePolicy(p DeletePolicy) Option {
	return func(e *Engine) {
		e.deletePolicy = p
	}
}

// WithMetrics records operations on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = rec
	}
}

// New returns an engine using r for every cluster call.
func New(r *resolver.Resolver, opts ...Option) *Engine {
	e := &Engine{
		resolver:     r,
		registry:     r.Registry(),
		deletePolicy: AbortOnError,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// invoke resolves and performs one call, recording its result.
func (e *Engine) invoke(ctx context.Context, kind string, op resolver.Operation, req resolver.Request) (cluster.Outcome, error) {
	call, err := e.resolver.Resolve(kind, op)
	if err != nil {
		return cluster.Outcome{}, err
	}

	out, err := call.Invoke(ctx, req)
	switch {
	case err != nil:
		e.metrics.ObserveCall(kind, string(op), metrics.ResultError)
	case out.IsNotFound():
		e.metrics.ObserveCall(kind, string(op), metrics.ResultNotFound)
	default:
		e.metrics.ObserveCall(kind, string(op), metrics.ResultFound)
	}
	return out, err
}

// observe records a top-level operation. Use with defer.
func (e *Engine) observe(operation string, started time.Time, err *error) {
	e.metrics.ObserveOperation(operation, started, *err)
}
