// Package metrics counts installer operations and cluster calls with
// Prometheus collectors. A CLI run is short lived, so the registry is
// exported to a node-exporter textfile instead of being scraped.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kpkg"

// Result label values.
const (
	ResultSuccess  = "success"
	ResultError    = "error"
	ResultFound    = "found"
	ResultNotFound = "not_found"
)

// Recorder owns a registry and the installer collectors. A nil *Recorder
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	clusterCallsTotal *prometheus.CounterVec
	appliedTotal      *prometheus.CounterVec
	deletedTotal      *prometheus.CounterVec
}

// NewRecorder creates a recorder with a private registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "installer",
				Name:      "operations_total",
				Help:      "Total number of installer operations by result",
			},
			[]string{"operation", "result"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "installer",
				Name:      "operation_duration_seconds",
				Help:      "Duration of installer operations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
			},
			[]string{"operation"},
		),
		clusterCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cluster",
				Name:      "calls_total",
				Help:      "Total number of cluster API calls by kind, verb and result",
			},
			[]string{"kind", "verb", "result"},
		),
		appliedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "installer",
				Name:      "resources_applied_total",
				Help:      "Total number of resources created or patched",
			},
			[]string{"kind", "action"},
		),
		deletedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "installer",
				Name:      "resources_deleted_total",
				Help:      "Total number of resources deleted",
			},
			[]string{"kind"},
		),
	}

	r.registry.MustRegister(
		r.operationsTotal,
		r.operationDuration,
		r.clusterCallsTotal,
		r.appliedTotal,
		r.deletedTotal,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveOperation records one installer operation.
func (r *Recorder) ObserveOperation(operation string, started time.Time, err error) {
	if r == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	r.operationsTotal.WithLabelValues(operation, result).Inc()
	r.operationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// ObserveCall records one cluster call.
func (r *Recorder) ObserveCall(kind, verb, result string) {
	if r == nil {
		return
	}
	r.clusterCallsTotal.WithLabelValues(kind, verb, result).Inc()
}

// ObserveApplied records a created or patched resource.
func (r *Recorder) ObserveApplied(kind, action string) {
	if r == nil {
		return
	}
	r.appliedTotal.WithLabelValues(kind, action).Inc()
}

// ObserveDeleted records a deleted resource.
func (r *Recorder) ObserveDeleted(kind string) {
	if r == nil {
		return
	}
	r.deletedTotal.WithLabelValues(kind).Inc()
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
