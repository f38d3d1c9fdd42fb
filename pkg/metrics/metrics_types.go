package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Export Metrics
	ExportRunsTotal     *prometheus.CounterVec
	ExportDuration      *prometheus.HistogramVec
	ExportRowsTotal     *prometheus.CounterVec
	ExportElementsTotal *prometheus.CounterVec
	ExportSkipsTotal    *prometheus.CounterVec
	ExportLastRunSkips  prometheus.Gauge

	// Graph Metrics
	GraphElements     prometheus.Gauge
	GraphConnectors   prometheus.Gauge
	GraphLinks        prometheus.Gauge
	GraphFaulted      prometheus.Gauge
	ResolutionsTotal  *prometheus.CounterVec
	ResolvedTargets   *prometheus.HistogramVec
	PassThroughsTotal *prometheus.CounterVec

	// Snapshot Metrics
	SnapshotLoadsTotal   *prometheus.CounterVec
	SnapshotLoadDuration prometheus.Histogram
	SnapshotBytes        prometheus.Gauge
	UploadsTotal         *prometheus.CounterVec

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initExportMetrics()
	r.initGraphMetrics()
	r.initSnapshotMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
