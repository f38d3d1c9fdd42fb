package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSnapshotMetrics() {
	r.SnapshotLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mepflow_snapshot_loads_total",
			Help: "Total number of snapshot loads",
		},
		[]string{"format", "status"},
	)

	r.SnapshotLoadDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mepflow_snapshot_load_duration_seconds",
			Help:    "Snapshot load and decode duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.SnapshotBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mepflow_snapshot_bytes",
			Help: "Size of the most recently loaded snapshot file in bytes",
		},
	)

	r.UploadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mepflow_uploads_total",
			Help: "Total number of output uploads to object storage",
		},
		[]string{"status"},
	)
}
