package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initExportMetrics() {
	r.ExportRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mepflow_export_runs_total",
			Help: "Total number of export runs",
		},
		[]string{"variant", "status"},
	)

	r.ExportDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mepflow_export_duration_seconds",
			Help:    "Export run duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
		},
		[]string{"variant"},
	)

	r.ExportRowsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mepflow_export_rows_total",
			Help: "Total number of CSV data rows written",
		},
		[]string{"variant"},
	)

	r.ExportElementsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mepflow_export_elements_total",
			Help: "Elements visited by export runs, by outcome",
		},
		[]string{"outcome"},
	)

	r.ExportSkipsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mepflow_export_skips_total",
			Help: "Elements skipped by export runs, by reason",
		},
		[]string{"reason"},
	)

	r.ExportLastRunSkips = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mepflow_export_last_run_skipped_elements",
			Help: "Number of elements skipped by the most recent export run",
		},
	)
}
