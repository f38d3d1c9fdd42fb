package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphElements = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mepflow_graph_elements",
			Help: "Number of elements in the connector graph",
		},
	)

	r.GraphConnectors = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mepflow_graph_connectors",
			Help: "Number of connectors in the connector graph",
		},
	)

	r.GraphLinks = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mepflow_graph_links",
			Help: "Number of resolved connector references",
		},
	)

	r.GraphFaulted = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mepflow_graph_faulted_elements",
			Help: "Number of elements carrying a fault after graph build",
		},
	)

	r.ResolutionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mepflow_resolutions_total",
			Help: "Total number of connectivity resolutions",
		},
		[]string{"mode", "status"},
	)

	r.ResolvedTargets = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mepflow_resolved_targets",
			Help:    "Distinct classified targets per resolution",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
		},
		[]string{"mode"},
	)

	r.PassThroughsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mepflow_pass_through_total",
			Help: "Pass-through lookups across fittings and accessories",
		},
		[]string{"result"},
	)
}
