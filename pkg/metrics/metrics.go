package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Element outcomes
const (
	OutcomeExported = "exported"
	OutcomeSkipped  = "skipped"
)

// RecordExportRun records a finished export run
func (r *Registry) RecordExportRun(variant, status string, duration time.Duration, rows, skipped int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ExportRunsTotal.WithLabelValues(variant, status).Inc()
	r.ExportDuration.WithLabelValues(variant).Observe(duration.Seconds())
	r.ExportRowsTotal.WithLabelValues(variant).Add(float64(rows))
	r.ExportLastRunSkips.Set(float64(skipped))
}

// RecordElementExported counts an element that produced rows
func (r *Registry) RecordElementExported() {
	r.ExportElementsTotal.WithLabelValues(OutcomeExported).Inc()
}

// RecordElementSkipped counts an element dropped from an export
func (r *Registry) RecordElementSkipped(reason string) {
	r.ExportElementsTotal.WithLabelValues(OutcomeSkipped).Inc()
	r.ExportSkipsTotal.WithLabelValues(reason).Inc()
}

// UpdateGraphMetrics sets the connector graph gauges
func (r *Registry) UpdateGraphMetrics(elements, connectors, links, faulted int) {
	r.GraphElements.Set(float64(elements))
	r.GraphConnectors.Set(float64(connectors))
	r.GraphLinks.Set(float64(links))
	r.GraphFaulted.Set(float64(faulted))
}

// RecordResolution records one connectivity resolution
func (r *Registry) RecordResolution(mode, status string, targets int) {
	r.ResolutionsTotal.WithLabelValues(mode, status).Inc()
	if status == "success" {
		r.ResolvedTargets.WithLabelValues(mode).Observe(float64(targets))
	}
}

// RecordPassThrough records a pass-through lookup and whether it found a
// target beyond the fitting
func (r *Registry) RecordPassThrough(found bool) {
	result := "dead_end"
	if found {
		result = "resolved"
	}
	r.PassThroughsTotal.WithLabelValues(result).Inc()
}

// RecordSnapshotLoad records a snapshot load
func (r *Registry) RecordSnapshotLoad(format, status string, size int64, duration time.Duration) {
	r.SnapshotLoadsTotal.WithLabelValues(format, status).Inc()
	if status == "success" {
		r.SnapshotLoadDuration.Observe(duration.Seconds())
		r.SnapshotBytes.Set(float64(size))
	}
}

// RecordUpload records an object storage upload
func (r *Registry) RecordUpload(status string) {
	r.UploadsTotal.WithLabelValues(status).Inc()
}

// WriteTextfile writes every metric in the text exposition format, for
// pickup by a node exporter textfile collector
func (r *Registry) WriteTextfile(path string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
