// Package metrics counts pipeline activity on a private Prometheus registry.
// A batch run has no scrape endpoint, so the registry is written out in the
// node_exporter textfile format when a path is configured.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is one run's set of collectors.
type Metrics struct {
	registry *prometheus.Registry

	RowsLoaded      *prometheus.CounterVec
	JoinRowsDropped *prometheus.CounterVec
	MetricFailures  *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RowsLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recruitlytics_rows_loaded_total",
				Help: "Rows loaded per table",
			},
			[]string{"table"},
		),

		JoinRowsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recruitlytics_join_rows_dropped_total",
				Help: "Left rows without a match, dropped by inner joins",
			},
			[]string{"join"},
		),

		MetricFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recruitlytics_metric_failures_total",
				Help: "Metrics reported as no data, by error code",
			},
			[]string{"metric", "code"},
		),

		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recruitlytics_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"stage"},
		),
	}
}

// Registry exposes the underlying registry, for tests and exporters.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveStage records how long a stage took since start.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// WriteTextfile writes the registry to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
