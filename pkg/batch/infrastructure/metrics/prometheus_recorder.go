package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	metrics "github.com/tigerroll/windcapex/pkg/batch/core/metrics"
	logger "github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// PrometheusRecorder is a Prometheus implementation of the metrics.MetricRecorder interface.
// A batch process has no scrape endpoint, so Flush writes the registry in text exposition
// format for the node_exporter textfile collector.
type PrometheusRecorder struct {
	registry     *prometheus.Registry
	textfilePath string

	// Run Metrics
	runDurationSeconds *prometheus.HistogramVec
	runStatusCounter   *prometheus.CounterVec

	// Source Metrics
	sourceDurationSeconds *prometheus.HistogramVec
	sourceStatusCounter   *prometheus.CounterVec
	sourceRowsCounter     *prometheus.CounterVec

	// Sink Metrics
	rowsWrittenCounter *prometheus.CounterVec
	duplicatesRemoved  prometheus.Counter

	operationDurationSeconds *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a recorder with its own registry. An empty textfilePath
// makes Flush a no-op.
func NewPrometheusRecorder(textfilePath string) *PrometheusRecorder {
	registry := prometheus.NewRegistry()

	r := &PrometheusRecorder{
		registry:     registry,
		textfilePath: textfilePath,
		runDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "windcapex_run_duration_seconds",
			Help:    "Duration of pipeline runs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		runStatusCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "windcapex_runs_total",
			Help: "Total number of pipeline runs by status.",
		}, []string{"status"}),
		sourceDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "windcapex_source_duration_seconds",
			Help:    "Duration of source processing.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		sourceStatusCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "windcapex_sources_total",
			Help: "Total number of sources by outcome.",
		}, []string{"status"}),
		sourceRowsCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "windcapex_source_rows_total",
			Help: "Total normalized rows produced by sources.",
		}, []string{"status"}),
		rowsWrittenCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "windcapex_rows_written_total",
			Help: "Total rows persisted by sink.",
		}, []string{"sink"}),
		duplicatesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "windcapex_duplicate_rows_removed_total",
			Help: "Total rows dropped as exact duplicates.",
		}),
		operationDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "windcapex_operation_duration_seconds",
			Help:    "Duration of individual pipeline operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	registry.MustRegister(
		r.runDurationSeconds,
		r.runStatusCounter,
		r.sourceDurationSeconds,
		r.sourceStatusCounter,
		r.sourceRowsCounter,
		r.rowsWrittenCounter,
		r.duplicatesRemoved,
		r.operationDurationSeconds,
	)
	return r
}

// GetRegistry returns the Prometheus registry.
func (r *PrometheusRecorder) GetRegistry() *prometheus.Registry {
	return r.registry
}

func (r *PrometheusRecorder) RecordRunStart(ctx context.Context, runID string) {
	logger.Debugf("Metrics: Run '%s' started.", runID)
}

func (r *PrometheusRecorder) RecordRunEnd(ctx context.Context, runID string, status string, duration time.Duration) {
	r.runStatusCounter.WithLabelValues(status).Inc()
	r.runDurationSeconds.WithLabelValues(status).Observe(duration.Seconds())
	logger.Debugf("Metrics: Run '%s' ended (%s). Duration: %.3fs", runID, status, duration.Seconds())
}

func (r *PrometheusRecorder) RecordSource(ctx context.Context, status string, rows int, duration time.Duration) {
	r.sourceStatusCounter.WithLabelValues(status).Inc()
	r.sourceRowsCounter.WithLabelValues(status).Add(float64(rows))
	r.sourceDurationSeconds.WithLabelValues(status).Observe(duration.Seconds())
}

func (r *PrometheusRecorder) RecordRowsWritten(ctx context.Context, sink string, count int) {
	r.rowsWrittenCounter.WithLabelValues(sink).Add(float64(count))
}

func (r *PrometheusRecorder) RecordDuplicatesRemoved(ctx context.Context, count int) {
	r.duplicatesRemoved.Add(float64(count))
}

// RecordDuration observes duration under the operation label; tags are not used as labels.
func (r *PrometheusRecorder) RecordDuration(ctx context.Context, name string, duration time.Duration, tags map[string]string) {
	r.operationDurationSeconds.WithLabelValues(name).Observe(duration.Seconds())
}

// Flush writes the registry to the textfile, replacing it atomically.
func (r *PrometheusRecorder) Flush(ctx context.Context) error {
	if r.textfilePath == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.textfilePath, r.registry); err != nil {
		return err
	}
	logger.Debugf("Metrics: wrote %s", r.textfilePath)
	return nil
}

var _ metrics.MetricRecorder = (*PrometheusRecorder)(nil)
