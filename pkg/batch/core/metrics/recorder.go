// Package metrics defines the metric and tracing abstractions used by a pipeline run.
// Backends live in infrastructure/metrics; the no-op versions here are the default.
package metrics

import (
	"context"
	"time"
)

// Run and source statuses used as metric labels.
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusNoData    = "no_data"
)

// MetricRecorder records run-level measurements.
//
// This interface provides a standardized way to record metrics for runs, sources and sink writes.
// This facilitates integration with different metrics backends (e.g., Prometheus, OpenTelemetry Metrics).
type MetricRecorder interface {
	// RecordRunStart records the start of a run.
	RecordRunStart(ctx context.Context, runID string)

	// RecordRunEnd records the end of a run.
	//
	// status: one of the RunStatus constants.
	// duration: wall time of the whole run.
	RecordRunEnd(ctx context.Context, runID string, status string, duration time.Duration)

	// RecordSource records the outcome of one source.
	//
	// status: "PROCESSED", "SKIPPED" or "FAILED".
	// rows: number of normalized rows the source contributed.
	RecordSource(ctx context.Context, status string, rows int, duration time.Duration)

	// RecordRowsWritten records the rows persisted by a sink.
	RecordRowsWritten(ctx context.Context, sink string, count int)

	// RecordDuplicatesRemoved records the rows dropped by deduplication.
	RecordDuplicatesRemoved(ctx context.Context, count int)

	// RecordDuration records the execution time of a specific operation.
	//
	// name: The name of the duration to record (e.g., "rate_load", "sink_write").
	// tags: Additional attributes. Example: `{"sink": "csv"}`
	RecordDuration(ctx context.Context, name string, duration time.Duration, tags map[string]string)

	// Flush exports the recorded values, for backends that export on demand.
	Flush(ctx context.Context) error
}
