package metrics

import (
	"context"
	"time"
)

// NoOpMetricRecorder is an implementation of MetricRecorder that does nothing.
// It is used when metrics are disabled or during testing.
type NoOpMetricRecorder struct{}

// NewNoOpMetricRecorder creates a new instance of NoOpMetricRecorder.
func NewNoOpMetricRecorder() MetricRecorder {
	return &NoOpMetricRecorder{}
}

func (r *NoOpMetricRecorder) RecordRunStart(ctx context.Context, runID string) {}

func (r *NoOpMetricRecorder) RecordRunEnd(ctx context.Context, runID string, status string, duration time.Duration) {
}

func (r *NoOpMetricRecorder) RecordSource(ctx context.Context, status string, rows int, duration time.Duration) {
}

func (r *NoOpMetricRecorder) RecordRowsWritten(ctx context.Context, sink string, count int) {}

func (r *NoOpMetricRecorder) RecordDuplicatesRemoved(ctx context.Context, count int) {}

func (r *NoOpMetricRecorder) RecordDuration(ctx context.Context, name string, duration time.Duration, tags map[string]string) {
}

func (r *NoOpMetricRecorder) Flush(ctx context.Context) error { return nil }

var _ MetricRecorder = (*NoOpMetricRecorder)(nil)

// --- NoOpTracer ---

// NoOpTracer is an implementation of Tracer that does nothing.
type NoOpTracer struct{}

// NewNoOpTracer creates a new instance of NoOpTracer.
func NewNoOpTracer() Tracer {
	return &NoOpTracer{}
}

func (t *NoOpTracer) StartRunSpan(ctx context.Context, runID string) (context.Context, func()) {
	return ctx, func() {}
}

func (t *NoOpTracer) StartSourceSpan(ctx context.Context, source string) (context.Context, func()) {
	return ctx, func() {}
}

func (t *NoOpTracer) RecordError(ctx context.Context, module string, err error) {}

func (t *NoOpTracer) RecordEvent(ctx context.Context, name string, attributes map[string]interface{}) {
}

var _ Tracer = (*NoOpTracer)(nil)
