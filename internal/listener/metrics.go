package listener

import (
	"context"

	"github.com/tigerroll/windcapex/internal/domain"
	"github.com/tigerroll/windcapex/pkg/batch/core/metrics"
	logger "github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// MetricsListener forwards run and source outcomes to a MetricRecorder and flushes it
// when the run ends.
type MetricsListener struct {
	recorder metrics.MetricRecorder
}

func NewMetricsListener(recorder metrics.MetricRecorder) *MetricsListener {
	return &MetricsListener{recorder: recorder}
}

func (l *MetricsListener) BeforeRun(ctx context.Context, runID string, sources []string) context.Context {
	l.recorder.RecordRunStart(ctx, runID)
	return ctx
}

func (l *MetricsListener) AfterRun(ctx context.Context, report *domain.RunReport, err error) {
	if report != nil {
		status := metrics.RunStatusCompleted
		switch {
		case err != nil:
			status = metrics.RunStatusFailed
		case report.NoData:
			status = metrics.RunStatusNoData
		default:
			l.recorder.RecordDuplicatesRemoved(ctx, report.RowsBeforeDedup-report.RowsWritten)
			l.recorder.RecordRowsWritten(ctx, report.Sink, report.RowsWritten)
		}
		l.recorder.RecordRunEnd(ctx, report.RunID, status, report.Duration)
	}
	if ferr := l.recorder.Flush(ctx); ferr != nil {
		logger.Warnf("Metrics: flush failed: %v", ferr)
	}
}

func (l *MetricsListener) BeforeSource(ctx context.Context, source string) context.Context {
	return ctx
}

func (l *MetricsListener) AfterSource(ctx context.Context, outcome domain.SourceOutcome) {
	l.recorder.RecordSource(ctx, outcome.Status.String(), outcome.Rows, outcome.Duration)
}

var _ RunListener = (*MetricsListener)(nil)
