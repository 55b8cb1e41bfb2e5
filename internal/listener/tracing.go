package listener

import (
	"context"

	"github.com/tigerroll/windcapex/internal/domain"
	"github.com/tigerroll/windcapex/pkg/batch/core/metrics"
)

// TracingListener opens a span per run and per source.
type TracingListener struct {
	tracer metrics.Tracer
	// runID or source -> span end function
	spanEndFuncs map[string]func()
	runID        string
}

func NewTracingListener(tracer metrics.Tracer) *TracingListener {
	return &TracingListener{tracer: tracer, spanEndFuncs: make(map[string]func())}
}

func (l *TracingListener) BeforeRun(ctx context.Context, runID string, sources []string) context.Context {
	ctx, end := l.tracer.StartRunSpan(ctx, runID)
	l.runID = runID
	l.spanEndFuncs["run:"+runID] = end
	return ctx
}

func (l *TracingListener) AfterRun(ctx context.Context, report *domain.RunReport, err error) {
	if err != nil {
		l.tracer.RecordError(ctx, "pipeline", err)
	} else if report != nil {
		l.tracer.RecordEvent(ctx, "run.completed", map[string]interface{}{
			"processed":    report.Processed,
			"skipped":      report.Skipped,
			"failed":       report.Failed,
			"rows_written": report.RowsWritten,
			"no_data":      report.NoData,
		})
	}
	l.end("run:" + l.runID)
}

func (l *TracingListener) BeforeSource(ctx context.Context, source string) context.Context {
	ctx, end := l.tracer.StartSourceSpan(ctx, source)
	l.spanEndFuncs["source:"+source] = end
	return ctx
}

func (l *TracingListener) AfterSource(ctx context.Context, outcome domain.SourceOutcome) {
	if outcome.Err != nil {
		l.tracer.RecordError(ctx, outcome.Status.String(), outcome.Err)
	} else {
		l.tracer.RecordEvent(ctx, "source.processed", map[string]interface{}{"rows": outcome.Rows})
	}
	l.end("source:" + outcome.Source)
}

func (l *TracingListener) end(key string) {
	if endFunc, ok := l.spanEndFuncs[key]; ok {
		endFunc()
		delete(l.spanEndFuncs, key)
	}
}

var _ RunListener = (*TracingListener)(nil)
