package listener_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tigerroll/windcapex/internal/domain"
	"github.com/tigerroll/windcapex/internal/listener"
	"github.com/tigerroll/windcapex/pkg/batch/core/metrics"
)

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordRunStart(ctx context.Context, runID string) {
	m.Called(runID)
}

func (m *MockRecorder) RecordRunEnd(ctx context.Context, runID string, status string, duration time.Duration) {
	m.Called(runID, status)
}

func (m *MockRecorder) RecordSource(ctx context.Context, status string, rows int, duration time.Duration) {
	m.Called(status, rows)
}

func (m *MockRecorder) RecordRowsWritten(ctx context.Context, sink string, count int) {
	m.Called(sink, count)
}

func (m *MockRecorder) RecordDuplicatesRemoved(ctx context.Context, count int) {
	m.Called(count)
}

func (m *MockRecorder) RecordDuration(ctx context.Context, name string, duration time.Duration, tags map[string]string) {
	m.Called(name)
}

func (m *MockRecorder) Flush(ctx context.Context) error {
	return m.Called().Error(0)
}

var _ metrics.MetricRecorder = (*MockRecorder)(nil)

func TestMetricsListener_CompletedRun(t *testing.T) {
	rec := new(MockRecorder)
	rec.On("RecordRunStart", "run-1").Once()
	rec.On("RecordSource", "PROCESSED", 4).Once()
	rec.On("RecordSource", "SKIPPED", 0).Once()
	rec.On("RecordDuplicatesRemoved", 1).Once()
	rec.On("RecordRowsWritten", "csv", 3).Once()
	rec.On("RecordRunEnd", "run-1", metrics.RunStatusCompleted).Once()
	rec.On("Flush").Return(nil).Once()

	l := listener.NewMetricsListener(rec)
	ctx := l.BeforeRun(context.Background(), "run-1", []string{"a.csv", "b.csv"})
	l.AfterSource(ctx, domain.SourceOutcome{Source: "a.csv", Status: domain.StatusProcessed, Rows: 4})
	l.AfterSource(ctx, domain.SourceOutcome{Source: "b.csv", Status: domain.StatusSkipped})
	l.AfterRun(ctx, &domain.RunReport{RunID: "run-1", Sink: "csv", Processed: 1, Skipped: 1, RowsBeforeDedup: 4, RowsWritten: 3}, nil)

	rec.AssertExpectations(t)
}

func TestMetricsListener_FailedAndNoData(t *testing.T) {
	rec := new(MockRecorder)
	rec.On("RecordRunEnd", "run-2", metrics.RunStatusFailed).Once()
	rec.On("RecordRunEnd", "run-3", metrics.RunStatusNoData).Once()
	rec.On("Flush").Return(errors.New("unreachable")).Twice()

	l := listener.NewMetricsListener(rec)
	l.AfterRun(context.Background(), &domain.RunReport{RunID: "run-2"}, errors.New("sink down"))
	l.AfterRun(context.Background(), &domain.RunReport{RunID: "run-3", NoData: true}, nil)

	rec.AssertExpectations(t)
	rec.AssertNotCalled(t, "RecordRowsWritten", mock.Anything, mock.Anything)
}

type orderListener struct {
	name string
	log  *[]string
}

type ctxKey string

func (l orderListener) BeforeRun(ctx context.Context, runID string, sources []string) context.Context {
	*l.log = append(*l.log, "before:"+l.name)
	return context.WithValue(ctx, ctxKey(l.name), true)
}

func (l orderListener) AfterRun(ctx context.Context, report *domain.RunReport, err error) {
	*l.log = append(*l.log, "after:"+l.name)
}

func (l orderListener) BeforeSource(ctx context.Context, source string) context.Context { return ctx }

func (l orderListener) AfterSource(ctx context.Context, outcome domain.SourceOutcome) {}

func TestComposite_OrderAndContext(t *testing.T) {
	var log []string
	c := listener.Composite{orderListener{"a", &log}, orderListener{"b", &log}}

	ctx := c.BeforeRun(context.Background(), "run", nil)
	c.AfterRun(ctx, nil, nil)

	assert.Equal(t, []string{"before:a", "before:b", "after:b", "after:a"}, log)
	assert.Equal(t, true, ctx.Value(ctxKey("a")))
	assert.Equal(t, true, ctx.Value(ctxKey("b")))
}

func TestNewRunListeners_NoOp(t *testing.T) {
	l := listener.NewRunListeners(metrics.NewNoOpMetricRecorder(), metrics.NewNoOpTracer())
	ctx := l.BeforeRun(context.Background(), "run", []string{"x"})
	ctx = l.BeforeSource(ctx, "x")
	l.AfterSource(ctx, domain.SourceOutcome{Source: "x", Status: domain.StatusFailed, Err: errors.New("boom")})
	l.AfterRun(ctx, &domain.RunReport{RunID: "run", NoData: true}, nil)
}
