package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/windcapex/internal/domain"
	"github.com/tigerroll/windcapex/internal/pipeline"
	"github.com/tigerroll/windcapex/internal/rate"
	"github.com/tigerroll/windcapex/internal/schema"
	"github.com/tigerroll/windcapex/internal/step/reader"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
	"github.com/tigerroll/windcapex/pkg/batch/test"
)

type memorySink struct {
	batches []domain.Batch
	err     error
}

func (s *memorySink) Name() string { return "memory" }

func (s *memorySink) Write(ctx context.Context, batch domain.Batch) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.batches = append(s.batches, batch)
	return batch.Len(), nil
}

func newOrchestrator(t *testing.T, sink *memorySink, dedup bool) (*pipeline.Orchestrator, string) {
	t.Helper()
	dir := t.TempDir()
	rates := test.WriteFile(t, dir, "rates.csv", test.RatesCSV)
	o := pipeline.NewOrchestrator(pipeline.Options{RatesSource: rates, RatePolicy: rate.PolicyLast, Deduplicate: dedup},
		reader.NewSourceResolver(nil, 0, nil), sink, nil, nil)
	return o, dir
}

func TestRun_CountsAndOrder(t *testing.T) {
	sink := &memorySink{}
	o, dir := newOrchestrator(t, sink, true)

	in := filepath.Join(dir, "in")
	require.NoError(t, os.Mkdir(in, 0o755))
	test.WriteFile(t, in, "a.csv", test.CapexCSV(test.CapexRowWest))
	test.WriteFile(t, in, "b.csv", test.CapexCSV(test.CapexRowEast, test.CapexRowWest))
	test.WriteFile(t, in, "c.csv", "series_info_id,date\n1,2022Q3\n")
	test.WriteFile(t, in, "d.csv", test.CapexHeader+strings.Replace(test.CapexRowWest, "1000000.0", "abc", 1))
	test.WriteFile(t, in, "notes.txt", "ignored")

	report, err := o.Run(context.Background(), []string{in, filepath.Join(dir, "missing.csv")})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, 3, report.RowsBeforeDedup)
	assert.Equal(t, 2, report.RowsWritten)
	assert.False(t, report.NoData)
	assert.Equal(t, "memory", report.Sink)
	require.Len(t, report.Outcomes, 5)

	assert.Equal(t, domain.StatusSkipped, report.Outcomes[2].Status)
	assert.Contains(t, report.Outcomes[2].Missing, "dollars_per_mw")
	assert.ErrorIs(t, report.Outcomes[2].Err, exception.ErrSkippedSource)
	assert.ErrorIs(t, report.Outcomes[3].Err, exception.ErrCast)
	assert.ErrorIs(t, report.Outcomes[4].Err, exception.ErrRead)

	require.Len(t, sink.batches, 1)
	b := sink.batches[0]
	assert.Equal(t, schema.CanonicalOutputColumns, b.Columns)
	require.Equal(t, 2, b.Len())
	assert.Equal(t, "West", b.Get(0, schema.OutRegion).Render())
	assert.Equal(t, "East", b.Get(1, schema.OutRegion).Render())
	assert.Equal(t, "250000.0", b.Get(1, schema.OutEuroMW).Render())
}

func TestRun_DeduplicationDisabled(t *testing.T) {
	sink := &memorySink{}
	o, dir := newOrchestrator(t, sink, false)
	a := test.WriteFile(t, dir, "a.csv", test.CapexCSV(test.CapexRowWest))

	report, err := o.Run(context.Background(), []string{a, a})
	require.NoError(t, err)
	assert.Equal(t, 2, report.RowsWritten)
	assert.Equal(t, 2, sink.batches[0].Len())
}

func TestRun_NoData(t *testing.T) {
	sink := &memorySink{}
	o, dir := newOrchestrator(t, sink, true)
	bad := test.WriteFile(t, dir, "bad.csv", "region\nWest\n")

	report, err := o.Run(context.Background(), []string{bad})
	require.NoError(t, err)
	assert.True(t, report.NoData)
	assert.Empty(t, sink.batches)
	assert.Contains(t, report.Summary(), "no valid files processed")
}

func TestRun_HeaderOnlySourceWritesNothing(t *testing.T) {
	sink := &memorySink{}
	o, dir := newOrchestrator(t, sink, true)
	empty := test.WriteFile(t, dir, "empty.csv", test.CapexHeader)

	report, err := o.Run(context.Background(), []string{empty})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.True(t, report.NoData)
	assert.Empty(t, sink.batches)
}

func TestRun_RateLoadErrorAbortsBeforeSources(t *testing.T) {
	sink := &memorySink{}
	dir := t.TempDir()
	rates := test.WriteFile(t, dir, "rates.csv", "year,multiplier\n2022,0.9\n")
	a := test.WriteFile(t, dir, "a.csv", test.CapexCSV(test.CapexRowWest))

	o := pipeline.NewOrchestrator(pipeline.Options{RatesSource: rates, Deduplicate: true},
		reader.NewSourceResolver(nil, 0, nil), sink, nil, nil)
	report, err := o.Run(context.Background(), []string{a})
	require.Error(t, err)
	assert.ErrorIs(t, err, exception.ErrLoad)
	assert.Empty(t, report.Outcomes)
	assert.Empty(t, sink.batches)

	o = pipeline.NewOrchestrator(pipeline.Options{RatesSource: filepath.Join(dir, "nope.csv")},
		reader.NewSourceResolver(nil, 0, nil), sink, nil, nil)
	_, err = o.Run(context.Background(), []string{a})
	assert.ErrorIs(t, err, exception.ErrLoad)
}

func TestRun_SinkErrorIsFatal(t *testing.T) {
	sinkErr := exception.NewBatchError("sink.sql", exception.KindSink, "rolled back", errors.New("deadlock"))
	sink := &memorySink{err: sinkErr}
	o, dir := newOrchestrator(t, sink, true)
	a := test.WriteFile(t, dir, "a.csv", test.CapexCSV(test.CapexRowWest))

	report, err := o.Run(context.Background(), []string{a})
	require.Error(t, err)
	assert.ErrorIs(t, err, exception.ErrSink)
	assert.Equal(t, 1, report.Processed)
	assert.Zero(t, report.RowsWritten)
}

func TestRun_CancelledBetweenSources(t *testing.T) {
	sink := &memorySink{}
	o, dir := newOrchestrator(t, sink, true)
	a := test.WriteFile(t, dir, "a.csv", test.CapexCSV(test.CapexRowWest))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := o.Run(ctx, []string{a})
	require.Error(t, err)
	assert.Empty(t, sink.batches)
}
