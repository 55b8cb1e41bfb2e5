// Package pipeline runs the ingest end to end: load the exchange rates, process each source in
// order, combine, deduplicate and hand the batch to the configured sink.
package pipeline

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tigerroll/windcapex/internal/domain"
	"github.com/tigerroll/windcapex/internal/listener"
	"github.com/tigerroll/windcapex/internal/rate"
	"github.com/tigerroll/windcapex/internal/step/processor"
	"github.com/tigerroll/windcapex/internal/step/writer"
	"github.com/tigerroll/windcapex/pkg/batch/core/metrics"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

const module = "pipeline"

// SourceReader expands identifiers and opens or parses them.
type SourceReader interface {
	Expand(ctx context.Context, ids []string) []string
	Open(ctx context.Context, id string) (io.ReadCloser, error)
	ReadTable(ctx context.Context, id string) (*domain.RawTable, error)
}

// Options control a run.
type Options struct {
	// RatesSource identifies the exchange-rate CSV.
	RatesSource string
	RatePolicy  rate.Policy
	// Deduplicate drops identical rows from the combined batch.
	Deduplicate bool
}

// Orchestrator wires the stages of a run. Sources are processed sequentially on the calling
// goroutine.
type Orchestrator struct {
	opts     Options
	reader   SourceReader
	sink     writer.SinkWriter
	listener listener.RunListener
	recorder metrics.MetricRecorder

	validator  *processor.SchemaValidator
	normalizer *processor.ColumnNormalizer
	dedup      *processor.Deduplicator

	newRunID func() string
}

// NewOrchestrator creates an orchestrator. A nil listener or recorder disables that concern.
func NewOrchestrator(opts Options, reader SourceReader, sink writer.SinkWriter, l listener.RunListener, recorder metrics.MetricRecorder) *Orchestrator {
	if l == nil {
		l = listener.Composite(nil)
	}
	if recorder == nil {
		recorder = metrics.NewNoOpMetricRecorder()
	}
	if opts.RatePolicy == "" {
		opts.RatePolicy = rate.PolicyLast
	}
	return &Orchestrator{
		opts:       opts,
		reader:     reader,
		sink:       sink,
		listener:   l,
		recorder:   recorder,
		validator:  processor.NewSchemaValidator(),
		normalizer: processor.NewColumnNormalizer(),
		dedup:      processor.NewDeduplicator(),
		newRunID:   uuid.NewString,
	}
}

// Run ingests sources into the sink.
//
// A rate load failure aborts before any source is touched. Sources that cannot be read or
// cast are reported as failed, sources missing required columns as skipped, and the run
// continues. When no rows survive, nothing is written and the report has NoData set.
// A sink failure is returned together with the report built so far.
func (o *Orchestrator) Run(ctx context.Context, sources []string) (report *domain.RunReport, err error) {
	start := time.Now()
	runID := o.newRunID()
	report = &domain.RunReport{RunID: runID, StartedAt: start, Sink: o.sink.Name()}

	ctx = domain.WithRunID(ctx, runID)
	ctx = o.listener.BeforeRun(ctx, runID, sources)
	defer func() {
		report.Duration = time.Since(start)
		o.listener.AfterRun(ctx, report, err)
	}()

	rates, err := o.loadRates(ctx)
	if err != nil {
		return report, err
	}
	transformer := processor.NewRecordTransformer(rates)

	ids := o.reader.Expand(ctx, sources)
	combined := domain.NewBatch(o.normalizer.Columns())
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome, batch := o.processSource(ctx, id, transformer)
		report.Add(outcome)
		if outcome.Status == domain.StatusProcessed {
			combined.Append(batch)
		}
	}

	report.RowsBeforeDedup = combined.Len()
	if report.Processed == 0 || combined.Len() == 0 {
		report.NoData = true
		return report, nil
	}

	if o.opts.Deduplicate {
		combined = o.dedup.Deduplicate(combined)
		if removed := report.RowsBeforeDedup - combined.Len(); removed > 0 {
			logger.Infof("Removed %d duplicate rows.", removed)
		}
	}

	writeStart := time.Now()
	n, err := o.sink.Write(ctx, combined)
	o.recorder.RecordDuration(ctx, "sink_write", time.Since(writeStart), map[string]string{"sink": o.sink.Name()})
	if err != nil {
		return report, err
	}
	report.RowsWritten = n
	return report, nil
}

func (o *Orchestrator) loadRates(ctx context.Context) (*rate.Table, error) {
	start := time.Now()
	if o.opts.RatesSource == "" {
		return nil, exception.NewBatchErrorf(module, exception.KindLoad, "no rates source configured")
	}
	rc, err := o.reader.Open(ctx, o.opts.RatesSource)
	if err != nil {
		return nil, exception.NewBatchErrorf(module, exception.KindLoad, "cannot open rates source %s", o.opts.RatesSource, err)
	}
	defer rc.Close()

	rates, err := rate.Load(ctx, o.opts.RatesSource, rc, o.opts.RatePolicy)
	if err != nil {
		return nil, err
	}
	o.recorder.RecordDuration(ctx, "rate_load", time.Since(start), nil)
	logger.Infof("Loaded %d exchange rates from %s", rates.Len(), o.opts.RatesSource)
	return rates, nil
}

// processSource reads, validates, transforms and normalizes one source.
func (o *Orchestrator) processSource(ctx context.Context, id string, transformer *processor.RecordTransformer) (outcome domain.SourceOutcome, batch domain.Batch) {
	ctx = o.listener.BeforeSource(ctx, id)
	start := time.Now()
	outcome.Source = id

	defer func() {
		outcome.Duration = time.Since(start)
		o.listener.AfterSource(ctx, outcome)
	}()

	table, err := o.reader.ReadTable(ctx, id)
	if err != nil {
		outcome.Status, outcome.Err = domain.StatusFailed, err
		return outcome, batch
	}

	if missing := o.validator.Validate(table); len(missing) > 0 {
		outcome.Status, outcome.Missing = domain.StatusSkipped, missing
		outcome.Err = exception.NewBatchErrorf("validator", exception.KindSkippedSource,
			"%s is missing required columns: %s", id, strings.Join(missing, ", "))
		return outcome, batch
	}

	records, err := transformer.Transform(table)
	if err != nil {
		outcome.Status, outcome.Err = domain.StatusFailed, err
		return outcome, batch
	}

	batch = o.normalizer.NormalizeTransformed(records)
	outcome.Status, outcome.Rows = domain.StatusProcessed, batch.Len()
	return outcome, batch
}
