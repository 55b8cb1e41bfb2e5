package listener

import (
	"context"
	"time"

	"github.com/tigerroll/windcapex/internal/domain"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
	logger "github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// LoggingListener writes run progress to the application log.
type LoggingListener struct{}

func NewLoggingListener() *LoggingListener {
	return &LoggingListener{}
}

func (l *LoggingListener) BeforeRun(ctx context.Context, runID string, sources []string) context.Context {
	logger.Infof("RunListener: BeforeRun - RunID: %s, Sources: %v", runID, sources)
	return ctx
}

func (l *LoggingListener) AfterRun(ctx context.Context, report *domain.RunReport, err error) {
	if err != nil {
		logger.Errorf("RunListener: AfterRun - run failed: %v", err)
		return
	}
	if report == nil {
		return
	}
	if report.NoData {
		logger.Warnf("No valid files processed.")
	}
	logger.Infof("RunListener: AfterRun - %s", report.Summary())
	logger.Infof("Total processing time: %.2f seconds", report.Duration.Seconds())
}

func (l *LoggingListener) BeforeSource(ctx context.Context, source string) context.Context {
	logger.Infof("Processing %s", source)
	return ctx
}

func (l *LoggingListener) AfterSource(ctx context.Context, outcome domain.SourceOutcome) {
	took := outcome.Duration.Round(time.Millisecond)
	switch outcome.Status {
	case domain.StatusProcessed:
		logger.Infof("Processed %s: %d rows in %s", outcome.Source, outcome.Rows, took)
	case domain.StatusSkipped:
		logger.Warnf("Skipping %s: missing columns %v", outcome.Source, outcome.Missing)
	case domain.StatusFailed:
		logger.Errorf("Failed %s (%s): %v", outcome.Source, exception.KindOf(outcome.Err), outcome.Err)
	}
}

var _ RunListener = (*LoggingListener)(nil)
