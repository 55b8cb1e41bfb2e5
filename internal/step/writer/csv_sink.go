package writer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/tigerroll/windcapex/internal/domain"
	itemwriter "github.com/tigerroll/windcapex/pkg/batch/component/step/writer"
	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// CSVFileNameFormat is the output file name; the verb receives the run date.
const CSVFileNameFormat = "Wind Capex OUT %s.csv"

// CSVSink appends the batch to the daily CSV file in the output directory.
type CSVSink struct {
	outputDir string
	loc       *time.Location
	now       Clock
}

var _ SinkWriter = (*CSVSink)(nil)

// NewCSVSink creates a CSV sink. The run date is taken in loc.
func NewCSVSink(cfg config.CSVSinkConfig, loc *time.Location) *CSVSink {
	return &CSVSink{outputDir: cfg.OutputDir, loc: loc, now: time.Now}
}

// WithClock replaces the time source.
func (s *CSVSink) WithClock(now Clock) *CSVSink {
	s.now = now
	return s
}

func (s *CSVSink) Name() string { return config.SinkTypeCSV }

// Path returns the file written for the current run date.
func (s *CSVSink) Path() string {
	return filepath.Join(s.outputDir, fmt.Sprintf(CSVFileNameFormat, runDate(s.now, s.loc)))
}

// Write creates the file with a header row, or appends without one when the file already has content.
func (s *CSVSink) Write(ctx context.Context, batch domain.Batch) (n int, err error) {
	path := s.Path()
	w := itemwriter.NewCSVAppendWriter(path, batch.Columns)
	if err := w.Open(ctx); err != nil {
		return 0, err
	}
	defer func() {
		if cerr := w.Close(ctx); cerr != nil && err == nil {
			n, err = 0, cerr
		}
	}()

	rows := make([][]string, len(batch.Rows))
	for i, row := range batch.Rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = v.Render()
		}
		rows[i] = rec
	}
	if err := w.Write(ctx, rows); err != nil {
		return 0, err
	}

	logger.Infof("CSV sink: wrote %d rows to %s", len(rows), path)
	return len(rows), nil
}
