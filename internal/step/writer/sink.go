// Package writer implements the destinations of a pipeline run. Each sink receives the
// whole normalized batch once and reports how many rows it persisted.
package writer

import (
	"context"
	"time"

	"github.com/tigerroll/windcapex/internal/domain"
)

// SinkWriter persists a batch. A sink error is fatal for the run.
type SinkWriter interface {
	// Write persists every row of batch and returns the number of rows written.
	Write(ctx context.Context, batch domain.Batch) (int, error)
	// Name identifies the sink type ("csv", "sql", "parquet").
	Name() string
}

// Clock returns the current time. Sinks derive the run date from it.
type Clock func() time.Time

// runDate formats the date of now in loc as YYYY-MM-DD.
func runDate(now Clock, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc).Format("2006-01-02")
}
