package domain

import (
	"fmt"
	"time"
)

// OutcomeStatus is the result of processing one source.
type OutcomeStatus int

const (
	StatusProcessed OutcomeStatus = iota
	StatusSkipped
	StatusFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case StatusProcessed:
		return "PROCESSED"
	case StatusSkipped:
		return "SKIPPED"
	case StatusFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("OutcomeStatus(%d)", int(s))
	}
}

// SourceOutcome describes one source of a run.
type SourceOutcome struct {
	Source   string
	Status   OutcomeStatus
	Rows     int
	Missing  []string // required columns absent from a skipped source
	Err      error    // cause of a failed or skipped source
	Duration time.Duration
}

// RunReport summarises a pipeline run.
type RunReport struct {
	RunID           string
	StartedAt       time.Time
	Sink            string
	Outcomes        []SourceOutcome
	Processed       int
	Skipped         int
	Failed          int
	RowsBeforeDedup int
	RowsWritten     int
	Duration        time.Duration
	NoData          bool
}

// Add records o and updates the counters.
func (r *RunReport) Add(o SourceOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Status {
	case StatusProcessed:
		r.Processed++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
}

// Summary returns a one-line description of the run.
func (r *RunReport) Summary() string {
	if r.NoData {
		return fmt.Sprintf("run %s: no valid files processed (skipped=%d failed=%d) in %s",
			r.RunID, r.Skipped, r.Failed, r.Duration.Round(time.Millisecond))
	}
	return fmt.Sprintf("run %s: processed=%d skipped=%d failed=%d rows=%d (before dedup %d) sink=%s in %s",
		r.RunID, r.Processed, r.Skipped, r.Failed, r.RowsWritten, r.RowsBeforeDedup, r.Sink,
		r.Duration.Round(time.Millisecond))
}
