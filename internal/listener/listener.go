// Package listener holds the hooks notified around a pipeline run and each of its sources.
package listener

import (
	"context"

	"github.com/tigerroll/windcapex/internal/domain"
)

// RunListener is notified before and after a run and each source. The Before hooks may
// return a derived context (e.g. carrying a span); the matching After hook receives it.
type RunListener interface {
	BeforeRun(ctx context.Context, runID string, sources []string) context.Context
	AfterRun(ctx context.Context, report *domain.RunReport, err error)
	BeforeSource(ctx context.Context, source string) context.Context
	AfterSource(ctx context.Context, outcome domain.SourceOutcome)
}

// Composite notifies listeners in order, threading the context through them.
type Composite []RunListener

var _ RunListener = Composite(nil)

func (c Composite) BeforeRun(ctx context.Context, runID string, sources []string) context.Context {
	for _, l := range c {
		ctx = l.BeforeRun(ctx, runID, sources)
	}
	return ctx
}

// AfterRun notifies in reverse order.
func (c Composite) AfterRun(ctx context.Context, report *domain.RunReport, err error) {
	for i := len(c) - 1; i >= 0; i-- {
		c[i].AfterRun(ctx, report, err)
	}
}

func (c Composite) BeforeSource(ctx context.Context, source string) context.Context {
	for _, l := range c {
		ctx = l.BeforeSource(ctx, source)
	}
	return ctx
}

// AfterSource notifies in reverse order.
func (c Composite) AfterSource(ctx context.Context, outcome domain.SourceOutcome) {
	for i := len(c) - 1; i >= 0; i-- {
		c[i].AfterSource(ctx, outcome)
	}
}
