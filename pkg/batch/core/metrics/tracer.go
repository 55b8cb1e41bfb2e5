package metrics

import "context"

// Tracer is an abstract interface for distributed tracing.
type Tracer interface {
	// StartRunSpan starts a span covering a whole run. The returned function ends it.
	StartRunSpan(ctx context.Context, runID string) (context.Context, func())

	// StartSourceSpan starts a child span for one source.
	StartSourceSpan(ctx context.Context, source string) (context.Context, func())

	// RecordError records err on the span in ctx.
	RecordError(ctx context.Context, module string, err error)

	// RecordEvent adds an event to the span in ctx.
	RecordEvent(ctx context.Context, name string, attributes map[string]interface{})
}
