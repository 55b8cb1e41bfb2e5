package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	metrics "github.com/tigerroll/windcapex/pkg/batch/core/metrics"
	logger "github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// OpenTelemetryTracer is an implementation of metrics.Tracer using OpenTelemetry.
type OpenTelemetryTracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewOTLPTracerProvider creates a tracer provider batching spans to the configured exporter
// ("otlphttp" or "otlpgrpc").
func NewOTLPTracerProvider(ctx context.Context, cfg config.TracingConfig) (*sdktrace.TracerProvider, error) {
	var exporter sdktrace.SpanExporter
	var err error
	switch cfg.Exporter {
	case "otlpgrpc":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
	case "otlphttp", "":
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported trace exporter '%s'", cfg.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

// NewOpenTelemetryTracer creates a tracer on provider.
func NewOpenTelemetryTracer(provider *sdktrace.TracerProvider) *OpenTelemetryTracer {
	logger.Infof("Tracing: Initializing OpenTelemetry Tracer.")
	return &OpenTelemetryTracer{provider: provider, tracer: provider.Tracer(instrumentationName)}
}

// StartRunSpan starts the root span of a run.
func (t *OpenTelemetryTracer) StartRunSpan(ctx context.Context, runID string) (context.Context, func()) {
	ctx, span := t.tracer.Start(ctx, "windcapex.run", trace.WithAttributes(attribute.String("run.id", runID)))
	return ctx, func() { span.End() }
}

// StartSourceSpan starts a span for one source under the run span in ctx.
func (t *OpenTelemetryTracer) StartSourceSpan(ctx context.Context, source string) (context.Context, func()) {
	ctx, span := t.tracer.Start(ctx, "windcapex.source", trace.WithAttributes(attribute.String("source", source)))
	return ctx, func() { span.End() }
}

// RecordError records err on the current span and marks it failed.
func (t *OpenTelemetryTracer) RecordError(ctx context.Context, module string, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err, trace.WithAttributes(attribute.String("module", module)))
	span.SetStatus(codes.Error, err.Error())
}

// RecordEvent adds an event to the current span. Values other than strings, ints, floats
// and bools are formatted with %v.
func (t *OpenTelemetryTracer) RecordEvent(ctx context.Context, name string, attributes map[string]interface{}) {
	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, attribute.String(k, val))
		case int:
			attrs = append(attrs, attribute.Int(k, val))
		case int64:
			attrs = append(attrs, attribute.Int64(k, val))
		case float64:
			attrs = append(attrs, attribute.Float64(k, val))
		case bool:
			attrs = append(attrs, attribute.Bool(k, val))
		default:
			attrs = append(attrs, attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

// Shutdown flushes pending spans and stops the provider.
func (t *OpenTelemetryTracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}

var _ metrics.Tracer = (*OpenTelemetryTracer)(nil)
