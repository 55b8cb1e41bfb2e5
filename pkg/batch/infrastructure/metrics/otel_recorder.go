package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	metrics "github.com/tigerroll/windcapex/pkg/batch/core/metrics"
)

const instrumentationName = "github.com/tigerroll/windcapex"

// OTelRecorder implements metrics.MetricRecorder with OpenTelemetry instruments.
type OTelRecorder struct {
	provider *sdkmetric.MeterProvider

	runs              otelmetric.Int64Counter
	runDuration       otelmetric.Float64Histogram
	sources           otelmetric.Int64Counter
	sourceRows        otelmetric.Int64Counter
	sourceDuration    otelmetric.Float64Histogram
	rowsWritten       otelmetric.Int64Counter
	duplicatesRemoved otelmetric.Int64Counter
	operationDuration otelmetric.Float64Histogram
}

// NewOTLPMeterProvider creates a meter provider exporting periodically to the configured
// OTLP endpoint over "http" (default) or "grpc".
func NewOTLPMeterProvider(ctx context.Context, cfg config.MetricsConfig) (*sdkmetric.MeterProvider, error) {
	var exporter sdkmetric.Exporter
	var err error
	switch cfg.OTLPProtocol {
	case "grpc":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if cfg.OTLPEndpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint))
		}
		exporter, err = otlpmetricgrpc.New(ctx, opts...)
	case "http", "":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if cfg.OTLPEndpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(cfg.OTLPEndpoint))
		}
		exporter, err = otlpmetrichttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol '%s'", cfg.OTLPProtocol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter))), nil
}

// NewOTelRecorder creates the instruments on provider.
func NewOTelRecorder(provider *sdkmetric.MeterProvider) (*OTelRecorder, error) {
	meter := provider.Meter(instrumentationName)
	r := &OTelRecorder{provider: provider}

	var err error
	if r.runs, err = meter.Int64Counter("windcapex.runs", otelmetric.WithDescription("Pipeline runs by status.")); err != nil {
		return nil, err
	}
	if r.runDuration, err = meter.Float64Histogram("windcapex.run.duration", otelmetric.WithUnit("s")); err != nil {
		return nil, err
	}
	if r.sources, err = meter.Int64Counter("windcapex.sources", otelmetric.WithDescription("Sources by outcome.")); err != nil {
		return nil, err
	}
	if r.sourceRows, err = meter.Int64Counter("windcapex.source.rows"); err != nil {
		return nil, err
	}
	if r.sourceDuration, err = meter.Float64Histogram("windcapex.source.duration", otelmetric.WithUnit("s")); err != nil {
		return nil, err
	}
	if r.rowsWritten, err = meter.Int64Counter("windcapex.rows.written"); err != nil {
		return nil, err
	}
	if r.duplicatesRemoved, err = meter.Int64Counter("windcapex.duplicates.removed"); err != nil {
		return nil, err
	}
	if r.operationDuration, err = meter.Float64Histogram("windcapex.operation.duration", otelmetric.WithUnit("s")); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *OTelRecorder) RecordRunStart(ctx context.Context, runID string) {}

func (r *OTelRecorder) RecordRunEnd(ctx context.Context, runID string, status string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(attribute.String("status", status))
	r.runs.Add(ctx, 1, attrs)
	r.runDuration.Record(ctx, duration.Seconds(), attrs)
}

func (r *OTelRecorder) RecordSource(ctx context.Context, status string, rows int, duration time.Duration) {
	attrs := otelmetric.WithAttributes(attribute.String("status", status))
	r.sources.Add(ctx, 1, attrs)
	r.sourceRows.Add(ctx, int64(rows), attrs)
	r.sourceDuration.Record(ctx, duration.Seconds(), attrs)
}

func (r *OTelRecorder) RecordRowsWritten(ctx context.Context, sink string, count int) {
	r.rowsWritten.Add(ctx, int64(count), otelmetric.WithAttributes(attribute.String("sink", sink)))
}

func (r *OTelRecorder) RecordDuplicatesRemoved(ctx context.Context, count int) {
	r.duplicatesRemoved.Add(ctx, int64(count))
}

func (r *OTelRecorder) RecordDuration(ctx context.Context, name string, duration time.Duration, tags map[string]string) {
	attrs := make([]attribute.KeyValue, 0, len(tags)+1)
	attrs = append(attrs, attribute.String("operation", name))
	for k, v := range tags {
		attrs = append(attrs, attribute.String(k, v))
	}
	r.operationDuration.Record(ctx, duration.Seconds(), otelmetric.WithAttributes(attrs...))
}

// Flush pushes pending measurements to the exporter.
func (r *OTelRecorder) Flush(ctx context.Context) error {
	return r.provider.ForceFlush(ctx)
}

// Shutdown flushes and stops the meter provider.
func (r *OTelRecorder) Shutdown(ctx context.Context) error {
	return r.provider.Shutdown(ctx)
}

var _ metrics.MetricRecorder = (*OTelRecorder)(nil)
