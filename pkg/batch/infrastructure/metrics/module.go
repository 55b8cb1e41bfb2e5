package metrics

import (
	"context"

	"go.uber.org/fx"

	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	metrics "github.com/tigerroll/windcapex/pkg/batch/core/metrics"
	logger "github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// NewMetricRecorder selects the backend named by metrics.backend.
func NewMetricRecorder(lc fx.Lifecycle, cfg *config.Config) (metrics.MetricRecorder, error) {
	mc := cfg.Windcapex.Metrics
	switch mc.Backend {
	case config.MetricsBackendPrometheus:
		return NewPrometheusRecorder(mc.TextfilePath), nil
	case config.MetricsBackendOTel:
		provider, err := NewOTLPMeterProvider(context.Background(), mc)
		if err != nil {
			return nil, err
		}
		r, err := NewOTelRecorder(provider)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: r.Shutdown})
		return r, nil
	default:
		return metrics.NewNoOpMetricRecorder(), nil
	}
}

// NewTracer returns an OTLP tracer when tracing is enabled, otherwise a no-op tracer.
func NewTracer(lc fx.Lifecycle, cfg *config.Config) (metrics.Tracer, error) {
	tc := cfg.Windcapex.Tracing
	if !tc.Enabled {
		return metrics.NewNoOpTracer(), nil
	}
	provider, err := NewOTLPTracerProvider(context.Background(), tc)
	if err != nil {
		return nil, err
	}
	t := NewOpenTelemetryTracer(provider)
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
		if err := t.Shutdown(ctx); err != nil {
			logger.Warnf("Tracing: shutdown failed: %v", err)
		}
		return nil
	}})
	return t, nil
}

// Module provides the configured MetricRecorder and Tracer.
var Module = fx.Options(
	fx.Provide(NewMetricRecorder),
	fx.Provide(NewTracer),
)
