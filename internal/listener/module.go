package listener

import (
	"go.uber.org/fx"

	"github.com/tigerroll/windcapex/pkg/batch/core/metrics"
)

// NewRunListeners assembles the logging, metrics and tracing listeners.
func NewRunListeners(recorder metrics.MetricRecorder, tracer metrics.Tracer) RunListener {
	return Composite{
		NewTracingListener(tracer),
		NewLoggingListener(),
		NewMetricsListener(recorder),
	}
}

// Module provides the RunListener used by the orchestrator.
var Module = fx.Options(
	fx.Provide(NewRunListeners),
)
