package pipeline

import (
	"go.uber.org/fx"

	"github.com/tigerroll/windcapex/internal/listener"
	"github.com/tigerroll/windcapex/internal/rate"
	"github.com/tigerroll/windcapex/internal/step/reader"
	"github.com/tigerroll/windcapex/internal/step/writer"
	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	"github.com/tigerroll/windcapex/pkg/batch/core/metrics"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
)

// NewOrchestratorFromConfig builds an orchestrator from the pipeline section.
func NewOrchestratorFromConfig(
	cfg *config.Config,
	sources *reader.SourceResolver,
	sink writer.SinkWriter,
	l listener.RunListener,
	recorder metrics.MetricRecorder,
) (*Orchestrator, error) {
	p := cfg.Windcapex.Pipeline
	policy, err := rate.ParsePolicy(p.RateDuplicatePolicy)
	if err != nil {
		return nil, exception.NewBatchErrorf(module, exception.KindConfig, "invalid rate_duplicate_policy", err)
	}
	opts := Options{
		RatesSource: p.RatesSource,
		RatePolicy:  policy,
		Deduplicate: p.Deduplicate,
	}
	return NewOrchestrator(opts, sources, sink, l, recorder), nil
}

// Module provides the Orchestrator.
var Module = fx.Options(
	fx.Provide(NewOrchestratorFromConfig),
)
