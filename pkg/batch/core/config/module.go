package config

import "go.uber.org/fx"

// Module exposes the sections of *Config so components can depend on the part they use.
var Module = fx.Options(
	fx.Provide(
		func(cfg *Config) *LoggingConfig { return &cfg.Windcapex.System.Logging },
		func(cfg *Config) *PipelineConfig { return &cfg.Windcapex.Pipeline },
		func(cfg *Config) *SinkConfig { return &cfg.Windcapex.Sink },
		func(cfg *Config) *MetricsConfig { return &cfg.Windcapex.Metrics },
		func(cfg *Config) *TracingConfig { return &cfg.Windcapex.Tracing },
	),
	fx.Provide(func() EnvironmentExpander {
		return NewOsEnvironmentExpander()
	}),
)
