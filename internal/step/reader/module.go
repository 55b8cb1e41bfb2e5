package reader

import "go.uber.org/fx"

// Module provides the SourceResolver used to expand and read input identifiers.
var Module = fx.Options(
	fx.Provide(NewSourceResolverFromConfig),
)
