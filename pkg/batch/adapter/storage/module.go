package storage

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the resolver over every provider tagged group:"storage_providers".
var Module = fx.Options(
	fx.Provide(
		fx.Annotate(
			NewConnectionResolver,
			fx.ParamTags(`group:"storage_providers"`, ``),
		),
		func(r *ConnectionResolver) StorageConnectionResolver { return r },
	),
	fx.Invoke(func(lc fx.Lifecycle, r *ConnectionResolver) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return r.CloseAll()
			},
		})
	}),
)
