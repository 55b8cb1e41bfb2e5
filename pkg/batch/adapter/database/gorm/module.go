package gorm

import (
	"context"

	"go.uber.org/fx"

	"github.com/tigerroll/windcapex/pkg/batch/adapter/database"
)

// Module provides the connection provider and resolver. Dialects are added by importing
// the postgres, mysql and sqlite subpackages.
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewConnectionProvider,
		fx.As(new(database.DBProvider)),
	)),
	fx.Provide(fx.Annotate(
		NewGormDBConnectionResolver,
		fx.As(new(database.DBConnectionResolver)),
	)),
	fx.Invoke(func(lc fx.Lifecycle, provider database.DBProvider) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return provider.CloseAll()
			},
		})
	}),
)
