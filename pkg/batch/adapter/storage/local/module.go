package local

import (
	"go.uber.org/fx"

	storageAdapter "github.com/tigerroll/windcapex/pkg/batch/adapter/storage"
)

// Module adds the local provider to group:"storage_providers".
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewLocalProvider,
		fx.As(new(storageAdapter.StorageProvider)),
		fx.ResultTags(`group:"storage_providers"`),
	)),
)
