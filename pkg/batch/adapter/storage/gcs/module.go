package gcs

import (
	"go.uber.org/fx"

	storageAdapter "github.com/tigerroll/windcapex/pkg/batch/adapter/storage"
)

// Module adds the GCS provider to group:"storage_providers".
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewGCSProvider,
		fx.As(new(storageAdapter.StorageProvider)),
		fx.ResultTags(`group:"storage_providers"`),
	)),
)
