package writer

import (
	"go.uber.org/fx"

	"github.com/tigerroll/windcapex/pkg/batch/adapter/database"
	"github.com/tigerroll/windcapex/pkg/batch/adapter/storage"
	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// NewSinkWriter builds the sink selected by sink.type.
func NewSinkWriter(
	cfg *config.Config,
	dbProvider database.DBProvider,
	dbResolver database.DBConnectionResolver,
	storageResolver storage.StorageConnectionResolver,
) (SinkWriter, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, exception.NewBatchErrorf("sink", exception.KindConfig, "failed to resolve time zone", err)
	}

	sinkCfg := cfg.Windcapex.Sink
	switch sinkCfg.Type {
	case config.SinkTypeCSV, "":
		logger.Debugf("Sink: CSV into '%s'.", sinkCfg.CSV.OutputDir)
		return NewCSVSink(sinkCfg.CSV, loc), nil
	case config.SinkTypeSQL:
		logger.Debugf("Sink: SQL table '%s'.", sinkCfg.SQL.TableName)
		return NewSQLSink(sinkCfg.SQL, dbProvider, dbResolver)
	case config.SinkTypeParquet:
		logger.Debugf("Sink: Parquet via storage '%s'.", sinkCfg.Parquet.StorageRef)
		return NewParquetSink(sinkCfg.Parquet, storageResolver, loc), nil
	default:
		return nil, exception.NewBatchErrorf("sink", exception.KindConfig, "unknown sink type '%s'", sinkCfg.Type)
	}
}

// Module provides the configured SinkWriter.
var Module = fx.Options(
	fx.Provide(NewSinkWriter),
)
