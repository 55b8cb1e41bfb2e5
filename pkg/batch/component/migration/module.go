package migration

import (
	"go.uber.org/fx"

	"github.com/tigerroll/windcapex/pkg/batch/adapter/database"
)

// MigratorFactory creates a Migrator for an open connection.
type MigratorFactory func(dbConn database.DBConnection) Migrator

// Module provides the MigratorFactory used by the migrate command.
var Module = fx.Options(
	fx.Provide(func() MigratorFactory { return NewMigrator }),
)
