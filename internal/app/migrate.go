package app

import (
	"context"

	"go.uber.org/fx"

	"github.com/tigerroll/windcapex/internal/schema"
	"github.com/tigerroll/windcapex/internal/step/writer"
	"github.com/tigerroll/windcapex/pkg/batch/adapter/database"
	"github.com/tigerroll/windcapex/pkg/batch/component/migration"
	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// MigrateDirection selects which way RunMigrations moves the schema.
type MigrateDirection string

const (
	MigrateUp   MigrateDirection = "up"
	MigrateDown MigrateDirection = "down"
)

// RunMigrations creates (or drops) the output table on the SQL sink connection and returns the
// exit code.
func RunMigrations(appCtx context.Context, cfg *config.Config, direction MigrateDirection) int {
	app := fx.New(
		fx.Supply(cfg),
		Modules,
		migration.Module,
		fx.Invoke(func(lc fx.Lifecycle, shutdowner fx.Shutdowner, provider database.DBProvider, newMigrator migration.MigratorFactory) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go func() {
						code := ExitOK
						if err := migrate(appCtx, cfg.Windcapex.Sink.SQL, provider, newMigrator, direction); err != nil {
							logger.Errorf("Migration failed: %v", err)
							code = ExitError
						}
						if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
							logger.Errorf("Failed to shutdown application: %v", err)
						}
					}()
					return nil
				},
				OnStop: onStopApplication(),
			})
		}),
	)
	return runToExit(app)
}

func migrate(ctx context.Context, cfg config.SQLSinkConfig, provider database.DBProvider, newMigrator migration.MigratorFactory, direction MigrateDirection) error {
	dbName, err := writer.RegisterSQLConnection(cfg, provider)
	if err != nil {
		return err
	}
	conn, err := provider.GetConnection(dbName)
	if err != nil {
		return err
	}

	m := newMigrator(conn)
	path := schema.MigrationsPath(conn.Type())
	switch direction {
	case MigrateUp, "":
		err = m.Up(ctx, schema.Migrations, path, schema.MigrationsTable)
	case MigrateDown:
		err = m.Down(ctx, schema.Migrations, path, schema.MigrationsTable)
	default:
		return exception.NewBatchErrorf("migrate", exception.KindConfig, "unknown direction '%s' (expected up or down)", direction)
	}
	if err != nil {
		return err
	}

	version, dirty, ok, err := m.Version(ctx, schema.Migrations, path, schema.MigrationsTable)
	if err != nil {
		return err
	}
	if !ok {
		logger.Infof("Schema on '%s' has no migrations applied.", dbName)
		return nil
	}
	logger.Infof("Schema on '%s' is at version %d (dirty=%t).", dbName, version, dirty)
	return nil
}
