// Package migration applies the embedded SQL migrations that create the relational sink's
// table. Migrations only run from the migrate command, never during a pipeline run.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/tigerroll/windcapex/pkg/batch/adapter/database"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// Migrator handles database schema migrations.
type Migrator interface {
	// Up applies all pending migrations found under path in migrationFS.
	// tableName is the table that tracks the applied version.
	Up(ctx context.Context, migrationFS fs.FS, path string, tableName string) error
	// Down rolls back all applied migrations.
	Down(ctx context.Context, migrationFS fs.FS, path string, tableName string) error
	// Version returns the applied version, and whether the last migration failed halfway.
	// ok is false when nothing has been applied yet.
	Version(ctx context.Context, migrationFS fs.FS, path string, tableName string) (version uint, dirty bool, ok bool, err error)
}

// migratorImpl runs golang-migrate on the *sql.DB of a connection. The handle stays open;
// it belongs to the connection provider.
type migratorImpl struct {
	dbConn database.DBConnection
	dbType string
}

// NewMigrator creates a Migrator for dbConn.
func NewMigrator(dbConn database.DBConnection) Migrator {
	return &migratorImpl{
		dbConn: dbConn,
		dbType: dbConn.Type(),
	}
}

// getDatabaseDriver retrieves a migrate/v4 Driver based on the database type.
func (m *migratorImpl) getDatabaseDriver(sqlDB *sql.DB, tableName string) (migratedb.Driver, error) {
	switch m.dbType {
	case "postgres":
		return postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: tableName})
	case "mysql":
		return mysql.WithInstance(sqlDB, &mysql.Config{MigrationsTable: tableName})
	case "sqlite":
		return sqlite.WithInstance(sqlDB, &sqlite.Config{MigrationsTable: tableName})
	default:
		return nil, fmt.Errorf("unsupported database type for migration: %s", m.dbType)
	}
}

func (m *migratorImpl) getMigrateInstance(migrationFS fs.FS, path string, tableName string) (*migrate.Migrate, source.Driver, error) {
	sqlDB, err := m.dbConn.GetSQLDB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sourceDriver, err := iofs.New(migrationFS, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create iofs source driver for path %s: %w", path, err)
	}

	dbDriver, err := m.getDatabaseDriver(sqlDB, tableName)
	if err != nil {
		sourceDriver.Close()
		return nil, nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	mInstance, err := migrate.NewWithInstance("iofs", sourceDriver, m.dbType, dbDriver)
	if err != nil {
		sourceDriver.Close()
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	mInstance.Log = migrateLogger{}
	return mInstance, sourceDriver, nil
}

func (m *migratorImpl) runMigration(ctx context.Context, migrationFS fs.FS, path string, command string, tableName string) error {
	logger.Infof("Executing migration '%s' (Path: %s, Table: %s)", command, path, tableName)

	mInstance, sourceDriver, err := m.getMigrateInstance(migrationFS, path, tableName)
	if err != nil {
		return fmt.Errorf("failed to get migrate instance: %w", err)
	}
	// mInstance.Close would also close the *sql.DB.
	defer sourceDriver.Close()

	stop := context.AfterFunc(ctx, func() { mInstance.GracefulStop <- true })
	defer stop()

	var migrateErr error
	switch command {
	case "up":
		migrateErr = mInstance.Up()
	case "down":
		migrateErr = mInstance.Down()
	default:
		return fmt.Errorf("unsupported migration command: %s", command)
	}

	if migrateErr != nil && !errors.Is(migrateErr, migrate.ErrNoChange) {
		if v, dirty, versionErr := mInstance.Version(); versionErr == nil {
			logger.Errorf("Migration failed at version %d (dirty=%t).", v, dirty)
		}
		return fmt.Errorf("migration failed for command '%s' (DB: %s, Path: %s): %w", command, m.dbType, path, migrateErr)
	}
	if errors.Is(migrateErr, migrate.ErrNoChange) {
		logger.Infof("Migration '%s': no change.", command)
		return nil
	}

	logger.Infof("Migration '%s' completed successfully.", command)
	return nil
}

func (m *migratorImpl) Up(ctx context.Context, migrationFS fs.FS, path string, tableName string) error {
	return m.runMigration(ctx, migrationFS, path, "up", tableName)
}

func (m *migratorImpl) Down(ctx context.Context, migrationFS fs.FS, path string, tableName string) error {
	return m.runMigration(ctx, migrationFS, path, "down", tableName)
}

func (m *migratorImpl) Version(ctx context.Context, migrationFS fs.FS, path string, tableName string) (uint, bool, bool, error) {
	mInstance, sourceDriver, err := m.getMigrateInstance(migrationFS, path, tableName)
	if err != nil {
		return 0, false, false, err
	}
	defer sourceDriver.Close()

	v, dirty, err := mInstance.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	return v, dirty, true, nil
}

// migrateLogger routes golang-migrate output to the application logger.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	logger.Debugf("migrate: "+format, v...)
}

func (migrateLogger) Verbose() bool {
	return false
}
