// Package database defines the database connection contracts used by the relational sink
// and the migration command.
package database

import (
	"context"
	"database/sql"

	dbconfig "github.com/tigerroll/windcapex/pkg/batch/adapter/database/config"
	coreAdapter "github.com/tigerroll/windcapex/pkg/batch/core/adapter"
	"github.com/tigerroll/windcapex/pkg/batch/core/tx"
)

// DBExecutor is the set of operations available on a connection outside a transaction.
type DBExecutor interface {
	tx.TxExecutor

	// Count counts the rows of tableName matching query.
	Count(ctx context.Context, tableName string, query map[string]interface{}) (int64, error)
}

// DBConnection represents an open database connection.
type DBConnection interface {
	coreAdapter.ResourceConnection
	DBExecutor

	// IsTableNotExistError reports whether err means the target table is missing.
	IsTableNotExistError(err error) bool
	// RefreshConnection pings the database.
	RefreshConnection(ctx context.Context) error
	// Config returns the settings the connection was opened with.
	Config() dbconfig.DatabaseConfig
	// GetSQLDB returns the underlying *sql.DB.
	GetSQLDB() (*sql.DB, error)
}

// DBConnectionResolver resolves a named connection, reconnecting when the pool is unhealthy.
type DBConnectionResolver interface {
	coreAdapter.ResourceConnectionResolver

	ResolveDBConnection(ctx context.Context, name string) (DBConnection, error)
}

// DBProvider opens and caches named connections.
type DBProvider interface {
	// Register adds (or replaces) the settings for name, e.g. from a connection string given on the command line.
	Register(name string, cfg dbconfig.DatabaseConfig)
	// GetConnection returns the cached connection for name, opening it on first use.
	GetConnection(name string) (DBConnection, error)
	// ForceReconnect closes and reopens the connection for name.
	ForceReconnect(name string) (DBConnection, error)
	// CloseAll closes every connection opened by this provider.
	CloseAll() error
}
