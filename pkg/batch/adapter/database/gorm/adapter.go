package gorm

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tigerroll/windcapex/pkg/batch/adapter/database"
	dbconfig "github.com/tigerroll/windcapex/pkg/batch/adapter/database/config"
	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// NewGormLogger creates a gorm logger writing through the application logger.
// Unknown levels silence GORM.
func NewGormLogger(level string) gormlogger.Interface {
	var gormLevel gormlogger.LogLevel
	switch config.LogLevel(strings.ToUpper(level)) {
	case config.LogLevelError:
		gormLevel = gormlogger.Error
	case config.LogLevelWarn:
		gormLevel = gormlogger.Warn
	case config.LogLevelInfo, config.LogLevelDebug:
		gormLevel = gormlogger.Info
	default:
		gormLevel = gormlogger.Silent
	}

	return gormlogger.New(
		NewGormWriter(),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// GormWriter forwards GORM output to the application logger. SQL traces go to DEBUG.
type GormWriter struct{}

// NewGormWriter creates a new instance of GormWriter.
func NewGormWriter() *GormWriter {
	return &GormWriter{}
}

// Printf implements gormlogger.Writer.
func (w *GormWriter) Printf(format string, v ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, v...))
	if isSQLTrace(msg) {
		logger.Debugf("[GORM] %s", msg)
		return
	}
	logger.Infof("[GORM] %s", msg)
}

func isSQLTrace(msg string) bool {
	for _, verb := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.Contains(msg, verb) {
			return true
		}
	}
	return false
}

// GormDBAdapter implements database.DBConnection on top of *gorm.DB.
type GormDBAdapter struct {
	db    *gorm.DB
	sqlDB *sql.DB
	cfg   dbconfig.DatabaseConfig
	name  string
}

var _ database.DBConnection = (*GormDBAdapter)(nil)

// NewGormDBAdapter wraps an opened *gorm.DB.
func NewGormDBAdapter(db *gorm.DB, cfg dbconfig.DatabaseConfig, name string) (*GormDBAdapter, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying *sql.DB for '%s': %w", name, err)
	}
	return &GormDBAdapter{db: db, sqlDB: sqlDB, cfg: cfg, name: name}, nil
}

// GormDB returns the wrapped *gorm.DB. Only the gorm adapter package should need it.
func (a *GormDBAdapter) GormDB() *gorm.DB {
	return a.db
}

// Close closes the connection pool.
func (a *GormDBAdapter) Close() error {
	logger.Debugf("Closing database connection '%s'.", a.name)
	return a.sqlDB.Close()
}

// Type returns the database type ("postgres", "mysql", "sqlite").
func (a *GormDBAdapter) Type() string {
	return a.cfg.Type
}

// Name returns the connection name.
func (a *GormDBAdapter) Name() string {
	return a.name
}

// RefreshConnection pings the pool.
func (a *GormDBAdapter) RefreshConnection(ctx context.Context) error {
	return a.sqlDB.PingContext(ctx)
}

// Config returns the connection settings.
func (a *GormDBAdapter) Config() dbconfig.DatabaseConfig {
	return a.cfg
}

// GetSQLDB returns the underlying pool.
func (a *GormDBAdapter) GetSQLDB() (*sql.DB, error) {
	if a.sqlDB == nil {
		return nil, fmt.Errorf("underlying sql.DB is nil")
	}
	return a.sqlDB, nil
}

// ExecuteUpdate runs a single write in auto-commit mode.
func (a *GormDBAdapter) ExecuteUpdate(ctx context.Context, model interface{}, operation string, tableName string, query map[string]interface{}) (int64, error) {
	db := a.db.WithContext(ctx).Session(&gorm.Session{SkipDefaultTransaction: true})
	return executeUpdate(db, model, operation, tableName, query)
}

// Count counts rows of tableName matching query.
func (a *GormDBAdapter) Count(ctx context.Context, tableName string, query map[string]interface{}) (int64, error) {
	db := a.db.WithContext(ctx).Table(tableName)
	if len(query) > 0 {
		db = db.Where(query)
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// IsTableNotExistError reports whether err is a missing-table error of the connection's dialect.
func (a *GormDBAdapter) IsTableNotExistError(err error) bool {
	return isTableNotExistError(err)
}

// executeUpdate is shared by the connection and transaction adapters.
func executeUpdate(db *gorm.DB, model interface{}, operation string, tableName string, query map[string]interface{}) (int64, error) {
	if tableName != "" {
		db = db.Table(tableName)
	}

	var result *gorm.DB
	switch operation {
	case "CREATE":
		result = db.Create(model)
	case "UPDATE":
		result = db.Where(query).Updates(model)
	case "DELETE":
		if len(query) > 0 {
			db = db.Where(query)
		}
		result = db.Delete(model)
	default:
		return 0, fmt.Errorf("unsupported update operation: %s", operation)
	}

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func isTableNotExistError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return (strings.Contains(msg, "relation \"") && strings.Contains(msg, "\" does not exist")) || // PostgreSQL
		(strings.Contains(msg, "Error 1146") && strings.Contains(msg, "doesn't exist")) || // MySQL
		strings.Contains(msg, "no such table:") // SQLite
}
