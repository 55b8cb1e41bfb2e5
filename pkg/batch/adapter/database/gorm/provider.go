// Package gorm implements the database adapter contracts with GORM.
// Dialects register themselves from the postgres, mysql and sqlite subpackages.
package gorm

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"

	"github.com/tigerroll/windcapex/pkg/batch/adapter/database"
	dbconfig "github.com/tigerroll/windcapex/pkg/batch/adapter/database/config"
	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/configbinder"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// DialectorFactory creates a gorm.Dialector from connection settings.
type DialectorFactory func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error)

var (
	dialectorRegistry = make(map[string]DialectorFactory)
	dialectorMutex    sync.RWMutex
)

// RegisterDialector registers the factory for a database type.
func RegisterDialector(dbType string, factory DialectorFactory) {
	dialectorMutex.Lock()
	defer dialectorMutex.Unlock()
	if _, exists := dialectorRegistry[dbType]; exists {
		logger.Warnf("Dialector for type '%s' already registered. Overwriting.", dbType)
	}
	dialectorRegistry[dbType] = factory
}

// GetDialectorFactory returns the factory registered for dbType.
func GetDialectorFactory(dbType string) (DialectorFactory, error) {
	dialectorMutex.RLock()
	defer dialectorMutex.RUnlock()
	factory, ok := dialectorRegistry[dbType]
	if !ok {
		return nil, fmt.Errorf("no dialector registered for database type: %s (is the driver package imported?)", dbType)
	}
	return factory, nil
}

// ConnectionProvider implements database.DBProvider for every registered dialect.
// Settings come from adapter.database.<name> in the configuration or from Register.
type ConnectionProvider struct {
	namedConfigs map[string]interface{}
	registered   map[string]dbconfig.DatabaseConfig
	logLevel     string
	connections  map[string]database.DBConnection
	mu           sync.Mutex
}

var _ database.DBProvider = (*ConnectionProvider)(nil)

// NewConnectionProvider creates a provider backed by the adapter.database section of cfg.
func NewConnectionProvider(cfg *config.Config) *ConnectionProvider {
	return &ConnectionProvider{
		namedConfigs: cfg.Windcapex.Adapter.Database,
		registered:   make(map[string]dbconfig.DatabaseConfig),
		logLevel:     cfg.Windcapex.Sink.SQL.LogLevel,
		connections:  make(map[string]database.DBConnection),
	}
}

// Register adds or replaces the settings for name. An open connection under that name is kept
// until ForceReconnect or CloseAll.
func (p *ConnectionProvider) Register(name string, cfg dbconfig.DatabaseConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered[name] = cfg
}

// GetConnection returns the cached connection for name or opens it.
func (p *ConnectionProvider) GetConnection(name string) (database.DBConnection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if conn, ok := p.connections[name]; ok {
		return conn, nil
	}
	return p.createAndStoreConnection(name)
}

// ForceReconnect closes the connection for name, if any, and opens a new one.
func (p *ConnectionProvider) ForceReconnect(name string) (database.DBConnection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.connections[name]; ok {
		if err := existing.Close(); err != nil {
			logger.Warnf("Failed to close connection '%s' before reconnect: %v", name, err)
		}
		delete(p.connections, name)
	}
	return p.createAndStoreConnection(name)
}

// CloseAll closes every open connection and reports all close failures together.
func (p *ConnectionProvider) CloseAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var result *multierror.Error
	for name, conn := range p.connections {
		if err := conn.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close '%s': %w", name, err))
		}
		delete(p.connections, name)
	}
	return result.ErrorOrNil()
}

func (p *ConnectionProvider) resolveConfig(name string) (dbconfig.DatabaseConfig, error) {
	if cfg, ok := p.registered[name]; ok {
		return cfg, nil
	}
	var cfg dbconfig.DatabaseConfig
	if err := configbinder.BindNamed(p.namedConfigs, name, &cfg); err != nil {
		return dbconfig.DatabaseConfig{}, fmt.Errorf("database %w", err)
	}
	return cfg, nil
}

func (p *ConnectionProvider) createAndStoreConnection(name string) (database.DBConnection, error) {
	dbCfg, err := p.resolveConfig(name)
	if err != nil {
		return nil, err
	}
	gormDB, err := Open(dbCfg, p.logLevel)
	if err != nil {
		return nil, fmt.Errorf("connection '%s' (%s): %w", name, dbCfg.Redacted(), err)
	}
	conn, err := NewGormDBAdapter(gormDB, dbCfg, name)
	if err != nil {
		return nil, err
	}
	p.connections[name] = conn
	logger.Infof("Established DB connection '%s' (%s).", name, dbCfg.Redacted())
	return conn, nil
}

// Open opens a *gorm.DB for cfg with the registered dialector and applies pool settings.
func Open(cfg dbconfig.DatabaseConfig, logLevel string) (*gorm.DB, error) {
	factory, err := GetDialectorFactory(cfg.Type)
	if err != nil {
		return nil, err
	}
	dialector, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create dialector for %s: %w", cfg.Type, err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: NewGormLogger(logLevel)})
	if err != nil {
		return nil, fmt.Errorf("failed to open GORM connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.Pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpenConns)
	}
	if cfg.Pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdleConns)
	}
	if cfg.Pool.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.Pool.ConnMaxLifetimeMinutes) * time.Minute)
	}
	return db, nil
}
