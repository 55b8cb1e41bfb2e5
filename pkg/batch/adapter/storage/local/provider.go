package local

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	storageAdapter "github.com/tigerroll/windcapex/pkg/batch/adapter/storage"
	storageConfig "github.com/tigerroll/windcapex/pkg/batch/adapter/storage/config"
	coreConfig "github.com/tigerroll/windcapex/pkg/batch/core/config"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/configbinder"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// LocalProvider implements storage.StorageProvider for local connections.
type LocalProvider struct {
	namedConfigs map[string]interface{}
	connections  map[string]storageAdapter.StorageConnection
	mu           sync.Mutex
}

// NewLocalProvider creates a provider reading adapter.storage.<name> from cfg.
func NewLocalProvider(cfg *coreConfig.Config) storageAdapter.StorageProvider {
	return &LocalProvider{
		namedConfigs: cfg.Windcapex.Adapter.Storage,
		connections:  make(map[string]storageAdapter.StorageConnection),
	}
}

// GetConnection returns the cached connection for name or creates it.
func (p *LocalProvider) GetConnection(name string) (storageAdapter.StorageConnection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if conn, ok := p.connections[name]; ok {
		return conn, nil
	}
	return p.connect(name)
}

func (p *LocalProvider) connect(name string) (storageAdapter.StorageConnection, error) {
	var cfg storageConfig.StorageConfig
	if err := configbinder.BindNamed(p.namedConfigs, name, &cfg); err != nil {
		return nil, fmt.Errorf("storage %w", err)
	}
	if cfg.Type != ProviderType {
		return nil, fmt.Errorf("storage config type mismatch for '%s': expected '%s', got '%s'", name, ProviderType, cfg.Type)
	}
	conn, err := NewLocalAdapter(cfg, name)
	if err != nil {
		return nil, err
	}
	p.connections[name] = conn
	logger.Debugf("Created local storage connection '%s' at '%s'.", name, cfg.BaseDir)
	return conn, nil
}

// CloseAll closes every cached connection.
func (p *LocalProvider) CloseAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var result *multierror.Error
	for name, conn := range p.connections {
		if err := conn.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close local storage '%s': %w", name, err))
		}
		delete(p.connections, name)
	}
	return result.ErrorOrNil()
}

// Type returns "local".
func (p *LocalProvider) Type() string {
	return ProviderType
}

// ForceReconnect drops the cached connection for name and creates a new one.
func (p *LocalProvider) ForceReconnect(name string) (storageAdapter.StorageConnection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if conn, ok := p.connections[name]; ok {
		if err := conn.Close(); err != nil {
			logger.Warnf("Failed to close local storage connection '%s' during reconnect: %v", name, err)
		}
		delete(p.connections, name)
	}
	return p.connect(name)
}
