package gcs

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	storageAdapter "github.com/tigerroll/windcapex/pkg/batch/adapter/storage"
	storageConfig "github.com/tigerroll/windcapex/pkg/batch/adapter/storage/config"
	coreConfig "github.com/tigerroll/windcapex/pkg/batch/core/config"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/configbinder"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// GCSProvider implements storage.StorageProvider for Google Cloud Storage connections.
type GCSProvider struct {
	namedConfigs map[string]interface{}
	connections  map[string]storageAdapter.StorageConnection
	mu           sync.Mutex
}

// NewGCSProvider creates a provider reading adapter.storage.<name> from cfg.
func NewGCSProvider(cfg *coreConfig.Config) storageAdapter.StorageProvider {
	return &GCSProvider{
		namedConfigs: cfg.Windcapex.Adapter.Storage,
		connections:  make(map[string]storageAdapter.StorageConnection),
	}
}

func (p *GCSProvider) GetConnection(name string) (storageAdapter.StorageConnection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if conn, ok := p.connections[name]; ok {
		return conn, nil
	}
	return p.connect(name)
}

func (p *GCSProvider) connect(name string) (storageAdapter.StorageConnection, error) {
	var cfg storageConfig.StorageConfig
	if err := configbinder.BindNamed(p.namedConfigs, name, &cfg); err != nil {
		return nil, fmt.Errorf("storage %w", err)
	}
	if cfg.Type != ProviderType {
		return nil, fmt.Errorf("storage config type mismatch for '%s': expected '%s', got '%s'", name, ProviderType, cfg.Type)
	}
	conn, err := NewGCSAdapter(context.Background(), cfg, name)
	if err != nil {
		return nil, err
	}
	p.connections[name] = conn
	logger.Debugf("Created GCS storage connection '%s' (bucket '%s').", name, cfg.BucketName)
	return conn, nil
}

func (p *GCSProvider) CloseAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var result *multierror.Error
	for name, conn := range p.connections {
		if err := conn.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close gcs storage '%s': %w", name, err))
		}
		delete(p.connections, name)
	}
	return result.ErrorOrNil()
}

func (p *GCSProvider) Type() string {
	return ProviderType
}

func (p *GCSProvider) ForceReconnect(name string) (storageAdapter.StorageConnection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if conn, ok := p.connections[name]; ok {
		if err := conn.Close(); err != nil {
			logger.Warnf("Failed to close GCS storage connection '%s' during reconnect: %v", name, err)
		}
		delete(p.connections, name)
	}
	return p.connect(name)
}
