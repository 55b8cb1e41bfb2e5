package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	coreAdapter "github.com/tigerroll/windcapex/pkg/batch/core/adapter"
	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/configbinder"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// ConnectionResolver dispatches named storage connections to the provider of their configured type.
type ConnectionResolver struct {
	providers    map[string]StorageProvider
	namedConfigs map[string]interface{}
	mu           sync.RWMutex
}

var _ StorageConnectionResolver = (*ConnectionResolver)(nil)

// NewConnectionResolver creates a resolver over providers, keyed by their Type.
func NewConnectionResolver(providers []StorageProvider, cfg *config.Config) *ConnectionResolver {
	byType := make(map[string]StorageProvider, len(providers))
	for _, p := range providers {
		byType[p.Type()] = p
	}
	return &ConnectionResolver{providers: byType, namedConfigs: cfg.Windcapex.Adapter.Storage}
}

// ResolveConnection implements coreAdapter.ResourceConnectionResolver.
func (r *ConnectionResolver) ResolveConnection(ctx context.Context, name string) (coreAdapter.ResourceConnection, error) {
	return r.ResolveStorageConnection(ctx, name)
}

// ResolveStorageConnection looks up adapter.storage.<name>, selects the provider by type and
// returns its connection.
func (r *ConnectionResolver) ResolveStorageConnection(ctx context.Context, name string) (StorageConnection, error) {
	var head struct {
		Type string `yaml:"type"`
	}
	if err := configbinder.BindNamed(r.namedConfigs, name, &head); err != nil {
		return nil, fmt.Errorf("storage %w", err)
	}

	r.mu.RLock()
	provider, ok := r.providers[head.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no storage provider found for type '%s' (connection '%s')", head.Type, name)
	}

	conn, err := provider.GetConnection(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get storage connection '%s' from provider '%s': %w", name, head.Type, err)
	}
	logger.Debugf("Resolved storage connection '%s' (%s).", name, head.Type)
	return conn, nil
}

// CloseAll closes the connections of every provider.
func (r *ConnectionResolver) CloseAll() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result *multierror.Error
	for _, p := range r.providers {
		if err := p.CloseAll(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
