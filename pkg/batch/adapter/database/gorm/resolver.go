package gorm

import (
	"context"
	"fmt"

	"github.com/tigerroll/windcapex/pkg/batch/adapter/database"
	coreAdapter "github.com/tigerroll/windcapex/pkg/batch/core/adapter"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// GormDBConnectionResolver implements database.DBConnectionResolver over a DBProvider.
type GormDBConnectionResolver struct {
	provider database.DBProvider
}

var _ database.DBConnectionResolver = (*GormDBConnectionResolver)(nil)

// NewGormDBConnectionResolver creates a resolver backed by provider.
func NewGormDBConnectionResolver(provider database.DBProvider) *GormDBConnectionResolver {
	return &GormDBConnectionResolver{provider: provider}
}

// ResolveDBConnection returns a healthy connection for name, reconnecting once if the ping fails.
func (r *GormDBConnectionResolver) ResolveDBConnection(ctx context.Context, name string) (database.DBConnection, error) {
	conn, err := r.provider.GetConnection(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get connection '%s': %w", name, err)
	}

	if pingErr := conn.RefreshConnection(ctx); pingErr != nil {
		logger.Warnf("Connection '%s' is unhealthy (%v). Reconnecting.", name, pingErr)
		conn, err = r.provider.ForceReconnect(name)
		if err != nil {
			return nil, fmt.Errorf("failed to reconnect connection '%s': %w", name, err)
		}
	}
	return conn, nil
}

// ResolveConnection implements coreAdapter.ResourceConnectionResolver.
func (r *GormDBConnectionResolver) ResolveConnection(ctx context.Context, name string) (coreAdapter.ResourceConnection, error) {
	return r.ResolveDBConnection(ctx, name)
}
