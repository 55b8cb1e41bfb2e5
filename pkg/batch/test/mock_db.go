package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	dbadapter "github.com/tigerroll/windcapex/pkg/batch/adapter/database"
	dbconfig "github.com/tigerroll/windcapex/pkg/batch/adapter/database/config"
	coreadapter "github.com/tigerroll/windcapex/pkg/batch/core/adapter"
)

// MockDBProvider is a mock implementation of database.DBProvider.
type MockDBProvider struct {
	mock.Mock
}

var _ dbadapter.DBProvider = (*MockDBProvider)(nil)

func (m *MockDBProvider) Register(name string, cfg dbconfig.DatabaseConfig) {
	m.Called(name, cfg)
}

func (m *MockDBProvider) GetConnection(name string) (dbadapter.DBConnection, error) {
	args := m.Called(name)
	if c := args.Get(0); c != nil {
		return c.(dbadapter.DBConnection), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDBProvider) ForceReconnect(name string) (dbadapter.DBConnection, error) {
	args := m.Called(name)
	if c := args.Get(0); c != nil {
		return c.(dbadapter.DBConnection), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDBProvider) CloseAll() error {
	return m.Called().Error(0)
}

// MockDBConnectionResolver is a mock implementation of database.DBConnectionResolver.
type MockDBConnectionResolver struct {
	mock.Mock
}

var _ dbadapter.DBConnectionResolver = (*MockDBConnectionResolver)(nil)

// ResolveDBConnection records the call and returns the configured connection.
func (m *MockDBConnectionResolver) ResolveDBConnection(ctx context.Context, name string) (dbadapter.DBConnection, error) {
	args := m.Called(ctx, name)
	if c := args.Get(0); c != nil {
		return c.(dbadapter.DBConnection), args.Error(1)
	}
	return nil, args.Error(1)
}

// ResolveConnection records the call and returns the configured connection.
func (m *MockDBConnectionResolver) ResolveConnection(ctx context.Context, name string) (coreadapter.ResourceConnection, error) {
	args := m.Called(ctx, name)
	if c := args.Get(0); c != nil {
		return c.(coreadapter.ResourceConnection), args.Error(1)
	}
	return nil, args.Error(1)
}
