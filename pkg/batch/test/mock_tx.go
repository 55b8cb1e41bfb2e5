// Package test holds testify mocks and fixtures shared by the windcapex test suites.
package test

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	tx "github.com/tigerroll/windcapex/pkg/batch/core/tx"
)

// MockTx is a mock implementation of tx.Tx.
type MockTx struct {
	mock.Mock
}

var _ tx.Tx = (*MockTx)(nil)

// ExecuteUpdate records the call and returns the configured row count and error.
func (m *MockTx) ExecuteUpdate(ctx context.Context, model interface{}, operation string, tableName string, query map[string]interface{}) (rowsAffected int64, err error) {
	args := m.Called(ctx, model, operation, tableName, query)
	return args.Get(0).(int64), args.Error(1)
}

// MockTxManager is a mock implementation of tx.TransactionManager.
type MockTxManager struct {
	mock.Mock
}

var _ tx.TransactionManager = (*MockTxManager)(nil)

// Begin returns the configured transaction. A nil first return value is passed through as a nil Tx.
func (m *MockTxManager) Begin(ctx context.Context, opts ...*sql.TxOptions) (tx.Tx, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.(tx.Tx), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTxManager) Commit(t tx.Tx) error {
	return m.Called(t).Error(0)
}

func (m *MockTxManager) Rollback(t tx.Tx) error {
	return m.Called(t).Error(0)
}
