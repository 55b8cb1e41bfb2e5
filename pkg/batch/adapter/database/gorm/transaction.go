package gorm

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/tigerroll/windcapex/pkg/batch/adapter/database"
	"github.com/tigerroll/windcapex/pkg/batch/core/tx"
)

// GormTxAdapter implements tx.Tx on a *gorm.DB obtained from Begin.
type GormTxAdapter struct {
	db *gorm.DB
}

// ExecuteUpdate implements tx.TxExecutor inside the transaction.
func (t *GormTxAdapter) ExecuteUpdate(ctx context.Context, model interface{}, operation string, tableName string, query map[string]interface{}) (int64, error) {
	return executeUpdate(t.db.WithContext(ctx), model, operation, tableName, query)
}

// GormTransactionManager implements tx.TransactionManager for one named connection.
// The connection is resolved on every Begin so a dropped pool is re-established.
type GormTransactionManager struct {
	dbResolver database.DBConnectionResolver
	dbName     string
}

var _ tx.TransactionManager = (*GormTransactionManager)(nil)

// NewGormTransactionManager creates a transaction manager for the connection named dbName.
func NewGormTransactionManager(dbResolver database.DBConnectionResolver, dbName string) *GormTransactionManager {
	return &GormTransactionManager{dbResolver: dbResolver, dbName: dbName}
}

// Begin starts a transaction on the resolved connection.
func (m *GormTransactionManager) Begin(ctx context.Context, opts ...*sql.TxOptions) (tx.Tx, error) {
	conn, err := m.dbResolver.ResolveDBConnection(ctx, m.dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DB connection '%s' for transaction: %w", m.dbName, err)
	}
	adapter, ok := conn.(*GormDBAdapter)
	if !ok {
		return nil, fmt.Errorf("connection '%s' is %T, expected *GormDBAdapter", m.dbName, conn)
	}

	var txOpts *sql.TxOptions
	if len(opts) > 0 {
		txOpts = opts[0]
	}

	gormTx := adapter.GormDB().WithContext(ctx).Begin(txOpts)
	if gormTx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", gormTx.Error)
	}
	return &GormTxAdapter{db: gormTx}, nil
}

// Commit commits t.
func (m *GormTransactionManager) Commit(t tx.Tx) error {
	gormTx, ok := t.(*GormTxAdapter)
	if !ok {
		return fmt.Errorf("invalid transaction type %T: expected *GormTxAdapter", t)
	}
	return gormTx.db.Commit().Error
}

// Rollback rolls t back.
func (m *GormTransactionManager) Rollback(t tx.Tx) error {
	gormTx, ok := t.(*GormTxAdapter)
	if !ok {
		return fmt.Errorf("invalid transaction type %T: expected *GormTxAdapter", t)
	}
	return gormTx.db.Rollback().Error
}
