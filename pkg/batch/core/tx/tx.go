// Package tx abstracts transaction handling so writers can append a whole batch atomically
// regardless of the database backend.
package tx

import (
	"context"
	"database/sql"
)

// TxExecutor defines write operations executable within a transaction.
type TxExecutor interface {
	// ExecuteUpdate performs a write on tableName.
	//
	// model: a pointer to an entity, a slice of entities, or a []map[string]interface{} of column values.
	// operation: "CREATE", "UPDATE" or "DELETE".
	// query: conditions for UPDATE and DELETE, combined with AND.
	// Returns the number of affected rows.
	ExecuteUpdate(ctx context.Context, model interface{}, operation string, tableName string, query map[string]interface{}) (rowsAffected int64, err error)
}

// Tx represents an ongoing database transaction.
type Tx interface {
	TxExecutor
}

// TransactionManager manages the lifecycle of database transactions.
type TransactionManager interface {
	// Begin starts a new transaction. opts may carry an isolation level.
	Begin(ctx context.Context, opts ...*sql.TxOptions) (Tx, error)
	// Commit persists all changes made within t.
	Commit(t Tx) error
	// Rollback undoes all changes made within t.
	Rollback(t Tx) error
}

type txContextKey struct{}

// WithTx returns a copy of ctx carrying t.
func WithTx(ctx context.Context, t Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, t)
}

// TxFromContext returns the transaction stored by WithTx.
func TxFromContext(ctx context.Context) (Tx, bool) {
	t, ok := ctx.Value(txContextKey{}).(Tx)
	return t, ok
}
