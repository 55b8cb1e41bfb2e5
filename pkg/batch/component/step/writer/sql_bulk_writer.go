package writer

import (
	"context"

	"github.com/tigerroll/windcapex/pkg/batch/core/tx"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// SqlBulkWriter inserts items in chunks of bulkSize through the transaction carried by the
// context. It never commits or rolls back; the caller owns the transaction.
type SqlBulkWriter[T any] struct {
	name      string // name identifies the writer in logs.
	bulkSize  int    // bulkSize is the maximum number of rows per INSERT statement.
	tableName string // tableName is the target table.
}

var _ ItemWriter[map[string]interface{}] = (*SqlBulkWriter[map[string]interface{}])(nil)

// NewSqlBulkWriter creates a writer appending to tableName. A bulkSize below 1 writes each
// Write call as a single statement.
func NewSqlBulkWriter[T any](name string, bulkSize int, tableName string) *SqlBulkWriter[T] {
	return &SqlBulkWriter[T]{
		name:      name,
		bulkSize:  bulkSize,
		tableName: tableName,
	}
}

// Open does nothing; statements are prepared by the transaction.
func (w *SqlBulkWriter[T]) Open(ctx context.Context) error {
	logger.Debugf("SqlBulkWriter '%s': Opened.", w.name)
	return nil
}

// Write appends items in chunks. It requires a tx.Tx in ctx (see tx.WithTx).
func (w *SqlBulkWriter[T]) Write(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}

	currentTx, ok := tx.TxFromContext(ctx)
	if !ok {
		return exception.NewBatchErrorf("writer", exception.KindSink, "transaction not found in context for SqlBulkWriter '%s'", w.name)
	}

	size := w.bulkSize
	if size < 1 {
		size = len(items)
	}
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunk := items[i:end]

		if _, err := currentTx.ExecuteUpdate(ctx, chunk, "CREATE", w.tableName, nil); err != nil {
			return exception.NewBatchErrorf("writer", exception.KindSink,
				"SqlBulkWriter '%s' failed to insert into %s (chunk start index %d)", w.name, w.tableName, i, err)
		}
		logger.Debugf("SqlBulkWriter '%s': Wrote %d rows (start index %d).", w.name, len(chunk), i)
	}

	logger.Infof("SqlBulkWriter '%s': Wrote %d rows to %s.", w.name, len(items), w.tableName)
	return nil
}

// Close does nothing.
func (w *SqlBulkWriter[T]) Close(ctx context.Context) error {
	logger.Debugf("SqlBulkWriter '%s': Closed.", w.name)
	return nil
}

func (w *SqlBulkWriter[T]) GetTargetResourceName() string {
	return w.name
}

func (w *SqlBulkWriter[T]) GetResourcePath() string {
	return w.tableName
}
