package writer

import (
	"context"

	"github.com/tigerroll/windcapex/internal/domain"
	"github.com/tigerroll/windcapex/pkg/batch/adapter/database"
	dbconfig "github.com/tigerroll/windcapex/pkg/batch/adapter/database/config"
	gormadapter "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm"
	itemwriter "github.com/tigerroll/windcapex/pkg/batch/component/step/writer"
	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	"github.com/tigerroll/windcapex/pkg/batch/core/tx"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// DefaultDatabaseRef is the connection name used when only a connection string is configured.
const DefaultDatabaseRef = "sink"

// SQLSink appends the batch to a table inside a single transaction. The table must exist;
// see the migrate command.
type SQLSink struct {
	dbName    string
	tableName string
	bulkSize  int
	txManager tx.TransactionManager
}

var _ SinkWriter = (*SQLSink)(nil)

// RegisterSQLConnection registers the configured connection string (if any) with provider and
// returns the connection name the sink writes to.
func RegisterSQLConnection(cfg config.SQLSinkConfig, provider database.DBProvider) (string, error) {
	dbName := cfg.DatabaseRef
	if dbName == "" {
		dbName = DefaultDatabaseRef
	}
	if cfg.ConnectionString != "" {
		dbCfg, err := dbconfig.ParseConnectionString(cfg.ConnectionString)
		if err != nil {
			return "", exception.NewBatchErrorf("sink.sql", exception.KindConfig, "invalid connection string", err)
		}
		provider.Register(dbName, dbCfg)
		logger.Debugf("SQL sink: registered connection '%s' (%s).", dbName, dbCfg.Redacted())
	}
	return dbName, nil
}

// NewSQLSink returns a sink writing through resolver to the connection named by cfg.
func NewSQLSink(cfg config.SQLSinkConfig, provider database.DBProvider, resolver database.DBConnectionResolver) (*SQLSink, error) {
	dbName, err := RegisterSQLConnection(cfg, provider)
	if err != nil {
		return nil, err
	}
	return NewSQLSinkWithManager(dbName, cfg.TableName, cfg.BulkSize, gormadapter.NewGormTransactionManager(resolver, dbName)), nil
}

// NewSQLSinkWithManager creates a sink on an existing transaction manager.
func NewSQLSinkWithManager(dbName, tableName string, bulkSize int, txManager tx.TransactionManager) *SQLSink {
	return &SQLSink{dbName: dbName, tableName: tableName, bulkSize: bulkSize, txManager: txManager}
}

func (s *SQLSink) Name() string { return config.SinkTypeSQL }

// Write inserts every row, committing only when all chunks succeeded.
func (s *SQLSink) Write(ctx context.Context, batch domain.Batch) (int, error) {
	items := make([]map[string]interface{}, len(batch.Rows))
	for i, row := range batch.Rows {
		item := make(map[string]interface{}, len(batch.Columns))
		for j, col := range batch.Columns {
			item[col] = row[j].Interface()
		}
		items[i] = item
	}

	t, err := s.txManager.Begin(ctx)
	if err != nil {
		return 0, exception.NewBatchErrorf("sink.sql", exception.KindSink, "cannot begin transaction on '%s'", s.dbName, err)
	}

	w := itemwriter.NewSqlBulkWriter[map[string]interface{}](s.dbName, s.bulkSize, s.tableName)
	txCtx := tx.WithTx(ctx, t)
	if err := s.writeAll(txCtx, w, items); err != nil {
		if rbErr := s.txManager.Rollback(t); rbErr != nil {
			logger.Errorf("SQL sink: rollback on '%s' failed: %v", s.dbName, rbErr)
		}
		return 0, exception.NewBatchErrorf("sink.sql", exception.KindSink,
			"append to %s failed, transaction rolled back", s.tableName, err)
	}
	if err := s.txManager.Commit(t); err != nil {
		return 0, exception.NewBatchErrorf("sink.sql", exception.KindSink, "commit on '%s' failed", s.dbName, err)
	}

	logger.Infof("SQL sink: appended %d rows to %s", len(items), s.tableName)
	return len(items), nil
}

func (s *SQLSink) writeAll(ctx context.Context, w itemwriter.ItemWriter[map[string]interface{}], items []map[string]interface{}) error {
	if err := w.Open(ctx); err != nil {
		return err
	}
	if err := w.Write(ctx, items); err != nil {
		_ = w.Close(ctx)
		return err
	}
	return w.Close(ctx)
}
