package gorm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/tigerroll/windcapex/pkg/batch/adapter/database"
	dbconfig "github.com/tigerroll/windcapex/pkg/batch/adapter/database/config"
	gormadapter "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm"
	coreAdapter "github.com/tigerroll/windcapex/pkg/batch/core/adapter"
)

type staticResolver struct {
	conn database.DBConnection
	err  error
}

func (r *staticResolver) ResolveDBConnection(ctx context.Context, name string) (database.DBConnection, error) {
	return r.conn, r.err
}

func (r *staticResolver) ResolveConnection(ctx context.Context, name string) (coreAdapter.ResourceConnection, error) {
	return r.conn, r.err
}

func setupGormMock(t *testing.T) (*gormadapter.GormDBAdapter, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	conn, err := gormadapter.NewGormDBAdapter(gormDB, dbconfig.DatabaseConfig{Type: "mysql"}, "sink")
	require.NoError(t, err)
	t.Cleanup(func() {
		mock.ExpectClose()
		_ = conn.Close()
	})
	return conn, mock
}

func TestTransactionManager_CommitCreate(t *testing.T) {
	conn, mock := setupGormMock(t)
	tm := gormadapter.NewGormTransactionManager(&staticResolver{conn: conn}, "sink")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `wind_capex_data`").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := tm.Begin(ctx)
	require.NoError(t, err)

	rows := []map[string]interface{}{
		{"year": 2020.0, "dollars_per_mw": 1.5},
		{"year": 2021.0, "dollars_per_mw": nil},
	}
	affected, err := tx.ExecuteUpdate(ctx, &rows, "CREATE", "wind_capex_data", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	require.NoError(t, tm.Commit(tx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RollbackOnFailure(t *testing.T) {
	conn, mock := setupGormMock(t)
	tm := gormadapter.NewGormTransactionManager(&staticResolver{conn: conn}, "sink")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `wind_capex_data`").WillReturnError(errors.New("Error 1146: Table 'db.wind_capex_data' doesn't exist"))
	mock.ExpectRollback()

	ctx := context.Background()
	tx, err := tm.Begin(ctx)
	require.NoError(t, err)

	rows := []map[string]interface{}{{"year": 2020.0}}
	_, err = tx.ExecuteUpdate(ctx, &rows, "CREATE", "wind_capex_data", nil)
	require.Error(t, err)
	assert.True(t, conn.IsTableNotExistError(err))

	require.NoError(t, tm.Rollback(tx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_ResolveFailure(t *testing.T) {
	tm := gormadapter.NewGormTransactionManager(&staticResolver{err: errors.New("down")}, "sink")
	_, err := tm.Begin(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink")
}

func TestExecuteUpdate_UnsupportedOperation(t *testing.T) {
	conn, _ := setupGormMock(t)
	_, err := conn.ExecuteUpdate(context.Background(), &map[string]interface{}{}, "MERGE", "wind_capex_data", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported update operation")
}

func TestGetDialectorFactory_Unregistered(t *testing.T) {
	_, err := gormadapter.GetDialectorFactory("oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}
