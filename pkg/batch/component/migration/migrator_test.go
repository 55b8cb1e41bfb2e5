package migration_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/windcapex/internal/schema"
	dbconfig "github.com/tigerroll/windcapex/pkg/batch/adapter/database/config"
	gormadapter "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm"
	_ "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm/sqlite"
	"github.com/tigerroll/windcapex/pkg/batch/component/migration"
)

func openSQLite(t *testing.T) *gormadapter.GormDBAdapter {
	cfg := dbconfig.DatabaseConfig{Type: "sqlite", Database: filepath.Join(t.TempDir(), "sink.db")}
	db, err := gormadapter.Open(cfg, "SILENT")
	require.NoError(t, err)
	conn, err := gormadapter.NewGormDBAdapter(db, cfg, "sink")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestMigrator_UpDownSQLite(t *testing.T) {
	conn := openSQLite(t)
	m := migration.NewMigrator(conn)
	ctx := context.Background()
	path := schema.MigrationsPath("sqlite")

	_, _, ok, err := m.Version(ctx, schema.Migrations, path, schema.MigrationsTable)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Up(ctx, schema.Migrations, path, schema.MigrationsTable))
	// A second run is a no-op.
	require.NoError(t, m.Up(ctx, schema.Migrations, path, schema.MigrationsTable))

	v, dirty, ok, err := m.Version(ctx, schema.Migrations, path, schema.MigrationsTable)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, dirty)
	assert.Equal(t, uint(schema.Version), v)

	count, err := conn.Count(ctx, schema.DefaultTableName, nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, m.Down(ctx, schema.Migrations, path, schema.MigrationsTable))
	_, err = conn.Count(ctx, schema.DefaultTableName, nil)
	require.Error(t, err)
	assert.True(t, conn.IsTableNotExistError(err))
}

func TestMigrator_UnsupportedType(t *testing.T) {
	conn := openSQLite(t)
	cfg := conn.Config()
	cfg.Type = "oracle"
	other, err := gormadapter.NewGormDBAdapter(conn.GormDB(), cfg, "other")
	require.NoError(t, err)

	err = migration.NewMigrator(other).Up(context.Background(), schema.Migrations, schema.MigrationsPath("sqlite"), schema.MigrationsTable)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}
