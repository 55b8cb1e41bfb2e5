package local_test

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storageAdapter "github.com/tigerroll/windcapex/pkg/batch/adapter/storage"
	storageConfig "github.com/tigerroll/windcapex/pkg/batch/adapter/storage/config"
	"github.com/tigerroll/windcapex/pkg/batch/adapter/storage/local"
	"github.com/tigerroll/windcapex/pkg/batch/core/config"
)

func TestLocalAdapter_UploadDownloadList(t *testing.T) {
	base := t.TempDir()
	conn, err := local.NewLocalAdapter(storageConfig.StorageConfig{Type: "local", BaseDir: base}, "exports")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, conn.Upload(ctx, "", "wind/dt=2024-01-02/b.csv", strings.NewReader("b"), "text/csv"))
	require.NoError(t, conn.Upload(ctx, "", "wind/dt=2024-01-02/a.csv", strings.NewReader("a"), "text/csv"))
	require.NoError(t, conn.Upload(ctx, "", "other/c.csv", strings.NewReader("c"), "text/csv"))
	assert.FileExists(t, filepath.Join(base, "wind", "dt=2024-01-02", "a.csv"))

	rc, err := conn.Download(ctx, "", "wind/dt=2024-01-02/a.csv")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "a", string(data))

	var names []string
	err = conn.ListObjects(ctx, "", "wind/", func(name string) error {
		names = append(names, name)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"wind/dt=2024-01-02/a.csv", "wind/dt=2024-01-02/b.csv"}, names)

	require.NoError(t, conn.DeleteObject(ctx, "", "other/c.csv"))
	require.NoError(t, conn.DeleteObject(ctx, "", "other/c.csv"))
	assert.NoFileExists(t, filepath.Join(base, "other", "c.csv"))
}

func TestLocalAdapter_RejectsEscape(t *testing.T) {
	conn, err := local.NewLocalAdapter(storageConfig.StorageConfig{Type: "local", BaseDir: t.TempDir()}, "exports")
	require.NoError(t, err)

	err = conn.Upload(context.Background(), "", "../escape.csv", strings.NewReader("x"), "text/csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside of base_dir")
}

func TestLocalAdapter_RequiresBaseDir(t *testing.T) {
	_, err := local.NewLocalAdapter(storageConfig.StorageConfig{Type: "local"}, "exports")
	assert.Error(t, err)
}

func TestConnectionResolver_DispatchesByType(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Windcapex.Adapter.Storage = map[string]interface{}{
		"exports": map[string]interface{}{"type": "local", "base_dir": t.TempDir()},
		"lake":    map[string]interface{}{"type": "s3"},
	}
	resolver := storageAdapter.NewConnectionResolver([]storageAdapter.StorageProvider{local.NewLocalProvider(cfg)}, cfg)
	ctx := context.Background()

	conn, err := resolver.ResolveStorageConnection(ctx, "exports")
	require.NoError(t, err)
	assert.Equal(t, "local", conn.Type())
	assert.Equal(t, "exports", conn.Name())

	again, err := resolver.ResolveStorageConnection(ctx, "exports")
	require.NoError(t, err)
	assert.Same(t, conn, again)

	_, err = resolver.ResolveStorageConnection(ctx, "lake")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no storage provider found for type 's3'")

	_, err = resolver.ResolveStorageConnection(ctx, "missing")
	require.Error(t, err)

	assert.NoError(t, resolver.CloseAll())
}
