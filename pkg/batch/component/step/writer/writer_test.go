package writer_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/windcapex/pkg/batch/adapter/storage"
	storageConfig "github.com/tigerroll/windcapex/pkg/batch/adapter/storage/config"
	"github.com/tigerroll/windcapex/pkg/batch/adapter/storage/local"
	"github.com/tigerroll/windcapex/pkg/batch/component/step/writer"
	coreAdapter "github.com/tigerroll/windcapex/pkg/batch/core/adapter"
	"github.com/tigerroll/windcapex/pkg/batch/core/tx"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
	"github.com/tigerroll/windcapex/pkg/batch/test"
)

func TestSqlBulkWriter_WritesInChunks(t *testing.T) {
	m := new(test.MockTx)
	items := []map[string]interface{}{{"year": 1.0}, {"year": 2.0}, {"year": 3.0}}
	m.On("ExecuteUpdate", mock.Anything, items[0:2], "CREATE", "wind_capex_data", map[string]interface{}(nil)).Return(int64(2), nil).Once()
	m.On("ExecuteUpdate", mock.Anything, items[2:3], "CREATE", "wind_capex_data", map[string]interface{}(nil)).Return(int64(1), nil).Once()

	w := writer.NewSqlBulkWriter[map[string]interface{}]("sink", 2, "wind_capex_data")
	ctx := tx.WithTx(context.Background(), m)
	require.NoError(t, w.Open(ctx))
	require.NoError(t, w.Write(ctx, items))
	require.NoError(t, w.Close(ctx))

	m.AssertExpectations(t)
	assert.Equal(t, "wind_capex_data", w.GetResourcePath())
}

func TestSqlBulkWriter_RequiresTransaction(t *testing.T) {
	w := writer.NewSqlBulkWriter[map[string]interface{}]("sink", 10, "wind_capex_data")
	err := w.Write(context.Background(), []map[string]interface{}{{"year": 1.0}})
	require.Error(t, err)
	assert.ErrorIs(t, err, exception.ErrSink)
}

func TestSqlBulkWriter_PropagatesFailure(t *testing.T) {
	m := new(test.MockTx)
	m.On("ExecuteUpdate", mock.Anything, mock.Anything, "CREATE", "t", mock.Anything).Return(int64(0), errors.New("disk full"))

	w := writer.NewSqlBulkWriter[map[string]interface{}]("sink", 0, "t")
	err := w.Write(tx.WithTx(context.Background(), m), []map[string]interface{}{{"a": 1}})
	require.Error(t, err)
	assert.Equal(t, exception.KindSink, exception.KindOf(err))
	assert.Contains(t, err.Error(), "disk full")
}

func TestCSVAppendWriter_HeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	ctx := context.Background()

	for _, rows := range [][][]string{{{"1", "x"}}, {{"2", "y"}, {"3", ""}}} {
		w := writer.NewCSVAppendWriter(path, []string{"a", "b"})
		require.NoError(t, w.Open(ctx))
		require.NoError(t, w.Write(ctx, rows))
		require.NoError(t, w.Close(ctx))
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,x\n2,y\n3,\n", string(data))
}

func TestCSVAppendWriter_QuotesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	ctx := context.Background()

	w := writer.NewCSVAppendWriter(path, []string{"name"})
	require.NoError(t, w.Open(ctx))
	require.NoError(t, w.Write(ctx, [][]string{{"Wind, Onshore"}, {`say "hi"`}}))
	require.NoError(t, w.Close(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name\n\"Wind, Onshore\"\n\"say \"\"hi\"\"\"\n", string(data))
}

func TestCSVAppendWriter_WriteBeforeOpen(t *testing.T) {
	w := writer.NewCSVAppendWriter(filepath.Join(t.TempDir(), "out.csv"), []string{"a"})
	err := w.Write(context.Background(), [][]string{{"1"}})
	assert.ErrorIs(t, err, exception.ErrWrite)
}

type localResolver struct {
	conn storage.StorageConnection
}

func (r *localResolver) ResolveConnection(ctx context.Context, name string) (coreAdapter.ResourceConnection, error) {
	return r.conn, nil
}

func (r *localResolver) ResolveStorageConnection(ctx context.Context, name string) (storage.StorageConnection, error) {
	return r.conn, nil
}

type parquetRow struct {
	Year  *string  `parquet:"name=year, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Value *float64 `parquet:"name=value, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func TestParquetWriter_WritesPartitions(t *testing.T) {
	base := t.TempDir()
	conn, err := local.NewLocalAdapter(storageConfig.StorageConfig{Type: "local", BaseDir: base}, "exports")
	require.NoError(t, err)

	w, err := writer.NewParquetWriter[parquetRow](
		"export",
		writer.ParquetWriterConfig{StorageRef: "exports", OutputBaseDir: "wind"},
		&localResolver{conn: conn},
		new(parquetRow),
		func(r parquetRow) (string, error) { return "year=" + *r.Year, nil },
		func(string) string { return "part.parquet" },
	)
	require.NoError(t, err)

	y20, y21, v := "2020", "2021", 1.5
	ctx := context.Background()
	require.NoError(t, w.Open(ctx))
	require.NoError(t, w.Write(ctx, []parquetRow{{Year: &y21, Value: &v}, {Year: &y20}, {Year: &y21}}))
	require.NoError(t, w.Close(ctx))

	assert.Equal(t, []string{"wind/year=2020/part.parquet", "wind/year=2021/part.parquet"}, w.Uploaded())
	for _, name := range w.Uploaded() {
		data, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(name)))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("PAR1")))
		assert.True(t, bytes.HasSuffix(data, []byte("PAR1")))
	}
}

func TestParquetWriter_NothingBuffered(t *testing.T) {
	conn, err := local.NewLocalAdapter(storageConfig.StorageConfig{Type: "local", BaseDir: t.TempDir()}, "exports")
	require.NoError(t, err)

	w, err := writer.NewParquetWriter[parquetRow]("export", writer.ParquetWriterConfig{StorageRef: "exports"},
		&localResolver{conn: conn}, new(parquetRow), func(parquetRow) (string, error) { return "p", nil }, nil)
	require.NoError(t, err)
	require.NoError(t, w.Open(context.Background()))
	require.NoError(t, w.Close(context.Background()))
	assert.Empty(t, w.Uploaded())
}

func TestNewParquetWriter_Validation(t *testing.T) {
	_, err := writer.NewParquetWriter[parquetRow]("export", writer.ParquetWriterConfig{}, nil, new(parquetRow), nil, nil)
	assert.ErrorIs(t, err, exception.ErrConfig)

	_, err = writer.NewParquetWriter[parquetRow]("export", writer.ParquetWriterConfig{StorageRef: "x", CompressionType: "LZMA"}, nil, new(parquetRow), nil, nil)
	assert.ErrorIs(t, err, exception.ErrConfig)
}
