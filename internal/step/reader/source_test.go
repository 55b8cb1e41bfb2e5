package reader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storageAdapter "github.com/tigerroll/windcapex/pkg/batch/adapter/storage"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/retry"
)

type fakeStore struct {
	objects map[string]string // "bucket/name" -> content
}

func (s *fakeStore) Upload(ctx context.Context, bucket, objectName string, data io.Reader, contentType string) error {
	b, err := io.ReadAll(data)
	s.objects[bucket+"/"+objectName] = string(b)
	return err
}

func (s *fakeStore) Download(ctx context.Context, bucket, objectName string) (io.ReadCloser, error) {
	content, ok := s.objects[bucket+"/"+objectName]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func (s *fakeStore) ListObjects(ctx context.Context, bucket, prefix string, fn func(objectName string) error) error {
	for key := range s.objects {
		name := strings.TrimPrefix(key, bucket+"/")
		if name != key && strings.HasPrefix(name, prefix) {
			if err := fn(name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *fakeStore) DeleteObject(ctx context.Context, bucket, objectName string) error {
	delete(s.objects, bucket+"/"+objectName)
	return nil
}

func storeFactory(s *fakeStore) ObjectStoreFactory {
	return func(ctx context.Context) (storageAdapter.StorageExecutor, error) { return s, nil }
}

func TestExpand_LocalDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.CSV", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	r := NewSourceResolver(nil, 0, nil)
	got := r.Expand(context.Background(), []string{dir, "missing.csv", "https://example.com/a.csv"})
	assert.Equal(t, []string{
		filepath.Join(dir, "a.CSV"),
		filepath.Join(dir, "b.csv"),
		"missing.csv",
		"https://example.com/a.csv",
	}, got)
}

func TestExpand_GCSPrefix(t *testing.T) {
	store := &fakeStore{objects: map[string]string{
		"raw/wind/q2.csv":     "a\n",
		"raw/wind/q1.csv":     "a\n",
		"raw/wind/old/q0.csv": "a\n",
		"raw/wind/readme.md":  "a\n",
		"other/wind/q9.csv":   "a\n",
	}}
	r := NewSourceResolver(nil, 0, storeFactory(store))
	got := r.Expand(context.Background(), []string{"gs://raw/wind/", "gs://raw/wind/q1.csv"})
	assert.Equal(t, []string{"gs://raw/wind/q1.csv", "gs://raw/wind/q2.csv", "gs://raw/wind/q1.csv"}, got)
}

func TestReadTable_GCS(t *testing.T) {
	store := &fakeStore{objects: map[string]string{"raw/rates.csv": "year,rate_multiplier\n2022,0.92\n"}}
	r := NewSourceResolver(nil, 0, storeFactory(store))
	tbl, err := r.ReadTable(context.Background(), "gs://raw/rates.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"year", "rate_multiplier"}, tbl.Header)
	assert.Equal(t, "0.92", tbl.Cell(0, "rate_multiplier"))
}

func TestReadTable_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/sample.csv" {
			http.NotFound(w, req)
			return
		}
		_, _ = io.WriteString(w, "series_info_id,date\n1,2022Q3\n")
	}))
	defer srv.Close()

	r := NewSourceResolver(srv.Client(), 0, nil)
	tbl, err := r.ReadTable(context.Background(), srv.URL+"/sample.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, "2022Q3", tbl.Cell(0, "date"))

	_, err = r.ReadTable(context.Background(), srv.URL+"/missing.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, exception.ErrRead))
	assert.Contains(t, err.Error(), "404")
}

func TestReadTable_HTTPRetriesTransientStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch {
		case req.URL.Path == "/gone.csv":
			atomic.AddInt32(&calls, 1)
			http.NotFound(w, req)
		case atomic.AddInt32(&calls, 1) < 3:
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			_, _ = io.WriteString(w, "year,rate_multiplier\n2022,0.92\n")
		}
	}))
	defer srv.Close()

	r := NewSourceResolver(srv.Client(), 0, nil).
		WithRetry(retry.NewExponentialPolicy(3, time.Millisecond, isTransientHTTP))
	tbl, err := r.ReadTable(context.Background(), srv.URL+"/rates.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	// A 404 is not retried.
	atomic.StoreInt32(&calls, 0)
	_, err = r.ReadTable(context.Background(), srv.URL+"/gone.csv")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIsTransientHTTP(t *testing.T) {
	assert.True(t, isTransientHTTP(errors.New("connection reset by peer")))
	assert.True(t, isTransientHTTP(&statusError{code: http.StatusBadGateway}))
	assert.True(t, isTransientHTTP(&statusError{code: http.StatusTooManyRequests}))
	assert.False(t, isTransientHTTP(&statusError{code: http.StatusForbidden}))
	assert.False(t, isTransientHTTP(context.Canceled))
}

func TestReadTable_LocalErrors(t *testing.T) {
	r := NewSourceResolver(nil, 0, nil)
	_, err := r.ReadTable(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, exception.ErrRead))

	empty := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = r.ReadTable(context.Background(), empty)
	require.Error(t, err)
	assert.True(t, errors.Is(err, exception.ErrRead))

	_, err = r.ReadTable(context.Background(), "gs://bucket/x.csv")
	assert.Error(t, err, "no object store configured")
}
