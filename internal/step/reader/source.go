// Package reader turns source identifiers into parsed tables. An identifier is a local file,
// a local directory (every *.csv directly inside it), an http(s) URL, or a GCS object
// gs://bucket/object; a GCS identifier ending in "/" lists the *.csv objects under it.
package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tigerroll/windcapex/internal/domain"
	storageAdapter "github.com/tigerroll/windcapex/pkg/batch/adapter/storage"
	storageConfig "github.com/tigerroll/windcapex/pkg/batch/adapter/storage/config"
	"github.com/tigerroll/windcapex/pkg/batch/adapter/storage/gcs"
	csvreader "github.com/tigerroll/windcapex/pkg/batch/component/step/reader"
	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/retry"
)

const module = "reader"

// ObjectStoreFactory returns the store used for gs:// identifiers.
type ObjectStoreFactory func(ctx context.Context) (storageAdapter.StorageExecutor, error)

// SourceResolver expands and opens source identifiers.
type SourceResolver struct {
	httpClient *http.Client
	newStore   ObjectStoreFactory
	retry      retry.RetryPolicy

	mu    sync.Mutex
	store storageAdapter.StorageExecutor
}

// NewSourceResolver creates a resolver. A nil client uses a client bounded by timeout.
func NewSourceResolver(client *http.Client, timeout time.Duration, newStore ObjectStoreFactory) *SourceResolver {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &SourceResolver{httpClient: client, newStore: newStore, retry: retry.NoRetry()}
}

// WithRetry sets the policy applied to HTTP fetches.
func (r *SourceResolver) WithRetry(p retry.RetryPolicy) *SourceResolver {
	r.retry = p
	return r
}

// NewSourceResolverFromConfig wires gs:// access to the named storage connection, or to an
// Application Default Credentials client when none is configured.
func NewSourceResolverFromConfig(cfg *config.PipelineConfig, storage storageAdapter.StorageConnectionResolver) *SourceResolver {
	factory := func(ctx context.Context) (storageAdapter.StorageExecutor, error) {
		if cfg.GCSStorageRef != "" {
			return storage.ResolveStorageConnection(ctx, cfg.GCSStorageRef)
		}
		return gcs.NewGCSAdapter(ctx, storageConfig.StorageConfig{Type: gcs.ProviderType}, "gs")
	}
	policy := retry.NewExponentialPolicy(cfg.HTTPRetries+1, httpRetryInterval, isTransientHTTP)
	return NewSourceResolver(nil, time.Duration(cfg.HTTPTimeoutSeconds)*time.Second, factory).WithRetry(policy)
}

func isHTTP(id string) bool {
	return strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://")
}

func isGCS(id string) bool {
	return strings.HasPrefix(id, "gs://")
}

func isCSVName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

func (r *SourceResolver) objectStore(ctx context.Context) (storageAdapter.StorageExecutor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.store != nil {
		return r.store, nil
	}
	if r.newStore == nil {
		return nil, fmt.Errorf("no object store configured for gs:// sources")
	}
	store, err := r.newStore(ctx)
	if err != nil {
		return nil, err
	}
	r.store = store
	return store, nil
}

// Expand replaces directory and prefix identifiers by the CSV sources they contain, sorted by
// name. Other identifiers are kept as given. An identifier that cannot be listed is kept so
// that opening it reports the failure for that source.
func (r *SourceResolver) Expand(ctx context.Context, ids []string) []string {
	var out []string
	for _, id := range ids {
		switch {
		case isHTTP(id):
			out = append(out, id)
		case isGCS(id):
			out = append(out, r.expandGCS(ctx, id)...)
		default:
			out = append(out, expandLocal(id)...)
		}
	}
	return out
}

func expandLocal(id string) []string {
	info, err := os.Stat(id)
	if err != nil || !info.IsDir() {
		return []string{id}
	}
	entries, err := os.ReadDir(id)
	if err != nil {
		logger.Warnf("Cannot list directory %s: %v", id, err)
		return []string{id}
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && isCSVName(e.Name()) {
			files = append(files, filepath.Join(id, e.Name()))
		}
	}
	if len(files) == 0 {
		logger.Warnf("Directory %s contains no CSV files.", id)
	}
	return files
}

func (r *SourceResolver) expandGCS(ctx context.Context, id string) []string {
	bucket, object, err := gcs.ParseURI(id)
	if err != nil || (object != "" && !strings.HasSuffix(object, "/")) {
		return []string{id}
	}
	store, err := r.objectStore(ctx)
	if err != nil {
		logger.Warnf("Cannot list %s: %v", id, err)
		return []string{id}
	}

	var names []string
	err = store.ListObjects(ctx, bucket, object, func(name string) error {
		rest := strings.TrimPrefix(name, object)
		if !strings.Contains(rest, "/") && isCSVName(rest) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		logger.Warnf("Cannot list %s: %v", id, err)
		return []string{id}
	}
	sort.Strings(names)
	if len(names) == 0 {
		logger.Warnf("%s contains no CSV objects.", id)
	}

	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "gs://" + bucket + "/" + n
	}
	return out
}

// Open returns a reader over the identifier's bytes.
func (r *SourceResolver) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	switch {
	case isHTTP(id):
		return r.openHTTP(ctx, id)
	case isGCS(id):
		bucket, object, err := gcs.ParseURI(id)
		if err != nil {
			return nil, err
		}
		store, err := r.objectStore(ctx)
		if err != nil {
			return nil, err
		}
		return store.Download(ctx, bucket, object)
	default:
		return os.Open(id)
	}
}

// httpRetryInterval is the wait before the first repeated fetch.
const httpRetryInterval = 500 * time.Millisecond

// statusError is a non-2xx response.
type statusError struct {
	url    string
	status string
	code   int
}

func (e *statusError) Error() string { return fmt.Sprintf("GET %s: %s", e.url, e.status) }

// isTransientHTTP accepts transport failures, 429 and 5xx responses.
func isTransientHTTP(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return true
}

func (r *SourceResolver) openHTTP(ctx context.Context, url string) (io.ReadCloser, error) {
	var body io.ReadCloser
	err := retry.Do(ctx, r.retry, "GET "+url, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := r.httpClient.Do(req)
		if err != nil {
			return err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return &statusError{url: url, status: resp.Status, code: resp.StatusCode}
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// ReadTable opens and parses the identifier. Failures are KindRead errors.
func (r *SourceResolver) ReadTable(ctx context.Context, id string) (*domain.RawTable, error) {
	rc, err := r.Open(ctx, id)
	if err != nil {
		return nil, exception.NewBatchErrorf(module, exception.KindRead, "cannot open %s", id, err)
	}
	defer rc.Close()
	return ReadTable(ctx, id, rc)
}

// ReadTable parses CSV from src.
func ReadTable(ctx context.Context, name string, src io.Reader) (*domain.RawTable, error) {
	header, rows, err := csvreader.ReadAll(ctx, name, src)
	if err != nil {
		return nil, exception.NewBatchErrorf(module, exception.KindRead, "cannot parse %s", name, err)
	}
	return domain.NewRawTable(name, header, rows), nil
}
