// Package gcs provides a Google Cloud Storage implementation of the storage adapter interfaces.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	storageAdapter "github.com/tigerroll/windcapex/pkg/batch/adapter/storage"
	storageConfig "github.com/tigerroll/windcapex/pkg/batch/adapter/storage/config"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/logger"
)

// ProviderType is the storage type handled by this package.
const ProviderType = "gcs"

type gcsAdapter struct {
	client *storage.Client
	cfg    storageConfig.StorageConfig
	name   string
}

var _ storageAdapter.StorageConnection = (*gcsAdapter)(nil)

// ClientOptions translates cfg into client options. Without a credentials file the client
// falls back to Application Default Credentials.
func ClientOptions(cfg storageConfig.StorageConfig) []option.ClientOption {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}
	return opts
}

// NewGCSAdapter creates a client for cfg.
func NewGCSAdapter(ctx context.Context, cfg storageConfig.StorageConfig, name string) (storageAdapter.StorageConnection, error) {
	client, err := storage.NewClient(ctx, ClientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("gcs storage adapter '%s': create storage client: %w", name, err)
	}
	return &gcsAdapter{client: client, cfg: cfg, name: name}, nil
}

func (a *gcsAdapter) Close() error {
	return a.client.Close()
}

func (a *gcsAdapter) Type() string { return ProviderType }

func (a *gcsAdapter) Name() string { return a.name }

func (a *gcsAdapter) bucket(name string) (string, error) {
	if name == "" {
		name = a.cfg.BucketName
	}
	if name == "" {
		return "", fmt.Errorf("gcs storage adapter '%s': no bucket given and bucket_name not configured", a.name)
	}
	return name, nil
}

// Upload streams data into bucket/objectName. The object is committed when the writer closes.
func (a *gcsAdapter) Upload(ctx context.Context, bucket, objectName string, data io.Reader, contentType string) error {
	bucket, err := a.bucket(bucket)
	if err != nil {
		return err
	}
	w := a.client.Bucket(bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, data); err != nil {
		_ = w.Close()
		return fmt.Errorf("copy to gs://%s/%s: %w", bucket, objectName, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload gs://%s/%s: %w", bucket, objectName, err)
	}
	logger.Debugf("Uploaded gs://%s/%s (gcs adapter '%s').", bucket, objectName, a.name)
	return nil
}

// Download opens a reader on bucket/objectName.
func (a *gcsAdapter) Download(ctx context.Context, bucket, objectName string) (io.ReadCloser, error) {
	bucket, err := a.bucket(bucket)
	if err != nil {
		return nil, err
	}
	r, err := a.client.Bucket(bucket).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader gs://%s/%s: %w", bucket, objectName, err)
	}
	return r, nil
}

// ListObjects iterates the objects under prefix. Pseudo-directory placeholders are skipped.
func (a *gcsAdapter) ListObjects(ctx context.Context, bucket, prefix string, fn func(objectName string) error) error {
	bucket, err := a.bucket(bucket)
	if err != nil {
		return err
	}
	it := a.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("list gs://%s/%s: %w", bucket, prefix, err)
		}
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		if err := fn(attrs.Name); err != nil {
			return err
		}
	}
}

// DeleteObject deletes bucket/objectName, ignoring a missing object.
func (a *gcsAdapter) DeleteObject(ctx context.Context, bucket, objectName string) error {
	bucket, err := a.bucket(bucket)
	if err != nil {
		return err
	}
	err = a.client.Bucket(bucket).Object(objectName).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		logger.Warnf("Attempted to delete non-existent object gs://%s/%s.", bucket, objectName)
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete gs://%s/%s: %w", bucket, objectName, err)
	}
	return nil
}

// ParseURI splits "gs://bucket/path" into bucket and object path (possibly empty).
func ParseURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}
	trimmed := strings.TrimPrefix(uri, "gs://")
	bucket, object, _ = strings.Cut(trimmed, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no bucket): %s", uri)
	}
	return bucket, object, nil
}
