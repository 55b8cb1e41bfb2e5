// Package storage defines the contracts shared by the object storage adapters
// (local file system and Google Cloud Storage).
package storage

import (
	"context"
	"io"

	coreAdapter "github.com/tigerroll/windcapex/pkg/batch/core/adapter"
)

// StorageExecutor defines the object operations every backend supports.
type StorageExecutor interface {
	// Upload writes data to bucket/objectName, replacing any existing object.
	Upload(ctx context.Context, bucket, objectName string, data io.Reader, contentType string) error
	// Download opens bucket/objectName. The caller closes the reader.
	Download(ctx context.Context, bucket, objectName string) (io.ReadCloser, error)
	// ListObjects calls fn for every object under prefix, in lexical order.
	ListObjects(ctx context.Context, bucket, prefix string, fn func(objectName string) error) error
	// DeleteObject removes bucket/objectName. A missing object is not an error.
	DeleteObject(ctx context.Context, bucket, objectName string) error
}

// StorageConnection is a named, closable StorageExecutor.
type StorageConnection interface {
	coreAdapter.ResourceConnection
	StorageExecutor
}

// StorageProvider opens and caches connections of a single backend type.
type StorageProvider interface {
	GetConnection(name string) (StorageConnection, error)
	CloseAll() error
	// Type returns the backend handled by this provider ("local", "gcs").
	Type() string
	ForceReconnect(name string) (StorageConnection, error)
}

// StorageConnectionResolver resolves named connections across providers.
type StorageConnectionResolver interface {
	coreAdapter.ResourceConnectionResolver
	ResolveStorageConnection(ctx context.Context, name string) (StorageConnection, error)
}
