// Package adapter defines the contracts shared by every external resource connection
// (databases, object storage, HTTP sources).
package adapter

import "context"

// ResourceConnection represents a generic connection to any resource.
type ResourceConnection interface {
	// Close releases the connection.
	Close() error
	// Type returns the kind of the resource (e.g., "postgres", "gcs", "local").
	Type() string
	// Name returns the configured connection name (e.g., "sink", "exports").
	Name() string
}

// ResourceConnectionResolver resolves a named connection, re-establishing it if necessary.
type ResourceConnectionResolver interface {
	ResolveConnection(ctx context.Context, name string) (ResourceConnection, error)
}
