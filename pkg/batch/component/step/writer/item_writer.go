// Package writer provides item writers that persist chunks of items to files, object storage
// and relational databases.
package writer

import "context"

// ItemWriter writes items to one destination. Open is called once before the first Write and
// Close once after the last one, also when a Write failed.
type ItemWriter[T any] interface {
	Open(ctx context.Context) error
	Write(ctx context.Context, items []T) error
	Close(ctx context.Context) error
	// GetTargetResourceName names the destination (file, connection or storage reference).
	GetTargetResourceName() string
	// GetResourcePath locates the written data inside the destination.
	GetResourcePath() string
}
