// Package object defines the blob storage abstraction used for uploaded
// resume files and generated documents.
package object

import (
	"context"
	"io"
)

// Store persists opaque blobs and returns stable keys for later retrieval.
type Store interface {
	// Save writes the blob and returns the storage key, detected mime type
	// and number of bytes written.
	Save(ctx context.Context, name string, r io.Reader) (key string, mimeType string, size int64, err error)

	// SaveWithKey writes the blob under a caller-chosen key, overwriting any
	// previous object at that key.
	SaveWithKey(ctx context.Context, key string, r io.Reader) (mimeType string, size int64, err error)

	// Open returns a reader for the blob stored under key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
