// Package storage provides pluggable object storage for extracted
// assets, with local filesystem, Amazon S3 and Google Cloud Storage
// backends behind one Provider interface.
package storage

import (
	"context"
	"io"
)

// Provider is the interface all storage backends implement. Keys are
// caller-supplied object paths such as
// presentations/{presentationId}/assets/{assetId}-{filename}.
type Provider interface {
	// Initialize sets up the provider with backend-specific configuration.
	Initialize(config map[string]string) error

	// Store writes an object under the given key, overwriting any
	// previous object at that key.
	Store(ctx context.Context, key string, content io.Reader, size int64, metadata map[string]string) error

	// Retrieve opens the object stored under the key.
	Retrieve(ctx context.Context, key string) (io.ReadCloser, map[string]string, error)

	// Delete removes the object stored under the key.
	Delete(ctx context.Context, key string) error

	// List returns objects whose keys start with the prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// SignedURL returns a pre-signed URL granting temporary access to
	// the object. Operation is "read" or "write".
	SignedURL(ctx context.Context, key string, expiryMinutes int, operation string) (string, error)
}

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key         string
	Name        string
	Size        int64
	ContentType string
	ModifiedAt  int64
	Metadata    map[string]string
}
