package adapter

import (
	"context"
	"io"
)

// BlobStore persists course media (videos, thumbnails) under opaque object keys.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
}
