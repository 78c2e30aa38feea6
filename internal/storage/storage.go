package storage

import (
	"context"
	"io"
	"time"
)

// Package storage contains the blob store abstraction for original uploads
// and their derived thumbnail artifacts. Implementations must rely on
// streaming I/O only; nothing is spooled to local disk.

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a byte-addressable blob store client interface.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}

// DerivedKey returns the key of a derived artifact for the given original
// key and size suffix, e.g. "files/abc" + "500" -> "files/abc_500".
func DerivedKey(key, size string) string {
	return key + "_" + size
}
