package filestorage

import (
	"context"
	"io"
)

// FileInfo represents information about a stored file
type FileInfo struct {
	Key         string // Generated storage key
	Filename    string // Original (display) filename
	FileSize    int64  // Size in bytes
	ContentType string // Detected MIME type
}

// FileStorage defines the interface for document storage backends
type FileStorage interface {
	// Save stores the content of r under key, replacing any existing object
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Open returns the content stored under key; apperrors.ErrFileNotFound if absent
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object; a missing object is not an error
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored under key
	Exists(ctx context.Context, key string) (bool, error)
}
