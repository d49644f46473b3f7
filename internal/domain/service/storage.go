package service

import (
	"context"
	"io"
)

// StoredFile describes an uploaded object.
type StoredFile struct {
	Key string // object key inside the bucket, kept for later deletion
	URL string // public URL served to clients
}

// FileStorage defines the interface for storing uploaded binary content
// (product images, avatars) in a blob bucket.
type FileStorage interface {
	// Store writes the content under a generated key derived from the given
	// name hint and returns the stored object's key and public URL.
	Store(ctx context.Context, nameHint, contentType string, content io.Reader) (*StoredFile, error)

	// Delete removes a previously stored object by key.
	Delete(ctx context.Context, key string) error
}
