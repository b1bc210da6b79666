package application

import (
	"context"
	"io"
)

// BlobStorage is the external blob-store collaborator. Upload returns the
// public URL of the stored object; Delete of a missing object is a no-op.
type BlobStorage interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, objectPath string) error
}

// MediaUpload carries one incoming file from the HTTP layer.
type MediaUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}
