// Package gcs adapts Google Cloud Storage to the application's BlobStorage
// collaborator interface.
package gcs

import (
	"context"
	"io"

	"cloud.google.com/go/storage"

	"github.com/memoria-app/memoria/internal/application"
	"github.com/memoria-app/memoria/pkg/helpers"
)

type BlobStore struct {
	Client *storage.Client
	Bucket string
}

func NewBlobStore(client *storage.Client, bucket string) *BlobStore {
	return &BlobStore{Client: client, Bucket: bucket}
}

func (b *BlobStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, b.Client, b.Bucket, objectPath, contentType, r)
}

func (b *BlobStore) Delete(ctx context.Context, objectPath string) error {
	return helpers.DeleteObject(ctx, b.Client, b.Bucket, objectPath)
}

var _ application.BlobStorage = (*BlobStore)(nil)
