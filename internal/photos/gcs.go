package photos

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCSBlobStore backs BlobStore with a Cloud Storage bucket.
type GCSBlobStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

// NewGCSBlobStore wraps an existing storage client.
func NewGCSBlobStore(client *storage.Client, bucketName string) *GCSBlobStore {
	return &GCSBlobStore{bucket: client.Bucket(bucketName), bucketName: bucketName}
}

// Upload writes the object and returns its public URL.
func (s *GCSBlobStore) Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error) {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("write object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object %s: %w", path, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, path), nil
}
