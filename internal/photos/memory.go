package photos

import (
	"context"
	"io"
	"sync"
)

// MemoryBlobStore keeps uploaded blobs in memory for tests and local dev.
type MemoryBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	types map[string]string
}

// NewMemoryBlobStore constructs an empty MemoryBlobStore.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		blobs: make(map[string][]byte),
		types: make(map[string]string),
	}
}

// Upload implements BlobStore.
func (s *MemoryBlobStore) Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[path] = data
	s.types[path] = contentType
	return "memory://" + path, nil
}

// Blob returns the stored bytes and content type for path.
func (s *MemoryBlobStore) Blob(path string) ([]byte, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[path]
	return data, s.types[path], ok
}
