package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lumen/internal/storage"
)

// MemoryBlobStore is an in-memory storage.BlobStore. Uploaded marks a
// reference as holding bytes; the Fail* fields inject errors.
type MemoryBlobStore struct {
	mu      sync.Mutex
	objects map[string]bool
	seq     int
	Deleted []string

	FailResolve error
	FailDelete  error
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{objects: make(map[string]bool)}
}

// Upload registers a reference as uploaded and returns it.
func (s *MemoryBlobStore) Upload(storageID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageID] = true
	return storageID
}

func (s *MemoryBlobStore) GenerateUploadURL(_ context.Context) (*storage.UploadTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("00000000-0000-4000-8000-%012d", s.seq)
	return &storage.UploadTarget{
		StorageID: id,
		UploadURL: "memory://upload/" + id,
		Method:    "PUT",
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func (s *MemoryBlobStore) ResolveURL(_ context.Context, storageID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailResolve != nil {
		return "", s.FailResolve
	}
	if !s.objects[storageID] {
		return "", storage.ErrObjectNotFound
	}
	return "https://cdn.example.com/" + storageID, nil
}

func (s *MemoryBlobStore) Delete(_ context.Context, storageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete != nil {
		return s.FailDelete
	}
	delete(s.objects, storageID)
	s.Deleted = append(s.Deleted, storageID)
	return nil
}

// Has reports whether the reference currently holds bytes.
func (s *MemoryBlobStore) Has(storageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[storageID]
}
