package blobstore

import (
	"context"
	"sync"

	"github.com/yanqian/dailyreport/internal/domain/dailyreport"
)

// MemoryStorage keeps blobs in memory. Useful for tests and local runs.
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStorage constructs storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string][]byte)}
}

// Get returns a copy of the stored blob.
func (s *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, dailyreport.ErrBlobNotFound
	}
	return append([]byte(nil), data...), nil
}

// Put replaces the blob.
func (s *MemoryStorage) Put(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	return nil
}

var _ dailyreport.BlobStorage = (*MemoryStorage)(nil)
