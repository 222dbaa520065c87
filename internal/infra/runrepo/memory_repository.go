package runrepo

import (
	"context"
	"sync"

	"github.com/yanqian/dailyreport/internal/domain/runs"
)

const defaultMemoryCapacity = 100

// MemoryRepository keeps the most recent run records in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	records  []runs.Record
	capacity int
}

// NewMemoryRepository constructs an in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{capacity: defaultMemoryCapacity}
}

// Save appends the record, dropping the oldest beyond capacity.
func (r *MemoryRepository) Save(_ context.Context, record runs.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	if over := len(r.records) - r.capacity; over > 0 {
		r.records = append([]runs.Record(nil), r.records[over:]...)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]runs.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.records) {
		limit = len(r.records)
	}
	out := make([]runs.Record, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}

var _ runs.Repository = (*MemoryRepository)(nil)
