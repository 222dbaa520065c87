package runlock

import (
	"context"
	"sync"

	"github.com/yanqian/dailyreport/internal/domain/dailyreport"
)

// LocalLock serializes runs inside one process.
type LocalLock struct {
	mu sync.Mutex
}

// NewLocalLock constructs the lock.
func NewLocalLock() *LocalLock {
	return &LocalLock{}
}

// Acquire implements dailyreport.RunLock without blocking.
func (l *LocalLock) Acquire(_ context.Context) (func(context.Context) error, error) {
	if !l.mu.TryLock() {
		return nil, dailyreport.ErrLockHeld
	}
	var once sync.Once
	return func(context.Context) error {
		once.Do(l.mu.Unlock)
		return nil
	}, nil
}

var _ dailyreport.RunLock = (*LocalLock)(nil)
