package storage

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// keyLocks hands out one weight-1 semaphore per key so read-modify-write
// cycles on the same key never interleave.
type keyLocks struct {
	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

func newKeyLocks() *keyLocks {
	return &keyLocks{sems: make(map[string]*semaphore.Weighted)}
}

func (l *keyLocks) acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	sem, ok := l.sems[key]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.sems[key] = sem
	}
	l.mu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { sem.Release(1) }, nil
}
