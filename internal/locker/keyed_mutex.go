package locker

import (
	"context"
	"sync"
	"time"
)

// KeyedMutex is the in-process Locker used when a single service instance
// owns the order store. Each key gets its own one-slot channel; contention
// stays scoped to a single order and never blocks other keys.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{slots: make(map[string]chan struct{})}
}

// Acquire takes the slot for key, waiting at most `wait`.
func (m *KeyedMutex) Acquire(ctx context.Context, key string, wait time.Duration) (func(), error) {
	slot := m.slot(key)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case slot <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() { <-slot })
		}, nil
	case <-timer.C:
		return nil, ErrLockBusy
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *KeyedMutex) slot(key string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		m.slots[key] = slot
	}
	return slot
}
