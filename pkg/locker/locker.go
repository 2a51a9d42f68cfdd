package locker

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrLockTimeout = errors.New("lock acquire timed out")

type slot struct {
	ch   chan struct{}
	refs int
}

// KeyedLocker serializes work per key (one auction, one sweep target).
// Acquire blocks until the key's slot is free, the timeout elapses, or
// ctx is done. The returned func releases the slot and must be called
// exactly once. Slots are refcounted and evicted once no holder or
// waiter remains, so the map stays bounded by concurrent keys rather
// than by every key ever seen.
type KeyedLocker struct {
	mu    sync.Mutex
	slots map[int]*slot
}

func New() *KeyedLocker {
	return &KeyedLocker{slots: make(map[int]*slot)}
}

func (l *KeyedLocker) acquireSlot(key int) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *KeyedLocker) releaseSlot(key int, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

func (l *KeyedLocker) Acquire(ctx context.Context, key int, timeout time.Duration) (release func(), err error) {
	s := l.acquireSlot(key)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case s.ch <- struct{}{}:
		return func() {
			<-s.ch
			l.releaseSlot(key, s)
		}, nil
	case <-timer.C:
		l.releaseSlot(key, s)
		return nil, ErrLockTimeout
	case <-ctx.Done():
		l.releaseSlot(key, s)
		return nil, ctx.Err()
	}
}
