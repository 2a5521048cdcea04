package lock

import (
	"context"
	"sync"
)

// MemoryLocker is an in-process keyed mutex. Entries are reference counted
// and removed once no caller holds or waits for them.
type MemoryLocker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

// NewMemoryLocker creates a new MemoryLocker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{entries: make(map[string]*entry)}
}

// Lock acquires all keys in ascending order. If ctx is cancelled while
// waiting, keys acquired so far are released and ctx.Err() is returned.
func (l *MemoryLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	ordered := orderKeys(keys)
	held := make([]string, 0, len(ordered))

	for _, key := range ordered {
		e := l.acquireRef(key)
		select {
		case e.sem <- struct{}{}:
			held = append(held, key)
		case <-ctx.Done():
			l.releaseRef(key)
			l.unlock(held)
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.unlock(held) })
	}, nil
}

func (l *MemoryLocker) unlock(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		l.mu.Lock()
		e := l.entries[keys[i]]
		l.mu.Unlock()
		<-e.sem
		l.releaseRef(keys[i])
	}
}

func (l *MemoryLocker) acquireRef(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *MemoryLocker) releaseRef(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// Size returns the number of keys currently held or awaited
func (l *MemoryLocker) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
