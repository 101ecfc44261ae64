package infrastructure

import (
	"context"
	"slices"
	"sync"

	log "github.com/sirupsen/logrus"
)

type lockKey struct {
	guildID int64
	userID  int64
}

// lockEntry is a one-slot semaphore so waiters can give up when their context ends
type lockEntry struct {
	slot chan struct{}
	refs int
}

// MemoryAccountLocker serializes operations on the same account within one process.
// Entries are reference counted and dropped when nobody holds or waits on them.
type MemoryAccountLocker struct {
	mu    sync.Mutex
	locks map[lockKey]*lockEntry
}

// NewMemoryAccountLocker creates an in-process account locker
func NewMemoryAccountLocker() *MemoryAccountLocker {
	return &MemoryAccountLocker{locks: make(map[lockKey]*lockEntry)}
}

// Lock acquires every listed account of the guild in ascending user id order.
// The returned unlock func releases them and may be called more than once.
func (l *MemoryAccountLocker) Lock(ctx context.Context, guildID int64, userIDs ...int64) (func(), error) {
	ids := sortedUnique(userIDs)
	held := make([]lockKey, 0, len(ids))

	for _, id := range ids {
		key := lockKey{guildID: guildID, userID: id}
		if err := l.acquire(ctx, key); err != nil {
			l.releaseAll(held)
			return nil, err
		}
		held = append(held, key)
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"userIDs": ids,
	}).Debug("Account locks acquired")

	var once sync.Once
	return func() {
		once.Do(func() { l.releaseAll(held) })
	}, nil
}

func (l *MemoryAccountLocker) acquire(ctx context.Context, key lockKey) error {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &lockEntry{slot: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.unref(key, entry)
		return ctx.Err()
	}
}

func (l *MemoryAccountLocker) releaseAll(held []lockKey) {
	for i := len(held) - 1; i >= 0; i-- {
		l.mu.Lock()
		entry := l.locks[held[i]]
		l.mu.Unlock()

		<-entry.slot
		l.unref(held[i], entry)
	}
}

func (l *MemoryAccountLocker) unref(key lockKey, entry *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, key)
	}
}

// size reports how many accounts currently have holders or waiters
func (l *MemoryAccountLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func sortedUnique(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
