package ratelimit

import (
	"context"
	"sync"
	"time"
)

// maxTrackedKeys bounds the per-process counter map. Once exceeded, expired
// entries are purged before the next unseen key is inserted. The bound is
// best-effort: a burst of distinct live keys can still push past it.
const maxTrackedKeys = 10000

type memoryEntry struct {
	count   int
	resetAt time.Time
}

// MemoryStore is a process-local CounterStore. Replicas do not share state;
// multi-instance deployments should use the Mongo-backed store instead.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok {
		if now.After(entry.resetAt) {
			entry.count = 1
			entry.resetAt = now.Add(window)
		} else {
			entry.count++
		}
		return entry.count, entry.resetAt, nil
	}

	if len(s.entries) > maxTrackedKeys {
		s.purgeExpired(now)
	}
	entry := &memoryEntry{count: 1, resetAt: now.Add(window)}
	s.entries[key] = entry
	return entry.count, entry.resetAt, nil
}

func (s *MemoryStore) purgeExpired(now time.Time) {
	for key, entry := range s.entries {
		if now.After(entry.resetAt) {
			delete(s.entries, key)
		}
	}
}
