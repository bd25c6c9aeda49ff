package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiry
}

// Memory is an in-process Store guarded by a RWMutex.
type Memory[V any] struct {
	mu           sync.RWMutex
	entries      map[string]memoryEntry[V]
	ttl          time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

// MemoryOption configures a Memory store.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	ttl          time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

// WithTTL sets how long entries live. Zero (the default) keeps entries forever.
func WithTTL(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.ttl = d }
}

// WithCleanupEvery sets the janitor interval used by StartJanitor.
func WithCleanupEvery(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.cleanupEvery = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *memoryConfig) { c.now = now }
}

// NewMemory creates an empty in-memory store.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	cfg := memoryConfig{cleanupEvery: 10 * time.Minute, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Memory[V]{
		entries:      make(map[string]memoryEntry[V]),
		ttl:          cfg.ttl,
		cleanupEvery: cfg.cleanupEvery,
		now:          cfg.now,
	}
}

// Get implements Store.
func (m *Memory[V]) Get(_ context.Context, key string) (V, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok || m.expired(entry) {
		var zero V
		return zero, false, nil
	}
	return entry.value, true, nil
}

// Set implements Store.
func (m *Memory[V]) Set(_ context.Context, key string, value V) error {
	entry := memoryEntry[V]{value: value}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry
	return nil
}

// Clear implements Store.
func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry[V])
	return nil
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Cleanup removes expired entries.
func (m *Memory[V]) Cleanup() {
	if m.ttl <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for k, entry := range m.entries {
		if m.expired(entry) {
			delete(m.entries, k)
		}
	}
}

// StartJanitor sweeps expired entries periodically until ctx is done.
// It does nothing when entries never expire.
func (m *Memory[V]) StartJanitor(ctx context.Context) {
	if m.ttl <= 0 || m.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(m.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.Cleanup()
			}
		}
	}()
}

func (m *Memory[V]) expired(entry memoryEntry[V]) bool {
	return !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt)
}

var _ Store[string] = (*Memory[string])(nil)
