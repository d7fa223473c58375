package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is the key/value store used for check-result fingerprinting and
// consensus percentage caching. Implementations must be safe for concurrent
// use; failures must degrade to a miss, never an error that blocks a check.
type Cache interface {
	// Get returns the value for key, or false when absent or expired
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores value under key for the given TTL. A zero TTL means the
	// entry never expires.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)

	// Delete removes an entry
	Delete(ctx context.Context, key string)
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Memory is an in-process Cache with lazy expiry
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry)}
}

// Get returns the cached value for key if present and unexpired
func (m *Memory) Get(ctx context.Context, key string) (interface{}, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock: another Set may have replaced it
		if cur, ok := m.entries[key]; ok && !cur.expiresAt.IsZero() && time.Now().After(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores value under key with the given TTL
func (m *Memory) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
}

// Delete removes an entry
func (m *Memory) Delete(ctx context.Context, key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// Len reports the number of live entries, counting expired ones not yet
// evicted
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
