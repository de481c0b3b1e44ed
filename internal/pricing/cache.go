package pricing

import (
	"context"
	"sync"
	"time"
)

// Cache is the optional price cache capability. Implementations must be
// best-effort: a broken backing store reports a miss, never an error, so
// callers always have the uncached path.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
}

type cacheEntry struct {
	value     interface{}
	expiresAt time.Time
}

// MemoryCache is an in-process Cache with per-entry expiry.
// Last writer wins; entries are bounded by their TTL.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	m.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
}

// NopCache always misses. Used when caching is disabled; its absence is
// invisible to callers beyond extra upstream calls.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (interface{}, bool) { return nil, false }

func (NopCache) Set(context.Context, string, interface{}, time.Duration) {}
