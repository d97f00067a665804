package cache

import (
	"context"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultMaxItems = 1000
	DefaultTTL      = 15 * time.Minute
)

// MemoryCache is a size-bounded LRU whose entries expire after a fixed TTL.
type MemoryCache struct {
	lru   *expirable.LRU[string, []byte]
	stats counters
}

// NewMemoryCache creates an in-process cache. Non-positive arguments select
// the defaults.
func NewMemoryCache(maxItems int, ttl time.Duration) *MemoryCache {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{lru: expirable.NewLRU[string, []byte](maxItems, nil, ttl)}
}

// Get returns a copy of the stored value.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.lru.Get(key)
	m.stats.record(ok)
	if !ok {
		return nil, false
	}
	return slices.Clone(v), true
}

// Set stores a copy of value.
func (m *MemoryCache) Set(_ context.Context, key string, value []byte) {
	m.lru.Add(key, slices.Clone(value))
}

// Len returns the number of live entries.
func (m *MemoryCache) Len() int {
	return m.lru.Len()
}

// Purge drops every entry.
func (m *MemoryCache) Purge() {
	m.lru.Purge()
}

func (m *MemoryCache) Stats() Stats {
	return m.stats.snapshot()
}
