package cache

import "context"

// Tiered reads the local cache first and falls back to the remote one,
// copying remote hits into the local tier. Writes go to both.
type Tiered struct {
	local  Cache
	remote Cache
	stats  counters
}

// NewTiered combines a fast local cache with a shared remote cache.
func NewTiered(local, remote Cache) *Tiered {
	return &Tiered{local: local, remote: remote}
}

func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := t.local.Get(ctx, key); ok {
		t.stats.record(true)
		return v, true
	}
	v, ok := t.remote.Get(ctx, key)
	t.stats.record(ok)
	if ok {
		t.local.Set(ctx, key, v)
	}
	return v, ok
}

func (t *Tiered) Set(ctx context.Context, key string, value []byte) {
	t.local.Set(ctx, key, value)
	t.remote.Set(ctx, key, value)
}

func (t *Tiered) Stats() Stats {
	return t.stats.snapshot()
}
