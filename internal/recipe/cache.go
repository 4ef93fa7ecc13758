package recipe

import (
	"context"
	"sync"
	"time"
)

// Cache stores recipe lists by key. Entries older than the cache's TTL are misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]Recipe, bool, error)
	Put(ctx context.Context, key string, recipes []Recipe) error
}

type memoryEntry struct {
	recipes  []Recipe
	storedAt time.Time
}

// MemoryCache keeps entries for the lifetime of the process.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryCache returns an empty cache whose entries expire after ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

// WithClock replaces the time source.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]Recipe, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false, nil
	}
	return append([]Recipe(nil), entry.recipes...), true, nil
}

func (c *MemoryCache) Put(_ context.Context, key string, recipes []Recipe) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{recipes: append([]Recipe(nil), recipes...), storedAt: c.now()}
	return nil
}
