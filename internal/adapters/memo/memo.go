// Package memo provides a small TTL cache for lookup results.
package memo

import (
	"context"
	"sync"
	"time"

	"github.com/xparky/portal/pkg/metrics"
)

// Cache memoizes lookup results keyed by (operation, key) until a shared
// time-to-live elapses.
type Cache interface {
	// Get returns the live value stored under (operation, key).
	Get(ctx context.Context, operation, key string) (any, bool)

	// Put stores a value under (operation, key), restarting its lifetime.
	Put(ctx context.Context, operation, key string, value any)

	// Forget drops one entry so the next Get forces a fresh lookup.
	Forget(ctx context.Context, operation, key string)

	// Flush drops every entry.
	Flush(ctx context.Context)

	// Size returns the number of stored entries, expired ones included.
	Size() int
}

// entry pairs a cached value with the time it was stored.
type entry struct {
	value    any
	storedAt time.Time
}

// inMemoryCache is a mutex-guarded map cache. Expired entries are removed
// lazily on read; reads never extend a lifetime.
type inMemoryCache struct {
	mu    sync.Mutex
	items map[cacheKey]entry
	ttl   time.Duration
	now   func() time.Time
}

// cacheKey scopes entries so operations cannot collide on a shared key.
type cacheKey struct {
	operation string
	key       string
}

// NewInMemoryCache creates a TTL cache with the default lifetime.
func NewInMemoryCache(opts ...Option) Cache {
	c := &inMemoryCache{
		items: make(map[cacheKey]entry),
		ttl:   defaultTTL,
		now:   time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the live value stored under (operation, key). An expired
// entry is removed and reported as a miss.
func (c *inMemoryCache) Get(_ context.Context, operation, key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := cacheKey{operation: operation, key: key}
	it, ok := c.items[k]
	if !ok {
		metrics.RecordCacheMiss(operation)
		return nil, false
	}
	if c.now().Sub(it.storedAt) >= c.ttl {
		delete(c.items, k)
		metrics.RecordCacheMiss(operation)
		return nil, false
	}

	metrics.RecordCacheHit(operation)
	return it.value, true
}

// Put stores a value under (operation, key), restarting its lifetime.
func (c *inMemoryCache) Put(_ context.Context, operation, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[cacheKey{operation: operation, key: key}] = entry{
		value:    value,
		storedAt: c.now(),
	}
}

// Forget drops one entry so the next Get forces a fresh lookup.
func (c *inMemoryCache) Forget(_ context.Context, operation, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, cacheKey{operation: operation, key: key})
}

// Flush drops every entry.
func (c *inMemoryCache) Flush(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[cacheKey]entry)
}

// Size returns the number of stored entries, expired ones included.
func (c *inMemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}
