// Package memo provides a small TTL cache for lookup results.
package memo

import "time"

// defaultTTL matches the lookup refresh cadence of the dashboards the
// cache fronts.
const defaultTTL = time.Hour

// Option applies a configuration option to the cache.
type Option func(*inMemoryCache)

// WithTTL sets the shared entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *inMemoryCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock sets the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *inMemoryCache) {
		if now != nil {
			c.now = now
		}
	}
}
