// Package dedupe tracks file names already counted within a single scan.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen file names so each distinct name is counted once.
type Deduper interface {
	// SeenAndRecord atomically checks if name was seen and records it if not.
	// Returns true if name was already seen, false if it was newly recorded.
	// Submission folders routinely hold the same upload twice, and the same
	// file name can appear in more than one subfolder; only the first
	// occurrence may score.
	SeenAndRecord(ctx context.Context, name string) bool

	Size() int64
}

// inMemorySeen implements Deduper with a plain map guarded by a mutex.
// A fresh instance is created for every scan, so it never evicts: dropping
// a recorded name would let a duplicate upload score twice.
type inMemorySeen struct {
	mu           sync.Mutex
	seen         map[string]struct{}
	capacityHint int
	size         atomic.Int64
}

// NewInMemoryDeduper creates a deduper scoped to one scan.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemorySeen{
		capacityHint: defaultCapacityHint,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{}, d.capacityHint)

	return d
}

// SeenAndRecord atomically checks if name was seen and records it if not.
// Returns true if name was already seen, false if it was newly recorded.
func (d *inMemorySeen) SeenAndRecord(ctx context.Context, name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[name]; exists {
		return true
	}

	d.seen[name] = struct{}{}
	d.size.Add(1)
	return false
}

// Size returns the number of distinct names recorded so far.
func (d *inMemorySeen) Size() int64 {
	return d.size.Load()
}
