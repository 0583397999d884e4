// Package dedupe tracks file names already counted within a single scan.
package dedupe

// defaultCapacityHint matches the size of a typical classroom folder scan.
const defaultCapacityHint = 256

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemorySeen)

// WithCapacityHint pre-sizes the seen set for scans of a known magnitude.
// Hints at or below zero fall back to the default.
func WithCapacityHint(hint int) Option {
	return func(d *inMemorySeen) {
		if hint > 0 {
			d.capacityHint = hint
		}
	}
}
