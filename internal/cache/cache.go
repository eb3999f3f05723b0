// Package cache memoizes generated results keyed by a normalized request
// fingerprint. Entries outlive their TTL so callers can serve stale data when
// regeneration fails.
package cache

import "context"

type Cache interface {
	// Get returns the stored value. stale reports whether the entry's TTL has
	// elapsed; ok reports whether any entry exists at all.
	Get(ctx context.Context, key string) (value []byte, stale bool, ok bool)

	// Set stores value and resets the entry's freshness clock.
	Set(ctx context.Context, key string, value []byte)

	// Invalidate removes the entry unconditionally.
	Invalidate(ctx context.Context, key string)
}
