// Package cache provides concurrent key/value stores used to memoize lookups.
// This is part of the platform layer and contains no business logic.
package cache

import "context"

// Store is a concurrency-safe key/value cache.
// Implementations must allow concurrent Get and Set from independent requests.
type Store[V any] interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (V, bool, error)
	// Set stores value under key, replacing any previous entry.
	Set(ctx context.Context, key string, value V) error
	// Clear removes every entry owned by the store.
	Clear(ctx context.Context) error
}
