package sqlcraft

import (
	"context"
	"time"
)

// Cache is the interface for caching row-returning execution results.
// Users may implement this interface with their preferred caching solution
// (e.g., Redis, Memcached, in-memory). The sandbox package ships an
// in-memory implementation.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}
