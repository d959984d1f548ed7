// Package cache provides byte-blob caching with TTL for computed
// layouts and rendered artifacts.
//
// Three backends are provided:
//   - FileCache: directory-based cache for CLI usage
//   - RedisCache: shared cache for server deployments
//   - NullCache: no-op cache for tests or --no-cache runs
//
// All backends store opaque bytes; callers serialize with pkg/graph.
// Keys should be built with the key helpers in this package so that a
// tree edit or a different collapsed set never hits a stale entry.
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
//
// Get returns (nil, false, nil) on a miss; an expired or corrupt entry
// is a miss, not an error. Errors are reserved for backend failures.
type Cache interface {
	// Get retrieves a value from the cache.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores it without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
