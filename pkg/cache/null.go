package cache

import (
	"context"
	"time"
)

// NullCache discards every write and misses every read. It backs the
// CLI's --no-cache flag and runners constructed without a cache, so
// pipeline code can talk to the Cache interface unconditionally: every
// layout and render request simply recomputes.
type NullCache struct{}

// NewNullCache returns a cache that never stores anything.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get reports a miss for every key.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set drops the entry.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete succeeds without effect; there is nothing to remove.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close has no resources to release.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
