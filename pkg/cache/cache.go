// Package cache provides a content-addressed store for computed layouts.
//
// Laying out a large diagram is deterministic, so the result of a run is
// fully determined by the diagram bytes and the engine configuration.
// The CLI uses this package to skip recomputation when the same inputs
// are laid out again.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte blobs under string keys.
type Cache interface {
	// Get retrieves a value. The second return value reports whether
	// the key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// NullCache discards every write and misses every read. The layout
// command uses it when no cache directory is configured, so callers
// can treat caching as always present.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
