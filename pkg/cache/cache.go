// Package cache stores rendered artifacts between runs.
//
// Rendering is the only expensive step of a run, and a seeded generation
// reproduces the same description, so artifacts are cached by the content
// hash of the description plus the output format.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.ArtifactKey(cache.Hash(descJSON), "svg")
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    // reuse data
//	}
//
// [NullCache] disables caching without changing call sites.
package cache

import (
	"context"
	"time"
)

// DefaultArtifactTTL is how long rendered artifacts stay valid.
const DefaultArtifactTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the cached value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
