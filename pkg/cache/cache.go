// Package cache provides byte-level caching for extracted graphs and
// computed layouts, with file, Redis, and null backends.
//
// Extraction and layout are pure functions, so cached entries never go
// stale for a given key; keys hash the full input (schema bytes plus
// options), and TTLs only bound disk or Redis growth.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GraphKey builds the cache key for an extracted graph: the schema
// content hash plus every option that shapes the output.
func GraphKey(schemaHash string, erdView bool, filter string) string {
	return hashKey("graph", schemaHash, erdView, filter)
}

// LayoutKey builds the cache key for a computed layout.
func LayoutKey(graphHash string, mode string) string {
	return hashKey("layout", graphHash, mode)
}
