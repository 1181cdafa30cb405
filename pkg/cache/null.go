package cache

import (
	"context"
	"time"
)

// NullCache discards writes and always misses. It backs --no-cache runs
// and is the fallback when a real backend fails to initialize, so the
// pipeline never carries a nil cache.
type NullCache struct{}

// NewNullCache returns the no-op backend.
func NewNullCache() Cache { return NullCache{} }

// Get always reports a miss.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the value.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete is a no-op; there is never anything to remove.
func (NullCache) Delete(context.Context, string) error { return nil }

// Close is a no-op.
func (NullCache) Close() error { return nil }
