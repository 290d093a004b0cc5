package cache

import (
	"context"
	"encoding/json"
	"errors"
)

// Common cache storage errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrInvalidKey = errors.New("cache key cannot be empty")
)

// Store is the pluggable storage backend contract. Any conforming
// implementation can back the memoization wrapper; FileStore and MemoryStore
// are the two shipped here.
//
// Get returns ErrNotFound for keys with no retrievable entry. Implementations
// must keep read failures local (treat as a miss, repair internal state) and
// only surface errors from the write paths.
type Store interface {
	// Get returns the entry for key, or ErrNotFound.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set stores value under key, stamping the entry with the current time.
	// Any existing entry for key is overwritten unconditionally.
	Set(ctx context.Context, key string, value json.RawMessage) error

	// Delete removes the entry for key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Size returns the number of keys currently known to the store.
	Size(ctx context.Context) (int, error)
}
