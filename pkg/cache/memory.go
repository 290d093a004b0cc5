package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process Store backed by a plain map. It honors the
// same contract as FileStore minus durability, which makes it the natural
// backend for tests and short-lived processes.
//
// Safe for concurrent use by multiple goroutines.
type MemoryStore struct {
	// mu protects entries.
	mu sync.RWMutex

	// entries maps keys to stored entries.
	entries map[string]*Entry
}

// Compile-time check that MemoryStore satisfies the Store contract.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
	}
}

// Get retrieves the entry for key, or ErrNotFound. The returned entry is a
// copy; mutating it does not affect the stored value.
func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}

	return &Entry{
		Value:    bytes.Clone(entry.Value),
		CachedAt: entry.CachedAt,
	}, nil
}

// Set stores value under key, stamping the entry with the current time and
// overwriting any existing entry.
func (s *MemoryStore) Set(_ context.Context, key string, value json.RawMessage) error {
	if key == "" {
		return ErrInvalidKey
	}

	entry := NewEntry(bytes.Clone(value))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
	return nil
}

// Delete removes the entry for key. Deleting an absent key is a no-op.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Size returns the number of stored entries.
func (s *MemoryStore) Size(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}
