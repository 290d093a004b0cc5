package cache

import (
	"encoding/json"
	"errors"
	"time"
)

// Entry represents a single cached value with its creation timestamp.
// Entries are immutable once written; a logical update is a full replacement
// via Store.Set, never an in-place mutation.
type Entry struct {
	// Value is the cached value (JSON-serializable).
	Value json.RawMessage `json:"value"`

	// CachedAt is the timestamp when the entry was stored.
	CachedAt time.Time `json:"-"`
}

// NewEntry creates an entry for value stamped with the current time.
func NewEntry(value json.RawMessage) *Entry {
	return &Entry{
		Value:    value,
		CachedAt: time.Now(),
	}
}

// Age returns the duration since the entry was stored.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CachedAt)
}

// IsStale reports whether the entry has outlived ttl. A zero or negative ttl
// marks every entry stale immediately; callers with no TTL policy should skip
// the check entirely rather than pass a sentinel.
func (e *Entry) IsStale(ttl time.Duration) bool {
	if ttl <= 0 {
		return true
	}
	return e.Age() >= ttl
}

// MarshalJSON implements json.Marshaler for Entry.
// The timestamp is persisted as integer milliseconds since the Unix epoch.
func (e *Entry) MarshalJSON() ([]byte, error) {
	type Alias Entry
	return json.Marshal(&struct {
		*Alias

		CachedAt int64 `json:"cached_at"`
	}{
		Alias:    (*Alias)(e),
		CachedAt: e.CachedAt.UnixMilli(),
	})
}

// UnmarshalJSON implements json.Unmarshaler for Entry.
// An artifact without a value is rejected so corrupt or truncated files
// surface as parse failures and take the self-healing path.
func (e *Entry) UnmarshalJSON(data []byte) error {
	if e == nil {
		return errors.New("cannot unmarshal into nil Entry")
	}
	type Alias Entry
	aux := &struct {
		*Alias

		CachedAt int64 `json:"cached_at"`
	}{
		Alias: (*Alias)(e),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(e.Value) == 0 {
		return errors.New("cache entry has no value")
	}

	e.CachedAt = time.UnixMilli(aux.CachedAt)
	return nil
}
