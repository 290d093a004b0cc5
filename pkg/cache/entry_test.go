package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewEntry verifies entries are stamped with the current time.
func TestNewEntry(t *testing.T) {
	value := json.RawMessage(`{"foo":"bar"}`)
	entry := NewEntry(value)

	assert.Equal(t, value, entry.Value)
	assert.WithinDuration(t, time.Now(), entry.CachedAt, time.Second)
	assert.LessOrEqual(t, entry.Age(), time.Second)
}

// TestEntryIsStale verifies TTL staleness decisions for aged entries.
func TestEntryIsStale(t *testing.T) {
	tests := []struct {
		name      string
		age       time.Duration
		ttl       time.Duration
		wantStale bool
	}{
		{
			name:      "fresh entry under ttl",
			age:       time.Minute,
			ttl:       time.Hour,
			wantStale: false,
		},
		{
			name:      "entry past ttl",
			age:       2 * time.Hour,
			ttl:       time.Hour,
			wantStale: true,
		},
		{
			name:      "zero ttl is always stale",
			age:       0,
			ttl:       0,
			wantStale: true,
		},
		{
			name:      "negative ttl is always stale",
			age:       0,
			ttl:       -time.Second,
			wantStale: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{
				Value:    json.RawMessage(`1`),
				CachedAt: time.Now().Add(-tt.age),
			}
			assert.Equal(t, tt.wantStale, entry.IsStale(tt.ttl))
		})
	}
}

// TestEntryMarshalJSON verifies the wire format uses integer milliseconds.
func TestEntryMarshalJSON(t *testing.T) {
	cachedAt := time.UnixMilli(1724400000123)
	entry := &Entry{
		Value:    json.RawMessage(`{"n":42}`),
		CachedAt: cachedAt,
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var wire struct {
		Value    json.RawMessage `json:"value"`
		CachedAt int64           `json:"cached_at"`
	}
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.JSONEq(t, `{"n":42}`, string(wire.Value))
	assert.Equal(t, int64(1724400000123), wire.CachedAt)
}

// TestEntryUnmarshalJSON verifies parsing and rejection of malformed artifacts.
func TestEntryUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name:    "valid entry",
			data:    `{"value":{"n":42},"cached_at":1724400000123}`,
			wantErr: false,
		},
		{
			name:    "missing value",
			data:    `{"cached_at":1724400000123}`,
			wantErr: true,
		},
		{
			name:    "not json",
			data:    `{{{`,
			wantErr: true,
		},
		{
			name:    "wrong timestamp type",
			data:    `{"value":1,"cached_at":"yesterday"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entry Entry
			err := json.Unmarshal([]byte(tt.data), &entry)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1724400000123), entry.CachedAt.UnixMilli())
		})
	}
}

// TestEntryRoundTrip verifies marshal/unmarshal preserves value and timestamp
// at millisecond precision.
func TestEntryRoundTrip(t *testing.T) {
	original := NewEntry(json.RawMessage(`["a","b",3]`))

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Entry
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.JSONEq(t, string(original.Value), string(decoded.Value))
	assert.Equal(t, original.CachedAt.UnixMilli(), decoded.CachedAt.UnixMilli())
}
