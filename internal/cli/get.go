package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/memocache/pkg/cache"
)

// entryEnvelope is the JSON shape of a single fetched entry with metadata.
type entryEnvelope struct {
	Key        string          `json:"key"`
	Value      json.RawMessage `json:"value"`
	CachedAt   time.Time       `json:"cached_at"`
	AgeSeconds int64           `json:"age_seconds"`
	Stale      bool            `json:"stale"`
}

// NewGetCmd creates a Cobra "get" command that prints the cached value for a
// key. In table mode only the raw value is printed so output can be piped; in
// json mode the value is wrapped in an envelope with entry metadata.
func NewGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the cached value for a key",
		Args:  cobra.ExactArgs(1),
		Example: `  # Print the raw cached value
  memocache get api:user:42

  # Print the value with entry metadata
  memocache get api:user:42 --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGetCmd(cmd, args[0])
		},
	}
}

func runGetCmd(cmd *cobra.Command, key string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	entry, err := store.Get(cmd.Context(), key)
	if errors.Is(err, cache.ErrNotFound) {
		return fmt.Errorf("no cache entry for key %q", key)
	}
	if err != nil {
		return fmt.Errorf("failed to read cache entry: %w", err)
	}

	if cfg.Output.Format == "json" {
		ttl, hasTTL, ttlErr := cfg.Cache.TTLDuration()
		if ttlErr != nil {
			return ttlErr
		}

		envelope := entryEnvelope{
			Key:        key,
			Value:      entry.Value,
			CachedAt:   entry.CachedAt,
			AgeSeconds: int64(entry.Age().Seconds()),
			Stale:      hasTTL && entry.IsStale(ttl),
		}

		data, marshalErr := json.MarshalIndent(envelope, "", "  ")
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal cache entry: %w", marshalErr)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(string(entry.Value))
	return nil
}
