package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// errNoPurgeCutoff reports a purge invocation with no usable age cutoff.
var errNoPurgeCutoff = errors.New("no purge cutoff: pass --older-than or configure a cache TTL")

// NewPurgeCmd creates a Cobra "purge" command that removes entries older than
// a cutoff. The cutoff comes from --older-than, falling back to the
// configured TTL. Unreadable artifacts are removed as well.
func NewPurgeCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove cache entries older than a cutoff",
		Long:  "Remove cache entries whose age exceeds the cutoff, along with any entries whose artifacts are unreadable",
		Example: `  # Remove entries older than 24 hours
  memocache purge --older-than 24h

  # Remove entries older than the configured TTL
  memocache purge --ttl 30m`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPurgeCmd(cmd, olderThan)
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Age cutoff, e.g. 30m or 24h (default: the configured TTL)")

	return cmd
}

func runPurgeCmd(cmd *cobra.Command, olderThan time.Duration) error {
	cutoff := olderThan
	if cutoff <= 0 {
		ttl, hasTTL, err := cfg.Cache.TTLDuration()
		if err != nil {
			return err
		}
		if !hasTTL {
			return errNoPurgeCutoff
		}
		cutoff = ttl
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	removed, err := store.Purge(cmd.Context(), cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}

	if removed == 0 {
		cmd.Printf("No entries older than %s.\n", cutoff)
		return nil
	}
	cmd.Printf("Removed %d entries older than %s.\n", removed, cutoff)
	return nil
}
