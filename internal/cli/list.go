package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/memocache/internal/tui"
)

// entryListing is the JSON shape of one listed cache entry.
type entryListing struct {
	Key       string    `json:"key"`
	Artifact  string    `json:"artifact"`
	SizeBytes int64     `json:"size_bytes"`
	CachedAt  time.Time `json:"cached_at"`
	Stale     bool      `json:"stale"`
}

// NewListCmd creates a Cobra "list" command for displaying cache entries.
// Entries are listed with their age, size, and freshness relative to the
// effective TTL. Output honors the configured format (table or json).
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cache entries",
		Long:  "List all cache entries with their age, size, and freshness",
		Example: `  # List all entries in the default cache directory
  memocache list

  # List entries in a specific directory
  memocache list --dir ./build/.cache

  # Machine-readable listing with a 30 minute TTL applied
  memocache list --ttl 30m --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListCmd(cmd)
		},
	}
}

func runListCmd(cmd *cobra.Command) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	ttl, hasTTL, err := cfg.Cache.TTLDuration()
	if err != nil {
		return err
	}

	rows := collectEntries(cmd.Context(), store, ttl, hasTTL)

	if cfg.Output.Format == "json" {
		return renderEntriesJSON(cmd.OutOrStdout(), rows)
	}

	if len(rows) == 0 {
		cmd.Println("Cache is empty.")
		return nil
	}
	return renderEntriesTable(cmd.OutOrStdout(), rows)
}

// renderEntriesTable writes a tabulated listing of cache entries.
func renderEntriesTable(w io.Writer, rows []tui.EntryRow) error {
	const tabPadding = 2
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	fmt.Fprintln(tw, "Key\tAge\tSize\tStatus\tArtifact")
	fmt.Fprintln(tw, "---\t---\t----\t------\t--------")

	for _, row := range rows {
		status := "fresh"
		if row.Stale {
			status = "stale"
		}
		fmt.Fprintf(
			tw,
			"%s\t%s\t%s\t%s\t%s\n",
			row.Key,
			tui.FormatAge(time.Since(row.CachedAt)),
			tui.FormatBytes(row.Size),
			status,
			row.Artifact,
		)
	}
	return tw.Flush()
}

// renderEntriesJSON writes the listing as an indented JSON array.
func renderEntriesJSON(w io.Writer, rows []tui.EntryRow) error {
	listings := make([]entryListing, len(rows))
	for i, row := range rows {
		listings[i] = entryListing{
			Key:       row.Key,
			Artifact:  row.Artifact,
			SizeBytes: row.Size,
			CachedAt:  row.CachedAt,
			Stale:     row.Stale,
		}
	}

	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache listing: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
