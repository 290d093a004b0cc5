package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/memocache/internal/tui"
)

// cacheStats aggregates what the stats command reports.
type cacheStats struct {
	Directory      string    `json:"directory"`
	Entries        int       `json:"entries"`
	TotalSizeBytes int64     `json:"total_size_bytes"`
	TTLApplied     bool      `json:"ttl_applied"`
	FreshEntries   int       `json:"fresh_entries"`
	StaleEntries   int       `json:"stale_entries"`
	OldestCachedAt time.Time `json:"oldest_cached_at,omitzero"`
	NewestCachedAt time.Time `json:"newest_cached_at,omitzero"`
}

// NewStatsCmd creates a Cobra "stats" command that aggregates cache-wide
// statistics: entry count, total size, age range, and freshness split when a
// TTL is in effect.
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate cache statistics",
		Example: `  # Summarize the default cache directory
  memocache stats

  # Summarize with staleness relative to a 1 hour TTL
  memocache stats --ttl 1h

  # Machine-readable statistics
  memocache stats --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatsCmd(cmd)
		},
	}
}

func runStatsCmd(cmd *cobra.Command) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	ttl, hasTTL, err := cfg.Cache.TTLDuration()
	if err != nil {
		return err
	}

	rows := collectEntries(cmd.Context(), store, ttl, hasTTL)
	stats := buildStats(store.Directory(), rows, hasTTL)

	if cfg.Output.Format == "json" {
		data, marshalErr := json.MarshalIndent(stats, "", "  ")
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal cache statistics: %w", marshalErr)
		}
		cmd.Println(string(data))
		return nil
	}

	plain, _ := cmd.Flags().GetBool("plain")
	noColor, _ := cmd.Flags().GetBool("no-color")
	styled := tui.DetectOutputMode(plain, noColor, false) == tui.OutputModeStyled

	return renderStats(cmd.OutOrStdout(), stats, styled)
}

// buildStats folds the scanned rows into aggregate statistics.
func buildStats(directory string, rows []tui.EntryRow, ttlApplied bool) cacheStats {
	stats := cacheStats{
		Directory:  directory,
		Entries:    len(rows),
		TTLApplied: ttlApplied,
	}

	for _, row := range rows {
		stats.TotalSizeBytes += row.Size

		if row.Stale {
			stats.StaleEntries++
		} else {
			stats.FreshEntries++
		}

		if stats.OldestCachedAt.IsZero() || row.CachedAt.Before(stats.OldestCachedAt) {
			stats.OldestCachedAt = row.CachedAt
		}
		if stats.NewestCachedAt.IsZero() || row.CachedAt.After(stats.NewestCachedAt) {
			stats.NewestCachedAt = row.CachedAt
		}
	}

	return stats
}

// renderStats writes the human-readable summary, boxed and styled when the
// terminal supports it.
func renderStats(w io.Writer, stats cacheStats, styled bool) error {
	p := message.NewPrinter(language.English)

	var content strings.Builder
	writeLine := func(label, value string) {
		if styled {
			content.WriteString(tui.LabelStyle.Render(label))
			content.WriteString(tui.ValueStyle.Render(value))
		} else {
			content.WriteString(label)
			content.WriteString(value)
		}
		content.WriteString("\n")
	}

	if styled {
		content.WriteString(tui.HeaderStyle.Render("CACHE SUMMARY"))
	} else {
		content.WriteString("CACHE SUMMARY")
	}
	content.WriteString("\n")

	writeLine("Directory:  ", stats.Directory)
	writeLine("Entries:    ", p.Sprintf("%d", stats.Entries))
	writeLine("Total Size: ", tui.FormatBytes(stats.TotalSizeBytes))

	if stats.TTLApplied {
		writeLine("Fresh:      ", p.Sprintf("%d", stats.FreshEntries))
		writeLine("Stale:      ", p.Sprintf("%d", stats.StaleEntries))
	}

	if stats.Entries > 0 {
		writeLine("Oldest:     ", tui.FormatAge(time.Since(stats.OldestCachedAt)))
		writeLine("Newest:     ", tui.FormatAge(time.Since(stats.NewestCachedAt)))
	}

	rendered := strings.TrimSuffix(content.String(), "\n")
	if styled {
		rendered = tui.BoxStyle.Width(tui.TerminalWidth() - 2).Render(rendered) //nolint:mnd // Border padding.
	}

	_, err := fmt.Fprintln(w, rendered)
	return err
}
