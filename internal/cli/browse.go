package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/memocache/internal/tui"
)

// errNotInteractive reports that browse was run without a usable terminal.
var errNotInteractive = errors.New("browse requires an interactive terminal")

// NewBrowseCmd creates a Cobra "browse" command that opens an interactive
// Bubble Tea browser over the cache: filter with '/', cycle sort with 's',
// inspect with Enter, and delete entries with 'd'.
func NewBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the cache interactively",
		Long:  "Open an interactive terminal browser over the cache with filtering, sorting, and entry deletion",
		Example: `  # Browse the default cache directory
  memocache browse

  # Browse a specific directory with a TTL applied
  memocache browse --dir ./build/.cache --ttl 30m`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowseCmd(cmd)
		},
	}
}

func runBrowseCmd(cmd *cobra.Command) error {
	plain, _ := cmd.Flags().GetBool("plain")
	noColor, _ := cmd.Flags().GetBool("no-color")
	if tui.DetectOutputMode(plain, noColor, true) != tui.OutputModeInteractive {
		return errNotInteractive
	}

	store, err := openStore()
	if err != nil {
		return err
	}

	ttl, hasTTL, err := cfg.Cache.TTLDuration()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rows := collectEntries(ctx, store, ttl, hasTTL)

	p := tea.NewProgram(tui.NewBrowseModel(ctx, rows, store))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}
