// Package cli implements the memocache command line interface.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/memocache/internal/config"
	"github.com/rshade/memocache/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// cfg is the effective configuration resolved in PersistentPreRunE.
var cfg *config.Config //nolint:gochecknoglobals // Shared by all subcommands after flag resolution

// NewRootCmd creates the root Cobra command for the memocache CLI.
// It wires up configuration loading, logging, tracing, and the cache
// management subcommands (list, get, delete, clear, purge, stats, browse).
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.Result

	cmd := &cobra.Command{
		Use:     "memocache",
		Short:   "Inspect and manage memocache cache directories",
		Long:    "memocache: Browse, inspect, and prune the persistent caches written by the memo library",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}

			applyFlagOverrides(cmd, loaded)
			if err := loaded.Validate(); err != nil {
				return err
			}
			cfg = loaded

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().String("config", "", "config file path (default: $MEMOCACHE_HOME/config.yaml)")
	cmd.PersistentFlags().String("dir", "", "cache directory (default: $MEMOCACHE_HOME/cache)")
	cmd.PersistentFlags().String("ttl", "", "entry TTL as a Go duration, e.g. 45m (default: no expiry)")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table or json")
	cmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().String("log-file", "", "write logs to a file instead of stderr")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().Bool("plain", false, "force plain output without styling")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	cmd.AddCommand(
		NewListCmd(), NewGetCmd(), NewDeleteCmd(),
		NewClearCmd(), NewPurgeCmd(), NewStatsCmd(), NewBrowseCmd(),
	)

	return cmd
}

// applyFlagOverrides overlays explicitly set CLI flags onto the loaded
// configuration. Flags win over environment variables and the config file.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	if cmd.Flags().Changed("dir") {
		c.Cache.Directory, _ = cmd.Flags().GetString("dir")
	}
	if cmd.Flags().Changed("ttl") {
		c.Cache.TTL, _ = cmd.Flags().GetString("ttl")
	}
	if cmd.Flags().Changed("output") {
		c.Output.Format, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("log-level") {
		c.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-file") {
		c.Logging.File, _ = cmd.Flags().GetString("log-file")
	}
}

const rootCmdExample = `  # List all cache entries
  memocache list

  # List entries in a specific cache directory
  memocache list --dir ./build/.cache

  # Print the cached value for a key
  memocache get api:user:42

  # Show entries as JSON with staleness relative to a 30 minute TTL
  memocache list --ttl 30m --output json

  # Delete a single entry
  memocache delete api:user:42

  # Remove entries older than 24 hours
  memocache purge --older-than 24h

  # Remove all entries
  memocache clear --force

  # Aggregate cache statistics
  memocache stats

  # Browse the cache interactively
  memocache browse`
