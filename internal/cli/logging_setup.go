package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/memocache/internal/logging"
)

// setupLogging configures logging based on config file, environment, and CLI
// flags, and installs a trace-carrying logger into the command context.
func setupLogging(cmd *cobra.Command) logging.Result {
	loggingCfg := cfg.Logging

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	result := logging.New(loggingCfg.ToLoggingConfig())

	if result.UsingFile {
		fmt.Fprintf(cmd.ErrOrStderr(), "Logging to file: %s\n", result.FilePath)
	} else if result.FallbackReason != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)

	// Tag the logger with the trace ID so every event from this invocation,
	// including storage-layer events pulled from the context, is groupable.
	logger = logging.ComponentLogger(result.Logger, "cli").
		With().Str("trace_id", traceID).Logger()
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Str("command", cmd.Name()).Msg("command started")

	return result
}

// cleanupLogging closes any log file handle opened during setup.
func cleanupLogging(logResult *logging.Result) error {
	if logResult == nil {
		return nil
	}
	return logResult.Close()
}
