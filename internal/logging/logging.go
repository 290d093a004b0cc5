// Package logging provides zerolog construction and context propagation for
// memocache. It owns the mapping from configuration to concrete writers
// (console, file, or both) and tags loggers with component fields so cache,
// wrapper, and CLI events are distinguishable in one stream.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Output targets accepted by Config.Output.
const (
	OutputStderr = "stderr"
	OutputFile   = "file"
)

// Formats accepted by Config.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config describes how the root logger should be constructed.
type Config struct {
	// Level is a zerolog level name ("debug", "info", ...). Unparseable
	// values fall back to info.
	Level string

	// Format selects console (human-readable) or json output.
	Format string

	// Output selects the destination: stderr or file.
	Output string

	// File is the log file path when Output is "file".
	File string

	// Caller adds file:line caller annotations to every event.
	Caller bool
}

// Result reports what New actually wired up, so callers can tell users where
// their logs went when a file was requested but unavailable.
type Result struct {
	Logger         zerolog.Logger
	UsingFile      bool
	FilePath       string
	FallbackReason string

	file *os.File
}

// Close releases the log file handle, if one was opened.
func (r *Result) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// New constructs the root logger from cfg. A file request that cannot be
// honored (unwritable path, mkdir failure) falls back to stderr and records
// the reason instead of failing the program; logging must never be the thing
// that stops a cache tool from running.
func New(cfg Config) Result {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var writers []io.Writer
	result := Result{}

	if cfg.Format == FormatJSON {
		writers = append(writers, os.Stderr)
	} else {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	if cfg.Output == OutputFile && cfg.File != "" {
		file, fileErr := openLogFile(cfg.File)
		if fileErr != nil {
			result.FallbackReason = fileErr.Error()
		} else {
			writers = append(writers, file)
			result.UsingFile = true
			result.FilePath = cfg.File
			result.file = file
		}
	}

	logCtx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp()
	if cfg.Caller {
		logCtx = logCtx.Caller()
	}

	result.Logger = logCtx.Logger()
	return result
}

// openLogFile creates the parent directory and opens the log file for append.
func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory %q: %w", dir, err)
		}
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %q: %w", path, err)
	}
	return file, nil
}

// FromContext returns the logger attached to ctx via zerolog's WithContext,
// or a disabled logger when none is present. Library packages log through
// this so embedding hosts stay silent unless they opt in.
func FromContext(ctx context.Context) zerolog.Logger {
	return *zerolog.Ctx(ctx)
}

// ComponentLogger returns a child logger tagged with a component field.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
