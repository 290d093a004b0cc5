// Package config loads and resolves memocache CLI configuration from YAML,
// environment variables, and defaults, in that reverse order of precedence
// (flags, applied by the CLI layer, win over everything here).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/memocache/internal/logging"
)

// Environment variables recognized by the CLI.
const (
	// EnvHome overrides the memocache home directory (~/.memocache).
	EnvHome = "MEMOCACHE_HOME"

	// EnvDir overrides the cache directory specifically.
	EnvDir = "MEMOCACHE_DIR"

	// EnvTTL overrides the default TTL (a Go duration string).
	EnvTTL = "MEMOCACHE_TTL"

	// EnvLogLevel overrides the log level.
	EnvLogLevel = "MEMOCACHE_LOG_LEVEL"

	// EnvLogFile overrides the log file path.
	EnvLogFile = "MEMOCACHE_LOG_FILE"
)

// configFilename is the config file name inside the memocache home directory.
const configFilename = "config.yaml"

// Config is the root CLI configuration.
type Config struct {
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
}

// CacheConfig configures the cache directory the CLI operates on.
type CacheConfig struct {
	// Directory is the cache directory path.
	Directory string `yaml:"directory"`

	// TTL is the default entry lifetime as a Go duration string
	// ("45m", "12h"). Empty means entries never expire.
	TTL string `yaml:"ttl"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// OutputConfig configures rendering defaults.
type OutputConfig struct {
	// Format selects table or json output.
	Format string `yaml:"format"`
}

// New returns the default configuration. The cache directory default is
// resolved lazily by ResolveCacheDir so construction never fails.
func New() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
		Output: OutputConfig{
			Format: "table",
		},
	}
}

// Load builds the effective configuration: defaults, overlaid by the config
// file when one exists, overlaid by environment variables. A missing config
// file is not an error; an unparseable one is.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err == nil {
			path = defaultPath
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
				return nil, fmt.Errorf("failed to parse config file %q: %w", path, unmarshalErr)
			}
		case os.IsNotExist(err):
			// Defaults apply.
		default:
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays recognized environment variables onto cfg.
func (c *Config) applyEnv() {
	if dir := os.Getenv(EnvDir); dir != "" {
		c.Cache.Directory = dir
	}
	if ttl := os.Getenv(EnvTTL); ttl != "" {
		c.Cache.TTL = ttl
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	if file := os.Getenv(EnvLogFile); file != "" {
		c.Logging.File = file
	}
}

// ResolveCacheDir returns the configured cache directory, falling back to
// <home>/cache under the memocache home directory.
func (c *Config) ResolveCacheDir() (string, error) {
	if c.Cache.Directory != "" {
		return c.Cache.Directory, nil
	}

	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "cache"), nil
}

// TTLDuration parses the configured TTL. The boolean reports whether a TTL
// is configured at all; an empty TTL means entries never expire.
func (c *CacheConfig) TTLDuration() (time.Duration, bool, error) {
	if c.TTL == "" {
		return 0, false, nil
	}

	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, false, fmt.Errorf("invalid cache ttl %q: %w", c.TTL, err)
	}
	return d, true, nil
}

// ToLoggingConfig bridges the YAML logging section to the logging package.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// HomeDir returns the memocache home directory: MEMOCACHE_HOME when set,
// otherwise ~/.memocache.
func HomeDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(userHome, ".memocache"), nil
}

// DefaultConfigPath returns the default config file path inside the
// memocache home directory.
func DefaultConfigPath() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFilename), nil
}

// Validate rejects option combinations the CLI cannot act on.
func (c *Config) Validate() error {
	if c.Output.Format != "table" && c.Output.Format != "json" {
		return fmt.Errorf("unsupported output format: %s", c.Output.Format)
	}
	if _, _, err := c.Cache.TTLDuration(); err != nil {
		return err
	}
	return nil
}
