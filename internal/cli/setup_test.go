package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/memocache/internal/cli"
	"github.com/rshade/memocache/pkg/cache"
)

// setupCLITest isolates a test from the host environment and real home
// directory. It returns the temporary memocache home.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("MEMOCACHE_HOME", home)
	t.Setenv("MEMOCACHE_DIR", "")
	t.Setenv("MEMOCACHE_TTL", "")
	t.Setenv("MEMOCACHE_LOG_LEVEL", "error")
	t.Setenv("MEMOCACHE_LOG_FILE", "")
	return home
}

// executeCommand runs the root command with args and captures its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// writeFile writes a test fixture file.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// seedEntry writes one cache entry into dir through the public store API.
func seedEntry(t *testing.T, dir, key string, value any) {
	t.Helper()
	store, err := cache.NewFileStore(dir)
	require.NoError(t, err)

	data, err := json.Marshal(value)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), key, data))
}
