package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/memocache/internal/logging"
	"github.com/rshade/memocache/internal/tui"
	"github.com/rshade/memocache/pkg/cache"
)

// openStore opens the configured cache directory.
func openStore() (*cache.FileStore, error) {
	dir, err := cfg.ResolveCacheDir()
	if err != nil {
		return nil, err
	}

	store, err := cache.NewFileStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache directory %s: %w", dir, err)
	}
	return store, nil
}

// collectEntries reads every indexed entry into a display row. Artifacts are
// read concurrently with a concurrency limit of runtime.NumCPU(). Entries
// whose artifacts cannot be read are skipped; the store's self-healing read
// path drops them from the index as a side effect. Results are sorted by key
// for deterministic output.
func collectEntries(
	ctx context.Context,
	store *cache.FileStore,
	ttl time.Duration,
	hasTTL bool,
) []tui.EntryRow {
	keys := store.Keys()

	var mu sync.Mutex
	rows := make([]tui.EntryRow, 0, len(keys))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, key := range keys {
		g.Go(func() error {
			entry, err := store.Get(gCtx, key)
			if err != nil {
				logger := logging.FromContext(ctx)
				logger.Debug().
					Str("key", key).
					Err(err).
					Msg("skipping unreadable cache entry during scan")
				return nil
			}

			artifactPath := store.ArtifactPath(key)
			var size int64
			if info, statErr := os.Stat(artifactPath); statErr == nil {
				size = info.Size()
			}

			row := tui.EntryRow{
				Key:      key,
				Artifact: filepath.Base(artifactPath),
				Size:     size,
				CachedAt: entry.CachedAt,
				Stale:    hasTTL && entry.IsStale(ttl),
				Value:    entry.Value,
			}

			mu.Lock()
			rows = append(rows, row)
			mu.Unlock()
			return nil
		})
	}

	// Wait for all goroutines to complete (errors are intentionally ignored)
	_ = g.Wait()

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Key < rows[j].Key
	})

	return rows
}
