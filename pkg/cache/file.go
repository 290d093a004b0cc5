package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/oklog/ulid/v2"

	"github.com/rshade/memocache/internal/logging"
)

// artifactExtension is the file extension used for entry artifacts.
const artifactExtension = ".json"

// indexFilename is the fixed name of the index file inside the cache
// directory.
const indexFilename = "index.json"

// indexSchemaVersion is written into every persisted index. Loading an index
// whose major version differs is treated like a parse failure: the index is
// reinitialized empty.
const indexSchemaVersion = "1.0.0"

// indexSchemaMajor is the major version this build can read.
const indexSchemaMajor = 1

// Directory and file permissions for the cache directory contents.
const (
	cacheDirPerm  = 0o750
	cacheFilePerm = 0o600
)

// indexFile is the on-disk representation of the storage index.
type indexFile struct {
	// Version is the index schema version (semver).
	Version string `json:"version"`

	// Keys lists every key believed to have a retrievable artifact,
	// sorted for deterministic output.
	Keys []string `json:"keys"`
}

// FileStore is a directory-backed Store keeping one JSON artifact per key and
// an index file listing all known keys. The index is rewritten in full on
// every mutation. Reads self-heal: an indexed key whose artifact is missing
// or corrupt is dropped from the index and reported as a miss.
//
// Safe for concurrent use by multiple goroutines. Not safe for concurrent
// writer processes sharing one directory.
type FileStore struct {
	// directory is the cache directory path.
	directory string

	// mu protects index and sequences all file mutations.
	mu sync.RWMutex

	// index is the in-memory set of known keys, owned by this instance.
	index map[string]struct{}
}

// Compile-time check that FileStore satisfies the Store contract.
var _ Store = (*FileStore)(nil)

// NewFileStore creates a directory-backed store rooted at directory, creating
// the directory if needed and loading any previously persisted index. A
// missing, unparseable, or schema-incompatible index is reinitialized empty
// and persisted immediately, so the returned store always sits on a fresh,
// valid index file. The instance is fully ready on return; there is no
// background initialization.
func NewFileStore(directory string) (*FileStore, error) {
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}

	if err := os.MkdirAll(directory, cacheDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	s := &FileStore{
		directory: directory,
		index:     make(map[string]struct{}),
	}
	if err := s.loadIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

// Directory returns the backing directory path.
func (s *FileStore) Directory() string {
	return s.directory
}

// ArtifactPath returns the path of the artifact file that backs key.
func (s *FileStore) ArtifactPath(key string) string {
	return s.artifactPath(key)
}

// Get retrieves the entry for key.
// Returns ErrNotFound if the key is not in the index. If the key is indexed
// but its artifact cannot be read or parsed, the key is dropped from the
// index, the repaired index is persisted, and ErrNotFound is returned. Read
// failures never propagate to the caller.
func (s *FileStore) Get(ctx context.Context, key string) (*Entry, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	s.mu.RLock()
	_, known := s.index[key]
	var entry *Entry
	var readErr error
	if known {
		entry, readErr = s.readArtifact(key)
	}
	s.mu.RUnlock()

	if !known {
		return nil, ErrNotFound
	}
	if readErr != nil {
		s.repairIndex(ctx, key, readErr)
		return nil, ErrNotFound
	}
	return entry, nil
}

// readArtifact reads and parses the artifact for key. Callers must hold mu.
func (s *FileStore) readArtifact(key string) (*Entry, error) {
	data, err := os.ReadFile(s.artifactPath(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read cache artifact: %w", err)
	}

	var entry Entry
	if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", unmarshalErr)
	}
	return &entry, nil
}

// repairIndex drops key from the index after a failed read and persists the
// repaired index before the miss is reported. A failure to persist the repair
// is logged and swallowed; the next mutation will rewrite the index anyway.
func (s *FileStore) repairIndex(ctx context.Context, key string, readErr error) {
	logger := logging.FromContext(ctx).With().
		Str("component", "cache").
		Str("operation", "get").
		Logger()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, still := s.index[key]; !still {
		return
	}
	delete(s.index, key)

	logger.Warn().
		Err(readErr).
		Str("key", key).
		Msg("dropping unreadable cache entry from index")

	if persistErr := s.persistIndexLocked(); persistErr != nil {
		logger.Warn().
			Err(persistErr).
			Msg("failed to persist repaired index")
	}
}

// Set stores value under key. A new entry is stamped with the current time,
// its artifact is persisted first, then the key is added to the index and the
// full index rewritten. Any existing artifact for key is overwritten.
func (s *FileStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	if key == "" {
		return ErrInvalidKey
	}

	entry := NewEntry(value)
	entryData, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if writeErr := writeFileAtomic(s.artifactPath(key), entryData); writeErr != nil {
		return writeErr
	}

	s.index[key] = struct{}{}
	if persistErr := s.persistIndexLocked(); persistErr != nil {
		return persistErr
	}

	logger := logging.FromContext(ctx)
	logger.Debug().
		Str("component", "cache").
		Str("operation", "set").
		Str("key", key).
		Int("bytes", len(entryData)).
		Msg("stored cache entry")

	return nil
}

// Delete removes the entry for key. The artifact is removed if present
// (absence is not an error), the key is dropped from the index, and the index
// is persisted. Deleting an unknown key is a no-op that still succeeds.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.artifactPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache artifact: %w", err)
	}

	if _, known := s.index[key]; !known {
		return nil
	}
	delete(s.index, key)

	if err := s.persistIndexLocked(); err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	logger.Debug().
		Str("component", "cache").
		Str("operation", "delete").
		Str("key", key).
		Msg("deleted cache entry")

	return nil
}

// Size returns the number of keys currently in the index. The count may
// overrun live entries until a failed read repairs the index.
func (s *FileStore) Size(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.index), nil
}

// Keys returns a sorted snapshot of the keys currently in the index.
func (s *FileStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedKeysLocked()
}

// Clear removes every entry and persists an empty index.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.index {
		if err := os.Remove(s.artifactPath(key)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove cache artifact for %q: %w", key, err)
		}
	}

	s.index = make(map[string]struct{})
	if err := s.persistIndexLocked(); err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	logger.Info().
		Str("component", "cache").
		Str("operation", "clear").
		Msg("cleared cache directory")

	return nil
}

// Purge removes every entry whose age exceeds olderThan and returns the
// number removed. Entries whose artifacts cannot be read or parsed are
// removed as well, matching the self-healing read path. The index is
// persisted once at the end.
func (s *FileStore) Purge(ctx context.Context, olderThan time.Duration) (int, error) {
	logger := logging.FromContext(ctx).With().
		Str("component", "cache").
		Str("operation", "purge").
		Logger()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.index {
		entry, err := s.readArtifact(key)
		if err == nil && entry.Age() <= olderThan {
			continue
		}
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("purging unreadable cache entry")
		}

		if removeErr := os.Remove(s.artifactPath(key)); removeErr != nil && !os.IsNotExist(removeErr) {
			return removed, fmt.Errorf("failed to remove cache artifact for %q: %w", key, removeErr)
		}
		delete(s.index, key)
		removed++
	}

	if removed > 0 {
		if err := s.persistIndexLocked(); err != nil {
			return removed, err
		}
	}

	logger.Info().
		Int("removed", removed).
		Dur("older_than", olderThan).
		Msg("purged cache entries")

	return removed, nil
}

// loadIndex reads the persisted index into memory. Called once from
// NewFileStore before the store is shared, so no locking is needed. Missing,
// unparseable, or version-incompatible index files reinitialize to empty and
// are persisted immediately so a fresh valid index exists on disk.
func (s *FileStore) loadIndex() error {
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		return s.persistIndexLocked()
	}

	var idx indexFile
	if unmarshalErr := json.Unmarshal(data, &idx); unmarshalErr != nil {
		return s.persistIndexLocked()
	}
	if !indexVersionSupported(idx.Version) {
		return s.persistIndexLocked()
	}

	for _, key := range idx.Keys {
		if key == "" {
			continue
		}
		s.index[key] = struct{}{}
	}
	return nil
}

// indexVersionSupported reports whether an index written with version can be
// read by this build. Unparseable versions are unsupported.
func indexVersionSupported(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return v.Major() == indexSchemaMajor
}

// persistIndexLocked rewrites the full index file. Callers must hold mu (or
// exclusive access during construction).
func (s *FileStore) persistIndexLocked() error {
	idx := indexFile{
		Version: indexSchemaVersion,
		Keys:    s.sortedKeysLocked(),
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache index: %w", err)
	}

	return writeFileAtomic(s.indexPath(), data)
}

// sortedKeysLocked returns the index keys in sorted order. Callers must hold
// at least a read lock.
func (s *FileStore) sortedKeysLocked() []string {
	keys := make([]string, 0, len(s.index))
	for key := range s.index {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// indexPath returns the path of the index file.
func (s *FileStore) indexPath() string {
	return filepath.Join(s.directory, indexFilename)
}

// artifactPath returns the artifact path for key.
func (s *FileStore) artifactPath(key string) string {
	return filepath.Join(s.directory, artifactName(key))
}

// artifactName derives the artifact filename for key: hex SHA256 of the key
// bytes plus the artifact extension. Deterministic, collision-resistant, and
// safe for keys containing characters disallowed in filenames. Not meant to
// be reversible or human-readable.
func artifactName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]) + artifactExtension
}

// writeFileAtomic writes data to path via a uniquely-named temp file in the
// same directory followed by a rename. The ULID suffix keeps concurrent
// writers of the same path from sharing a temp file; each rename is
// individually atomic and the last one wins.
func writeFileAtomic(path string, data []byte) error {
	tempPath := path + "." + ulid.Make().String() + ".tmp"
	if err := os.WriteFile(tempPath, data, cacheFilePerm); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath) // Clean up temp file on error
		return fmt.Errorf("failed to rename cache file: %w", err)
	}

	return nil
}
