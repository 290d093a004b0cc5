// Package cache provides the durable key-value storage engine behind the
// memoization wrapper.
//
// The primary implementation is FileStore, a directory-backed store keeping
// one JSON artifact per key alongside an index file listing every known key.
// Key features:
//   - Index file fully rewritten on every mutation, so it is always internally
//     consistent as a standalone artifact
//   - Self-healing reads: a missing or corrupt artifact is repaired out of the
//     index and reported as a miss, never as an error
//   - Atomic persistence via uniquely-suffixed temp files and rename
//   - SHA256-derived artifact names, safe for arbitrary key strings
//
// MemoryStore offers the same contract for tests and short-lived processes.
// Both implement Store, the pluggable backend interface consumed by pkg/memo.
// One storage directory should have at most one writer process; no
// cross-process locking is provided.
package cache
