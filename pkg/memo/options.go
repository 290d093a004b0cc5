package memo

import "time"

// settings holds the configurable behavior of a Memoizer. Only the argument
// type parameter appears here so options stay independent of the result type.
type settings[A any] struct {
	keyFn        KeyFunc[A]
	ttl          time.Duration
	hasTTL       bool
	coalesce     bool
	onStoreError func(error)
}

// Option configures a Memoizer at construction time.
type Option[A any] func(*settings[A])

// WithTTL bounds the age of cached values. A value older than ttl is deleted
// and recomputed on access. Zero or negative ttl marks every cached value
// immediately stale, which effectively turns the cache into a write-through
// log of the latest result. Without this option cached values never expire.
func WithTTL[A any](ttl time.Duration) Option[A] {
	return func(s *settings[A]) {
		s.ttl = ttl
		s.hasTTL = true
	}
}

// WithKeyFunc replaces the default canonical-serialization key derivation.
// Collision-freedom of the supplied function is the caller's responsibility.
func WithKeyFunc[A any](fn KeyFunc[A]) Option[A] {
	return func(s *settings[A]) {
		s.keyFn = fn
	}
}

// WithCoalescing deduplicates concurrent calls for the same key: one
// computation runs and every concurrent caller shares its result. The
// computation executes under the initiating caller's context, so cancelling
// that context cancels the shared call for everyone. Without this option
// concurrent misses for one key each invoke the computation and the last
// write wins.
func WithCoalescing[A any]() Option[A] {
	return func(s *settings[A]) {
		s.coalesce = true
	}
}

// WithStoreErrorHandler registers a callback invoked when persisting a
// freshly computed result fails. The call itself still returns the fresh
// value; the handler exists for callers who need to surface or count storage
// degradation separately.
func WithStoreErrorHandler[A any](handler func(error)) Option[A] {
	return func(s *settings[A]) {
		s.onStoreError = handler
	}
}
