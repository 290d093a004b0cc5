package memo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/rshade/memocache/internal/logging"
	"github.com/rshade/memocache/pkg/cache"
)

// Common memoizer construction errors.
var (
	ErrNilStore   = errors.New("memoizer store cannot be nil")
	ErrNilFunc    = errors.New("memoized function cannot be nil")
	ErrNilKeyFunc = errors.New("key function cannot be nil")
)

// Func is the shape of a computation the memoizer can wrap: a blocking,
// possibly side-effecting function of one argument value. Callers with
// multiple arguments bundle them into a struct, which also gives the default
// key derivation a stable field order.
type Func[A, T any] func(ctx context.Context, args A) (T, error)

// Memoizer wraps a Func with persistent, TTL-bounded memoization. Results
// are keyed by the arguments and stored through a pluggable cache.Store, so
// they survive process restarts when the store is durable.
//
// A Memoizer holds no entries across calls; the store owns every cached
// value. Safe for concurrent use.
type Memoizer[A, T any] struct {
	store cache.Store
	fn    Func[A, T]
	cfg   settings[A]
	group singleflight.Group
	stats counters
}

// New creates a Memoizer over store and fn. By default cached values never
// expire, keys are derived with DefaultKey, and concurrent calls for one key
// are not deduplicated; see the Option constructors to change any of that.
func New[A, T any](store cache.Store, fn Func[A, T], opts ...Option[A]) (*Memoizer[A, T], error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if fn == nil {
		return nil, ErrNilFunc
	}

	cfg := settings[A]{keyFn: defaultKeyFunc[A]}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.keyFn == nil {
		return nil, ErrNilKeyFunc
	}

	return &Memoizer[A, T]{
		store: store,
		fn:    fn,
		cfg:   cfg,
	}, nil
}

// Wrap is a convenience over New that returns the memoized function directly.
func Wrap[A, T any](store cache.Store, fn Func[A, T], opts ...Option[A]) (Func[A, T], error) {
	m, err := New(store, fn, opts...)
	if err != nil {
		return nil, err
	}
	return m.Call, nil
}

// Call invokes the memoized computation for args.
//
// The key is derived from args, the store is consulted, and a fresh cached
// value is returned without invoking the wrapped function. A value older
// than the configured TTL is deleted and recomputed. On a miss the wrapped
// function runs with args forwarded unchanged; its error propagates directly
// to the caller and nothing is cached. On success the result is persisted
// and returned. If persisting fails the fresh result is still returned,
// since the computation itself succeeded; the storage failure is logged and
// handed to the store-error handler when one is configured.
func (m *Memoizer[A, T]) Call(ctx context.Context, args A) (T, error) {
	var zero T

	key, err := m.cfg.keyFn(args)
	if err != nil {
		return zero, fmt.Errorf("failed to derive cache key: %w", err)
	}

	if !m.cfg.coalesce {
		return m.call(ctx, key, args)
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		value, callErr := m.call(ctx, key, args)
		return value, callErr
	})
	if err != nil {
		return zero, err
	}
	result, _ := v.(T)
	return result, nil
}

// call runs one lookup-compute-store cycle for an already-derived key.
func (m *Memoizer[A, T]) call(ctx context.Context, key string, args A) (T, error) {
	logger := logging.FromContext(ctx).With().
		Str("component", "memo").
		Str("key", key).
		Logger()
	var zero T

	entry, getErr := m.store.Get(ctx, key)
	switch {
	case getErr == nil:
		if !m.cfg.hasTTL || !entry.IsStale(m.cfg.ttl) {
			var value T
			if unmarshalErr := json.Unmarshal(entry.Value, &value); unmarshalErr == nil {
				m.stats.hits.Add(1)
				logger.Debug().Dur("age", entry.Age()).Msg("cache hit")
				return value, nil
			}
			// An undecodable value gets the same treatment as a stale
			// one: drop it and recompute.
			logger.Warn().Msg("cached value does not decode, recomputing")
		} else {
			m.stats.expired.Add(1)
			logger.Debug().Dur("age", entry.Age()).Msg("cache entry expired")
		}

		if delErr := m.store.Delete(ctx, key); delErr != nil {
			// The upcoming Set overwrites the entry anyway.
			logger.Warn().Err(delErr).Msg("failed to delete stale cache entry")
		}

	case errors.Is(getErr, cache.ErrNotFound):
		logger.Debug().Msg("cache miss")

	default:
		// Foreign Store implementations may surface read errors the
		// directory store would have healed. Degrade to a miss.
		logger.Warn().Err(getErr).Msg("cache read failed, treating as miss")
	}

	m.stats.misses.Add(1)

	result, fnErr := m.fn(ctx, args)
	if fnErr != nil {
		m.stats.failures.Add(1)
		return zero, fnErr
	}

	payload, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		m.storeFailure(logger, fmt.Errorf("failed to serialize result: %w", marshalErr))
		return result, nil
	}
	if setErr := m.store.Set(ctx, key, payload); setErr != nil {
		m.storeFailure(logger, fmt.Errorf("failed to store result: %w", setErr))
		return result, nil
	}

	return result, nil
}

// storeFailure reports a failed write-back without failing the call.
func (m *Memoizer[A, T]) storeFailure(logger zerolog.Logger, err error) {
	logger.Warn().Err(err).Msg("result computed but not cached")
	if m.cfg.onStoreError != nil {
		m.cfg.onStoreError(err)
	}
}

// Forget removes the cached entry for args, forcing the next Call to invoke
// the wrapped function. Forgetting arguments that were never cached is not
// an error.
func (m *Memoizer[A, T]) Forget(ctx context.Context, args A) error {
	key, err := m.cfg.keyFn(args)
	if err != nil {
		return fmt.Errorf("failed to derive cache key: %w", err)
	}
	return m.store.Delete(ctx, key)
}

// Stats returns a snapshot of the memoizer's counters.
func (m *Memoizer[A, T]) Stats() Stats {
	return m.stats.snapshot()
}
