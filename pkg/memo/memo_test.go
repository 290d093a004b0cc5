package memo_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/memocache/pkg/cache"
	"github.com/rshade/memocache/pkg/memo"
)

// countingFunc returns a memoizable function that counts invocations and
// returns the invocation number, so recomputation is observable in the result.
func countingFunc() (*atomic.Int64, memo.Func[string, int64]) {
	var calls atomic.Int64
	fn := func(_ context.Context, _ string) (int64, error) {
		return calls.Add(1), nil
	}
	return &calls, fn
}

// TestMemoizerHitSkipsComputation verifies the second identical call is
// answered from the cache without invoking the wrapped function.
func TestMemoizerHitSkipsComputation(t *testing.T) {
	calls, fn := countingFunc()
	m, err := memo.New(cache.NewMemoryStore(), fn)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := m.Call(ctx, "resource")
	require.NoError(t, err)
	second, err := m.Call(ctx, "resource")
	require.NoError(t, err)

	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, first, second)

	stats := m.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

// TestMemoizerDistinctArguments verifies different arguments compute
// independently.
func TestMemoizerDistinctArguments(t *testing.T) {
	calls, fn := countingFunc()
	m, err := memo.New(cache.NewMemoryStore(), fn)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = m.Call(ctx, "alpha")
	require.NoError(t, err)
	_, err = m.Call(ctx, "beta")
	require.NoError(t, err)

	assert.Equal(t, int64(2), calls.Load())
}

// TestMemoizerTTLExpiryRecomputes verifies a value older than the TTL is
// discarded and freshly computed.
func TestMemoizerTTLExpiryRecomputes(t *testing.T) {
	calls, fn := countingFunc()
	m, err := memo.New(cache.NewMemoryStore(), fn, memo.WithTTL[string](10*time.Millisecond))
	require.NoError(t, err)
	ctx := context.Background()

	first, err := m.Call(ctx, "resource")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	second, err := m.Call(ctx, "resource")
	require.NoError(t, err)

	assert.Equal(t, int64(2), calls.Load())
	assert.NotEqual(t, first, second)
	assert.Equal(t, uint64(1), m.Stats().Expired)
}

// TestMemoizerZeroTTLAlwaysRecomputes verifies a zero TTL marks every cached
// value immediately stale.
func TestMemoizerZeroTTLAlwaysRecomputes(t *testing.T) {
	calls, fn := countingFunc()
	m, err := memo.New(cache.NewMemoryStore(), fn, memo.WithTTL[string](0))
	require.NoError(t, err)
	ctx := context.Background()

	for range 3 {
		_, callErr := m.Call(ctx, "resource")
		require.NoError(t, callErr)
	}

	assert.Equal(t, int64(3), calls.Load())
}

// TestMemoizerNoTTLNeverExpires verifies that without a TTL even ancient
// entries are served from the cache.
func TestMemoizerNoTTLNeverExpires(t *testing.T) {
	store := cache.NewMemoryStore()
	calls, fn := countingFunc()
	m, err := memo.New(store, fn)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = m.Call(ctx, "resource")
	require.NoError(t, err)

	// Even a very old entry is a hit when no TTL is configured. The aged
	// store wraps the real one and backdates every entry it returns.
	agedM, err := memo.New(&backdatingStore{Store: store, age: 1000 * time.Hour}, fn)
	require.NoError(t, err)

	_, err = agedM.Call(ctx, "resource")
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())
}

// TestMemoizerFailureNotCached verifies computation errors propagate and are
// never cached, so the next call retries.
func TestMemoizerFailureNotCached(t *testing.T) {
	wantErr := errors.New("upstream unavailable")
	var calls atomic.Int64
	fn := func(_ context.Context, _ string) (int64, error) {
		if calls.Add(1) == 1 {
			return 0, wantErr
		}
		return calls.Load(), nil
	}

	m, err := memo.New(cache.NewMemoryStore(), fn)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = m.Call(ctx, "flaky")
	assert.ErrorIs(t, err, wantErr)

	second, err := m.Call(ctx, "flaky")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(2), calls.Load())

	third, err := m.Call(ctx, "flaky")
	require.NoError(t, err)
	assert.Equal(t, second, third)
	assert.Equal(t, int64(2), calls.Load(), "third call must be a hit")

	assert.Equal(t, uint64(1), m.Stats().Failures)
}

// TestMemoizerWriteFailureReturnsFreshValue verifies a failed write-back
// after a successful computation still returns the fresh result, and the
// failure reaches the store-error handler.
func TestMemoizerWriteFailureReturnsFreshValue(t *testing.T) {
	var handled atomic.Int64
	var lastErr error
	var mu sync.Mutex

	store := &failingStore{Store: cache.NewMemoryStore(), setErr: errors.New("disk full")}
	_, fn := countingFunc()
	m, err := memo.New(store, fn,
		memo.WithStoreErrorHandler[string](func(storeErr error) {
			handled.Add(1)
			mu.Lock()
			lastErr = storeErr
			mu.Unlock()
		}))
	require.NoError(t, err)

	value, err := m.Call(context.Background(), "resource")
	require.NoError(t, err, "computation succeeded, storage failure must not fail the call")
	assert.Equal(t, int64(1), value)
	assert.Equal(t, int64(1), handled.Load())

	mu.Lock()
	defer mu.Unlock()
	assert.ErrorContains(t, lastErr, "disk full")
}

// TestMemoizerCustomKeyFunc verifies caller-supplied key functions replace
// the default derivation, collisions included.
func TestMemoizerCustomKeyFunc(t *testing.T) {
	calls, fn := countingFunc()
	m, err := memo.New(cache.NewMemoryStore(), fn,
		memo.WithKeyFunc(func(string) (string, error) { return "constant", nil }))
	require.NoError(t, err)
	ctx := context.Background()

	first, err := m.Call(ctx, "alpha")
	require.NoError(t, err)
	second, err := m.Call(ctx, "beta")
	require.NoError(t, err)

	assert.Equal(t, first, second, "colliding keys make distinct arguments one request")
	assert.Equal(t, int64(1), calls.Load())
}

// TestMemoizerKeyFuncError verifies a failed key derivation aborts the call
// before the wrapped function runs.
func TestMemoizerKeyFuncError(t *testing.T) {
	keyErr := errors.New("bad args")
	calls, fn := countingFunc()
	m, err := memo.New(cache.NewMemoryStore(), fn,
		memo.WithKeyFunc(func(string) (string, error) { return "", keyErr }))
	require.NoError(t, err)

	_, err = m.Call(context.Background(), "resource")
	assert.ErrorIs(t, err, keyErr)
	assert.Zero(t, calls.Load())
}

// TestMemoizerForget verifies explicit invalidation forces recomputation.
func TestMemoizerForget(t *testing.T) {
	calls, fn := countingFunc()
	m, err := memo.New(cache.NewMemoryStore(), fn)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = m.Call(ctx, "resource")
	require.NoError(t, err)
	require.NoError(t, m.Forget(ctx, "resource"))

	_, err = m.Call(ctx, "resource")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())

	t.Run("forgetting uncached arguments succeeds", func(t *testing.T) {
		assert.NoError(t, m.Forget(ctx, "never-called"))
	})
}

// TestMemoizerCoalescing verifies concurrent same-key misses share one
// computation when coalescing is enabled.
func TestMemoizerCoalescing(t *testing.T) {
	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})
	fn := func(_ context.Context, _ string) (int64, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return calls.Load(), nil
	}

	m, err := memo.New(cache.NewMemoryStore(), fn, memo.WithCoalescing[string]())
	require.NoError(t, err)
	ctx := context.Background()

	const callers = 5
	results := make([]int64, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, callErr := m.Call(ctx, "shared")
			assert.NoError(t, callErr)
			results[i] = value
		}()
	}

	<-started
	// Give the remaining callers time to park inside the flight group.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "exactly one computation must run")
	for i := range callers {
		assert.Equal(t, int64(1), results[i])
	}
}

// TestMemoizerWithoutCoalescing verifies the default duplicates concurrent
// same-key work, last writer wins.
func TestMemoizerWithoutCoalescing(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	fn := func(_ context.Context, _ string) (int64, error) {
		n := calls.Add(1)
		<-release
		return n, nil
	}

	m, err := memo.New(cache.NewMemoryStore(), fn)
	require.NoError(t, err)
	ctx := context.Background()

	const callers = 3
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, callErr := m.Call(ctx, "shared")
			assert.NoError(t, callErr)
		}()
	}

	// Wait for every caller to reach the computation, then release them all.
	require.Eventually(t, func() bool {
		return calls.Load() == callers
	}, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(callers), calls.Load())
}

// TestNewValidation verifies constructor argument checks.
func TestNewValidation(t *testing.T) {
	_, fn := countingFunc()

	t.Run("nil store", func(t *testing.T) {
		_, err := memo.New(nil, fn)
		assert.ErrorIs(t, err, memo.ErrNilStore)
	})

	t.Run("nil function", func(t *testing.T) {
		_, err := memo.New[string, int64](cache.NewMemoryStore(), nil)
		assert.ErrorIs(t, err, memo.ErrNilFunc)
	})

	t.Run("nil key function", func(t *testing.T) {
		_, err := memo.New(cache.NewMemoryStore(), fn, memo.WithKeyFunc[string](nil))
		assert.ErrorIs(t, err, memo.ErrNilKeyFunc)
	})
}

// TestWrap verifies the convenience form memoizes like the full constructor.
func TestWrap(t *testing.T) {
	calls, fn := countingFunc()
	wrapped, err := memo.Wrap(cache.NewMemoryStore(), fn)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = wrapped(ctx, "resource")
	require.NoError(t, err)
	_, err = wrapped(ctx, "resource")
	require.NoError(t, err)

	assert.Equal(t, int64(1), calls.Load())
}

// TestMemoizerStructArguments verifies struct arguments round-trip through
// the default key derivation and a durable store.
func TestMemoizerStructArguments(t *testing.T) {
	type lookup struct {
		Region string
		ID     int
	}
	type record struct {
		Name  string
		Score float64
	}

	var calls atomic.Int64
	fn := func(_ context.Context, args lookup) (record, error) {
		calls.Add(1)
		return record{Name: fmt.Sprintf("%s-%d", args.Region, args.ID), Score: 0.5}, nil
	}

	store, err := cache.NewFileStore(t.TempDir())
	require.NoError(t, err)
	m, err := memo.New(store, fn)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := m.Call(ctx, lookup{Region: "eu-west-1", ID: 7})
	require.NoError(t, err)
	second, err := m.Call(ctx, lookup{Region: "eu-west-1", ID: 7})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), calls.Load())

	// A rebuilt memoizer over the same directory still hits.
	reopenedStore, err := cache.NewFileStore(store.Directory())
	require.NoError(t, err)
	reopened, err := memo.New(reopenedStore, fn)
	require.NoError(t, err)

	third, err := reopened.Call(ctx, lookup{Region: "eu-west-1", ID: 7})
	require.NoError(t, err)
	assert.Equal(t, first, third)
	assert.Equal(t, int64(1), calls.Load())
}

// failingStore wraps a Store and fails every Set.
type failingStore struct {
	cache.Store
	setErr error
}

func (s *failingStore) Set(context.Context, string, json.RawMessage) error {
	return s.setErr
}

// backdatingStore wraps a Store and ages every returned entry, simulating
// long-lived cached values without sleeping.
type backdatingStore struct {
	cache.Store
	age time.Duration
}

func (s *backdatingStore) Get(ctx context.Context, key string) (*cache.Entry, error) {
	entry, err := s.Store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	entry.CachedAt = entry.CachedAt.Add(-s.age)
	return entry, nil
}

// BenchmarkMemoizerHit measures the hot path over the in-memory store.
func BenchmarkMemoizerHit(b *testing.B) {
	_, fn := countingFunc()
	m, err := memo.New(cache.NewMemoryStore(), fn)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	if _, callErr := m.Call(ctx, "bench"); callErr != nil {
		b.Fatal(callErr)
	}

	b.ResetTimer()
	for range b.N {
		if _, callErr := m.Call(ctx, "bench"); callErr != nil {
			b.Fatal(callErr)
		}
	}
}
