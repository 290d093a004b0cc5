// Package memo wraps expensive, side-effecting computations with persistent
// memoization. A wrapped function's results are keyed by its arguments and
// stored through a pluggable cache.Store, so repeated calls with the same
// arguments are answered from the cache until the configured TTL expires
// them. With a durable store, cached results survive process restarts.
//
// Typical use:
//
//	store, err := cache.NewFileStore(dir)
//	if err != nil { ... }
//	fetch, err := memo.Wrap(store, fetchUser, memo.WithTTL[UserQuery](time.Hour))
//	if err != nil { ... }
//	user, err := fetch(ctx, UserQuery{ID: 42})
//
// A computation error is always surfaced to the caller and never cached. A
// storage failure after a successful computation still returns the fresh
// result; only the write-back is lost.
package memo
