package memo

import "sync/atomic"

// Stats is a snapshot of a Memoizer's counters.
type Stats struct {
	// Hits counts calls answered from the cache without invoking the
	// wrapped function.
	Hits uint64

	// Misses counts calls that invoked the wrapped function.
	Misses uint64

	// Expired counts cached values discarded for exceeding the TTL.
	Expired uint64

	// Failures counts wrapped-function invocations that returned an error.
	Failures uint64
}

// counters is the live atomic backing for Stats.
type counters struct {
	hits     atomic.Uint64
	misses   atomic.Uint64
	expired  atomic.Uint64
	failures atomic.Uint64
}

// snapshot returns a point-in-time copy of the counters.
func (c *counters) snapshot() Stats {
	return Stats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Expired:  c.expired.Load(),
		Failures: c.failures.Load(),
	}
}
