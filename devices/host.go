package devices

import (
	"sync/atomic"

	"github.com/grinisrit/kotik/internal/parallel"
)

// hostConfig holds the host execution settings.
type hostConfig struct {
	pool  *parallel.Pool
	grain int
}

var hostCfg atomic.Pointer[hostConfig]

func init() {
	hostCfg.Store(&hostConfig{grain: parallel.DefaultGrain})
}

// Option configures host execution.
type Option func(*hostConfig)

// WithWorkers dedicates a pool of n workers to host execution instead of
// the process-wide shared pool. Zero or negative n means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *hostConfig) {
		c.pool = parallel.NewPool(n)
	}
}

// WithGrain sets the smallest index-range chunk handed to a worker.
// Ranges at or below one grain run inline on the caller's goroutine.
func WithGrain(n int) Option {
	return func(c *hostConfig) {
		if n > 0 {
			c.grain = n
		}
	}
}

// Configure replaces the host execution settings. It is intended for
// process setup, before computations are in flight; a previously
// dedicated pool is closed.
func Configure(opts ...Option) {
	next := &hostConfig{grain: parallel.DefaultGrain}
	for _, opt := range opts {
		opt(next)
	}
	prev := hostCfg.Swap(next)
	if prev.pool != nil {
		prev.pool.Close()
	}
}

func hostPool() (*parallel.Pool, int) {
	c := hostCfg.Load()
	if c.pool != nil {
		return c.pool, c.grain
	}
	return parallel.Default(), c.grain
}

// ExecuteRange invokes fn(i) for every i in [begin, end) on the host and
// returns only after every invocation has completed. Invocations have no
// guaranteed relative order and no mutual visibility of side effects;
// fn must not touch shared mutable state beyond its own index.
func ExecuteRange(begin, end int, fn func(i int)) {
	pool, grain := hostPool()
	pool.ForRange(begin, end, grain, fn)
}

// ReduceRange combines fetch(i) for every i in [begin, end) with a
// parallel tree reduction seeded per chunk with the identity element.
//
// Correctness precondition: combine must be associative and its result
// invariant under reassociation; for non-associative operators (e.g.
// naive floating-point subtraction) the result is unspecified. Under
// floating point, results may differ from a sequential fold by
// accumulated rounding; that is documented behavior, not a defect.
func ReduceRange[T any](begin, end int, fetch func(i int) T, combine func(a, b T) T, identity T) T {
	if end <= begin {
		return identity
	}
	pool, grain := hostPool()
	partials := parallel.MapChunks(pool, begin, end, grain, func(start, stop int) T {
		acc := identity
		for i := start; i < stop; i++ {
			acc = combine(acc, fetch(i))
		}
		return acc
	})
	acc := identity
	for _, p := range partials {
		acc = combine(acc, p)
	}
	return acc
}

// ScanRange returns the prefix combination of fetch over [begin, end).
// Slot j of the result holds the combination of fetch(begin..begin+j)
// when inclusive, and of fetch(begin..begin+j-1) (starting at the
// identity) when exclusive. The final inclusive element equals
// ReduceRange over the full range up to reassociation.
func ScanRange[T any](begin, end int, fetch func(i int) T, combine func(a, b T) T, identity T, inclusive bool) []T {
	n := end - begin
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	acc := identity
	for i := 0; i < n; i++ {
		v := fetch(begin + i)
		if inclusive {
			acc = combine(acc, v)
			out[i] = acc
		} else {
			out[i] = acc
			acc = combine(acc, v)
		}
	}
	return out
}
