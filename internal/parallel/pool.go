// Package parallel provides the worker pool behind host-device range
// execution.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// DefaultGrain is the smallest index-range chunk worth handing to a
// worker. Ranges shorter than one grain run inline on the caller's
// goroutine.
const DefaultGrain = 4096

// Pool is a fixed set of worker goroutines executing index-range chunks.
//
// Work submitted through ForRange and MapChunks blocks the caller until
// every chunk has completed: the pool is a blocking barrier, chunks may
// run in any order and must not assume mutual visibility of side effects.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	// workers is the number of worker goroutines.
	workers int

	// tasks carries queued chunks to the workers.
	tasks chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool
}

// NewPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately and workers begin waiting for work.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), workers*4),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// worker is the main loop for each worker goroutine.
func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			// Drain remaining work before exiting.
			for {
				select {
				case task := <-p.tasks:
					task()
				default:
					return
				}
			}
		case task := <-p.tasks:
			task()
		}
	}
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int { return p.workers }

// IsRunning returns true if the pool is still accepting work.
func (p *Pool) IsRunning() bool { return p.running.Load() }

// Close gracefully shuts down the pool: it stops accepting new work,
// finishes all queued work, and stops the workers.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// chunks splits [begin, end) into near-equal pieces of at least grain
// indices, at most one piece per worker beyond what grain allows.
func (p *Pool) chunks(begin, end, grain int) [][2]int {
	if grain <= 0 {
		grain = DefaultGrain
	}
	n := end - begin
	pieces := (n + grain - 1) / grain
	if pieces > p.workers {
		pieces = p.workers
	}
	if pieces < 1 {
		pieces = 1
	}
	out := make([][2]int, 0, pieces)
	for i := 0; i < pieces; i++ {
		lo := begin + i*n/pieces
		hi := begin + (i+1)*n/pieces
		if lo < hi {
			out = append(out, [2]int{lo, hi})
		}
	}
	return out
}

// ForRange invokes fn(i) for every i in [begin, end), splitting the range
// into chunks across the workers and blocking until all of them complete.
// Short ranges, and pools that have been closed, run inline.
func (p *Pool) ForRange(begin, end, grain int, fn func(i int)) {
	if end <= begin {
		return
	}
	if grain <= 0 {
		grain = DefaultGrain
	}
	if end-begin <= grain || !p.running.Load() {
		for i := begin; i < end; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	for _, c := range p.chunks(begin, end, grain) {
		lo, hi := c[0], c[1]
		wg.Add(1)
		task := func() {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}
		select {
		case p.tasks <- task:
		case <-p.done:
			// Pool is closing, run the chunk on the caller.
			task()
		}
	}
	wg.Wait()
}

// MapChunks folds each chunk of [begin, end) with the supplied function
// and returns the per-chunk results in ascending chunk order, so callers
// combining the partials get a deterministic association for a fixed
// worker count.
func MapChunks[T any](p *Pool, begin, end, grain int, fold func(start, stop int) T) []T {
	if end <= begin {
		return nil
	}
	if grain <= 0 {
		grain = DefaultGrain
	}
	if end-begin <= grain || !p.running.Load() {
		return []T{fold(begin, end)}
	}

	cs := p.chunks(begin, end, grain)
	out := make([]T, len(cs))
	var wg sync.WaitGroup
	for idx, c := range cs {
		idx, lo, hi := idx, c[0], c[1]
		wg.Add(1)
		task := func() {
			defer wg.Done()
			out[idx] = fold(lo, hi)
		}
		select {
		case p.tasks <- task:
		case <-p.done:
			task()
		}
	}
	wg.Wait()
	return out
}

// defaultPool is the process-wide pool shared by the host device.
var (
	defaultOnce sync.Once
	defaultPool *Pool
)

// Default returns the shared pool, creating it with GOMAXPROCS workers on
// first use. The shared pool is never closed.
func Default() *Pool {
	defaultOnce.Do(func() {
		defaultPool = NewPool(0)
	})
	return defaultPool
}
