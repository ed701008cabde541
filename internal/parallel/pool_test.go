package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"
)

func TestPool_Create(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("pool should be running after creation")
	}
}

func TestPool_CreateZeroWorkers(t *testing.T) {
	pool := NewPool(0)
	defer pool.Close()

	expected := runtime.GOMAXPROCS(0)
	if pool.Workers() != expected {
		t.Errorf("Workers() = %d, want %d (GOMAXPROCS)", pool.Workers(), expected)
	}
}

func TestPool_ForRange_VisitsEveryIndexOnce(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	const n = 100_000
	counts := make([]atomic.Int32, n)
	pool.ForRange(0, n, 1, func(i int) {
		counts[i].Add(1)
	})

	for i := range counts {
		if got := counts[i].Load(); got != 1 {
			t.Fatalf("index %d visited %d times", i, got)
		}
	}
}

func TestPool_ForRange_EmptyRange(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()

	called := false
	pool.ForRange(5, 5, 1, func(int) { called = true })
	pool.ForRange(7, 3, 1, func(int) { called = true })
	if called {
		t.Error("empty range invoked the function")
	}
}

func TestPool_ForRange_ShortRangeRunsInline(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	// A range below one grain must complete on the caller's goroutine,
	// so plain (unsynchronized) writes are safe.
	sum := 0
	pool.ForRange(0, 100, DefaultGrain, func(i int) { sum += i })
	if sum != 4950 {
		t.Errorf("sum = %d, want 4950", sum)
	}
}

func TestPool_ForRange_ClosedPoolStillCompletes(t *testing.T) {
	pool := NewPool(2)
	pool.Close()

	var counter atomic.Int64
	pool.ForRange(0, 10_000, 1, func(int) { counter.Add(1) })
	if counter.Load() != 10_000 {
		t.Errorf("counter = %d, want 10000", counter.Load())
	}
}

func TestMapChunks_PartialsCoverRange(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	const n = 50_000
	partials := MapChunks(pool, 0, n, 1, func(start, stop int) int64 {
		var s int64
		for i := start; i < stop; i++ {
			s += int64(i)
		}
		return s
	})

	var total int64
	for _, p := range partials {
		total += p
	}
	want := int64(n) * (n - 1) / 2
	if total != want {
		t.Errorf("total = %d, want %d", total, want)
	}
	if len(partials) > pool.Workers() {
		t.Errorf("%d partials for %d workers", len(partials), pool.Workers())
	}
}

func TestMapChunks_ChunkOrderIsAscending(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	bounds := MapChunks(pool, 0, 40_000, 1, func(start, stop int) [2]int {
		return [2]int{start, stop}
	})

	prev := 0
	for i, b := range bounds {
		if b[0] != prev {
			t.Fatalf("chunk %d starts at %d, want %d", i, b[0], prev)
		}
		prev = b[1]
	}
	if prev != 40_000 {
		t.Fatalf("chunks end at %d, want 40000", prev)
	}
}

func TestDefault_SharedPool(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() did not return the shared pool")
	}
	if Default().Workers() < 1 {
		t.Error("shared pool has no workers")
	}
}
