// Package mockaccel is a host-backed accelerator for development and
// tests. It satisfies the kotik.Accelerator contract but executes on the
// CPU, so accelerator-tagged code paths can be exercised without a GPU.
package mockaccel

import (
	"fmt"
	"math"
	"sync"
	"unsafe"

	"github.com/grinisrit/kotik"
)

// Accelerator is a CPU-backed mock accelerator.
type Accelerator struct {
	// InitError, when set, is returned from Init so registration
	// failures can be tested.
	InitError error

	mu      sync.Mutex
	buffers map[kotik.BufferID][]byte
	next    uint64
}

// New returns a mock accelerator with no allocated buffers.
func New() *Accelerator {
	return &Accelerator{buffers: make(map[kotik.BufferID][]byte)}
}

// Name returns "mock".
func (a *Accelerator) Name() string { return "mock" }

// Init returns InitError, which is nil unless a test set it.
func (a *Accelerator) Init() error { return a.InitError }

// Close drops all buffers.
func (a *Accelerator) Close() {
	a.mu.Lock()
	a.buffers = make(map[kotik.BufferID][]byte)
	a.mu.Unlock()
}

// Alloc allocates a zeroed buffer of the given byte size.
func (a *Accelerator) Alloc(size uint64) (kotik.BufferID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	id := kotik.BufferID(a.next)
	a.buffers[id] = make([]byte, size)
	return id, nil
}

// Free releases a buffer.
func (a *Accelerator) Free(id kotik.BufferID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.buffers[id]; !ok {
		return fmt.Errorf("mockaccel: free of unknown buffer %d", id)
	}
	delete(a.buffers, id)
	return nil
}

// buffer returns the raw storage of a live buffer.
func (a *Accelerator) buffer(id kotik.BufferID) ([]byte, error) {
	b, ok := a.buffers[id]
	if !ok {
		return nil, fmt.Errorf("mockaccel: unknown buffer %d", id)
	}
	return b, nil
}

// Write copies src into the buffer at the byte offset.
func (a *Accelerator) Write(id kotik.BufferID, offset uint64, src []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, err := a.buffer(id)
	if err != nil {
		return err
	}
	if offset+uint64(len(src)) > uint64(len(b)) {
		return fmt.Errorf("mockaccel: write of %d bytes at %d exceeds buffer of %d", len(src), offset, len(b))
	}
	copy(b[offset:], src)
	return nil
}

// Read copies from the buffer at the byte offset into dst.
func (a *Accelerator) Read(id kotik.BufferID, offset uint64, dst []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, err := a.buffer(id)
	if err != nil {
		return err
	}
	if offset+uint64(len(dst)) > uint64(len(b)) {
		return fmt.Errorf("mockaccel: read of %d bytes at %d exceeds buffer of %d", len(dst), offset, len(b))
	}
	copy(dst, b[offset:])
	return nil
}

// CanCombine reports support for all enumerated operators.
func (a *Accelerator) CanCombine(op kotik.CombineOp) bool {
	switch op {
	case kotik.CombinePlus, kotik.CombineMultiplies, kotik.CombineMin, kotik.CombineMax:
		return true
	default:
		return false
	}
}

func combine(op kotik.CombineOp, x, y float32) float32 {
	switch op {
	case kotik.CombinePlus:
		return x + y
	case kotik.CombineMultiplies:
		return x * y
	case kotik.CombineMin:
		return float32(math.Min(float64(x), float64(y)))
	default:
		return float32(math.Max(float64(x), float64(y)))
	}
}

func identity(op kotik.CombineOp) float32 {
	switch op {
	case kotik.CombinePlus:
		return 0
	case kotik.CombineMultiplies:
		return 1
	case kotik.CombineMin:
		return float32(math.Inf(1))
	default:
		return float32(math.Inf(-1))
	}
}

// floats reinterprets buffer storage as float32 elements.
func floats(b []byte) []float32 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), len(b)/4)
}

// treeReduce combines pairwise, halving the width each pass, mirroring
// the association order of a device tree reduction.
func treeReduce(xs []float32, op kotik.CombineOp) float32 {
	if len(xs) == 0 {
		return identity(op)
	}
	work := make([]float32, len(xs))
	copy(work, xs)
	for len(work) > 1 {
		half := (len(work) + 1) / 2
		for i := 0; i < len(work)/2; i++ {
			work[i] = combine(op, work[2*i], work[2*i+1])
		}
		if len(work)%2 == 1 {
			work[half-1] = work[len(work)-1]
		}
		work = work[:half]
	}
	return work[0]
}

// ReduceF32 tree-reduces the float32 elements in [begin, end).
func (a *Accelerator) ReduceF32(id kotik.BufferID, begin, end int, op kotik.CombineOp) (float32, error) {
	if !a.CanCombine(op) {
		return 0, kotik.ErrFallbackToHost
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	b, err := a.buffer(id)
	if err != nil {
		return 0, err
	}
	xs := floats(b)
	if begin < 0 || end > len(xs) || begin > end {
		return 0, fmt.Errorf("mockaccel: reduce range [%d, %d) of %d elements", begin, end, len(xs))
	}
	return treeReduce(xs[begin:end], op), nil
}

// ScanF32 writes the prefix combination of src's [begin, end) elements
// into the same positions of dst.
func (a *Accelerator) ScanF32(src, dst kotik.BufferID, begin, end int, op kotik.CombineOp, inclusive bool) error {
	if !a.CanCombine(op) {
		return kotik.ErrFallbackToHost
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	sb, err := a.buffer(src)
	if err != nil {
		return err
	}
	db, err := a.buffer(dst)
	if err != nil {
		return err
	}
	in, out := floats(sb), floats(db)
	if begin < 0 || end > len(in) || end > len(out) || begin > end {
		return fmt.Errorf("mockaccel: scan range [%d, %d) of %d elements", begin, end, len(in))
	}
	acc := identity(op)
	for i := begin; i < end; i++ {
		v := in[i]
		if inclusive {
			acc = combine(op, acc, v)
			out[i] = acc
		} else {
			out[i] = acc
			acc = combine(op, acc, v)
		}
	}
	return nil
}

// FillF32 stores v into every float32 element in [begin, end).
func (a *Accelerator) FillF32(id kotik.BufferID, begin, end int, v float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, err := a.buffer(id)
	if err != nil {
		return err
	}
	xs := floats(b)
	if begin < 0 || end > len(xs) || begin > end {
		return fmt.Errorf("mockaccel: fill range [%d, %d) of %d elements", begin, end, len(xs))
	}
	for i := begin; i < end; i++ {
		xs[i] = v
	}
	return nil
}
