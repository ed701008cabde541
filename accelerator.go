package kotik

import (
	"errors"
	"sync"
)

// ErrFallbackToHost indicates the accelerator cannot execute this
// operation on the device. The caller should transparently orchestrate
// the operation on the host against staged buffer contents.
var ErrFallbackToHost = errors.New("kotik: falling back to host execution")

// CombineOp identifies the combining operators an accelerator can execute
// as device-side tree reductions. Arbitrary Go combine functions cannot
// run on the device; recognized operators are dispatched as compute
// kernels, everything else is orchestrated on the host.
type CombineOp uint32

const (
	// CombinePlus is addition with identity 0.
	CombinePlus CombineOp = 1 + iota

	// CombineMultiplies is multiplication with identity 1.
	CombineMultiplies

	// CombineMin is the minimum with identity +Inf.
	CombineMin

	// CombineMax is the maximum with identity -Inf.
	CombineMax
)

// String returns the operator name.
func (op CombineOp) String() string {
	switch op {
	case CombinePlus:
		return "plus"
	case CombineMultiplies:
		return "multiplies"
	case CombineMin:
		return "min"
	case CombineMax:
		return "max"
	default:
		return "unknown"
	}
}

// BufferID identifies a device-resident buffer owned by an accelerator.
// The zero value never names a live buffer.
type BufferID uint64

// Accelerator is an optional device backend for accelerator-tagged
// containers and range computations.
//
// When registered via RegisterAccelerator, accelerator-tagged vectors
// allocate through it and reduction/scan drivers dispatch recognized
// operators to it. If an operation returns ErrFallbackToHost, the devices
// package stages the buffer to host memory and completes the operation
// there; results differ at most by floating-point association order.
//
// Implementations are provided by backend packages (e.g., kotik/gpu).
// Users opt in via blank import:
//
//	import _ "github.com/grinisrit/kotik/gpu" // enables the wgpu accelerator
//
// All methods block until the device work is complete and its results are
// visible to the caller; internal asynchrony is an implementation freedom,
// not a visible contract.
type Accelerator interface {
	// Name returns the accelerator name (e.g., "wgpu", "mock").
	Name() string

	// Init initializes device resources. Called once during registration.
	Init() error

	// Close releases device resources.
	Close()

	// Alloc allocates a device buffer of the given size in bytes.
	Alloc(size uint64) (BufferID, error)

	// Free releases a buffer previously returned by Alloc.
	Free(id BufferID) error

	// Write copies src into the buffer starting at byte offset.
	Write(id BufferID, offset uint64, src []byte) error

	// Read copies from the buffer starting at byte offset into dst.
	Read(id BufferID, offset uint64, dst []byte) error

	// CanCombine reports whether the operator runs as a device kernel.
	// This is a fast check used to skip the device entirely for
	// unsupported operators.
	CanCombine(op CombineOp) bool

	// ReduceF32 combines the float32 elements in [begin, end) of the
	// buffer with a parallel tree reduction.
	// Returns ErrFallbackToHost if the operator is not supported.
	ReduceF32(id BufferID, begin, end int, op CombineOp) (float32, error)

	// ScanF32 writes the prefix combination of the float32 elements in
	// [begin, end) of src into the same positions of dst. Inclusive scans
	// include each element's own contribution in its output slot.
	// Returns ErrFallbackToHost if the operator is not supported.
	ScanF32(src, dst BufferID, begin, end int, op CombineOp, inclusive bool) error

	// FillF32 stores v in every float32 element in [begin, end).
	FillF32(id BufferID, begin, end int, v float32) error
}

// DeviceProviderAware is an optional interface for accelerators that can
// share a GPU device with an external provider (e.g., a gogpu window).
// When SetDeviceProvider is called, the accelerator reuses the provided
// device instead of creating its own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator registers an accelerator backend.
//
// Only one accelerator can be registered. Subsequent calls replace the
// previous one. The accelerator's Init() method is called during
// registration. If Init() fails, the accelerator is not registered and
// the error is returned.
//
// Typical usage via blank import in backend packages:
//
//	func init() {
//	    kotik.RegisterAccelerator(NewWGPUAccelerator())
//	}
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("kotik: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// UnregisterAccelerator removes and closes the registered accelerator.
// This is useful for testing.
func UnregisterAccelerator() {
	accelMu.Lock()
	old := accel
	accel = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
}

// GetAccelerator returns the currently registered accelerator, or nil if none.
func GetAccelerator() Accelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator, enabling GPU device sharing. If no accelerator is
// registered or it doesn't support device sharing, this is a no-op.
//
// The provider should implement HalDevice() any and HalQueue() any
// methods that return wgpu/hal types.
func SetAcceleratorDeviceProvider(provider any) error {
	a := GetAccelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
