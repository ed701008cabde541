// Package containers provides device-resident owning buffers and the
// non-owning views used inside range computations.
package containers

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/grinisrit/kotik"
	"github.com/grinisrit/kotik/devices"
)

// Vector is an owning buffer of N scalar elements on the device selected
// by the type parameter D. Exactly one owner exists per buffer; views may
// be derived but never transfer ownership.
//
// Host vectors store elements in process memory. Accelerator vectors own
// a device buffer and keep a lazily allocated host staging mirror used by
// View, ConstView and String; Sync uploads the mirror back to the device.
// By convention a vector has a single writer at a time; the API never
// shares a vector across goroutines implicitly.
type Vector[T Scalar, D devices.Device] struct {
	n    int
	data []T

	acc kotik.Accelerator
	buf kotik.BufferID
}

// elemSize returns the in-memory size of the element type.
func elemSize[T Scalar]() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}

// asBytes reinterprets an element slice as its byte representation for
// staging transfers.
func asBytes[T Scalar](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), uintptr(len(s))*unsafe.Sizeof(s[0]))
}

// NewVector allocates a vector of n elements on device D.
//
// For the accelerator device the buffer is allocated through the
// registered accelerator; if none is registered the call fails
// immediately with kotik.ErrBackendUnavailable, before any computation
// is attempted.
func NewVector[T Scalar, D devices.Device](n int) (*Vector[T, D], error) {
	if n < 0 {
		return nil, fmt.Errorf("containers: negative vector size %d", n)
	}
	if !devices.IsAccel[D]() {
		return &Vector[T, D]{n: n, data: make([]T, n)}, nil
	}

	acc, err := devices.Accelerator()
	if err != nil {
		return nil, err
	}
	v := &Vector[T, D]{n: n, acc: acc}
	if n > 0 {
		v.buf, err = acc.Alloc(uint64(n) * elemSize[T]())
		if err != nil {
			return nil, fmt.Errorf("containers: allocate %d elements: %w", n, err)
		}
	}
	return v, nil
}

// MustNewVector is like NewVector but panics on error.
func MustNewVector[T Scalar, D devices.Device](n int) *Vector[T, D] {
	v, err := NewVector[T, D](n)
	if err != nil {
		panic(err)
	}
	return v
}

// Size returns the number of elements.
func (v *Vector[T, D]) Size() int { return v.n }

// Device returns the name of the vector's device.
func (v *Vector[T, D]) Device() string { return devices.Name[D]() }

// Close releases the owned device buffer. Views derived from the vector
// become invalid. Close is idempotent and a no-op for host vectors.
func (v *Vector[T, D]) Close() error {
	if v.acc == nil || v.buf == 0 {
		return nil
	}
	err := v.acc.Free(v.buf)
	v.buf = 0
	v.data = nil
	return err
}

// Accelerated exposes the accelerator and buffer of an accelerator
// vector, for kernel dispatch by the algorithms package. ok is false for
// host vectors.
func (v *Vector[T, D]) Accelerated() (acc kotik.Accelerator, buf kotik.BufferID, ok bool) {
	if v.acc == nil || v.buf == 0 {
		return nil, 0, false
	}
	return v.acc, v.buf, true
}

// staging returns the host mirror, allocating it on first use.
func (v *Vector[T, D]) staging() []T {
	if v.data == nil {
		v.data = make([]T, v.n)
	}
	return v.data
}

// Read copies the vector's elements into dst, staging from the device
// for accelerator vectors.
func (v *Vector[T, D]) Read(dst []T) error {
	if len(dst) != v.n {
		return fmt.Errorf("containers: read %d elements into %d: %w", v.n, len(dst), kotik.ErrSizeMismatch)
	}
	if v.acc == nil {
		copy(dst, v.data)
		return nil
	}
	if v.n == 0 {
		return nil
	}
	return v.acc.Read(v.buf, 0, asBytes(dst))
}

// Write copies src into the vector, uploading to the device for
// accelerator vectors.
func (v *Vector[T, D]) Write(src []T) error {
	if len(src) != v.n {
		return fmt.Errorf("containers: write %d elements into %d: %w", len(src), v.n, kotik.ErrSizeMismatch)
	}
	if v.acc == nil {
		copy(v.data, src)
		return nil
	}
	if v.n == 0 {
		return nil
	}
	return v.acc.Write(v.buf, 0, asBytes(src))
}

// Element returns the element at index i.
func (v *Vector[T, D]) Element(i int) (T, error) {
	var zero T
	if i < 0 || i >= v.n {
		return zero, fmt.Errorf("containers: index %d of %d: %w", i, v.n, kotik.ErrSizeMismatch)
	}
	if v.acc == nil {
		return v.data[i], nil
	}
	var out [1]T
	if err := v.acc.Read(v.buf, uint64(i)*elemSize[T](), asBytes(out[:])); err != nil {
		return zero, err
	}
	return out[0], nil
}

// SetElement stores x at index i.
func (v *Vector[T, D]) SetElement(i int, x T) error {
	if i < 0 || i >= v.n {
		return fmt.Errorf("containers: index %d of %d: %w", i, v.n, kotik.ErrSizeMismatch)
	}
	if v.acc == nil {
		v.data[i] = x
		return nil
	}
	in := [1]T{x}
	return v.acc.Write(v.buf, uint64(i)*elemSize[T](), asBytes(in[:]))
}

// Fill broadcasts a scalar to every element. Host vectors broadcast
// through ExecuteRange; accelerator vectors use the device fill kernel
// for float32 elements and a staged upload otherwise.
func (v *Vector[T, D]) Fill(x T) error {
	if v.n == 0 {
		return nil
	}
	if v.acc == nil {
		data := v.data
		devices.ExecuteRange(0, v.n, func(i int) { data[i] = x })
		return nil
	}
	if f, ok := any(x).(float32); ok {
		return v.acc.FillF32(v.buf, 0, v.n, f)
	}
	s := v.staging()
	for i := range s {
		s[i] = x
	}
	return v.acc.Write(v.buf, 0, asBytes(s))
}

// View returns a mutable view of the vector's elements. For accelerator
// vectors the elements are staged to the host mirror first; call Sync to
// upload mutations back to the device.
func (v *Vector[T, D]) View() (View[T], error) {
	if v.acc == nil {
		return View[T]{data: v.data}, nil
	}
	s := v.staging()
	if v.n > 0 {
		if err := v.acc.Read(v.buf, 0, asBytes(s)); err != nil {
			return View[T]{}, err
		}
	}
	return View[T]{data: s}, nil
}

// ConstView returns a read-only view of the vector's elements, staged
// from the device for accelerator vectors.
func (v *Vector[T, D]) ConstView() (ConstView[T], error) {
	view, err := v.View()
	if err != nil {
		return ConstView[T]{}, err
	}
	return ConstView[T]{data: view.data}, nil
}

// Sync uploads the host staging mirror back to the device after
// mutations through a view. It is a no-op for host vectors.
func (v *Vector[T, D]) Sync() error {
	if v.acc == nil || v.n == 0 || v.data == nil {
		return nil
	}
	return v.acc.Write(v.buf, 0, asBytes(v.data))
}

// String formats the vector as "[ e0, e1, ... ]".
func (v *Vector[T, D]) String() string {
	if v.n == 0 {
		return "[ ]"
	}
	elems := make([]T, v.n)
	if err := v.Read(elems); err != nil {
		return fmt.Sprintf("[ <unreadable: %v> ]", err)
	}
	var b strings.Builder
	b.WriteString("[ ")
	for i, e := range elems {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", e)
	}
	b.WriteString(" ]")
	return b.String()
}
