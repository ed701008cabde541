package algorithms

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/grinisrit/kotik"
	"github.com/grinisrit/kotik/containers"
	"github.com/grinisrit/kotik/devices"
)

// Reduce combines fetch(i) for every i in [begin, end) under f and
// returns the result; an empty range yields f's identity.
//
// Fetch closures always execute on the host: selecting the accelerator
// device checks that a backend is registered, failing fast with
// kotik.ErrBackendUnavailable, and then orchestrates the closure on the
// host. Vector reductions that can run as device kernels go through
// ReduceVector instead.
func Reduce[T containers.Scalar, D devices.Device](begin, end int, fetch func(i int) T, f Functional[T]) (T, error) {
	var zero T
	if begin > end {
		return zero, fmt.Errorf("algorithms: reduce range [%d, %d): %w", begin, end, kotik.ErrSizeMismatch)
	}
	if devices.IsAccel[D]() {
		if _, err := devices.Accelerator(); err != nil {
			return zero, err
		}
	}
	return devices.ReduceRange(begin, end, fetch, f.Combine, f.Identity()), nil
}

// ReduceVector reduces all elements of v under f.
//
// Accelerator vectors with float32 elements and a recognised operator
// reduce entirely on the device; other accelerator vectors stage their
// elements to the host first. Host float64 sums take the vectorised
// summation path.
func ReduceVector[T containers.Scalar, D devices.Device](v *containers.Vector[T, D], f Functional[T]) (T, error) {
	var zero T
	if acc, buf, ok := v.Accelerated(); ok {
		if _, isF32 := any(zero).(float32); isF32 && acc.CanCombine(f.Op()) {
			r, err := acc.ReduceF32(buf, 0, v.Size(), f.Op())
			if err == nil {
				return any(r).(T), nil
			}
			if !errors.Is(err, kotik.ErrFallbackToHost) {
				return zero, err
			}
		}
	}

	view, err := v.ConstView()
	if err != nil {
		return zero, err
	}
	data := view.Data()

	if fs, ok := any(data).([]float64); ok && f.Op() == kotik.CombinePlus {
		return any(floats.Sum(fs)).(T), nil
	}
	return devices.ReduceRange(0, len(data), func(i int) T { return data[i] }, f.Combine, f.Identity()), nil
}
