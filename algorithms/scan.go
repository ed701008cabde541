package algorithms

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/grinisrit/kotik"
	"github.com/grinisrit/kotik/containers"
	"github.com/grinisrit/kotik/devices"
)

// Scan computes the prefix combination of fetch(i) for i in [begin, end)
// under f and returns it as a new vector of end-begin elements on device
// D. Inclusive scans place the combination of the first k+1 inputs at
// position k; exclusive scans shift it one right, starting from f's
// identity.
//
// As with Reduce, fetch closures execute on the host; selecting the
// accelerator device requires a registered backend and uploads the
// result to it.
func Scan[T containers.Scalar, D devices.Device](begin, end int, fetch func(i int) T, f Functional[T], inclusive bool) (*containers.Vector[T, D], error) {
	if begin > end {
		return nil, fmt.Errorf("algorithms: scan range [%d, %d): %w", begin, end, kotik.ErrSizeMismatch)
	}
	out, err := containers.NewVector[T, D](end - begin)
	if err != nil {
		return nil, err
	}
	elems := devices.ScanRange(begin, end, fetch, f.Combine, f.Identity(), inclusive)
	if len(elems) == 0 {
		return out, nil
	}
	if err := out.Write(elems); err != nil {
		out.Close()
		return nil, err
	}
	return out, nil
}

// ScanVector computes the prefix combination of v's elements under f
// and returns it as a new vector on v's device. v is not modified.
//
// Accelerator vectors with float32 elements and a recognised operator
// scan entirely on the device. Host float64 inclusive sums take the
// vectorised cumulative-sum path.
func ScanVector[T containers.Scalar, D devices.Device](v *containers.Vector[T, D], f Functional[T], inclusive bool) (*containers.Vector[T, D], error) {
	n := v.Size()
	out, err := containers.NewVector[T, D](n)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return out, nil
	}

	if acc, srcBuf, ok := v.Accelerated(); ok {
		var zero T
		if _, isF32 := any(zero).(float32); isF32 && acc.CanCombine(f.Op()) {
			_, dstBuf, _ := out.Accelerated()
			err := acc.ScanF32(srcBuf, dstBuf, 0, n, f.Op(), inclusive)
			if err == nil {
				return out, nil
			}
			if !errors.Is(err, kotik.ErrFallbackToHost) {
				out.Close()
				return nil, err
			}
		}
	}

	view, err := v.ConstView()
	if err != nil {
		out.Close()
		return nil, err
	}
	data := view.Data()

	if fs, ok := any(data).([]float64); ok && f.Op() == kotik.CombinePlus && inclusive {
		dst := make([]float64, n)
		floats.CumSum(dst, fs)
		if err := out.Write(any(dst).([]T)); err != nil {
			out.Close()
			return nil, err
		}
		return out, nil
	}

	elems := devices.ScanRange(0, n, func(i int) T { return data[i] }, f.Combine, f.Identity(), inclusive)
	if err := out.Write(elems); err != nil {
		out.Close()
		return nil, err
	}
	return out, nil
}
