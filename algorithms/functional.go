// Package algorithms provides device-dispatched reduction and prefix-sum
// drivers over scalar ranges and vectors.
//
// Each driver is parameterised by a device type. Host execution runs on
// the worker pool; accelerator execution lowers recognised operators to
// device kernels and otherwise stages the data through the host, never
// silently changing the result.
package algorithms

import (
	"math"

	"github.com/grinisrit/kotik"
	"github.com/grinisrit/kotik/containers"
)

// Functional pairs an associative binary combination with its identity
// element and names the corresponding device operator. Reductions may
// reassociate the combination freely, so non-associative functions must
// not be wrapped in a Functional.
type Functional[T containers.Scalar] interface {
	Combine(a, b T) T
	Identity() T
	Op() kotik.CombineOp
}

// isFloat reports whether T is a floating-point scalar.
func isFloat[T containers.Scalar]() bool {
	return T(1)/T(2) != 0
}

// maxValue returns the largest representable value of T, used as the
// identity of Min. Integer widths are probed by doubling until the
// wrap, which Go defines for signed integers.
func maxValue[T containers.Scalar]() T {
	if isFloat[T]() {
		return T(math.Inf(1))
	}
	v := T(1)
	for {
		w := v*2 + 1
		if w <= v {
			return v
		}
		v = w
	}
}

// minValue returns the smallest representable value of T, used as the
// identity of Max.
func minValue[T containers.Scalar]() T {
	if isFloat[T]() {
		return T(math.Inf(-1))
	}
	return -maxValue[T]() - 1
}

type plus[T containers.Scalar] struct{}

func (plus[T]) Combine(a, b T) T    { return a + b }
func (plus[T]) Identity() T         { var zero T; return zero }
func (plus[T]) Op() kotik.CombineOp { return kotik.CombinePlus }

// Plus is addition with identity zero.
func Plus[T containers.Scalar]() Functional[T] { return plus[T]{} }

type multiplies[T containers.Scalar] struct{}

func (multiplies[T]) Combine(a, b T) T    { return a * b }
func (multiplies[T]) Identity() T         { return 1 }
func (multiplies[T]) Op() kotik.CombineOp { return kotik.CombineMultiplies }

// Multiplies is multiplication with identity one.
func Multiplies[T containers.Scalar]() Functional[T] { return multiplies[T]{} }

type minOf[T containers.Scalar] struct{}

func (minOf[T]) Combine(a, b T) T {
	if b < a {
		return b
	}
	return a
}
func (minOf[T]) Identity() T         { return maxValue[T]() }
func (minOf[T]) Op() kotik.CombineOp { return kotik.CombineMin }

// Min selects the smaller operand; its identity is the largest
// representable value of T.
func Min[T containers.Scalar]() Functional[T] { return minOf[T]{} }

type maxOf[T containers.Scalar] struct{}

func (maxOf[T]) Combine(a, b T) T {
	if b > a {
		return b
	}
	return a
}
func (maxOf[T]) Identity() T         { return minValue[T]() }
func (maxOf[T]) Op() kotik.CombineOp { return kotik.CombineMax }

// Max selects the larger operand; its identity is the smallest
// representable value of T.
func Max[T containers.Scalar]() Functional[T] { return maxOf[T]{} }

type logicalAnd[T containers.Scalar] struct{}

func (logicalAnd[T]) Combine(a, b T) T {
	if a != 0 && b != 0 {
		return 1
	}
	return 0
}
func (logicalAnd[T]) Identity() T         { return 1 }
func (logicalAnd[T]) Op() kotik.CombineOp { return 0 }

// LogicalAnd treats nonzero operands as true and yields 1 when both are
// true. It has no device kernel and always executes on the host.
func LogicalAnd[T containers.Scalar]() Functional[T] { return logicalAnd[T]{} }

type logicalOr[T containers.Scalar] struct{}

func (logicalOr[T]) Combine(a, b T) T {
	if a != 0 || b != 0 {
		return 1
	}
	return 0
}
func (logicalOr[T]) Identity() T         { return 0 }
func (logicalOr[T]) Op() kotik.CombineOp { return 0 }

// LogicalOr treats nonzero operands as true and yields 1 when either is
// true. It has no device kernel and always executes on the host.
func LogicalOr[T containers.Scalar]() Functional[T] { return logicalOr[T]{} }
