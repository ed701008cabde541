package grid

import (
	"fmt"
	"strings"
)

// MaxDimension is the highest grid dimension the library supports.
// Coordinates are fixed-size arrays so entities stay small comparable
// value types that never allocate.
const MaxDimension = 4

// Coord is a multi-dimensional integer coordinate. Axes beyond the grid's
// dimension are always zero.
type Coord [MaxDimension]int

// C builds a coordinate from per-axis values.
// It panics if more than MaxDimension values are given.
func C(values ...int) Coord {
	if len(values) > MaxDimension {
		panic(fmt.Sprintf("grid: coordinate has %d axes, limit is %d", len(values), MaxDimension))
	}
	var c Coord
	copy(c[:], values)
	return c
}

// Add returns the component-wise sum of two coordinates.
func (c Coord) Add(o Coord) Coord {
	var r Coord
	for k := range r {
		r[k] = c[k] + o[k]
	}
	return r
}

// At returns the component along the given axis.
func (c Coord) At(axis int) int { return c[axis] }

// format prints the first dim components, "(x, y)" style.
func (c Coord) format(dim int) string {
	var b strings.Builder
	b.WriteByte('(')
	for k := 0; k < dim; k++ {
		if k > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", c[k])
	}
	b.WriteByte(')')
	return b.String()
}

// Stencil is a signed per-axis offset pattern naming which neighboring
// coordinate to resolve relative to a source entity. Two stencils are
// distinct if any axis offset differs.
type Stencil Coord

// Offset builds a stencil from per-axis deltas.
// It panics if more than MaxDimension deltas are given.
func Offset(deltas ...int) Stencil {
	return Stencil(C(deltas...))
}
