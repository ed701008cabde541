package grid

import (
	"fmt"

	"github.com/grinisrit/kotik"
)

// AxisSet is a bitmask over grid axes. Bit k is set when an entity spans
// axis k, i.e. extends from its lowest corner along that axis.
type AxisSet uint8

// Contains reports whether the set includes the given axis.
func (s AxisSet) Contains(axis int) bool { return s&(1<<axis) != 0 }

// Count returns the number of axes in the set.
func (s AxisSet) Count() int {
	n := 0
	for s != 0 {
		s &= s - 1
		n++
	}
	return n
}

// binomial returns C(n, k) for the small arguments topology needs.
func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	r := 1
	for i := 0; i < k; i++ {
		r = r * (n - i) / (i + 1)
	}
	return r
}

// NumOrientations returns the number of topologically distinct placements
// of an entityDim-dimensional entity inside a dim-dimensional cell,
// which is C(dim, entityDim): the number of ways to choose the axes the
// entity spans.
//
// NumOrientations panics if entityDim is outside [0, dim] or dim is
// outside [1, MaxDimension]; statically typed callers cannot reach the
// panic, dynamic callers must validate first.
func NumOrientations(dim, entityDim int) int {
	if dim < 1 || dim > MaxDimension || entityDim < 0 || entityDim > dim {
		panic(fmt.Sprintf("grid: no orientations for entity dimension %d in a %d-d grid", entityDim, dim))
	}
	return binomial(dim, entityDim)
}

// checkTopologyIndex validates an (entityDim, orientation) pair against a
// grid dimension.
func checkTopologyIndex(dim, entityDim, orientation int) error {
	if dim < 1 || dim > MaxDimension {
		return fmt.Errorf("grid: dimension %d: %w", dim, kotik.ErrInvalidTopologyIndex)
	}
	if entityDim < 0 || entityDim > dim {
		return fmt.Errorf("grid: entity dimension %d in a %d-d grid: %w", entityDim, dim, kotik.ErrInvalidTopologyIndex)
	}
	if orientation < 0 || orientation >= binomial(dim, entityDim) {
		return fmt.Errorf("grid: orientation %d of a %d-d entity in a %d-d grid: %w",
			orientation, entityDim, dim, kotik.ErrInvalidTopologyIndex)
	}
	return nil
}

// OrientationAxes returns the axis set spanned by the given orientation of
// an entityDim-dimensional entity. Orientations rank the size-entityDim
// axis subsets in lexicographic order, so in three dimensions edges order
// x, y, z and faces order xy, xz, yz.
func OrientationAxes(dim, entityDim, orientation int) (AxisSet, error) {
	if err := checkTopologyIndex(dim, entityDim, orientation); err != nil {
		return 0, err
	}
	var axes AxisSet
	remaining := entityDim
	rank := orientation
	for axis := 0; axis < dim && remaining > 0; axis++ {
		// Subsets starting with this axis.
		with := binomial(dim-axis-1, remaining-1)
		if rank < with {
			axes |= 1 << axis
			remaining--
		} else {
			rank -= with
		}
	}
	return axes, nil
}

// AxesOrientation is the inverse of OrientationAxes: it returns the
// orientation index whose spanned axes are exactly the given set.
func AxesOrientation(dim int, axes AxisSet) (int, error) {
	if dim < 1 || dim > MaxDimension || axes >= 1<<dim {
		return 0, fmt.Errorf("grid: axis set %b in a %d-d grid: %w", axes, dim, kotik.ErrInvalidTopologyIndex)
	}
	entityDim := axes.Count()
	rank := 0
	remaining := entityDim
	for axis := 0; axis < dim && remaining > 0; axis++ {
		if axes.Contains(axis) {
			remaining--
		} else {
			// Skip every subset that takes this axis next.
			rank += binomial(dim-axis-1, remaining-1)
		}
	}
	return rank, nil
}

// LocalIncidence returns the coordinate delta between the addressing
// scheme of a source orientation and that of a target orientation within
// the same grid cell.
//
// Every entity is addressed by the coordinate of its lowest corner
// vertex, so all addressing schemes share one origin and the delta is
// zero for every valid pair; the incidence structure lives entirely in
// the enumerated stencil sets (see IncidenceStencils). The function
// exists so the addressing convention stays in one place: neighbor
// resolution always computes coordinate + incidence + stencil.
func LocalIncidence(dim, fromDim, fromOrientation, toDim, toOrientation int) (Coord, error) {
	if err := checkTopologyIndex(dim, fromDim, fromOrientation); err != nil {
		return Coord{}, err
	}
	if err := checkTopologyIndex(dim, toDim, toOrientation); err != nil {
		return Coord{}, err
	}
	return Coord{}, nil
}

// IncidenceStencils enumerates the canonical stencil set between a source
// and a target orientation:
//
//   - the target spans a subset of the source's axes (closure): offsets 0
//     or +1 on each axis the source spans alone;
//   - the source spans a subset of the target's axes (star): offsets -1
//     or 0 on each axis the target spans alone;
//   - mixed spans combine both rules on their respective axes;
//   - identical spans yield the zero offset plus a ±1 step along every
//     grid axis.
//
// The enumeration order is deterministic: axes ascending, smaller offset
// first.
func IncidenceStencils(dim, fromDim, fromOrientation, toDim, toOrientation int) ([]Stencil, error) {
	src, err := OrientationAxes(dim, fromDim, fromOrientation)
	if err != nil {
		return nil, err
	}
	tgt, err := OrientationAxes(dim, toDim, toOrientation)
	if err != nil {
		return nil, err
	}

	if src == tgt {
		out := make([]Stencil, 0, 2*dim+1)
		out = append(out, Stencil{})
		for axis := 0; axis < dim; axis++ {
			var minus, plus Stencil
			minus[axis] = -1
			plus[axis] = 1
			out = append(out, minus, plus)
		}
		return out, nil
	}

	// Per-axis candidate offsets; axes shared by both spans or by
	// neither stay fixed at zero.
	choices := make([][]int, dim)
	total := 1
	for axis := 0; axis < dim; axis++ {
		switch {
		case src.Contains(axis) && !tgt.Contains(axis):
			choices[axis] = []int{0, 1}
		case tgt.Contains(axis) && !src.Contains(axis):
			choices[axis] = []int{-1, 0}
		default:
			choices[axis] = []int{0}
		}
		total *= len(choices[axis])
	}

	out := make([]Stencil, 0, total)
	var build func(axis int, st Stencil)
	build = func(axis int, st Stencil) {
		if axis == dim {
			out = append(out, st)
			return
		}
		for _, d := range choices[axis] {
			st[axis] = d
			build(axis+1, st)
		}
	}
	build(0, Stencil{})
	return out, nil
}
