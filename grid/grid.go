package grid

import (
	"fmt"

	"github.com/grinisrit/kotik"
)

// Grid is a regular D-dimensional structured grid described by its
// per-axis extents, counted in cells. A grid owns no entity data: it is a
// coordinate-space descriptor, immutable once constructed, against which
// entities are addressed and validated.
type Grid struct {
	dim     int
	extents Coord
}

// NewGrid builds a grid from per-axis cell counts. Between one and
// MaxDimension extents are accepted and every extent must be positive.
func NewGrid(extents ...int) (*Grid, error) {
	if len(extents) < 1 || len(extents) > MaxDimension {
		return nil, fmt.Errorf("grid: %d axes, want 1..%d: %w", len(extents), MaxDimension, kotik.ErrInvalidTopologyIndex)
	}
	g := &Grid{dim: len(extents)}
	for k, e := range extents {
		if e <= 0 {
			return nil, fmt.Errorf("grid: extent %d on axis %d must be positive: %w", e, k, kotik.ErrInvalidTopologyIndex)
		}
		g.extents[k] = e
	}
	return g, nil
}

// MustNewGrid is like NewGrid but panics on invalid extents.
func MustNewGrid(extents ...int) *Grid {
	g, err := NewGrid(extents...)
	if err != nil {
		panic(err)
	}
	return g
}

// Dimension returns the grid dimension D.
func (g *Grid) Dimension() int { return g.dim }

// Extent returns the cell count along the given axis.
func (g *Grid) Extent(axis int) int { return g.extents[axis] }

// Extents returns a copy of the per-axis cell counts.
func (g *Grid) Extents() []int {
	out := make([]int, g.dim)
	copy(out, g.extents[:g.dim])
	return out
}

// OrientedExtents returns the number of valid coordinates per axis for
// entities of the given dimension and orientation. An axis the entity
// spans admits one coordinate per cell; any other axis admits one more,
// which is why horizontal edges have one fewer valid row offset than
// vertical edges.
func (g *Grid) OrientedExtents(entityDim, orientation int) (Coord, error) {
	axes, err := OrientationAxes(g.dim, entityDim, orientation)
	if err != nil {
		return Coord{}, err
	}
	var out Coord
	for k := 0; k < g.dim; k++ {
		if axes.Contains(k) {
			out[k] = g.extents[k]
		} else {
			out[k] = g.extents[k] + 1
		}
	}
	return out, nil
}

// OrientedEntitiesCount returns the number of entities of one dimension
// and orientation the grid addresses.
func (g *Grid) OrientedEntitiesCount(entityDim, orientation int) (int, error) {
	ext, err := g.OrientedExtents(entityDim, orientation)
	if err != nil {
		return 0, err
	}
	n := 1
	for k := 0; k < g.dim; k++ {
		n *= ext[k]
	}
	return n, nil
}

// EntitiesCount returns the number of entities of one dimension across
// all orientations.
func (g *Grid) EntitiesCount(entityDim int) (int, error) {
	if err := checkTopologyIndex(g.dim, entityDim, 0); err != nil {
		return 0, err
	}
	total := 0
	for o := 0; o < NumOrientations(g.dim, entityDim); o++ {
		n, err := g.OrientedEntitiesCount(entityDim, o)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// contains reports whether a coordinate lies in the valid index range of
// the given dimension and orientation. The topology indices must already
// be validated.
func (g *Grid) contains(entityDim, orientation int, c Coord) bool {
	ext, err := g.OrientedExtents(entityDim, orientation)
	if err != nil {
		return false
	}
	for k := 0; k < g.dim; k++ {
		if c[k] < 0 || c[k] >= ext[k] {
			return false
		}
	}
	for k := g.dim; k < MaxDimension; k++ {
		if c[k] != 0 {
			return false
		}
	}
	return true
}

// ForEachEntity visits every entity of one dimension and orientation in
// row-major coordinate order (axis 0 fastest). The visit order is part of
// the contract so traversal-derived results stay deterministic.
func (g *Grid) ForEachEntity(entityDim, orientation int, visit func(Entity)) error {
	ext, err := g.OrientedExtents(entityDim, orientation)
	if err != nil {
		return err
	}
	var c Coord
	for {
		visit(Entity{Dimension: entityDim, Orientation: orientation, Coordinate: c})
		axis := 0
		for axis < g.dim {
			c[axis]++
			if c[axis] < ext[axis] {
				break
			}
			c[axis] = 0
			axis++
		}
		if axis == g.dim {
			return nil
		}
	}
}
