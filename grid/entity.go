package grid

import (
	"fmt"

	"github.com/grinisrit/kotik"
)

// Entity is a logical sub-object of a grid: a vertex, edge, face or cell,
// identified by its topological dimension, its orientation among the
// C(D, d) placements of a d-dimensional entity in a D-dimensional cell,
// and the integer coordinate of its lowest corner vertex.
//
// Entities are small comparable value types. They are never materialized
// by the grid; they are created on demand, passed by value and discarded.
type Entity struct {
	Dimension   int
	Orientation int
	Coordinate  Coord
}

// String formats the entity as "d/o(x, y)".
func (e Entity) String() string {
	return fmt.Sprintf("%d/%d%s", e.Dimension, e.Orientation, e.Coordinate.format(MaxDimension))
}

// Entity validates the topology indices and coordinate against the grid
// and returns the addressed entity.
func (g *Grid) Entity(entityDim, orientation int, c Coord) (Entity, error) {
	if err := checkTopologyIndex(g.dim, entityDim, orientation); err != nil {
		return Entity{}, err
	}
	if !g.contains(entityDim, orientation, c) {
		return Entity{}, fmt.Errorf("grid: %d/%d entity at %s: %w",
			entityDim, orientation, c.format(g.dim), kotik.ErrOutOfGridBounds)
	}
	return Entity{Dimension: entityDim, Orientation: orientation, Coordinate: c}, nil
}

// ContainsEntity reports whether the entity's coordinate lies in the
// grid's valid range for its dimension and orientation.
func (g *Grid) ContainsEntity(e Entity) bool {
	if checkTopologyIndex(g.dim, e.Dimension, e.Orientation) != nil {
		return false
	}
	return g.contains(e.Dimension, e.Orientation, e.Coordinate)
}
