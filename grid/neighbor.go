package grid

import (
	"errors"
	"fmt"

	"github.com/grinisrit/kotik"
)

// resolveNeighbor is the single neighbor-resolution kernel shared by the
// static and dynamic query forms. The target coordinate is the source
// coordinate plus the local incidence delta plus the stencil offset; a
// result outside the target orientation's valid range is a boundary
// condition reported as ErrOutOfGridBounds, never wrapped or clamped.
func resolveNeighbor(g *Grid, srcDim, srcOrientation, tgtDim, tgtOrientation int, c Coord, st Stencil) (Entity, error) {
	delta, err := LocalIncidence(g.dim, srcDim, srcOrientation, tgtDim, tgtOrientation)
	if err != nil {
		return Entity{}, err
	}
	tc := c.Add(delta).Add(Coord(st))
	if !g.contains(tgtDim, tgtOrientation, tc) {
		return Entity{}, fmt.Errorf("grid: neighbor %d/%d at %s of %d/%d at %s: %w",
			tgtDim, tgtOrientation, tc.format(g.dim),
			srcDim, srcOrientation, c.format(g.dim), kotik.ErrOutOfGridBounds)
	}
	return Entity{Dimension: tgtDim, Orientation: tgtOrientation, Coordinate: tc}, nil
}

// Neighbor resolves the neighbor of a source entity in the statically
// specialized form: the source and target kinds are compile-time type
// parameters, so dimension and orientation arithmetic involves no runtime
// topology lookups. The source entity must be of kind Src.
//
// Neighbor and the dynamic forms on Grid are guaranteed to return
// coordinate-identical entities for identical logical inputs.
func Neighbor[Src, Tgt Kind](g *Grid, e Entity, st Stencil) (Entity, error) {
	var src Src
	var tgt Tgt
	if e.Dimension != src.EntityDim() || e.Orientation != src.EntityOrientation() {
		return Entity{}, fmt.Errorf("grid: entity %v is not of the source kind %d/%d: %w",
			e, src.EntityDim(), src.EntityOrientation(), kotik.ErrInvalidTopologyIndex)
	}
	return resolveNeighbor(g, src.EntityDim(), src.EntityOrientation(),
		tgt.EntityDim(), tgt.EntityOrientation(), e.Coordinate, st)
}

// NeighborEntityOriented resolves a neighbor with runtime target
// dimension and orientation. The topology indices are validated and the
// query is dispatched through the finite kind table to the statically
// specialized form; grids beyond the typed kinds fall through to the
// shared resolution kernel directly.
func (g *Grid) NeighborEntityOriented(e Entity, targetDim, targetOrientation int, st Stencil) (Entity, error) {
	if err := checkTopologyIndex(g.dim, e.Dimension, e.Orientation); err != nil {
		return Entity{}, err
	}
	if err := checkTopologyIndex(g.dim, targetDim, targetOrientation); err != nil {
		return Entity{}, err
	}
	key := dispatchKey{e.Dimension, e.Orientation, targetDim, targetOrientation}
	if fn, ok := dispatchTable[key]; ok {
		return fn(g, e, st)
	}
	return resolveNeighbor(g, e.Dimension, e.Orientation, targetDim, targetOrientation, e.Coordinate, st)
}

// NeighborEntities resolves the neighbor for every valid orientation of
// the target dimension, in orientation order. Orientations whose resolved
// coordinate falls outside the grid contribute an ErrOutOfGridBounds to
// the joined error instead of an entity; callers on the grid boundary
// must branch on the error and handle those orientations explicitly.
func (g *Grid) NeighborEntities(e Entity, targetDim int, st Stencil) ([]Entity, error) {
	if err := checkTopologyIndex(g.dim, e.Dimension, e.Orientation); err != nil {
		return nil, err
	}
	if err := checkTopologyIndex(g.dim, targetDim, 0); err != nil {
		return nil, err
	}
	var (
		out  []Entity
		errs []error
	)
	for o := 0; o < NumOrientations(g.dim, targetDim); o++ {
		n, err := g.NeighborEntityOriented(e, targetDim, o, st)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, n)
	}
	return out, errors.Join(errs...)
}
