// Package grid models regular structured grids and their sub-entity
// topology.
//
// A D-dimensional grid addresses vertices, edges, faces and cells by
// topological dimension d, orientation (one of the C(D, d) axis-subset
// placements of a d-dimensional entity in a cell) and the integer
// coordinate of the entity's lowest corner vertex.
//
// Neighbor queries resolve a stencil offset from a source entity to a
// target kind. Two call forms share one resolution kernel:
//
//   - the static form, Neighbor[Src, Tgt], takes entity kinds as
//     compile-time type parameters;
//   - the dynamic forms on Grid take dimension and orientation as runtime
//     values, validate them, and dispatch through a finite table of
//     static instantiations.
//
// Both forms agree exactly on integer coordinates. A query resolving
// outside the grid reports kotik.ErrOutOfGridBounds; coordinates are
// never wrapped or clamped.
package grid
