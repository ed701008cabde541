package grid

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/grinisrit/kotik"
)

// staticNeighbor2D invokes the statically specialized query for a 2-d
// cell source, mirroring how stencil kernels instantiate the generic form
// with concrete kinds.
func staticNeighbor2D(g *Grid, e Entity, targetDim, targetOrientation int, st Stencil) (Entity, error) {
	switch {
	case targetDim == 0 && targetOrientation == 0:
		return Neighbor[Cell2, Vertex](g, e, st)
	case targetDim == 1 && targetOrientation == 0:
		return Neighbor[Cell2, EdgeX](g, e, st)
	case targetDim == 1 && targetOrientation == 1:
		return Neighbor[Cell2, EdgeY](g, e, st)
	case targetDim == 2 && targetOrientation == 0:
		return Neighbor[Cell2, Cell2](g, e, st)
	default:
		return Entity{}, fmt.Errorf("no static kind for %d/%d", targetDim, targetOrientation)
	}
}

// TestNeighbor_StaticDynamicAgree_2D checks that for every cell of a 2-d
// grid, every target dimension, every target orientation and every
// canonical stencil, the static and dynamic query forms resolve
// coordinate-identical entities, and fail identically on the boundary.
func TestNeighbor_StaticDynamicAgree_2D(t *testing.T) {
	g := MustNewGrid(4, 3)

	err := g.ForEachEntity(2, 0, func(e Entity) {
		for targetDim := 0; targetDim <= 2; targetDim++ {
			for o := 0; o < NumOrientations(2, targetDim); o++ {
				stencils, err := IncidenceStencils(2, 2, 0, targetDim, o)
				if err != nil {
					t.Fatalf("IncidenceStencils(%d/%d): %v", targetDim, o, err)
				}
				for _, st := range stencils {
					want, wantErr := staticNeighbor2D(g, e, targetDim, o, st)
					got, gotErr := g.NeighborEntityOriented(e, targetDim, o, st)

					if (wantErr == nil) != (gotErr == nil) {
						t.Fatalf("cell %v -> %d/%d stencil %v: static err %v, dynamic err %v",
							e, targetDim, o, st, wantErr, gotErr)
					}
					if wantErr != nil {
						if !errors.Is(gotErr, kotik.ErrOutOfGridBounds) {
							t.Fatalf("cell %v -> %d/%d stencil %v: unexpected error %v",
								e, targetDim, o, st, gotErr)
						}
						continue
					}
					if got != want {
						t.Fatalf("cell %v -> %d/%d stencil %v: static %v, dynamic %v",
							e, targetDim, o, st, want, got)
					}
				}
			}
		}
	})
	if err != nil {
		t.Fatal(err)
	}
}

// TestNeighborEntities_MatchesStaticEnumeration checks that the dynamic
// "all orientations" query returns the same entity set as manually
// iterating target orientations with the static form.
func TestNeighborEntities_MatchesStaticEnumeration(t *testing.T) {
	g := MustNewGrid(4, 3)
	cell := Entity{Dimension: 2, Orientation: 0, Coordinate: C(1, 1)}

	for targetDim := 0; targetDim <= 2; targetDim++ {
		var want []Entity
		for o := 0; o < NumOrientations(2, targetDim); o++ {
			n, err := staticNeighbor2D(g, cell, targetDim, o, Stencil{})
			if err != nil {
				t.Fatalf("static %d/%d: %v", targetDim, o, err)
			}
			want = append(want, n)
		}

		got, err := g.NeighborEntities(cell, targetDim, Stencil{})
		if err != nil {
			t.Fatalf("NeighborEntities(%d): %v", targetDim, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("neighbor set for target dimension %d (-static +dynamic):\n%s", targetDim, diff)
		}
	}
}

func TestNeighbor_OutOfGridBounds(t *testing.T) {
	g := MustNewGrid(4, 3)

	tests := []struct {
		name      string
		e         Entity
		targetDim int
		targetO   int
		st        Stencil
	}{
		{"cell past right edge", Entity{2, 0, C(3, 1)}, 2, 0, Offset(1, 0)},
		{"cell past top edge", Entity{2, 0, C(0, 2)}, 2, 0, Offset(0, 1)},
		{"vertex below origin", Entity{0, 0, C(0, 0)}, 0, 0, Offset(0, -1)},
		{"x-edge row overflow", Entity{2, 0, C(0, 2)}, 1, 0, Offset(0, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.NeighborEntityOriented(tt.e, tt.targetDim, tt.targetO, tt.st)
			if !errors.Is(err, kotik.ErrOutOfGridBounds) {
				t.Fatalf("want ErrOutOfGridBounds, got entity %v err %v", got, err)
			}
			if got != (Entity{}) {
				t.Errorf("boundary query returned entity %v alongside the error", got)
			}
		})
	}
}

func TestNeighbor_NeverWrapsOrClamps(t *testing.T) {
	g := MustNewGrid(4, 3)

	// Walk right from the last cell; every resolved coordinate must be
	// strictly the requested one or an error, never x%4 or x clamped to 3.
	for dx := 1; dx <= 6; dx++ {
		e := Entity{Dimension: 2, Orientation: 0, Coordinate: C(3, 0)}
		n, err := g.NeighborEntityOriented(e, 2, 0, Offset(dx, 0))
		if err == nil {
			t.Fatalf("offset %d resolved to %v, want out-of-bounds error", dx, n)
		}
	}
}

func TestNeighbor_WrongSourceKind(t *testing.T) {
	g := MustNewGrid(4, 3)
	edge := Entity{Dimension: 1, Orientation: 1, Coordinate: C(1, 1)}

	_, err := Neighbor[Cell2, Vertex](g, edge, Stencil{})
	if !errors.Is(err, kotik.ErrInvalidTopologyIndex) {
		t.Fatalf("want ErrInvalidTopologyIndex, got %v", err)
	}
}

func TestNeighborDynamic_InvalidTarget(t *testing.T) {
	g := MustNewGrid(4, 3)
	cell := Entity{Dimension: 2, Orientation: 0, Coordinate: C(0, 0)}

	if _, err := g.NeighborEntityOriented(cell, 3, 0, Stencil{}); !errors.Is(err, kotik.ErrInvalidTopologyIndex) {
		t.Fatalf("target dimension 3 in a 2-d grid: want ErrInvalidTopologyIndex, got %v", err)
	}
	if _, err := g.NeighborEntityOriented(cell, 1, 2, Stencil{}); !errors.Is(err, kotik.ErrInvalidTopologyIndex) {
		t.Fatalf("edge orientation 2 in a 2-d grid: want ErrInvalidTopologyIndex, got %v", err)
	}
	if _, err := g.NeighborEntities(cell, -1, Stencil{}); !errors.Is(err, kotik.ErrInvalidTopologyIndex) {
		t.Fatalf("negative target dimension: want ErrInvalidTopologyIndex, got %v", err)
	}
}

func TestNeighbor_Deterministic(t *testing.T) {
	g := MustNewGrid(5, 5)
	e := Entity{Dimension: 2, Orientation: 0, Coordinate: C(2, 2)}

	first, err := g.NeighborEntityOriented(e, 1, 1, Offset(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		again, err := g.NeighborEntityOriented(e, 1, 1, Offset(1, 0))
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("iteration %d resolved %v, first resolved %v", i, again, first)
		}
	}
}

func TestNeighbor_3D(t *testing.T) {
	g := MustNewGrid(3, 3, 3)
	cell := Entity{Dimension: 3, Orientation: 0, Coordinate: C(1, 1, 1)}

	// A cell touches its six face neighbors through the three face kinds.
	faces, err := g.NeighborEntities(cell, 2, Stencil{})
	if err != nil {
		t.Fatal(err)
	}
	want := []Entity{
		{Dimension: 2, Orientation: 0, Coordinate: C(1, 1, 1)},
		{Dimension: 2, Orientation: 1, Coordinate: C(1, 1, 1)},
		{Dimension: 2, Orientation: 2, Coordinate: C(1, 1, 1)},
	}
	if diff := cmp.Diff(want, faces); diff != "" {
		t.Errorf("face neighbors (-want +got):\n%s", diff)
	}

	// The far corner vertex of the cell.
	v, err := Neighbor[Cell3, Vertex](g, cell, Offset(1, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if v.Coordinate != C(2, 2, 2) {
		t.Errorf("far corner = %v, want (2, 2, 2)", v.Coordinate)
	}

	// EdgeZ is meaningless in two dimensions.
	g2 := MustNewGrid(3, 3)
	cell2 := Entity{Dimension: 2, Orientation: 0, Coordinate: C(1, 1)}
	if _, err := Neighbor[Cell2, EdgeZ](g2, cell2, Stencil{}); !errors.Is(err, kotik.ErrInvalidTopologyIndex) {
		t.Fatalf("EdgeZ on a 2-d grid: want ErrInvalidTopologyIndex, got %v", err)
	}
}
