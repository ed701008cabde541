package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grinisrit/kotik"
)

// pascal computes C(n, k) independently of the implementation under test.
func pascal(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	row := []int{1}
	for i := 1; i <= n; i++ {
		next := make([]int, i+1)
		next[0], next[i] = 1, 1
		for j := 1; j < i; j++ {
			next[j] = row[j-1] + row[j]
		}
		row = next
	}
	return row[k]
}

func TestNumOrientations_MatchesBinomial(t *testing.T) {
	for dim := 1; dim <= MaxDimension; dim++ {
		for d := 0; d <= dim; d++ {
			assert.Equal(t, pascal(dim, d), NumOrientations(dim, d),
				"NumOrientations(%d, %d)", dim, d)
		}
	}
}

func TestNumOrientations_2D(t *testing.T) {
	assert.Equal(t, 1, NumOrientations(2, 0), "vertices")
	assert.Equal(t, 2, NumOrientations(2, 1), "edges")
	assert.Equal(t, 1, NumOrientations(2, 2), "cells")
}

func TestNumOrientations_PanicsOnInvalidIndex(t *testing.T) {
	assert.Panics(t, func() { NumOrientations(2, 3) })
	assert.Panics(t, func() { NumOrientations(2, -1) })
	assert.Panics(t, func() { NumOrientations(MaxDimension+1, 0) })
}

func TestOrientationAxes_Roundtrip(t *testing.T) {
	for dim := 1; dim <= MaxDimension; dim++ {
		for d := 0; d <= dim; d++ {
			for o := 0; o < NumOrientations(dim, d); o++ {
				axes, err := OrientationAxes(dim, d, o)
				require.NoError(t, err)
				assert.Equal(t, d, axes.Count(), "spanned axis count for %d/%d in %d-d", d, o, dim)

				back, err := AxesOrientation(dim, axes)
				require.NoError(t, err)
				assert.Equal(t, o, back, "rank/unrank roundtrip for %d/%d in %d-d", d, o, dim)
			}
		}
	}
}

func TestOrientationAxes_LexicographicOrder(t *testing.T) {
	// 3-d edges order x, y, z.
	for o, want := range []AxisSet{0b001, 0b010, 0b100} {
		axes, err := OrientationAxes(3, 1, o)
		require.NoError(t, err)
		assert.Equal(t, want, axes, "edge orientation %d", o)
	}
	// 3-d faces order xy, xz, yz.
	for o, want := range []AxisSet{0b011, 0b101, 0b110} {
		axes, err := OrientationAxes(3, 2, o)
		require.NoError(t, err)
		assert.Equal(t, want, axes, "face orientation %d", o)
	}
}

func TestOrientationAxes_InvalidIndex(t *testing.T) {
	_, err := OrientationAxes(2, 1, 2)
	assert.ErrorIs(t, err, kotik.ErrInvalidTopologyIndex)

	_, err = OrientationAxes(2, 3, 0)
	assert.ErrorIs(t, err, kotik.ErrInvalidTopologyIndex)
}

func TestLocalIncidence(t *testing.T) {
	// Every valid pair shares the lowest-corner addressing origin.
	for dim := 1; dim <= 3; dim++ {
		for d1 := 0; d1 <= dim; d1++ {
			for o1 := 0; o1 < NumOrientations(dim, d1); o1++ {
				for d2 := 0; d2 <= dim; d2++ {
					for o2 := 0; o2 < NumOrientations(dim, d2); o2++ {
						delta, err := LocalIncidence(dim, d1, o1, d2, o2)
						require.NoError(t, err)
						assert.Equal(t, Coord{}, delta)
					}
				}
			}
		}
	}

	_, err := LocalIncidence(2, 1, 0, 1, 2)
	assert.ErrorIs(t, err, kotik.ErrInvalidTopologyIndex)
}

func TestIncidenceStencils_2D(t *testing.T) {
	tests := []struct {
		name                   string
		fromDim, fromO         int
		toDim, toO             int
		wantCount              int
		wantContains           Stencil
		wantExcludesNegative   bool
		wantExcludesPositive   bool
	}{
		{"cell to vertices", 2, 0, 0, 0, 4, Offset(1, 1), true, false},
		{"cell to x-edges", 2, 0, 1, 0, 2, Offset(0, 1), true, false},
		{"cell to y-edges", 2, 0, 1, 1, 2, Offset(1, 0), true, false},
		{"vertex to cells", 0, 0, 2, 0, 4, Offset(-1, -1), false, true},
		{"x-edge to y-edges", 1, 0, 1, 1, 4, Offset(1, -1), false, false},
		{"cell to cells", 2, 0, 2, 0, 5, Offset(0, 1), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sts, err := IncidenceStencils(2, tt.fromDim, tt.fromO, tt.toDim, tt.toO)
			require.NoError(t, err)
			assert.Len(t, sts, tt.wantCount)
			assert.Contains(t, sts, tt.wantContains)
			for _, st := range sts {
				if tt.wantExcludesNegative {
					assert.GreaterOrEqual(t, st[0], 0)
					assert.GreaterOrEqual(t, st[1], 0)
				}
				if tt.wantExcludesPositive {
					assert.LessOrEqual(t, st[0], 0)
					assert.LessOrEqual(t, st[1], 0)
				}
			}
		})
	}
}

func TestIncidenceStencils_Distinct(t *testing.T) {
	sts, err := IncidenceStencils(3, 3, 0, 0, 0)
	require.NoError(t, err)
	assert.Len(t, sts, 8, "a 3-d cell touches eight vertices")

	seen := make(map[Stencil]bool, len(sts))
	for _, st := range sts {
		assert.False(t, seen[st], "duplicate stencil %v", st)
		seen[st] = true
	}
}
