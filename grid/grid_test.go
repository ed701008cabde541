package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grinisrit/kotik"
)

func TestNewGrid_Validation(t *testing.T) {
	tests := []struct {
		name    string
		extents []int
		wantErr bool
	}{
		{"1d", []int{5}, false},
		{"2d", []int{3, 4}, false},
		{"4d", []int{2, 2, 2, 2}, false},
		{"no axes", nil, true},
		{"too many axes", []int{1, 1, 1, 1, 1}, true},
		{"zero extent", []int{3, 0}, true},
		{"negative extent", []int{-1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.extents...)
			if tt.wantErr {
				assert.ErrorIs(t, err, kotik.ErrInvalidTopologyIndex)
				assert.Nil(t, g)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.extents), g.Dimension())
			for k, e := range tt.extents {
				assert.Equal(t, e, g.Extent(k))
			}
		})
	}
}

func TestOrientedExtents_2D(t *testing.T) {
	g := MustNewGrid(3, 4)

	tests := []struct {
		name string
		d, o int
		want Coord
	}{
		{"vertices", 0, 0, C(4, 5)},
		{"x-edges", 1, 0, C(3, 5)},
		{"y-edges", 1, 1, C(4, 4)},
		{"cells", 2, 0, C(3, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := g.OrientedExtents(tt.d, tt.o)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ext)
		})
	}
}

func TestEntitiesCount_2D(t *testing.T) {
	g := MustNewGrid(3, 4)

	vertices, err := g.EntitiesCount(0)
	require.NoError(t, err)
	edges, err := g.EntitiesCount(1)
	require.NoError(t, err)
	cells, err := g.EntitiesCount(2)
	require.NoError(t, err)

	assert.Equal(t, 20, vertices)
	assert.Equal(t, 31, edges)
	assert.Equal(t, 12, cells)

	// Euler characteristic of a rectangle.
	assert.Equal(t, 1, vertices-edges+cells)
}

func TestEntity_Validation(t *testing.T) {
	g := MustNewGrid(3, 4)

	e, err := g.Entity(1, 0, C(2, 4))
	require.NoError(t, err)
	assert.Equal(t, Entity{Dimension: 1, Orientation: 0, Coordinate: C(2, 4)}, e)
	assert.True(t, g.ContainsEntity(e))

	// One past the last valid x-edge row.
	_, err = g.Entity(1, 0, C(3, 4))
	assert.ErrorIs(t, err, kotik.ErrOutOfGridBounds)

	_, err = g.Entity(1, 2, C(0, 0))
	assert.ErrorIs(t, err, kotik.ErrInvalidTopologyIndex)

	_, err = g.Entity(0, 0, C(-1, 0))
	assert.ErrorIs(t, err, kotik.ErrOutOfGridBounds)
}

func TestForEachEntity(t *testing.T) {
	g := MustNewGrid(2, 3)

	var visited []Entity
	require.NoError(t, g.ForEachEntity(2, 0, func(e Entity) {
		visited = append(visited, e)
	}))

	want, err := g.OrientedEntitiesCount(2, 0)
	require.NoError(t, err)
	require.Len(t, visited, want)

	// Row-major order, axis 0 fastest.
	assert.Equal(t, C(0, 0), visited[0].Coordinate)
	assert.Equal(t, C(1, 0), visited[1].Coordinate)
	assert.Equal(t, C(0, 1), visited[2].Coordinate)

	seen := make(map[Entity]bool, len(visited))
	for _, e := range visited {
		assert.False(t, seen[e], "entity %v visited twice", e)
		seen[e] = true
		assert.True(t, g.ContainsEntity(e))
	}
}
