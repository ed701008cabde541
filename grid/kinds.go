package grid

// Kind is a statically typed entity kind: a (dimension, orientation) pair
// carried as a zero-size type so neighbor queries can be specialized at
// compile time. Kind methods on the predeclared kinds are constant and
// branch-free.
//
// The predeclared kinds cover grids up to three dimensions; higher
// dimensions use the dynamic query surface on Grid.
type Kind interface {
	EntityDim() int
	EntityOrientation() int
}

// Vertex is the single orientation of a 0-dimensional entity.
type Vertex struct{}

func (Vertex) EntityDim() int         { return 0 }
func (Vertex) EntityOrientation() int { return 0 }

// EdgeX is an edge spanning the x axis.
type EdgeX struct{}

func (EdgeX) EntityDim() int         { return 1 }
func (EdgeX) EntityOrientation() int { return 0 }

// EdgeY is an edge spanning the y axis.
type EdgeY struct{}

func (EdgeY) EntityDim() int         { return 1 }
func (EdgeY) EntityOrientation() int { return 1 }

// EdgeZ is an edge spanning the z axis.
type EdgeZ struct{}

func (EdgeZ) EntityDim() int         { return 1 }
func (EdgeZ) EntityOrientation() int { return 2 }

// FaceXY is a face spanning the x and y axes.
type FaceXY struct{}

func (FaceXY) EntityDim() int         { return 2 }
func (FaceXY) EntityOrientation() int { return 0 }

// FaceXZ is a face spanning the x and z axes.
type FaceXZ struct{}

func (FaceXZ) EntityDim() int         { return 2 }
func (FaceXZ) EntityOrientation() int { return 1 }

// FaceYZ is a face spanning the y and z axes.
type FaceYZ struct{}

func (FaceYZ) EntityDim() int         { return 2 }
func (FaceYZ) EntityOrientation() int { return 2 }

// Cell3 is the single orientation of a cell in a three-dimensional grid.
type Cell3 struct{}

func (Cell3) EntityDim() int         { return 3 }
func (Cell3) EntityOrientation() int { return 0 }

// Cell2 is the cell of a two-dimensional grid. A 2-d cell spans the x and
// y axes, so it is the same kind as a face in three dimensions.
type Cell2 = FaceXY

// Cell1 is the cell of a one-dimensional grid, which coincides with an
// x-spanning edge.
type Cell1 = EdgeX
