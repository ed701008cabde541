package grid

// dispatchKey identifies one (source, target) kind pair.
type dispatchKey struct {
	srcDim, srcOrientation int
	tgtDim, tgtOrientation int
}

// resolverFunc is an instantiation of the static neighbor query.
type resolverFunc func(g *Grid, e Entity, st Stencil) (Entity, error)

// dispatchTable forwards dynamic queries to the statically specialized
// form. The (dimension, orientation) space is bounded by MaxDimension, so
// the table is finite and enumerated exhaustively below; there is no
// reflection and no scanning.
var dispatchTable = make(map[dispatchKey]resolverFunc, 64)

// entry records the static instantiation for one kind pair.
func entry[Src, Tgt Kind]() {
	var src Src
	var tgt Tgt
	key := dispatchKey{src.EntityDim(), src.EntityOrientation(), tgt.EntityDim(), tgt.EntityOrientation()}
	dispatchTable[key] = func(g *Grid, e Entity, st Stencil) (Entity, error) {
		return Neighbor[Src, Tgt](g, e, st)
	}
}

func init() {
	entry[Vertex, Vertex]()
	entry[Vertex, EdgeX]()
	entry[Vertex, EdgeY]()
	entry[Vertex, EdgeZ]()
	entry[Vertex, FaceXY]()
	entry[Vertex, FaceXZ]()
	entry[Vertex, FaceYZ]()
	entry[Vertex, Cell3]()

	entry[EdgeX, Vertex]()
	entry[EdgeX, EdgeX]()
	entry[EdgeX, EdgeY]()
	entry[EdgeX, EdgeZ]()
	entry[EdgeX, FaceXY]()
	entry[EdgeX, FaceXZ]()
	entry[EdgeX, FaceYZ]()
	entry[EdgeX, Cell3]()

	entry[EdgeY, Vertex]()
	entry[EdgeY, EdgeX]()
	entry[EdgeY, EdgeY]()
	entry[EdgeY, EdgeZ]()
	entry[EdgeY, FaceXY]()
	entry[EdgeY, FaceXZ]()
	entry[EdgeY, FaceYZ]()
	entry[EdgeY, Cell3]()

	entry[EdgeZ, Vertex]()
	entry[EdgeZ, EdgeX]()
	entry[EdgeZ, EdgeY]()
	entry[EdgeZ, EdgeZ]()
	entry[EdgeZ, FaceXY]()
	entry[EdgeZ, FaceXZ]()
	entry[EdgeZ, FaceYZ]()
	entry[EdgeZ, Cell3]()

	entry[FaceXY, Vertex]()
	entry[FaceXY, EdgeX]()
	entry[FaceXY, EdgeY]()
	entry[FaceXY, EdgeZ]()
	entry[FaceXY, FaceXY]()
	entry[FaceXY, FaceXZ]()
	entry[FaceXY, FaceYZ]()
	entry[FaceXY, Cell3]()

	entry[FaceXZ, Vertex]()
	entry[FaceXZ, EdgeX]()
	entry[FaceXZ, EdgeY]()
	entry[FaceXZ, EdgeZ]()
	entry[FaceXZ, FaceXY]()
	entry[FaceXZ, FaceXZ]()
	entry[FaceXZ, FaceYZ]()
	entry[FaceXZ, Cell3]()

	entry[FaceYZ, Vertex]()
	entry[FaceYZ, EdgeX]()
	entry[FaceYZ, EdgeY]()
	entry[FaceYZ, EdgeZ]()
	entry[FaceYZ, FaceXY]()
	entry[FaceYZ, FaceXZ]()
	entry[FaceYZ, FaceYZ]()
	entry[FaceYZ, Cell3]()

	entry[Cell3, Vertex]()
	entry[Cell3, EdgeX]()
	entry[Cell3, EdgeY]()
	entry[Cell3, EdgeZ]()
	entry[Cell3, FaceXY]()
	entry[Cell3, FaceXZ]()
	entry[Cell3, FaceYZ]()
	entry[Cell3, Cell3]()
}
