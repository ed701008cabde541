// Package kotik provides structured-grid topology and device-portable
// parallel algorithms for numerical and PDE computation.
//
// # Overview
//
// kotik models a regular D-dimensional grid as a coordinate-space
// descriptor whose sub-entities (vertices, edges, faces, cells) are
// addressed by topological dimension, orientation and integer coordinate.
// Neighbor queries resolve stencil offsets against a purely combinatorial
// topology table, and reduction/scan computations run over large index
// ranges on either the host processor or a massively parallel accelerator
// from the same source expression.
//
// # Quick Start
//
//	import (
//	    "github.com/grinisrit/kotik/algorithms"
//	    "github.com/grinisrit/kotik/containers"
//	    "github.com/grinisrit/kotik/devices"
//	)
//
//	// An owning vector on the host device.
//	v, _ := containers.NewVector[float64, devices.Host](10)
//	v.Fill(1)
//
//	// Sum its elements. The device is selected at compile time from the
//	// vector's type parameter.
//	sum, _ := algorithms.ReduceVector(v, algorithms.Plus[float64]())
//
// # Devices
//
// Two device tags are provided: [devices.Host] executes ranges
// sequentially or across a worker pool, and [devices.Accel] executes them
// on a registered accelerator backend. The accelerator is optional and
// enabled by blank import:
//
//	import _ "github.com/grinisrit/kotik/gpu" // wgpu compute accelerator
//
// Constructing an accelerator-tagged container without a registered
// accelerator fails immediately with [ErrBackendUnavailable].
//
// # Grids
//
// The grid package addresses entities by the coordinate of their lowest
// corner vertex. Neighbor resolution exists in a statically typed form
// (entity kinds as compile-time type parameters) and a dynamic form
// (dimension and orientation as runtime values); both share one resolver
// and agree exactly on integer coordinates.
//
// # Architecture
//
// The library is organized into:
//   - Public API: grid (topology, neighbor queries), containers
//     (Vector, View), algorithms (Reduce, Scan, functionals), devices
//     (Host, Accel tags)
//   - Internal: parallel (host worker pool), gpu (wgpu compute kernels),
//     mockaccel (in-memory accelerator for tests)
//   - Registration: gpu (blank-import accelerator setup)
package kotik

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
