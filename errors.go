package kotik

import "errors"

// Sentinel errors shared across the library.
var (
	// ErrInvalidTopologyIndex is returned when an entity dimension or
	// orientation is outside the valid range for the grid. This is a
	// contract violation: statically typed callers cannot trigger it,
	// dynamic callers must validate before dispatch.
	ErrInvalidTopologyIndex = errors.New("kotik: invalid entity dimension or orientation")

	// ErrOutOfGridBounds is returned when a neighbor query resolves to a
	// coordinate outside the grid's valid range for the target
	// orientation. This is a legitimate boundary condition; coordinates
	// are never wrapped or clamped.
	ErrOutOfGridBounds = errors.New("kotik: entity coordinate out of grid bounds")

	// ErrBackendUnavailable is returned when an accelerator-tagged
	// resource is constructed while no accelerator backend is registered
	// or its initialization failed. It is reported at construction time,
	// never mid-computation.
	ErrBackendUnavailable = errors.New("kotik: accelerator backend unavailable")

	// ErrSizeMismatch is returned when two containers or views that must
	// have equal length do not.
	ErrSizeMismatch = errors.New("kotik: size mismatch")
)
