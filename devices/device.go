// Package devices defines the execution devices of the library and the
// host-side range execution engine.
//
// A device is a compile-time tag: containers and algorithm drivers are
// generic over the Device type parameter, so choosing a backend is a
// type-level decision made once per container and never switched
// afterwards. Host executes ranges on the caller's processor, across the
// shared worker pool when the range is large enough; Accel executes on
// the accelerator registered with the root package.
package devices

import (
	"fmt"

	"github.com/grinisrit/kotik"
)

// Host is the general-purpose processor device tag.
type Host struct{}

// DeviceName returns "host".
func (Host) DeviceName() string { return "host" }

// Accel is the parallel accelerator device tag. Accelerator-tagged
// resources require an accelerator registered via
// kotik.RegisterAccelerator, typically by blank-importing kotik/gpu.
type Accel struct{}

// DeviceName returns "accel".
func (Accel) DeviceName() string { return "accel" }

// Device is the constraint satisfied by the device tags.
type Device interface {
	Host | Accel
	DeviceName() string
}

// Name returns the device tag's name.
func Name[D Device]() string {
	var d D
	return d.DeviceName()
}

// IsAccel reports whether the device type parameter is the accelerator.
// The comparison resolves at instantiation time.
func IsAccel[D Device]() bool {
	var d D
	_, ok := any(d).(Accel)
	return ok
}

// Accelerator returns the registered accelerator, or ErrBackendUnavailable
// when none is registered. Availability is checked once, at resource
// construction; it never resurfaces mid-computation.
func Accelerator() (kotik.Accelerator, error) {
	a := kotik.GetAccelerator()
	if a == nil {
		return nil, fmt.Errorf("devices: no accelerator registered: %w", kotik.ErrBackendUnavailable)
	}
	return a, nil
}
