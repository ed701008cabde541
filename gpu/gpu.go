//go:build !nogpu

// Package gpu registers the wgpu compute accelerator.
//
// Import this package to run accelerator-tagged vectors, reductions and
// prefix sums on the GPU. Kernels are WGSL compute shaders dispatched
// through the gogpu/wgpu Pure Go WebGPU implementation (zero CGO), with
// Vulkan, Metal, and DX12 backends depending on the platform.
//
// If GPU initialization fails (no adapter available), the registration
// is skipped with a warning and accelerator-tagged operations fail fast
// with kotik.ErrBackendUnavailable.
//
// Usage:
//
//	import _ "github.com/grinisrit/kotik/gpu" // enable GPU execution
package gpu

import (
	"github.com/gogpu/gpucontext"

	"github.com/grinisrit/kotik"
	gpuimpl "github.com/grinisrit/kotik/internal/gpu"
)

// DeviceHandle is the device-sharing integration point with GPU
// frameworks like gogpu: the host application implements it and passes
// it to SetDeviceProvider, so kernels run on the application's device
// instead of a private one.
type DeviceHandle = gpucontext.DeviceProvider

func init() {
	if err := kotik.RegisterAccelerator(gpuimpl.New()); err != nil {
		kotik.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the accelerator to use a shared GPU
// device from an external provider. This avoids creating a separate GPU
// instance and enables efficient device sharing.
//
// The provider should be a gpucontext.DeviceProvider that also
// implements gpucontext.HalProvider for direct HAL access.
func SetDeviceProvider(provider DeviceHandle) error {
	return kotik.SetAcceleratorDeviceProvider(provider)
}
