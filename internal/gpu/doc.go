// Package gpu provides a Pure Go GPU compute accelerator.
//
// This is an internal package used by the kotik library for device
// execution of reductions, prefix sums and fills. It leverages WebGPU
// via the gogpu/wgpu Pure Go implementation (zero CGO), which supports
// Vulkan, Metal, and DX12 backends depending on the platform.
//
// Kernels are written as loop-free WGSL compute shaders and compiled to
// SPIR-V with gogpu/naga. A reduction runs as a sequence of pairwise
// combination passes in a single command encoder; a prefix sum runs as
// a prepare pass followed by doubling-stride combination passes. The
// implicit storage barriers between compute passes order the stages.
//
// Build with the nogpu tag to exclude the accelerator entirely.
package gpu
