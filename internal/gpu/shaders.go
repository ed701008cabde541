//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/grinisrit/kotik"
)

// Embedded WGSL kernel sources. Sources containing a COMBINE_OP
// placeholder are specialised per operator before compilation.

//go:embed shaders/reduce.wgsl
var reduceShaderSource string

//go:embed shaders/scan_prepare.wgsl
var scanPrepareShaderSource string

//go:embed shaders/scan_step.wgsl
var scanStepShaderSource string

//go:embed shaders/copy_out.wgsl
var copyOutShaderSource string

//go:embed shaders/fill.wgsl
var fillShaderSource string

// combineOps lists the operators the device kernels are specialised for.
var combineOps = []kotik.CombineOp{
	kotik.CombinePlus,
	kotik.CombineMultiplies,
	kotik.CombineMin,
	kotik.CombineMax,
}

// combineSnippet returns the WGSL expression substituted for COMBINE_OP.
func combineSnippet(op kotik.CombineOp) (string, error) {
	switch op {
	case kotik.CombinePlus:
		return "a + b", nil
	case kotik.CombineMultiplies:
		return "a * b", nil
	case kotik.CombineMin:
		return "min(a, b)", nil
	case kotik.CombineMax:
		return "max(a, b)", nil
	default:
		return "", fmt.Errorf("gpu: no kernel for operator %v", op)
	}
}

// identityF32 returns the identity element of an operator.
func identityF32(op kotik.CombineOp) float32 {
	switch op {
	case kotik.CombineMultiplies:
		return 1
	case kotik.CombineMin:
		return maxFiniteF32
	case kotik.CombineMax:
		return -maxFiniteF32
	default:
		return 0
	}
}

const maxFiniteF32 = 0x1.fffffep127

// compileWGSL compiles WGSL source to SPIR-V uint32 words.
// SPIR-V is little-endian 32-bit words.
func compileWGSL(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// pipeline bundles a compute pipeline with the resources it owns.
type pipeline struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	compute    hal.ComputePipeline
}

func (p *pipeline) destroy(device hal.Device) {
	if p == nil || device == nil {
		return
	}
	if p.compute != nil {
		device.DestroyComputePipeline(p.compute)
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
	}
	if p.bindLayout != nil {
		device.DestroyBindGroupLayout(p.bindLayout)
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
	}
}

// bindingLayouts for the two kernel shapes: three-binding kernels take
// a uniform, a read-only input and a read-write output; the fill kernel
// takes a uniform and a read-write buffer.
func threeBindingEntries() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{
		{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
		{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
		{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
	}
}

func fillBindingEntries() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{
		{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
		{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
	}
}

// createPipeline compiles one WGSL source and builds its pipeline.
func createPipeline(device hal.Device, label, wgsl string, entries []gputypes.BindGroupLayoutEntry) (*pipeline, error) {
	spirv, err := compileWGSL(wgsl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}

	p := &pipeline{}
	p.shader, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s shader module: %w", label, err)
	}

	p.bindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   label + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create %s bind group layout: %w", label, err)
	}

	p.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: label + "_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create %s pipeline layout: %w", label, err)
	}

	p.compute, err = device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: label + "_pipeline", Layout: p.pipeLayout,
		Compute: hal.ComputeState{Module: p.shader, EntryPoint: "main"},
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create %s compute pipeline: %w", label, err)
	}
	return p, nil
}

// specialise substitutes the operator expression into a kernel template.
func specialise(template string, op kotik.CombineOp) (string, error) {
	snippet, err := combineSnippet(op)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(template, "COMBINE_OP", snippet), nil
}

// createPipelines builds every kernel pipeline on the current device.
func (a *Accelerator) createPipelines() error {
	a.reducePipes = make(map[kotik.CombineOp]*pipeline, len(combineOps))
	a.scanPipes = make(map[kotik.CombineOp]*pipeline, len(combineOps))

	for _, op := range combineOps {
		src, err := specialise(reduceShaderSource, op)
		if err != nil {
			return err
		}
		p, err := createPipeline(a.device, "reduce_"+op.String(), src, threeBindingEntries())
		if err != nil {
			return err
		}
		a.reducePipes[op] = p

		src, err = specialise(scanStepShaderSource, op)
		if err != nil {
			return err
		}
		p, err = createPipeline(a.device, "scan_"+op.String(), src, threeBindingEntries())
		if err != nil {
			return err
		}
		a.scanPipes[op] = p
	}

	var err error
	a.preparePipe, err = createPipeline(a.device, "scan_prepare", scanPrepareShaderSource, threeBindingEntries())
	if err != nil {
		return err
	}
	a.copyOutPipe, err = createPipeline(a.device, "copy_out", copyOutShaderSource, threeBindingEntries())
	if err != nil {
		return err
	}
	a.fillPipe, err = createPipeline(a.device, "fill", fillShaderSource, fillBindingEntries())
	if err != nil {
		return err
	}
	return nil
}

func (a *Accelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	for _, p := range a.reducePipes {
		p.destroy(a.device)
	}
	for _, p := range a.scanPipes {
		p.destroy(a.device)
	}
	a.reducePipes = nil
	a.scanPipes = nil
	a.preparePipe.destroy(a.device)
	a.preparePipe = nil
	a.copyOutPipe.destroy(a.device)
	a.copyOutPipe = nil
	a.fillPipe.destroy(a.device)
	a.fillPipe = nil
}
