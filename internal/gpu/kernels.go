//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/grinisrit/kotik"
)

// kernelWorkgroupSize is the workgroup_size declared by every kernel.
const kernelWorkgroupSize = 64

// fenceTimeout bounds the wait for submitted device work.
const fenceTimeout = 5 * time.Second

// paramsSize is the byte size of every kernel's uniform block.
const paramsSize = 16

// packParams serializes four 32-bit words as a little-endian uniform block.
func packParams(w0, w1, w2, w3 uint32) []byte {
	out := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(out[0:], w0)
	binary.LittleEndian.PutUint32(out[4:], w1)
	binary.LittleEndian.PutUint32(out[8:], w2)
	binary.LittleEndian.PutUint32(out[12:], w3)
	return out
}

func groupsFor(count int) uint32 {
	return uint32((count + kernelWorkgroupSize - 1) / kernelWorkgroupSize)
}

// passSpec describes one compute pass: its pipeline, uniform contents,
// and the storage buffers bound after the uniform, in binding order.
type passSpec struct {
	pipe    *pipeline
	params  []byte
	storage []storageBinding
	groups  uint32
}

type storageBinding struct {
	buf  hal.Buffer
	size uint64
}

// readbackSpec copies a device range into host memory after the passes,
// through a map-read staging buffer.
type readbackSpec struct {
	src       hal.Buffer
	srcOffset uint64
	dst       []byte
}

// runPasses encodes the passes into a single command encoder, with the
// implicit storage barriers between compute passes ordering the stages,
// submits once behind a fence, and performs the optional readback.
// Caller holds the lock.
func (a *Accelerator) runPasses(label string, passes []passSpec, readback *readbackSpec) error {
	var uniforms []hal.Buffer
	var groups []hal.BindGroup
	defer func() {
		for _, bg := range groups {
			a.device.DestroyBindGroup(bg)
		}
		for _, ub := range uniforms {
			a.device.DestroyBuffer(ub)
		}
	}()

	for i, pass := range passes {
		ub, err := a.device.CreateBuffer(&hal.BufferDescriptor{
			Label: label + "_params", Size: uint64(len(pass.params)),
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create uniform buffer %d: %w", i, err)
		}
		uniforms = append(uniforms, ub)
		a.queue.WriteBuffer(ub, 0, pass.params)

		entries := make([]gputypes.BindGroupEntry, 0, 1+len(pass.storage))
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  0,
			Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: uint64(len(pass.params))},
		})
		for j, sb := range pass.storage {
			entries = append(entries, gputypes.BindGroupEntry{
				Binding:  uint32(j + 1),
				Resource: gputypes.BufferBinding{Buffer: sb.buf.NativeHandle(), Offset: 0, Size: sb.size},
			})
		}
		bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: label + "_bind", Layout: pass.pipe.bindLayout,
			Entries: entries,
		})
		if err != nil {
			return fmt.Errorf("create bind group %d: %w", i, err)
		}
		groups = append(groups, bg)
	}

	var staging hal.Buffer
	if readback != nil {
		var err error
		staging, err = a.device.CreateBuffer(&hal.BufferDescriptor{
			Label: label + "_staging", Size: uint64(len(readback.dst)),
			Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create staging buffer: %w", err)
		}
		defer a.device.DestroyBuffer(staging)
	}

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label + "_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	for i, pass := range passes {
		computePass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: label + "_pass"})
		computePass.SetPipeline(pass.pipe.compute)
		computePass.SetBindGroup(0, groups[i], nil)
		computePass.Dispatch(pass.groups, 1, 1)
		computePass.End()
	}
	if readback != nil {
		encoder.CopyBufferToBuffer(readback.src, staging, []hal.BufferCopy{
			{SrcOffset: readback.srcOffset, DstOffset: 0, Size: uint64(len(readback.dst))},
		})
	}
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	if readback != nil {
		if err := a.queue.ReadBuffer(staging, 0, readback.dst); err != nil {
			return fmt.Errorf("readback: %w", err)
		}
	}
	return nil
}

// scratch allocates a transient storage buffer.
func (a *Accelerator) scratch(label string, size uint64) (hal.Buffer, error) {
	return a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label, Size: size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
}

// checkRange validates an element range against a buffer's byte size.
func checkRange(rec *deviceBuffer, begin, end int) error {
	if begin < 0 || begin > end || uint64(end)*4 > rec.size {
		return fmt.Errorf("gpu: range [%d, %d) exceeds buffer of %d bytes", begin, end, rec.size)
	}
	return nil
}

// ReduceF32 combines the float32 elements in [begin, end) with a
// sequence of pairwise reduction passes, halving the element count per
// pass until one remains.
func (a *Accelerator) ReduceF32(id kotik.BufferID, begin, end int, op kotik.CombineOp) (float32, error) {
	if !a.CanCombine(op) {
		return 0, kotik.ErrFallbackToHost
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, err := a.lookup(id)
	if err != nil {
		return 0, err
	}
	if err := checkRange(rec, begin, end); err != nil {
		return 0, err
	}
	n := end - begin
	if n == 0 {
		return identityF32(op), nil
	}

	out := make([]byte, 4)
	if n == 1 {
		if err := a.runPasses("reduce", nil, &readbackSpec{src: rec.buf, srcOffset: uint64(begin) * 4, dst: out}); err != nil {
			return 0, err
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(out)), nil
	}

	pairs := (n + 1) / 2
	scratchSize := uint64(pairs) * 4
	scratchA, err := a.scratch("reduce_scratch_a", scratchSize)
	if err != nil {
		return 0, fmt.Errorf("gpu: create scratch: %w", err)
	}
	defer a.device.DestroyBuffer(scratchA)
	scratchB, err := a.scratch("reduce_scratch_b", scratchSize)
	if err != nil {
		return 0, fmt.Errorf("gpu: create scratch: %w", err)
	}
	defer a.device.DestroyBuffer(scratchB)

	pipe := a.reducePipes[op]
	passes := []passSpec{{
		pipe:    pipe,
		params:  packParams(uint32(n), uint32(begin), 0, 0),
		storage: []storageBinding{{rec.buf, rec.size}, {scratchA, scratchSize}},
		groups:  groupsFor(pairs),
	}}
	cur, nxt := scratchA, scratchB
	for count := pairs; count > 1; count = (count + 1) / 2 {
		passes = append(passes, passSpec{
			pipe:    pipe,
			params:  packParams(uint32(count), 0, 0, 0),
			storage: []storageBinding{{cur, scratchSize}, {nxt, scratchSize}},
			groups:  groupsFor((count + 1) / 2),
		})
		cur, nxt = nxt, cur
	}

	if err := a.runPasses("reduce", passes, &readbackSpec{src: cur, dst: out}); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(out)), nil
}

// ScanF32 computes the prefix combination of src's [begin, end) elements
// into the same positions of dst with a prepare pass, doubling-stride
// combination passes, and a scatter pass. An exclusive scan shifts the
// input right by one during the prepare pass, so the inclusive passes
// then produce the exclusive result.
func (a *Accelerator) ScanF32(src, dst kotik.BufferID, begin, end int, op kotik.CombineOp, inclusive bool) error {
	if !a.CanCombine(op) {
		return kotik.ErrFallbackToHost
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	srcRec, err := a.lookup(src)
	if err != nil {
		return err
	}
	dstRec, err := a.lookup(dst)
	if err != nil {
		return err
	}
	if err := checkRange(srcRec, begin, end); err != nil {
		return err
	}
	if err := checkRange(dstRec, begin, end); err != nil {
		return err
	}
	n := end - begin
	if n == 0 {
		return nil
	}

	scratchSize := uint64(n) * 4
	scratchA, err := a.scratch("scan_scratch_a", scratchSize)
	if err != nil {
		return fmt.Errorf("gpu: create scratch: %w", err)
	}
	defer a.device.DestroyBuffer(scratchA)
	scratchB, err := a.scratch("scan_scratch_b", scratchSize)
	if err != nil {
		return fmt.Errorf("gpu: create scratch: %w", err)
	}
	defer a.device.DestroyBuffer(scratchB)

	var exclusive uint32
	if !inclusive {
		exclusive = 1
	}
	groups := groupsFor(n)
	passes := []passSpec{{
		pipe:    a.preparePipe,
		params:  packParams(uint32(n), uint32(begin), exclusive, math.Float32bits(identityF32(op))),
		storage: []storageBinding{{srcRec.buf, srcRec.size}, {scratchA, scratchSize}},
		groups:  groups,
	}}
	cur, nxt := scratchA, scratchB
	for stride := 1; stride < n; stride <<= 1 {
		passes = append(passes, passSpec{
			pipe:    a.scanPipes[op],
			params:  packParams(uint32(n), uint32(stride), 0, 0),
			storage: []storageBinding{{cur, scratchSize}, {nxt, scratchSize}},
			groups:  groups,
		})
		cur, nxt = nxt, cur
	}
	passes = append(passes, passSpec{
		pipe:    a.copyOutPipe,
		params:  packParams(uint32(n), uint32(begin), 0, 0),
		storage: []storageBinding{{cur, scratchSize}, {dstRec.buf, dstRec.size}},
		groups:  groups,
	})

	return a.runPasses("scan", passes, nil)
}

// FillF32 broadcasts v into the float32 elements in [begin, end).
func (a *Accelerator) FillF32(id kotik.BufferID, begin, end int, v float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, err := a.lookup(id)
	if err != nil {
		return err
	}
	if err := checkRange(rec, begin, end); err != nil {
		return err
	}
	n := end - begin
	if n == 0 {
		return nil
	}
	pass := passSpec{
		pipe:    a.fillPipe,
		params:  packParams(uint32(n), uint32(begin), math.Float32bits(v), 0),
		storage: []storageBinding{{rec.buf, rec.size}},
		groups:  groupsFor(n),
	}
	return a.runPasses("fill", []passSpec{pass}, nil)
}
