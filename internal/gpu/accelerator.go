//go:build !nogpu

package gpu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/grinisrit/kotik"
)

// Accelerator executes reductions, prefix sums and fills on a GPU
// through wgpu/hal compute shaders. It implements the kotik.Accelerator
// interface.
//
// Buffers handed out by Alloc live on the device; Read stages their
// contents back through a map-read buffer behind a fence.
type Accelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	reducePipes map[kotik.CombineOp]*pipeline
	scanPipes   map[kotik.CombineOp]*pipeline
	preparePipe *pipeline
	copyOutPipe *pipeline
	fillPipe    *pipeline

	buffers map[kotik.BufferID]*deviceBuffer
	nextID  uint64

	ready          bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

type deviceBuffer struct {
	buf  hal.Buffer
	size uint64
}

var _ kotik.Accelerator = (*Accelerator)(nil)
var _ kotik.DeviceProviderAware = (*Accelerator)(nil)

// New returns an uninitialised accelerator. Init acquires the device.
func New() *Accelerator {
	return &Accelerator{buffers: make(map[kotik.BufferID]*deviceBuffer)}
}

func (a *Accelerator) Name() string { return "wgpu" }

// SetLogger propagates the library logger into this package.
func (a *Accelerator) SetLogger(l *slog.Logger) { setLogger(l) }

// Init acquires a GPU device and compiles the kernel pipelines. It
// returns an error when no usable adapter is present, in which case the
// accelerator must not be registered.
func (a *Accelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ready {
		return nil
	}
	return a.initGPU()
}

func (a *Accelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("gpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("gpu: create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("gpu: no adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("gpu: open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipelines(); err != nil {
		a.destroyPipelines()
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		return fmt.Errorf("gpu: create pipelines: %w", err)
	}
	a.ready = true
	slogger().Info("gpu: accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

// Close releases every live buffer, the pipelines, and the device
// unless it is shared with an external provider.
func (a *Accelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, rec := range a.buffers {
		if a.device != nil {
			a.device.DestroyBuffer(rec.buf)
		}
		delete(a.buffers, id)
	}
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
			a.device = nil
		}
		if a.instance != nil {
			a.instance.Destroy()
			a.instance = nil
		}
	} else {
		// Don't destroy shared resources — we don't own them.
		a.device = nil
		a.instance = nil
	}
	a.queue = nil
	a.ready = false
	a.externalDevice = false
}

// SetDeviceProvider switches the accelerator to a shared GPU device from
// an external provider (e.g., gogpu). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func (a *Accelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Buffers allocated on the old device cannot move to the new one.
	if len(a.buffers) > 0 {
		return fmt.Errorf("gpu: cannot switch device with %d live buffers", len(a.buffers))
	}

	a.destroyPipelines()
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	a.device = device
	a.queue = queue
	a.externalDevice = true

	if err := a.createPipelines(); err != nil {
		a.destroyPipelines()
		a.ready = false
		return fmt.Errorf("gpu: create pipelines with shared device: %w", err)
	}
	a.ready = true
	slogger().Info("gpu: switched to shared device")
	return nil
}

// Alloc allocates a storage buffer of the given byte size.
func (a *Accelerator) Alloc(size uint64) (kotik.BufferID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.ready {
		return 0, fmt.Errorf("gpu: accelerator not initialized")
	}
	buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kotik_vector", Size: size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("gpu: create buffer of %d bytes: %w", size, err)
	}
	a.nextID++
	id := kotik.BufferID(a.nextID)
	a.buffers[id] = &deviceBuffer{buf: buf, size: size}
	return id, nil
}

// Free releases a buffer.
func (a *Accelerator) Free(id kotik.BufferID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, ok := a.buffers[id]
	if !ok {
		return fmt.Errorf("gpu: free of unknown buffer %d", id)
	}
	a.device.DestroyBuffer(rec.buf)
	delete(a.buffers, id)
	return nil
}

// lookup returns the record of a live buffer. Caller holds the lock.
func (a *Accelerator) lookup(id kotik.BufferID) (*deviceBuffer, error) {
	if !a.ready {
		return nil, fmt.Errorf("gpu: accelerator not initialized")
	}
	rec, ok := a.buffers[id]
	if !ok {
		return nil, fmt.Errorf("gpu: unknown buffer %d", id)
	}
	return rec, nil
}

// Write uploads src to the buffer at the byte offset.
func (a *Accelerator) Write(id kotik.BufferID, offset uint64, src []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, err := a.lookup(id)
	if err != nil {
		return err
	}
	if offset+uint64(len(src)) > rec.size {
		return fmt.Errorf("gpu: write of %d bytes at %d exceeds buffer of %d", len(src), offset, rec.size)
	}
	if len(src) == 0 {
		return nil
	}
	a.queue.WriteBuffer(rec.buf, offset, src)
	return nil
}

// Read stages buffer contents back to host memory.
func (a *Accelerator) Read(id kotik.BufferID, offset uint64, dst []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, err := a.lookup(id)
	if err != nil {
		return err
	}
	if offset+uint64(len(dst)) > rec.size {
		return fmt.Errorf("gpu: read of %d bytes at %d exceeds buffer of %d", len(dst), offset, rec.size)
	}
	if len(dst) == 0 {
		return nil
	}
	return a.runPasses("readback", nil, &readbackSpec{src: rec.buf, srcOffset: offset, dst: dst})
}

// CanCombine reports kernel support for the operator.
func (a *Accelerator) CanCombine(op kotik.CombineOp) bool {
	_, err := combineSnippet(op)
	return err == nil
}
