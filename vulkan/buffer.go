package vulkan

import (
	"sync"

	"github.com/pkg/errors"
)

// hostMemoryFlags lets the host write buffer contents without explicit
// flush or invalidate calls.
const hostMemoryFlags = MemoryHostVisible | MemoryHostCoherent

// HostBuffer is a pair of equally sized storage buffers of 32-bit elements,
// each bound at offset 0 to its own host-visible, host-coherent allocation.
// Filling the input buffer is left to the caller.
type HostBuffer struct {
	ctx *Context

	elements   int
	size       uint64
	memoryType int

	input        BufferHandle
	output       BufferHandle
	inputMemory  MemoryHandle
	outputMemory MemoryHandle

	closeOnce sync.Once
}

// NewHostBuffer creates the buffer pair for elements 32-bit integers. On
// failure everything created so far is released.
func NewHostBuffer(ctx *Context, elements int) (*HostBuffer, error) {
	if ctx.Closed() {
		return nil, ErrContextClosed
	}
	if elements <= 0 {
		return nil, errors.Errorf("vulkan: buffer element count must be positive, got %d", elements)
	}

	device := ctx.Device()
	b := &HostBuffer{
		ctx:      ctx,
		elements: elements,
		size:     uint64(elements) * int32Size,
	}

	var release []func()
	fail := func(err error) (*HostBuffer, error) {
		for i := len(release) - 1; i >= 0; i-- {
			release[i]()
		}
		return nil, err
	}

	info := BufferCreateInfo{
		Size:               b.size,
		Usage:              BufferUsageStorageBuffer,
		SharingMode:        SharingModeExclusive,
		QueueFamilyIndices: []int{ctx.QueueFamilyIndex()},
	}

	input, err := device.CreateBuffer(info)
	if err != nil {
		return fail(stepError(StepBuffer, "input buffer", err))
	}
	b.input = input
	release = append(release, func() { device.DestroyBuffer(input) })

	output, err := device.CreateBuffer(info)
	if err != nil {
		return fail(stepError(StepBuffer, "output buffer", err))
	}
	b.output = output
	release = append(release, func() { device.DestroyBuffer(output) })

	inputReq := device.BufferMemoryRequirements(input)
	outputReq := device.BufferMemoryRequirements(output)

	props := ctx.MemoryProperties()
	memoryType, err := FindMemoryType(props, inputReq.MemoryTypeBits&outputReq.MemoryTypeBits, hostMemoryFlags)
	if err != nil {
		return fail(err)
	}
	b.memoryType = memoryType

	heap := props.MemoryHeaps[props.MemoryTypes[memoryType].HeapIndex]
	Logger().Info("host memory type selected",
		"index", memoryType,
		"heap_gb", bytesToGB(heap.Size),
	)

	inputMemory, err := device.AllocateMemory(MemoryAllocateInfo{
		AllocationSize:  inputReq.Size,
		MemoryTypeIndex: memoryType,
	})
	if err != nil {
		return fail(stepError(StepMemory, "input memory", err))
	}
	b.inputMemory = inputMemory
	release = append(release, func() { device.FreeMemory(inputMemory) })

	outputMemory, err := device.AllocateMemory(MemoryAllocateInfo{
		AllocationSize:  outputReq.Size,
		MemoryTypeIndex: memoryType,
	})
	if err != nil {
		return fail(stepError(StepMemory, "output memory", err))
	}
	b.outputMemory = outputMemory
	release = append(release, func() { device.FreeMemory(outputMemory) })

	if err := device.BindBufferMemory(input, inputMemory, 0); err != nil {
		return fail(stepError(StepMemory, "input memory binding", err))
	}
	if err := device.BindBufferMemory(output, outputMemory, 0); err != nil {
		return fail(stepError(StepMemory, "output memory binding", err))
	}

	if err := ctx.adopt(b); err != nil {
		return fail(err)
	}

	return b, nil
}

// FindMemoryType returns the first memory type, in ascending index order,
// that is allowed by typeBits and carries every flag in required.
func FindMemoryType(props *MemoryProperties, typeBits uint32, required MemoryPropertyFlags) (int, error) {
	count := len(props.MemoryTypes)
	for i := 0; ; i++ {
		if i == count {
			return -1, ErrNoMemoryType
		}
		if i < 32 && typeBits&(1<<uint(i)) == 0 {
			continue
		}
		if props.MemoryTypes[i].PropertyFlags&required == required {
			return i, nil
		}
	}
}

// MemoryInfo describes the memory type backing a HostBuffer.
type MemoryInfo struct {
	TypeIndex     int
	HeapIndex     int
	HeapSize      uint64
	PropertyFlags MemoryPropertyFlags
}

func (b *HostBuffer) MemoryInfo() MemoryInfo {
	props := b.ctx.MemoryProperties()
	memType := props.MemoryTypes[b.memoryType]
	return MemoryInfo{
		TypeIndex:     b.memoryType,
		HeapIndex:     memType.HeapIndex,
		HeapSize:      props.MemoryHeaps[memType.HeapIndex].Size,
		PropertyFlags: memType.PropertyFlags,
	}
}

func (b *HostBuffer) Input() BufferHandle        { return b.input }
func (b *HostBuffer) Output() BufferHandle       { return b.output }
func (b *HostBuffer) InputMemory() MemoryHandle  { return b.inputMemory }
func (b *HostBuffer) OutputMemory() MemoryHandle { return b.outputMemory }

// Elements is the number of 32-bit integers each buffer holds.
func (b *HostBuffer) Elements() int { return b.elements }

// Size is the byte size requested for each buffer.
func (b *HostBuffer) Size() uint64 { return b.size }

// MemoryTypeIndex is the memory type shared by both allocations.
func (b *HostBuffer) MemoryTypeIndex() int { return b.memoryType }

// Close releases the allocations and buffers. It is safe to call more than
// once and after the owning Context has been closed.
func (b *HostBuffer) Close() {
	b.closeOnce.Do(func() {
		b.ctx.release(b, func() {
			device := b.ctx.Device()
			device.FreeMemory(b.outputMemory)
			device.FreeMemory(b.inputMemory)
			device.DestroyBuffer(b.output)
			device.DestroyBuffer(b.input)
		})
	})
}

func bytesToGB(n uint64) float64 {
	return float64(n) / (1 << 30)
}
