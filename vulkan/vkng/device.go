package vkng

import (
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/kajomano/Kea/vulkan"
)

type device struct {
	driver core1_0.CoreDeviceDriver

	next     uint64
	buffers  map[vulkan.BufferHandle]core1_0.Buffer
	memories map[vulkan.MemoryHandle]core1_0.DeviceMemory
	modules  map[vulkan.ShaderModuleHandle]core1_0.ShaderModule
}

func newDevice(driver core1_0.CoreDeviceDriver) *device {
	return &device{
		driver:   driver,
		buffers:  make(map[vulkan.BufferHandle]core1_0.Buffer),
		memories: make(map[vulkan.MemoryHandle]core1_0.DeviceMemory),
		modules:  make(map[vulkan.ShaderModuleHandle]core1_0.ShaderModule),
	}
}

func (d *device) handle() uint64 {
	d.next++
	return d.next
}

func (d *device) CreateBuffer(info vulkan.BufferCreateInfo) (vulkan.BufferHandle, error) {
	var usage core1_0.BufferUsageFlags
	if info.Usage&vulkan.BufferUsageTransferSrc != 0 {
		usage |= core1_0.BufferUsageTransferSrc
	}
	if info.Usage&vulkan.BufferUsageTransferDst != 0 {
		usage |= core1_0.BufferUsageTransferDst
	}
	if info.Usage&vulkan.BufferUsageStorageBuffer != 0 {
		usage |= core1_0.BufferUsageStorageBuffer
	}

	sharing := core1_0.SharingModeExclusive
	if info.SharingMode == vulkan.SharingModeConcurrent {
		sharing = core1_0.SharingModeConcurrent
	}

	buffer, _, err := d.driver.CreateBuffer(nil, core1_0.BufferCreateInfo{
		Size:               int(info.Size),
		Usage:              usage,
		SharingMode:        sharing,
		QueueFamilyIndices: info.QueueFamilyIndices,
	})
	if err != nil {
		return 0, err
	}

	h := vulkan.BufferHandle(d.handle())
	d.buffers[h] = buffer
	return h, nil
}

func (d *device) BufferMemoryRequirements(buffer vulkan.BufferHandle) vulkan.MemoryRequirements {
	req := d.driver.GetBufferMemoryRequirements(d.buffers[buffer])
	return vulkan.MemoryRequirements{
		Size:           uint64(req.Size),
		Alignment:      uint64(req.Alignment),
		MemoryTypeBits: req.MemoryTypeBits,
	}
}

func (d *device) AllocateMemory(info vulkan.MemoryAllocateInfo) (vulkan.MemoryHandle, error) {
	memory, _, err := d.driver.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  int(info.AllocationSize),
		MemoryTypeIndex: info.MemoryTypeIndex,
	})
	if err != nil {
		return 0, err
	}

	h := vulkan.MemoryHandle(d.handle())
	d.memories[h] = memory
	return h, nil
}

func (d *device) BindBufferMemory(buffer vulkan.BufferHandle, memory vulkan.MemoryHandle, offset int) error {
	_, err := d.driver.BindBufferMemory(d.buffers[buffer], d.memories[memory], offset)
	return err
}

func (d *device) CreateShaderModule(info vulkan.ShaderModuleCreateInfo) (vulkan.ShaderModuleHandle, error) {
	module, _, err := d.driver.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: info.Code,
	})
	if err != nil {
		return 0, err
	}

	h := vulkan.ShaderModuleHandle(d.handle())
	d.modules[h] = module
	return h, nil
}

func (d *device) DestroyBuffer(buffer vulkan.BufferHandle) {
	if b, ok := d.buffers[buffer]; ok {
		d.driver.DestroyBuffer(b, nil)
		delete(d.buffers, buffer)
	}
}

func (d *device) FreeMemory(memory vulkan.MemoryHandle) {
	if m, ok := d.memories[memory]; ok {
		d.driver.FreeMemory(m, nil)
		delete(d.memories, memory)
	}
}

func (d *device) DestroyShaderModule(module vulkan.ShaderModuleHandle) {
	if m, ok := d.modules[module]; ok {
		d.driver.DestroyShaderModule(m, nil)
		delete(d.modules, module)
	}
}

func (d *device) Destroy() {
	d.driver.DestroyDevice(nil)
}
