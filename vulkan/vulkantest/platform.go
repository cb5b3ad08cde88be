// Package vulkantest provides an in-memory vulkan.Platform that records every
// call it receives. Handles are issued deterministically starting at 1 and
// every create and destroy call is appended to Trace, which makes ownership
// order observable in tests.
package vulkantest

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/kajomano/Kea/vulkan"
)

// Operation names accepted by Platform.Failures.
const (
	OpAvailableLayers          = "AvailableLayers"
	OpAvailableExtensions      = "AvailableExtensions"
	OpCreateInstance           = "CreateInstance"
	OpCreateDebugMessenger     = "CreateDebugMessenger"
	OpEnumeratePhysicalDevices = "EnumeratePhysicalDevices"
	OpProperties               = "Properties"
	OpCreateDevice             = "CreateDevice"
	OpCreateBuffer             = "CreateBuffer"
	OpAllocateMemory           = "AllocateMemory"
	OpBindBufferMemory         = "BindBufferMemory"
	OpCreateShaderModule       = "CreateShaderModule"
)

// ErrInjected is returned by operations listed in Platform.Failures without
// an explicit error.
var ErrInjected = errors.New("vulkantest: injected failure")

// Failure makes an operation fail. Call is the 1-based call number that
// fails; zero fails every call.
type Failure struct {
	Call int
	Err  error
}

// Device describes one fake physical device.
type Device struct {
	Properties    vulkan.PhysicalDeviceProperties
	QueueFamilies []vulkan.QueueFamilyProperties
	Memory        vulkan.MemoryProperties

	// Alignment rounds reported buffer memory requirements up. Zero means 1.
	Alignment uint64
	// MemoryTypeBits is reported by BufferMemoryRequirements. Zero means
	// every memory type is allowed.
	MemoryTypeBits uint32
}

// Binding records a BindBufferMemory call.
type Binding struct {
	Buffer vulkan.BufferHandle
	Memory vulkan.MemoryHandle
	Offset int
}

// Platform is a scriptable vulkan.Platform.
type Platform struct {
	Layers     []string
	Extensions []string
	Devices    []Device
	Failures   map[string]Failure

	// Trace lists create and destroy calls in the order they happened.
	Trace []string

	InstanceInfos  []vulkan.InstanceCreateInfo
	MessengerInfos []vulkan.DebugMessengerCreateInfo
	DeviceInfos    []vulkan.DeviceCreateInfo
	BufferInfos    []vulkan.BufferCreateInfo
	AllocateInfos  []vulkan.MemoryAllocateInfo
	Bindings       []Binding
	ShaderInfos    []vulkan.ShaderModuleCreateInfo

	calls      map[string]int
	nextHandle uint64
	live       map[uint64]string
	callbacks  []vulkan.DebugCallback
}

var _ vulkan.Platform = (*Platform)(nil)

// New returns a platform with the validation layer, the debug utils
// extension and a single discrete GPU. The GPU has one graphics and compute
// queue family, a device-local memory type at index 0 and a host-visible,
// host-coherent memory type at index 1.
func New() *Platform {
	return &Platform{
		Layers:     []string{vulkan.KhronosValidationLayer},
		Extensions: []string{vulkan.DebugUtilsExtension},
		Devices:    []Device{DefaultDevice()},
	}
}

func DefaultDevice() Device {
	return Device{
		Properties: vulkan.PhysicalDeviceProperties{
			DeviceName:                 "Fake GPU",
			DeviceType:                 vulkan.DeviceTypeDiscreteGPU,
			APIVersion:                 vulkan.APIVersion12,
			DriverVersion:              vulkan.Version(1, 0, 0),
			MaxComputeSharedMemorySize: 32768,
		},
		QueueFamilies: []vulkan.QueueFamilyProperties{
			{QueueFlags: vulkan.QueueGraphics | vulkan.QueueCompute | vulkan.QueueTransfer, QueueCount: 1},
		},
		Memory: vulkan.MemoryProperties{
			MemoryTypes: []vulkan.MemoryType{
				{PropertyFlags: vulkan.MemoryDeviceLocal, HeapIndex: 0},
				{PropertyFlags: vulkan.MemoryHostVisible | vulkan.MemoryHostCoherent, HeapIndex: 1},
			},
			MemoryHeaps: []vulkan.MemoryHeap{
				{Size: 8 << 30},
				{Size: 16 << 30},
			},
		},
		Alignment: 256,
	}
}

// Live returns the number of objects created and not yet destroyed.
func (p *Platform) Live() int {
	return len(p.live)
}

// Emit delivers a message to every live debug messenger, including one
// chained into instance creation.
func (p *Platform) Emit(severity vulkan.MessageSeverity, types vulkan.MessageType, message string) {
	for _, cb := range p.callbacks {
		cb(severity, types, message)
	}
}

// Count returns how many times op was invoked.
func (p *Platform) Count(op string) int {
	return p.calls[op]
}

func (p *Platform) call(op string) error {
	if p.calls == nil {
		p.calls = make(map[string]int)
	}
	p.calls[op]++

	f, ok := p.Failures[op]
	if !ok || (f.Call != 0 && f.Call != p.calls[op]) {
		return nil
	}
	if f.Err == nil {
		return ErrInjected
	}
	return f.Err
}

func (p *Platform) create(kind string) uint64 {
	if p.live == nil {
		p.live = make(map[uint64]string)
	}
	p.nextHandle++
	p.live[p.nextHandle] = kind
	p.Trace = append(p.Trace, fmt.Sprintf("create %s %d", kind, p.nextHandle))
	return p.nextHandle
}

func (p *Platform) destroy(kind string, handle uint64) {
	if p.live[handle] != kind {
		p.Trace = append(p.Trace, fmt.Sprintf("invalid destroy %s %d", kind, handle))
		return
	}
	delete(p.live, handle)
	p.Trace = append(p.Trace, fmt.Sprintf("destroy %s %d", kind, handle))
}

func (p *Platform) AvailableLayers() ([]string, error) {
	if err := p.call(OpAvailableLayers); err != nil {
		return nil, err
	}
	return append([]string(nil), p.Layers...), nil
}

func (p *Platform) AvailableExtensions() ([]string, error) {
	if err := p.call(OpAvailableExtensions); err != nil {
		return nil, err
	}
	return append([]string(nil), p.Extensions...), nil
}

func (p *Platform) CreateInstance(info vulkan.InstanceCreateInfo) (vulkan.Instance, error) {
	p.InstanceInfos = append(p.InstanceInfos, info)
	if err := p.call(OpCreateInstance); err != nil {
		return nil, err
	}
	if info.DebugMessenger != nil {
		p.callbacks = append(p.callbacks, info.DebugMessenger.Callback)
	}
	return &instance{p: p, handle: p.create("instance")}, nil
}

type instance struct {
	p      *Platform
	handle uint64
}

func (i *instance) CreateDebugMessenger(info vulkan.DebugMessengerCreateInfo) (vulkan.DebugMessenger, error) {
	i.p.MessengerInfos = append(i.p.MessengerInfos, info)
	if err := i.p.call(OpCreateDebugMessenger); err != nil {
		return nil, err
	}
	i.p.callbacks = append(i.p.callbacks, info.Callback)
	return &messenger{p: i.p, handle: i.p.create("debug messenger")}, nil
}

func (i *instance) EnumeratePhysicalDevices() ([]vulkan.PhysicalDevice, error) {
	if err := i.p.call(OpEnumeratePhysicalDevices); err != nil {
		return nil, err
	}
	devices := make([]vulkan.PhysicalDevice, len(i.p.Devices))
	for n := range devices {
		devices[n] = vulkan.PhysicalDevice(n + 1)
	}
	return devices, nil
}

func (i *instance) device(pd vulkan.PhysicalDevice) *Device {
	return &i.p.Devices[int(pd)-1]
}

func (i *instance) Properties(pd vulkan.PhysicalDevice) (*vulkan.PhysicalDeviceProperties, error) {
	if err := i.p.call(OpProperties); err != nil {
		return nil, err
	}
	props := i.device(pd).Properties
	return &props, nil
}

func (i *instance) QueueFamilyProperties(pd vulkan.PhysicalDevice) []vulkan.QueueFamilyProperties {
	return append([]vulkan.QueueFamilyProperties(nil), i.device(pd).QueueFamilies...)
}

func (i *instance) MemoryProperties(pd vulkan.PhysicalDevice) *vulkan.MemoryProperties {
	mem := i.device(pd).Memory
	return &mem
}

func (i *instance) CreateDevice(pd vulkan.PhysicalDevice, info vulkan.DeviceCreateInfo) (vulkan.Device, error) {
	i.p.DeviceInfos = append(i.p.DeviceInfos, info)
	if err := i.p.call(OpCreateDevice); err != nil {
		return nil, err
	}
	return &device{p: i.p, physical: i.device(pd), handle: i.p.create("device")}, nil
}

func (i *instance) Destroy() {
	i.p.callbacks = nil
	i.p.destroy("instance", i.handle)
}

type messenger struct {
	p      *Platform
	handle uint64
}

func (m *messenger) Destroy() {
	m.p.destroy("debug messenger", m.handle)
}

type device struct {
	p        *Platform
	physical *Device
	handle   uint64
	sizes    map[vulkan.BufferHandle]uint64
}

func (d *device) CreateBuffer(info vulkan.BufferCreateInfo) (vulkan.BufferHandle, error) {
	d.p.BufferInfos = append(d.p.BufferInfos, info)
	if err := d.p.call(OpCreateBuffer); err != nil {
		return 0, err
	}
	if d.sizes == nil {
		d.sizes = make(map[vulkan.BufferHandle]uint64)
	}
	handle := vulkan.BufferHandle(d.p.create("buffer"))
	d.sizes[handle] = info.Size
	return handle, nil
}

func (d *device) BufferMemoryRequirements(buffer vulkan.BufferHandle) vulkan.MemoryRequirements {
	align := d.physical.Alignment
	if align == 0 {
		align = 1
	}
	bits := d.physical.MemoryTypeBits
	if bits == 0 {
		bits = ^uint32(0)
	}
	size := d.sizes[buffer]
	return vulkan.MemoryRequirements{
		Size:           (size + align - 1) / align * align,
		Alignment:      align,
		MemoryTypeBits: bits,
	}
}

func (d *device) AllocateMemory(info vulkan.MemoryAllocateInfo) (vulkan.MemoryHandle, error) {
	d.p.AllocateInfos = append(d.p.AllocateInfos, info)
	if err := d.p.call(OpAllocateMemory); err != nil {
		return 0, err
	}
	return vulkan.MemoryHandle(d.p.create("memory")), nil
}

func (d *device) BindBufferMemory(buffer vulkan.BufferHandle, memory vulkan.MemoryHandle, offset int) error {
	d.p.Bindings = append(d.p.Bindings, Binding{Buffer: buffer, Memory: memory, Offset: offset})
	return d.p.call(OpBindBufferMemory)
}

func (d *device) CreateShaderModule(info vulkan.ShaderModuleCreateInfo) (vulkan.ShaderModuleHandle, error) {
	d.p.ShaderInfos = append(d.p.ShaderInfos, info)
	if err := d.p.call(OpCreateShaderModule); err != nil {
		return 0, err
	}
	return vulkan.ShaderModuleHandle(d.p.create("shader module")), nil
}

func (d *device) DestroyBuffer(buffer vulkan.BufferHandle) {
	delete(d.sizes, buffer)
	d.p.destroy("buffer", uint64(buffer))
}

func (d *device) FreeMemory(memory vulkan.MemoryHandle) {
	d.p.destroy("memory", uint64(memory))
}

func (d *device) DestroyShaderModule(module vulkan.ShaderModuleHandle) {
	d.p.destroy("shader module", uint64(module))
}

func (d *device) Destroy() {
	d.p.destroy("device", d.handle)
}
