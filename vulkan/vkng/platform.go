// Package vkng implements vulkan.Platform on top of the vkngwrapper bindings.
// Driver objects are kept in maps keyed by the opaque handles handed to the
// vulkan package.
package vkng

import (
	"sort"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"

	"github.com/kajomano/Kea/vulkan"
)

// Platform wraps a vkngwrapper global driver.
type Platform struct {
	driver core1_0.GlobalDriver
}

var _ vulkan.Platform = (*Platform)(nil)

// New loads the driver from a vkGetInstanceProcAddr pointer, for example the
// one returned by the GLFW loader.
func New(procAddr unsafe.Pointer) (*Platform, error) {
	if procAddr == nil {
		return nil, errors.New("vkng: vkGetInstanceProcAddr is nil")
	}
	driver, err := core.CreateDriverFromProcAddr(procAddr)
	if err != nil {
		return nil, errors.Wrap(err, "vkng: load driver")
	}
	return &Platform{driver: driver}, nil
}

func (p *Platform) AvailableLayers() ([]string, error) {
	layers, _, err := p.driver.AvailableLayers()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(layers))
	for name := range layers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (p *Platform) AvailableExtensions() ([]string, error) {
	exts, _, err := p.driver.AvailableExtensions()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(exts))
	for name := range exts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (p *Platform) CreateInstance(info vulkan.InstanceCreateInfo) (vulkan.Instance, error) {
	options := core1_0.InstanceCreateInfo{
		ApplicationName:       info.ApplicationName,
		ApplicationVersion:    common.Version(info.ApplicationVersion),
		EngineName:            info.EngineName,
		EngineVersion:         common.Version(info.EngineVersion),
		APIVersion:            common.APIVersion(info.APIVersion),
		EnabledLayerNames:     info.EnabledLayerNames,
		EnabledExtensionNames: info.EnabledExtensionNames,
	}
	if info.DebugMessenger != nil {
		options.Next = messengerCreateInfo(*info.DebugMessenger)
	}

	driver, _, err := p.driver.CreateInstance(nil, options)
	if err != nil {
		return nil, err
	}
	return &instance{
		driver:  driver,
		devices: make(map[vulkan.PhysicalDevice]core1_0.PhysicalDevice),
	}, nil
}

func messengerCreateInfo(info vulkan.DebugMessengerCreateInfo) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	callback := info.Callback
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.DebugUtilsMessageSeverityFlags(info.Severity),
		MessageType:     ext_debug_utils.DebugUtilsMessageTypeFlags(info.Types),
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			return callback(vulkan.MessageSeverity(severity), vulkan.MessageType(msgType), data.Message)
		},
	}
}

type instance struct {
	driver  core1_0.CoreInstanceDriver
	devices map[vulkan.PhysicalDevice]core1_0.PhysicalDevice
}

func (i *instance) CreateDebugMessenger(info vulkan.DebugMessengerCreateInfo) (vulkan.DebugMessenger, error) {
	driver := ext_debug_utils.CreateExtensionDriverFromCoreDriver(i.driver)
	handle, _, err := driver.CreateDebugUtilsMessenger(nil, messengerCreateInfo(info))
	if err != nil {
		return nil, err
	}
	return &messenger{driver: driver, handle: handle}, nil
}

func (i *instance) EnumeratePhysicalDevices() ([]vulkan.PhysicalDevice, error) {
	devices, _, err := i.driver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, err
	}
	out := make([]vulkan.PhysicalDevice, len(devices))
	for n, d := range devices {
		handle := vulkan.PhysicalDevice(n + 1)
		i.devices[handle] = d
		out[n] = handle
	}
	return out, nil
}

func (i *instance) Properties(pd vulkan.PhysicalDevice) (*vulkan.PhysicalDeviceProperties, error) {
	props, err := i.driver.GetPhysicalDeviceProperties(i.devices[pd])
	if err != nil {
		return nil, err
	}
	out := &vulkan.PhysicalDeviceProperties{
		DeviceName:    props.DriverName,
		DeviceType:    deviceType(props.DriverType),
		APIVersion:    uint32(props.APIVersion),
		DriverVersion: uint32(props.DriverVersion),
	}
	if props.Limits != nil {
		out.MaxComputeSharedMemorySize = props.Limits.MaxComputeSharedMemorySize
	}
	return out, nil
}

func deviceType(t core1_0.PhysicalDeviceType) vulkan.PhysicalDeviceType {
	switch t {
	case core1_0.PhysicalDeviceTypeIntegratedGPU:
		return vulkan.DeviceTypeIntegratedGPU
	case core1_0.PhysicalDeviceTypeDiscreteGPU:
		return vulkan.DeviceTypeDiscreteGPU
	case core1_0.PhysicalDeviceTypeVirtualGPU:
		return vulkan.DeviceTypeVirtualGPU
	case core1_0.PhysicalDeviceTypeCPU:
		return vulkan.DeviceTypeCPU
	default:
		return vulkan.DeviceTypeOther
	}
}

func (i *instance) QueueFamilyProperties(pd vulkan.PhysicalDevice) []vulkan.QueueFamilyProperties {
	families := i.driver.GetPhysicalDeviceQueueFamilyProperties(i.devices[pd])
	out := make([]vulkan.QueueFamilyProperties, len(families))
	for n, f := range families {
		var flags vulkan.QueueFlags
		if f.QueueFlags&core1_0.QueueGraphics != 0 {
			flags |= vulkan.QueueGraphics
		}
		if f.QueueFlags&core1_0.QueueCompute != 0 {
			flags |= vulkan.QueueCompute
		}
		if f.QueueFlags&core1_0.QueueTransfer != 0 {
			flags |= vulkan.QueueTransfer
		}
		out[n] = vulkan.QueueFamilyProperties{QueueFlags: flags, QueueCount: f.QueueCount}
	}
	return out
}

func (i *instance) MemoryProperties(pd vulkan.PhysicalDevice) *vulkan.MemoryProperties {
	props := i.driver.GetPhysicalDeviceMemoryProperties(i.devices[pd])
	out := &vulkan.MemoryProperties{}
	for _, t := range props.MemoryTypes {
		out.MemoryTypes = append(out.MemoryTypes, vulkan.MemoryType{
			PropertyFlags: memoryFlags(t.PropertyFlags),
			HeapIndex:     t.HeapIndex,
		})
	}
	for _, h := range props.MemoryHeaps {
		out.MemoryHeaps = append(out.MemoryHeaps, vulkan.MemoryHeap{Size: uint64(h.Size)})
	}
	return out
}

func memoryFlags(f core1_0.MemoryPropertyFlags) vulkan.MemoryPropertyFlags {
	var out vulkan.MemoryPropertyFlags
	if f&core1_0.MemoryPropertyDeviceLocal != 0 {
		out |= vulkan.MemoryDeviceLocal
	}
	if f&core1_0.MemoryPropertyHostVisible != 0 {
		out |= vulkan.MemoryHostVisible
	}
	if f&core1_0.MemoryPropertyHostCoherent != 0 {
		out |= vulkan.MemoryHostCoherent
	}
	if f&core1_0.MemoryPropertyHostCached != 0 {
		out |= vulkan.MemoryHostCached
	}
	return out
}

func (i *instance) CreateDevice(pd vulkan.PhysicalDevice, info vulkan.DeviceCreateInfo) (vulkan.Device, error) {
	queues := make([]core1_0.DeviceQueueCreateInfo, len(info.QueueCreateInfos))
	for n, q := range info.QueueCreateInfos {
		queues[n] = core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: q.QueueFamilyIndex,
			QueuePriorities:  q.QueuePriorities,
		}
	}

	driver, _, err := i.driver.CreateDevice(i.devices[pd], nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queues,
		EnabledLayerNames:     info.EnabledLayerNames,
		EnabledExtensionNames: info.EnabledExtensionNames,
	})
	if err != nil {
		return nil, err
	}
	return newDevice(driver), nil
}

func (i *instance) Destroy() {
	i.driver.DestroyInstance(nil)
}

type messenger struct {
	driver ext_debug_utils.ExtensionDriver
	handle ext_debug_utils.DebugUtilsMessenger
}

func (m *messenger) Destroy() {
	m.driver.DestroyDebugUtilsMessenger(m.handle, nil)
}
