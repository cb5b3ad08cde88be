package vulkan

// Platform is the system boundary: the global queries and the instance
// constructor of the underlying Vulkan implementation.
type Platform interface {
	AvailableLayers() ([]string, error)
	AvailableExtensions() ([]string, error)
	CreateInstance(info InstanceCreateInfo) (Instance, error)
}

// Instance is a created VkInstance together with the queries that need one.
type Instance interface {
	CreateDebugMessenger(info DebugMessengerCreateInfo) (DebugMessenger, error)
	EnumeratePhysicalDevices() ([]PhysicalDevice, error)
	Properties(pd PhysicalDevice) (*PhysicalDeviceProperties, error)
	QueueFamilyProperties(pd PhysicalDevice) []QueueFamilyProperties
	MemoryProperties(pd PhysicalDevice) *MemoryProperties
	CreateDevice(pd PhysicalDevice, info DeviceCreateInfo) (Device, error)
	Destroy()
}

// DebugMessenger is a created VkDebugUtilsMessengerEXT.
type DebugMessenger interface {
	Destroy()
}

// Device is a created VkDevice and the object constructors hanging off it.
type Device interface {
	CreateBuffer(info BufferCreateInfo) (BufferHandle, error)
	BufferMemoryRequirements(buffer BufferHandle) MemoryRequirements
	AllocateMemory(info MemoryAllocateInfo) (MemoryHandle, error)
	BindBufferMemory(buffer BufferHandle, memory MemoryHandle, offset int) error
	CreateShaderModule(info ShaderModuleCreateInfo) (ShaderModuleHandle, error)

	DestroyBuffer(buffer BufferHandle)
	FreeMemory(memory MemoryHandle)
	DestroyShaderModule(module ShaderModuleHandle)
	Destroy()
}

// Opaque handles issued by a Platform implementation.
type (
	PhysicalDevice     uint64
	BufferHandle       uint64
	MemoryHandle       uint64
	ShaderModuleHandle uint64
)

type InstanceCreateInfo struct {
	ApplicationName    string
	ApplicationVersion uint32
	EngineName         string
	EngineVersion      uint32
	APIVersion         uint32

	EnabledLayerNames     []string
	EnabledExtensionNames []string

	// DebugMessenger, when set, is chained into the create call so that
	// messages emitted while the instance itself is created are reported.
	DebugMessenger *DebugMessengerCreateInfo
}

type MessageSeverity uint32

const (
	SeverityVerbose MessageSeverity = 1 << 0
	SeverityInfo    MessageSeverity = 1 << 4
	SeverityWarning MessageSeverity = 1 << 8
	SeverityError   MessageSeverity = 1 << 12
)

type MessageType uint32

const (
	MessageGeneral     MessageType = 1 << 0
	MessageValidation  MessageType = 1 << 1
	MessagePerformance MessageType = 1 << 2
)

// DebugCallback receives one diagnostic message. The return value follows
// Vulkan: false means the triggering call is not aborted.
type DebugCallback func(severity MessageSeverity, types MessageType, message string) bool

type DebugMessengerCreateInfo struct {
	Severity MessageSeverity
	Types    MessageType
	Callback DebugCallback
}

type PhysicalDeviceType int

const (
	DeviceTypeOther PhysicalDeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

func (t PhysicalDeviceType) String() string {
	switch t {
	case DeviceTypeIntegratedGPU:
		return "Integrated GPU"
	case DeviceTypeDiscreteGPU:
		return "Discrete GPU"
	case DeviceTypeVirtualGPU:
		return "Virtual GPU"
	case DeviceTypeCPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

type PhysicalDeviceProperties struct {
	DeviceName                 string
	DeviceType                 PhysicalDeviceType
	APIVersion                 uint32
	DriverVersion              uint32
	MaxComputeSharedMemorySize int
}

type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 1 << 0
	QueueCompute  QueueFlags = 1 << 1
	QueueTransfer QueueFlags = 1 << 2
)

type QueueFamilyProperties struct {
	QueueFlags QueueFlags
	QueueCount int
}

type MemoryPropertyFlags uint32

const (
	MemoryDeviceLocal  MemoryPropertyFlags = 1 << 0
	MemoryHostVisible  MemoryPropertyFlags = 1 << 1
	MemoryHostCoherent MemoryPropertyFlags = 1 << 2
	MemoryHostCached   MemoryPropertyFlags = 1 << 3
)

type MemoryType struct {
	PropertyFlags MemoryPropertyFlags
	HeapIndex     int
}

type MemoryHeap struct {
	Size uint64
}

type MemoryProperties struct {
	MemoryTypes []MemoryType
	MemoryHeaps []MemoryHeap
}

type DeviceQueueCreateInfo struct {
	QueueFamilyIndex int
	QueuePriorities  []float32
}

type DeviceCreateInfo struct {
	QueueCreateInfos      []DeviceQueueCreateInfo
	EnabledLayerNames     []string
	EnabledExtensionNames []string
}

type BufferUsage uint32

const (
	BufferUsageTransferSrc   BufferUsage = 1 << 0
	BufferUsageTransferDst   BufferUsage = 1 << 1
	BufferUsageStorageBuffer BufferUsage = 1 << 5
)

type SharingMode int

const (
	SharingModeExclusive SharingMode = iota
	SharingModeConcurrent
)

type BufferCreateInfo struct {
	Size               uint64
	Usage              BufferUsage
	SharingMode        SharingMode
	QueueFamilyIndices []int
}

type MemoryRequirements struct {
	Size           uint64
	Alignment      uint64
	MemoryTypeBits uint32
}

type MemoryAllocateInfo struct {
	AllocationSize  uint64
	MemoryTypeIndex int
}

type ShaderModuleCreateInfo struct {
	Code []uint32
}
