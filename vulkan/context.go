package vulkan

import (
	"sync"
)

// closer is a resource whose lifetime is bounded by its Context.
type closer interface {
	Close()
}

// DeviceInfo summarizes the selected physical device.
type DeviceInfo struct {
	Name                       string
	Type                       PhysicalDeviceType
	APIVersion                 uint32
	DriverVersion              uint32
	MaxComputeSharedMemorySize int
	QueueFamilyIndex           int
}

// Context owns the instance, the optional debug messenger and the logical
// device. Buffers and pipelines created from it are tracked and released by
// Close before the device is destroyed.
type Context struct {
	cfg Config

	instance       Instance
	messenger      DebugMessenger
	physicalDevice PhysicalDevice
	properties     PhysicalDeviceProperties
	memory         *MemoryProperties
	queueFamily    int
	device         Device

	mu       sync.Mutex
	children []closer
	closed   bool
}

// NewContext runs the bootstrap sequence. On failure every object created so
// far is destroyed in reverse order and the first error is returned.
func NewContext(platform Platform, cfg Config) (*Context, error) {
	c := &Context{cfg: cfg}

	var release []func()
	fail := func(err error) (*Context, error) {
		for i := len(release) - 1; i >= 0; i-- {
			release[i]()
		}
		return nil, err
	}

	instance, err := createInstance(platform, cfg)
	if err != nil {
		return fail(err)
	}
	c.instance = instance
	release = append(release, instance.Destroy)

	if cfg.Diagnostics() {
		messenger, err := createDebugMessenger(instance, cfg)
		if err != nil {
			return fail(err)
		}
		c.messenger = messenger
		release = append(release, messenger.Destroy)
	}

	pd, props, err := selectPhysicalDevice(instance)
	if err != nil {
		return fail(err)
	}
	c.physicalDevice = pd
	c.properties = props

	queueFamily, err := findComputeQueueFamily(instance, pd)
	if err != nil {
		return fail(err)
	}
	c.queueFamily = queueFamily

	device, err := createLogicalDevice(instance, pd, queueFamily, cfg)
	if err != nil {
		return fail(err)
	}
	c.device = device

	c.memory = instance.MemoryProperties(pd)

	Logger().Info("vulkan context ready",
		"app", cfg.AppName,
		"diagnostics", cfg.Diagnostics(),
		"queue_family", queueFamily,
	)

	return c, nil
}

func (c *Context) Config() Config { return c.cfg }

func (c *Context) Instance() Instance { return c.instance }

func (c *Context) PhysicalDevice() PhysicalDevice { return c.physicalDevice }

func (c *Context) Device() Device { return c.device }

// QueueFamilyIndex is the compute-capable family the device was created with.
func (c *Context) QueueFamilyIndex() int { return c.queueFamily }

// MemoryProperties returns the memory types and heaps of the selected device.
func (c *Context) MemoryProperties() *MemoryProperties { return c.memory }

func (c *Context) DeviceInfo() DeviceInfo {
	return DeviceInfo{
		Name:                       c.properties.DeviceName,
		Type:                       c.properties.DeviceType,
		APIVersion:                 c.properties.APIVersion,
		DriverVersion:              c.properties.DriverVersion,
		MaxComputeSharedMemorySize: c.properties.MaxComputeSharedMemorySize,
		QueueFamilyIndex:           c.queueFamily,
	}
}

// Closed reports whether Close has run.
func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Context) adopt(child closer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrContextClosed
	}
	c.children = append(c.children, child)
	return nil
}

// release untracks child and runs fn while the device is still open. The
// lock is held across fn so the device cannot be destroyed underneath it.
func (c *Context) release(child closer, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, ch := range c.children {
		if ch == child {
			c.children = append(c.children[:i], c.children[i+1:]...)
			break
		}
	}
	if !c.closed {
		fn()
	}
}

// Close releases every live buffer and pipeline in reverse creation order,
// then the logical device, the debug messenger and the instance. Calling it
// again is a no-op.
func (c *Context) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	children := c.children
	c.children = nil
	c.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Close()
	}

	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.device.Destroy()
	if c.messenger != nil {
		c.messenger.Destroy()
	}
	c.instance.Destroy()
}
