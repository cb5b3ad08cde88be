package vulkan

// selectPhysicalDevice takes the first device the instance reports. There is
// no suitability scoring; compute support is verified afterwards by
// findComputeQueueFamily.
func selectPhysicalDevice(instance Instance) (PhysicalDevice, PhysicalDeviceProperties, error) {
	devices, err := instance.EnumeratePhysicalDevices()
	if err != nil {
		return 0, PhysicalDeviceProperties{}, stepError(StepPhysicalDevice, "", err)
	}
	if len(devices) == 0 {
		return 0, PhysicalDeviceProperties{}, ErrNoPhysicalDevice
	}

	pd := devices[0]
	props, err := instance.Properties(pd)
	if err != nil {
		return 0, PhysicalDeviceProperties{}, stepError(StepPhysicalDevice, "", err)
	}

	major, minor, patch := VersionTriple(props.APIVersion)
	Logger().Info("physical device selected",
		"name", props.DeviceName,
		"type", props.DeviceType.String(),
		"api_version", formatTriple(major, minor, patch),
		"max_compute_shared_memory", props.MaxComputeSharedMemorySize,
		"candidates", len(devices),
	)

	return pd, *props, nil
}

// findComputeQueueFamily returns the index of the first queue family with
// compute support.
func findComputeQueueFamily(instance Instance, pd PhysicalDevice) (int, error) {
	families := instance.QueueFamilyProperties(pd)
	for i, family := range families {
		if family.QueueFlags&QueueCompute != 0 {
			return i, nil
		}
	}
	return 0, ErrNoComputeQueue
}

func createLogicalDevice(instance Instance, pd PhysicalDevice, queueFamily int, cfg Config) (Device, error) {
	info := DeviceCreateInfo{
		QueueCreateInfos: []DeviceQueueCreateInfo{
			{
				QueueFamilyIndex: queueFamily,
				QueuePriorities:  []float32{1.0},
			},
		},
		// Device layers are deprecated but older loaders still read them.
		EnabledLayerNames: cfg.EnabledLayers(),
	}

	device, err := instance.CreateDevice(pd, info)
	if err != nil {
		return nil, stepError(StepDevice, "logical device", err)
	}
	return device, nil
}
