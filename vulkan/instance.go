package vulkan

import (
	"strings"

	"github.com/pkg/errors"
)

// checkCapabilities fails fast when diagnostics are requested but the
// platform lacks a requested layer or extension. Nothing is created.
func checkCapabilities(platform Platform, cfg Config) error {
	if !cfg.Diagnostics() {
		return nil
	}

	probe := NewProbe(platform)

	if layers := cfg.EnabledLayers(); !probe.SupportsLayers(layers) {
		absent, err := probe.MissingLayers(layers)
		if err != nil {
			return stepError(StepProbe, "", err)
		}
		if len(absent) > 0 {
			return errors.Wrapf(ErrLayersUnsupported, "missing %s", strings.Join(absent, ", "))
		}
	}

	if exts := cfg.EnabledExtensions(); !probe.SupportsExtensions(exts) {
		absent, err := probe.MissingExtensions(exts)
		if err != nil {
			return stepError(StepProbe, "", err)
		}
		if len(absent) > 0 {
			return errors.Wrapf(ErrExtensionsUnsupported, "missing %s", strings.Join(absent, ", "))
		}
	}

	return nil
}

func createInstance(platform Platform, cfg Config) (Instance, error) {
	if err := checkCapabilities(platform, cfg); err != nil {
		return nil, err
	}

	info := InstanceCreateInfo{
		ApplicationName:       cfg.AppName,
		ApplicationVersion:    cfg.AppVersion,
		EngineName:            cfg.EngineName,
		EngineVersion:         cfg.EngineVersion,
		APIVersion:            cfg.APIVersion,
		EnabledLayerNames:     cfg.EnabledLayers(),
		EnabledExtensionNames: cfg.EnabledExtensions(),
	}

	if cfg.Diagnostics() {
		messengerInfo := debugMessengerInfo(cfg)
		info.DebugMessenger = &messengerInfo
	}

	instance, err := platform.CreateInstance(info)
	if err != nil {
		return nil, stepError(StepInstance, "instance", err)
	}
	return instance, nil
}
