package vulkan_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/kajomano/Kea/vulkan"
	"github.com/kajomano/Kea/vulkan/vulkantest"
)

func diagnosticsConfig() vulkan.Config {
	cfg := vulkan.DefaultConfig()
	cfg.EnableDiagnostics = true
	cfg.RequestedLayers = []string{vulkan.KhronosValidationLayer}
	return cfg
}

// requireDiagnostics skips tests that expect the diagnostics steps when the
// binary was built with -tags nodiagnostics.
func requireDiagnostics(t *testing.T) {
	t.Helper()
	if !vulkan.DiagnosticsEnabledByDefault {
		t.Skip("diagnostics compiled out")
	}
}

func plainConfig() vulkan.Config {
	cfg := vulkan.DefaultConfig()
	cfg.EnableDiagnostics = false
	return cfg
}

func TestContextComputeFamilyAtIndexTwo(t *testing.T) {
	p := vulkantest.New()
	p.Devices[0].QueueFamilies = []vulkan.QueueFamilyProperties{
		{QueueFlags: vulkan.QueueGraphics, QueueCount: 1},
		{QueueFlags: vulkan.QueueTransfer, QueueCount: 2},
		{QueueFlags: vulkan.QueueCompute, QueueCount: 4},
	}

	ctx, err := vulkan.NewContext(p, plainConfig())
	if err != nil {
		t.Fatalf("NewContext: unexpected error: %v", err)
	}
	defer ctx.Close()

	if ctx.QueueFamilyIndex() != 2 {
		t.Errorf("QueueFamilyIndex: expected 2, got %d", ctx.QueueFamilyIndex())
	}

	if len(p.DeviceInfos) != 1 {
		t.Fatalf("device creations: expected 1, got %d", len(p.DeviceInfos))
	}
	want := []vulkan.DeviceQueueCreateInfo{{QueueFamilyIndex: 2, QueuePriorities: []float32{1.0}}}
	if diff := cmp.Diff(want, p.DeviceInfos[0].QueueCreateInfos); diff != "" {
		t.Errorf("queue create infos mismatch (-want +got):\n%s", diff)
	}
	if len(p.DeviceInfos[0].EnabledLayerNames) != 0 {
		t.Errorf("device layers: expected none without diagnostics, got %v", p.DeviceInfos[0].EnabledLayerNames)
	}
}

func TestConfigDiagnostics(t *testing.T) {
	cfg := vulkan.DefaultConfig()

	cfg.EnableDiagnostics = false
	if cfg.Diagnostics() {
		t.Error("Diagnostics: expected false when disabled in the config")
	}

	cfg.EnableDiagnostics = true
	if cfg.Diagnostics() != vulkan.DiagnosticsEnabledByDefault {
		t.Errorf("Diagnostics: expected %v for this build, got %v", vulkan.DiagnosticsEnabledByDefault, cfg.Diagnostics())
	}
}

func TestContextWithoutDiagnostics(t *testing.T) {
	p := vulkantest.New()
	p.Layers = nil
	p.Extensions = nil

	ctx, err := vulkan.NewContext(p, plainConfig())
	if err != nil {
		t.Fatalf("NewContext: unexpected error: %v", err)
	}
	defer ctx.Close()

	info := p.InstanceInfos[0]
	if len(info.EnabledLayerNames) != 0 || len(info.EnabledExtensionNames) != 0 {
		t.Errorf("instance: expected no layers or extensions, got %v and %v", info.EnabledLayerNames, info.EnabledExtensionNames)
	}
	if info.DebugMessenger != nil {
		t.Error("instance: expected no chained debug messenger")
	}
	if len(p.MessengerInfos) != 0 {
		t.Errorf("messengers: expected none, got %d", len(p.MessengerInfos))
	}
	if p.Count(vulkantest.OpAvailableLayers) != 0 {
		t.Error("layers were enumerated although diagnostics are off")
	}
}

func TestContextWithDiagnostics(t *testing.T) {
	requireDiagnostics(t)

	p := vulkantest.New()
	cfg := diagnosticsConfig()
	cfg.RequiredExtensions = []string{"VK_KHR_surface"}
	p.Extensions = append(p.Extensions, "VK_KHR_surface")

	ctx, err := vulkan.NewContext(p, cfg)
	if err != nil {
		t.Fatalf("NewContext: unexpected error: %v", err)
	}
	defer ctx.Close()

	info := p.InstanceInfos[0]
	if diff := cmp.Diff([]string{vulkan.KhronosValidationLayer}, info.EnabledLayerNames); diff != "" {
		t.Errorf("instance layers (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"VK_KHR_surface", vulkan.DebugUtilsExtension}, info.EnabledExtensionNames); diff != "" {
		t.Errorf("instance extensions (-want +got):\n%s", diff)
	}
	if info.DebugMessenger == nil {
		t.Error("instance: expected a chained debug messenger")
	}
	if len(p.MessengerInfos) != 1 {
		t.Errorf("messengers: expected 1, got %d", len(p.MessengerInfos))
	}
	if diff := cmp.Diff([]string{vulkan.KhronosValidationLayer}, p.DeviceInfos[0].EnabledLayerNames); diff != "" {
		t.Errorf("device layers (-want +got):\n%s", diff)
	}
}

func TestContextMissingLayersFailsBeforeInstance(t *testing.T) {
	requireDiagnostics(t)

	p := vulkantest.New()
	p.Layers = nil

	_, err := vulkan.NewContext(p, diagnosticsConfig())
	if !errors.Is(err, vulkan.ErrLayersUnsupported) {
		t.Fatalf("NewContext: expected ErrLayersUnsupported, got %v", err)
	}
	if !strings.Contains(err.Error(), vulkan.KhronosValidationLayer) {
		t.Errorf("error %q does not name the missing layer", err)
	}
	if p.Count(vulkantest.OpCreateInstance) != 0 {
		t.Errorf("CreateInstance: expected no calls, got %d", p.Count(vulkantest.OpCreateInstance))
	}
	if len(p.Trace) != 0 {
		t.Errorf("trace: expected nothing created, got %v", p.Trace)
	}
}

func TestContextChecksCapabilitiesOnce(t *testing.T) {
	requireDiagnostics(t)

	p := vulkantest.New()
	ctx, err := vulkan.NewContext(p, diagnosticsConfig())
	if err != nil {
		t.Fatalf("NewContext: unexpected error: %v", err)
	}
	defer ctx.Close()

	if n := p.Count(vulkantest.OpAvailableLayers); n != 1 {
		t.Errorf("AvailableLayers: expected 1 call when supported, got %d", n)
	}
	if n := p.Count(vulkantest.OpAvailableExtensions); n != 1 {
		t.Errorf("AvailableExtensions: expected 1 call when supported, got %d", n)
	}
}

func TestContextLayerEnumerationFailure(t *testing.T) {
	requireDiagnostics(t)

	p := vulkantest.New()
	p.Failures = map[string]vulkantest.Failure{vulkantest.OpAvailableLayers: {}}

	_, err := vulkan.NewContext(p, diagnosticsConfig())
	var stepErr *vulkan.StepError
	if !errors.As(err, &stepErr) || stepErr.Step != vulkan.StepProbe {
		t.Fatalf("NewContext: expected a StepProbe error, got %v", err)
	}
	if p.Count(vulkantest.OpCreateInstance) != 0 {
		t.Error("CreateInstance: called after a failed probe")
	}
}

func TestContextMissingExtensionFailsBeforeInstance(t *testing.T) {
	requireDiagnostics(t)

	p := vulkantest.New()
	p.Extensions = nil

	_, err := vulkan.NewContext(p, diagnosticsConfig())
	if !errors.Is(err, vulkan.ErrExtensionsUnsupported) {
		t.Fatalf("NewContext: expected ErrExtensionsUnsupported, got %v", err)
	}
	if p.Count(vulkantest.OpCreateInstance) != 0 {
		t.Errorf("CreateInstance: expected no calls, got %d", p.Count(vulkantest.OpCreateInstance))
	}
}

func TestContextNoPhysicalDevice(t *testing.T) {
	requireDiagnostics(t)

	p := vulkantest.New()
	p.Devices = nil

	_, err := vulkan.NewContext(p, diagnosticsConfig())
	if !errors.Is(err, vulkan.ErrNoPhysicalDevice) {
		t.Fatalf("NewContext: expected ErrNoPhysicalDevice, got %v", err)
	}
	want := []string{
		"create instance 1",
		"create debug messenger 2",
		"destroy debug messenger 2",
		"destroy instance 1",
	}
	if diff := cmp.Diff(want, p.Trace); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestContextNoComputeQueue(t *testing.T) {
	p := vulkantest.New()
	p.Devices[0].QueueFamilies = []vulkan.QueueFamilyProperties{
		{QueueFlags: vulkan.QueueGraphics, QueueCount: 1},
	}

	_, err := vulkan.NewContext(p, plainConfig())
	if !errors.Is(err, vulkan.ErrNoComputeQueue) {
		t.Fatalf("NewContext: expected ErrNoComputeQueue, got %v", err)
	}
	if p.Count(vulkantest.OpCreateDevice) != 0 {
		t.Error("CreateDevice: called although no compute family exists")
	}
	if p.Live() != 0 {
		t.Errorf("live objects: expected 0, got %d", p.Live())
	}
}

func TestContextStepErrors(t *testing.T) {
	requireDiagnostics(t)

	tests := []struct {
		op     string
		step   string
		object string
	}{
		{vulkantest.OpCreateInstance, vulkan.StepInstance, "instance"},
		{vulkantest.OpCreateDebugMessenger, vulkan.StepDebugMessenger, "debug messenger"},
		{vulkantest.OpCreateDevice, vulkan.StepDevice, "logical device"},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			p := vulkantest.New()
			p.Failures = map[string]vulkantest.Failure{tt.op: {}}

			_, err := vulkan.NewContext(p, diagnosticsConfig())

			var stepErr *vulkan.StepError
			if !errors.As(err, &stepErr) {
				t.Fatalf("NewContext: expected *StepError, got %v", err)
			}
			if stepErr.Step != tt.step || stepErr.Object != tt.object {
				t.Errorf("StepError: expected %q/%q, got %q/%q", tt.step, tt.object, stepErr.Step, stepErr.Object)
			}
			if !errors.Is(err, vulkantest.ErrInjected) {
				t.Errorf("StepError does not wrap the platform error: %v", err)
			}
			if p.Live() != 0 {
				t.Errorf("live objects: expected 0, got %d", p.Live())
			}
		})
	}
}

func TestContextDeviceInfo(t *testing.T) {
	ctx, err := vulkan.NewContext(vulkantest.New(), plainConfig())
	if err != nil {
		t.Fatalf("NewContext: unexpected error: %v", err)
	}
	defer ctx.Close()

	info := ctx.DeviceInfo()
	if info.Name != "Fake GPU" {
		t.Errorf("Name: expected Fake GPU, got %q", info.Name)
	}
	if vulkan.FormatVersion(info.APIVersion) != "1.2.0" {
		t.Errorf("APIVersion: expected 1.2.0, got %s", vulkan.FormatVersion(info.APIVersion))
	}
	if info.MaxComputeSharedMemorySize != 32768 {
		t.Errorf("MaxComputeSharedMemorySize: expected 32768, got %d", info.MaxComputeSharedMemorySize)
	}
}

func TestDebugCallbackWritesDiagnosticsLine(t *testing.T) {
	requireDiagnostics(t)

	var sink bytes.Buffer
	restore := vulkan.SetDiagnosticsSink(&sink)
	defer restore()

	p := vulkantest.New()
	ctx, err := vulkan.NewContext(p, diagnosticsConfig())
	if err != nil {
		t.Fatalf("NewContext: unexpected error: %v", err)
	}
	defer ctx.Close()

	p.Emit(vulkan.SeverityError, vulkan.MessageValidation, "bad thing")

	// Both the chained and the standalone messenger receive the message.
	want := "[VULKAN ERROR] bad thing\n[VULKAN ERROR] bad thing\n"
	if sink.String() != want {
		t.Errorf("diagnostics output: expected %q, got %q", want, sink.String())
	}
}

func TestContextCloseTwice(t *testing.T) {
	p := vulkantest.New()
	ctx, err := vulkan.NewContext(p, plainConfig())
	if err != nil {
		t.Fatalf("NewContext: unexpected error: %v", err)
	}
	ctx.Close()
	ctx.Close()

	want := []string{
		"create instance 1",
		"create device 2",
		"destroy device 2",
		"destroy instance 1",
	}
	if diff := cmp.Diff(want, p.Trace); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
	if _, err := vulkan.NewHostBuffer(ctx, 1); !errors.Is(err, vulkan.ErrContextClosed) {
		t.Errorf("NewHostBuffer after Close: expected ErrContextClosed, got %v", err)
	}
}
