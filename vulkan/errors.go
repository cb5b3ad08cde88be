package vulkan

import (
	"fmt"

	"github.com/pkg/errors"
)

// Construction failures. All of them are fatal for the component being built.
var (
	// ErrLayersUnsupported means diagnostics were requested but a requested
	// layer is missing from the platform.
	ErrLayersUnsupported = errors.New("vulkan: requested diagnostic layers are not available")

	// ErrExtensionsUnsupported means a requested instance extension is missing.
	ErrExtensionsUnsupported = errors.New("vulkan: requested instance extensions are not available")

	ErrNoPhysicalDevice = errors.New("vulkan: no physical device available")

	// ErrNoComputeQueue means the selected device has no queue family with
	// compute support.
	ErrNoComputeQueue = errors.New("vulkan: no queue family supports compute")

	// ErrNoMemoryType means no memory type is both host-visible and host-coherent.
	ErrNoMemoryType = errors.New("vulkan: no host-visible, host-coherent memory type")

	ErrShaderNotFound  = errors.New("vulkan: shader file cannot be opened")
	ErrMalformedShader = errors.New("vulkan: shader bytecode is empty or not a multiple of 4 bytes")

	ErrContextClosed = errors.New("vulkan: context is closed")
)

// Construction steps, used to label StepError.
const (
	StepProbe          = "probe"
	StepInstance       = "instance"
	StepDebugMessenger = "debug messenger"
	StepPhysicalDevice = "physical device"
	StepDevice         = "logical device"
	StepBuffer         = "buffer"
	StepMemory         = "memory"
	StepShader         = "shader module"
)

// StepError reports the platform rejecting the creation of an object.
type StepError struct {
	Step   string
	Object string
	Err    error
}

func (e *StepError) Error() string {
	if e.Object == "" {
		return fmt.Sprintf("vulkan: %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("vulkan: %s: failed to create %s: %v", e.Step, e.Object, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepError(step, object string, err error) error {
	return &StepError{Step: step, Object: object, Err: err}
}
