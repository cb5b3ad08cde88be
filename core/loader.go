// Package core locates the system Vulkan loader through GLFW and reports the
// instance extensions a window surface would need.
package core

import (
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

func init() {
	runtime.LockOSThread()
}

// ErrVulkanUnsupported means GLFW found no usable Vulkan loader.
var ErrVulkanUnsupported = errors.New("core: Vulkan loader not found")

type LoaderConfig struct {
	// WindowExtensions opens a hidden window to learn which instance
	// extensions surface creation requires.
	WindowExtensions bool
	Width            int
	Height           int
	Title            string
}

func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		WindowExtensions: false,
		Width:            800,
		Height:           600,
		Title:            "Kea",
	}
}

// Loader keeps GLFW initialized for as long as the Vulkan entry point is in
// use.
type Loader struct {
	window     *glfw.Window
	extensions []string
}

func NewLoader(config LoaderConfig) (*Loader, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize GLFW")
	}

	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return nil, ErrVulkanUnsupported
	}

	loader := &Loader{}
	if !config.WindowExtensions {
		return loader, nil
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Visible, glfw.False)

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "failed to create window")
	}

	loader.window = handle
	loader.extensions = handle.GetRequiredInstanceExtensions()
	return loader, nil
}

// ProcAddr returns vkGetInstanceProcAddr from the loader GLFW found.
func (l *Loader) ProcAddr() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}

// RequiredInstanceExtensions lists the surface extensions, or nothing when
// the loader was opened without a window.
func (l *Loader) RequiredInstanceExtensions() []string {
	return l.extensions
}

func (l *Loader) Destroy() {
	if l.window != nil {
		l.window.Destroy()
		l.window = nil
	}
	glfw.Terminate()
}
