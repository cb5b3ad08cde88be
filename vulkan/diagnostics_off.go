//go:build nodiagnostics

package vulkan

const DiagnosticsEnabledByDefault = false
