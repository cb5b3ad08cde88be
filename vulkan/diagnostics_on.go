//go:build !nodiagnostics

package vulkan

// DiagnosticsEnabledByDefault is false when built with -tags nodiagnostics.
// Such a binary never enables layers, the debug utils extension or a
// messenger, whatever its Config says.
const DiagnosticsEnabledByDefault = true
