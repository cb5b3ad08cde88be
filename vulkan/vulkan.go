// Package vulkan bootstraps a Vulkan compute context: it probes the platform
// for diagnostic layers, creates the instance and optional debug messenger,
// selects a physical device and its compute queue family, opens the logical
// device, and prepares host-visible storage buffers and shader modules on top
// of it.
//
// The package talks to the driver only through the [Platform] interface. The
// production implementation lives in the vkng sub-package; tests use the
// in-memory double from vulkantest.
//
// Object lifetimes nest: a [Context] owns the instance, messenger and device,
// and every [HostBuffer] or [Pipeline] created from it is released by
// [Context.Close] before the device goes away.
package vulkan

import "fmt"

// Well-known layer and extension names.
const (
	KhronosValidationLayer = "VK_LAYER_KHRONOS_validation"
	DebugUtilsExtension    = "VK_EXT_debug_utils"
)

// Version packs a major/minor/patch triple the way VK_MAKE_VERSION does.
func Version(major, minor, patch uint32) uint32 {
	return (major << 22) | (minor << 12) | patch
}

// API versions accepted by Config.APIVersion.
var (
	APIVersion10 = Version(1, 0, 0)
	APIVersion11 = Version(1, 1, 0)
	APIVersion12 = Version(1, 2, 0)
)

// VersionTriple unpacks a packed version into its components.
func VersionTriple(v uint32) (major, minor, patch uint32) {
	return v >> 22, (v >> 12) & 0x3ff, v & 0xfff
}

// FormatVersion renders a packed version as major.minor.patch.
func FormatVersion(v uint32) string {
	return formatTriple(VersionTriple(v))
}

func formatTriple(major, minor, patch uint32) string {
	return fmt.Sprintf("%d.%d.%d", major, minor, patch)
}

// int32Size is the byte width of one buffer element.
const int32Size = 4
