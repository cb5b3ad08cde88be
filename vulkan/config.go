package vulkan

// Config describes how a Context is bootstrapped.
type Config struct {
	AppName       string
	AppVersion    uint32
	EngineName    string
	EngineVersion uint32
	APIVersion    uint32

	// EnableDiagnostics turns on the requested layers, the debug utils
	// extension and the debug messenger. It has no effect in binaries built
	// with -tags nodiagnostics.
	EnableDiagnostics bool
	// VerboseDiagnostics additionally reports verbose and info messages.
	VerboseDiagnostics bool
	RequestedLayers    []string

	// RequiredExtensions are the platform-mandated instance extensions, for
	// example the ones a windowing library asks for.
	RequiredExtensions []string

	// Width and Height are carried for the window collaborator; the compute
	// bootstrap ignores them.
	Width  int
	Height int
}

func DefaultConfig() Config {
	cfg := Config{
		AppName:           "Kea",
		AppVersion:        1,
		EngineName:        "Stargazer",
		EngineVersion:     1,
		APIVersion:        APIVersion10,
		EnableDiagnostics: DiagnosticsEnabledByDefault,
		Width:             800,
		Height:            600,
	}
	if cfg.EnableDiagnostics {
		cfg.RequestedLayers = []string{KhronosValidationLayer}
	}
	return cfg
}

// Diagnostics reports whether a Context built from c runs the diagnostics
// steps.
func (c Config) Diagnostics() bool {
	return c.EnableDiagnostics && DiagnosticsEnabledByDefault
}

// EnabledLayers returns the layer list to enable, empty when diagnostics
// are off.
func (c Config) EnabledLayers() []string {
	if !c.Diagnostics() {
		return nil
	}
	return c.RequestedLayers
}

// EnabledExtensions returns the platform-mandated extensions plus the debug
// utils extension when diagnostics are on.
func (c Config) EnabledExtensions() []string {
	exts := append([]string(nil), c.RequiredExtensions...)
	if c.Diagnostics() {
		exts = append(exts, DebugUtilsExtension)
	}
	return exts
}

// PipelineConfig locates the shader binary loaded by NewPipeline.
type PipelineConfig struct {
	// ShaderDir is the build output directory holding compiled .spv files.
	ShaderDir  string
	ShaderName string
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ShaderDir:  "build/shaders",
		ShaderName: "square.spv",
	}
}
