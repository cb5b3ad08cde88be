package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/kajomano/Kea/vulkan"
)

const (
	DefaultShaderSourceDir = "shaders"
	DefaultElements        = 10
	DefaultAPIVersion      = "1.0"
)

var apiVersions = map[string]uint32{
	"1.0": vulkan.APIVersion10,
	"1.1": vulkan.APIVersion11,
	"1.2": vulkan.APIVersion12,
}

type Config struct {
	AppName            string   `yaml:"app_name"`
	APIVersion         string   `yaml:"api_version"`
	Diagnostics        bool     `yaml:"diagnostics"`
	VerboseDiagnostics bool     `yaml:"verbose_diagnostics"`
	Layers             []string `yaml:"layers"`
	WindowExtensions   bool     `yaml:"window_extensions"`
	Width              int      `yaml:"width"`
	Height             int      `yaml:"height"`
	ShaderDir          string   `yaml:"shader_dir"`
	ShaderSourceDir    string   `yaml:"shader_source_dir"`
	Shader             string   `yaml:"shader"`
	Elements           int      `yaml:"elements"`
}

// DefaultConfig mirrors vulkan.DefaultConfig and vulkan.DefaultPipelineConfig.
func DefaultConfig() *Config {
	vc := vulkan.DefaultConfig()
	pc := vulkan.DefaultPipelineConfig()
	return &Config{
		AppName:         vc.AppName,
		APIVersion:      DefaultAPIVersion,
		Diagnostics:     vc.EnableDiagnostics,
		Layers:          vc.RequestedLayers,
		Width:           vc.Width,
		Height:          vc.Height,
		ShaderDir:       pc.ShaderDir,
		ShaderSourceDir: DefaultShaderSourceDir,
		Shader:          pc.ShaderName,
		Elements:        DefaultElements,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Elements <= 0 {
		return errors.Errorf("elements must be positive, got %d", c.Elements)
	}
	if _, ok := apiVersions[c.APIVersion]; !ok {
		return errors.Errorf("api_version must be one of 1.0, 1.1, 1.2, got %q", c.APIVersion)
	}
	if c.Shader == "" {
		return errors.New("shader must not be empty")
	}
	if c.ShaderDir == "" {
		return errors.New("shader_dir must not be empty")
	}
	if c.Width < 0 || c.Height < 0 {
		return errors.Errorf("window size must not be negative, got %dx%d", c.Width, c.Height)
	}
	return nil
}

// ContextConfig maps the run configuration onto the bootstrap options.
// Platform-mandated extensions are supplied by the caller.
func (c *Config) ContextConfig(requiredExtensions []string) vulkan.Config {
	vc := vulkan.DefaultConfig()
	vc.AppName = c.AppName
	if v, ok := apiVersions[c.APIVersion]; ok {
		vc.APIVersion = v
	}
	vc.EnableDiagnostics = c.Diagnostics
	vc.VerboseDiagnostics = c.VerboseDiagnostics
	vc.RequestedLayers = append([]string(nil), c.Layers...)
	vc.RequiredExtensions = requiredExtensions
	vc.Width = c.Width
	vc.Height = c.Height
	return vc
}

func (c *Config) PipelineConfig() vulkan.PipelineConfig {
	return vulkan.PipelineConfig{
		ShaderDir:  c.ShaderDir,
		ShaderName: c.Shader,
	}
}
