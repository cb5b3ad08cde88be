package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kajomano/Kea/core"
	"github.com/kajomano/Kea/internal/config"
	"github.com/kajomano/Kea/vulkan"
	"github.com/kajomano/Kea/vulkan/vkng"
)

var (
	logLevel      string
	configPath    string
	noDiagnostics bool
	verbose       bool
	shaderDir     string

	logger *slog.Logger
	cfg    *config.Config
)

// openPlatform connects to the system Vulkan loader. It returns the
// platform, the instance extensions the window system requires and a
// release function. Tests replace it with an in-memory platform.
var openPlatform = func(c *config.Config) (vulkan.Platform, []string, func(), error) {
	loader, err := core.NewLoader(core.LoaderConfig{
		WindowExtensions: c.WindowExtensions,
		Width:            c.Width,
		Height:           c.Height,
		Title:            c.AppName,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	platform, err := vkng.New(loader.ProcAddr())
	if err != nil {
		loader.Destroy()
		return nil, nil, nil, err
	}
	return platform, loader.RequiredInstanceExtensions(), loader.Destroy, nil
}

var rootCmd = &cobra.Command{
	Use:   "kea",
	Short: "Vulkan compute context bootstrap",
	Long: `Kea probes the Vulkan platform, opens a compute-capable logical device,
prepares host-visible storage buffers and loads compiled compute shaders.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{Level: level}
		handler := slog.NewTextHandler(os.Stderr, opts)
		logger = slog.New(handler)
		slog.SetDefault(logger)
		vulkan.SetLogger(logger)

		return loadConfig()
	},
}

func loadConfig() error {
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}

	if noDiagnostics {
		cfg.Diagnostics = false
	}
	if verbose {
		cfg.VerboseDiagnostics = true
	}
	if shaderDir != "" {
		cfg.ShaderDir = shaderDir
	}
	return cfg.Validate()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&noDiagnostics, "no-diagnostics", false, "Disable validation layers and the debug messenger")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose-diagnostics", false, "Also report verbose and info validation messages")
	rootCmd.PersistentFlags().StringVar(&shaderDir, "shader-dir", "", "Directory holding compiled .spv shaders")
}
