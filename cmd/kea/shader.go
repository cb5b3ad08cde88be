package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kajomano/Kea/vulkan"
)

var (
	elements   int
	shaderName string
)

var shaderTestCmd = &cobra.Command{
	Use:   "shader-test",
	Short: "Bootstrap a context, allocate the buffer pair and load a compute shader",
	RunE: func(cmd *cobra.Command, args []string) error {
		if elements > 0 {
			cfg.Elements = elements
		}
		if shaderName != "" {
			cfg.Shader = shaderName
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		platform, required, release, err := openPlatform(cfg)
		if err != nil {
			return err
		}
		defer release()

		ctx, err := vulkan.NewContext(platform, cfg.ContextConfig(required))
		if err != nil {
			return err
		}
		defer ctx.Close()

		buf, err := vulkan.NewHostBuffer(ctx, cfg.Elements)
		if err != nil {
			return err
		}

		pipeline, err := vulkan.NewPipeline(ctx, cfg.PipelineConfig())
		if err != nil {
			return err
		}

		mem := buf.MemoryInfo()
		fmt.Fprintf(cmd.OutOrStdout(), "device %q: %d elements (%d bytes per buffer) in memory type %d, shader %s (%d words)\n",
			ctx.DeviceInfo().Name, buf.Elements(), buf.Size(), mem.TypeIndex, pipeline.Path(), pipeline.CodeWords())
		return nil
	},
}

func init() {
	shaderTestCmd.Flags().IntVar(&elements, "elements", 0, "Number of 32-bit elements per buffer (default from config)")
	shaderTestCmd.Flags().StringVar(&shaderName, "shader", "", "Compiled shader file name (default from config)")
	rootCmd.AddCommand(shaderTestCmd)
}
