package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kajomano/Kea/shaders"
)

var (
	compileClean bool
	compileDebug bool
	sourceDir    string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile WGSL compute shaders to SPIR-V",
	RunE: func(cmd *cobra.Command, args []string) error {
		src := cfg.ShaderSourceDir
		if sourceDir != "" {
			src = sourceDir
		}

		written, err := shaders.BuildDir(src, cfg.ShaderDir, shaders.BuildOptions{
			Clean:    compileClean,
			Debug:    compileDebug,
			Builtins: true,
		})
		if err != nil {
			return err
		}

		for _, path := range written {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		logger.Info("shaders compiled", "count", len(written), "dir", cfg.ShaderDir)
		return nil
	},
}

func init() {
	compileCmd.Flags().BoolVar(&compileClean, "clean", false, "Remove existing .spv files first")
	compileCmd.Flags().BoolVar(&compileDebug, "debug", false, "Emit SPIR-V debug names")
	compileCmd.Flags().StringVar(&sourceDir, "source-dir", "", "Directory holding .wgsl sources (default from config)")
	rootCmd.AddCommand(compileCmd)
}
