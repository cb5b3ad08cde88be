package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kajomano/Kea/vulkan"
)

var version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "kea version %s (diagnostics default: %v)\n", version, vulkan.DiagnosticsEnabledByDefault)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
