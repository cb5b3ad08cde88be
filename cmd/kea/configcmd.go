package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kajomano/Kea/internal/config"
)

var configOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration, or write it to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configOutput != "" {
			return config.Save(configOutput, cfg)
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

func init() {
	configCmd.Flags().StringVarP(&configOutput, "output", "o", "", "Write the configuration to this file")
	rootCmd.AddCommand(configCmd)
}
