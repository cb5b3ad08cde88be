package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kajomano/Kea/internal/report"
	"github.com/kajomano/Kea/vulkan"
)

var probeAll bool

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check the requested layers and extensions against the platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		platform, required, release, err := openPlatform(cfg)
		if err != nil {
			return err
		}
		defer release()

		vc := cfg.ContextConfig(required)
		layers := vc.EnabledLayers()
		exts := vc.EnabledExtensions()

		probe := vulkan.NewProbe(platform)
		missingLayers, err := probe.MissingLayers(layers)
		if err != nil {
			return err
		}
		missingExts, err := probe.MissingExtensions(exts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, report.Requested("Requested layers", layers, missingLayers))
		fmt.Fprintln(out, report.Requested("Requested extensions", exts, missingExts))

		if probeAll {
			available, err := probe.Layers()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, report.Names("Instance layers", available, layers))

			available, err = probe.Extensions()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, report.Names("Instance extensions", available, exts))
		}

		logger.Info("probe finished",
			"layers_supported", len(missingLayers) == 0,
			"extensions_supported", len(missingExts) == 0,
		)
		return nil
	},
}

func init() {
	probeCmd.Flags().BoolVar(&probeAll, "all", false, "Also list every layer and extension the platform reports")
	rootCmd.AddCommand(probeCmd)
}
