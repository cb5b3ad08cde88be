package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kajomano/Kea/internal/report"
	"github.com/kajomano/Kea/vulkan"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Open a context and describe the selected device",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		// A one-element buffer is enough to learn which memory type the
		// shader test would use.
		var mem *vulkan.MemoryInfo
		buf, err := vulkan.NewHostBuffer(ctx, 1)
		if err != nil {
			logger.Warn("no host memory report", "err", err)
		} else {
			info := buf.MemoryInfo()
			mem = &info
			buf.Close()
		}

		fmt.Fprintln(cmd.OutOrStdout(), report.Device(ctx.DeviceInfo(), mem))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
