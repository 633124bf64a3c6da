package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weisyn/bookshelf/client/core/output"
	"github.com/weisyn/bookshelf/internal/app/version"
)

// versionCmd 版本信息
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if f := formatter.Format(); f == output.FormatJSON || f == output.FormatPretty {
			return formatter.Print(version.GetBuildInfo())
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
		return err
	},
}
