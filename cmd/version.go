package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/element-inspector/internal/output"
	"github.com/mj1618/element-inspector/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Write(cmd.OutOrStdout(), version.Get(), output.CurrentOptions())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
