package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mj1618/element-inspector/internal/output"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "List every element scoring against a locator",
	Long: `List the elements of a page source that score against a locator, best
first. Ties keep document order, so the first row is what inspect reports.

Examples:
  element-inspector candidates --locator "By.id: android:id/text1" --file source.xml
  element-inspector candidates --locator "By.xpath: //*[@text='Anim']" --limit 0 --format json`,
	RunE: runCandidates,
}

func init() {
	rootCmd.AddCommand(candidatesCmd)
	candidatesCmd.Flags().String("locator", "", "Locator to score against")
	candidatesCmd.Flags().Int("limit", 10, "Max candidates to list (0 = all)")
	addSourceFlags(candidatesCmd)
	_ = candidatesCmd.MarkFlagRequired("locator")
}

func runCandidates(cmd *cobra.Command, args []string) error {
	descriptor, _ := cmd.Flags().GetString("locator")
	limit, _ := cmd.Flags().GetInt("limit")

	cfg := currentConfig()
	src, err := resolveSource(cmd, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ranking, err := newInspector(cfg).Rank(ctx, src, descriptor, limit)
	if err != nil {
		return err
	}
	return output.Write(cmd.OutOrStdout(), ranking, output.CurrentOptions())
}
