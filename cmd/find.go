package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mj1618/element-inspector/internal/inspector"
	"github.com/mj1618/element-inspector/internal/locator"
	"github.com/mj1618/element-inspector/internal/observability"
	"github.com/mj1618/element-inspector/internal/output"
	"github.com/mj1618/element-inspector/internal/platform"
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find an element in the live Appium session",
	Long: `Look an element up in the attached Appium session. When it does not exist
the inspection report is printed to stderr and the command fails with the
server's error. With --wait the lookup is repeated until the element appears
or the wait runs out; only the final miss is inspected. With --all every
match is listed, and an empty result is inspected but not an error.

Examples:
  element-inspector find --id com.app:id/login
  element-inspector find --text "Sign in"
  element-inspector find --xpath "//android.widget.Button[2]" --session 5f1c...
  element-inspector find --accessibility-id "Sign in" --wait 10s
  element-inspector find --class-name android.widget.CheckBox --all`,
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().String("id", "", "Find by resource id")
	findCmd.Flags().String("xpath", "", "Find by XPath")
	findCmd.Flags().String("text", "", "Find by exact text")
	findCmd.Flags().String("accessibility-id", "", "Find by content description")
	findCmd.Flags().String("class-name", "", "Find by widget class")
	findCmd.Flags().Duration("wait", 0, "Keep retrying the lookup for this long (e.g. 10s)")
	findCmd.Flags().Duration("interval", inspector.DefaultPollInterval, "Delay between retries with --wait")
	findCmd.Flags().Bool("all", false, "List every matching element")
	findCmd.MarkFlagsMutuallyExclusive("id", "xpath", "text", "accessibility-id", "class-name")
	findCmd.MarkFlagsMutuallyExclusive("wait", "all")
	findCmd.MarkFlagsOneRequired("id", "xpath", "text", "accessibility-id", "class-name")
}

// findResult is printed when the lookup succeeds.
type findResult struct {
	OK      bool   `yaml:"ok"      json:"ok"`
	Locator string `yaml:"locator" json:"locator"`
	Element string `yaml:"element" json:"element"`
}

// findAllResult is printed for --all.
type findAllResult struct {
	Locator  string   `yaml:"locator"  json:"locator"`
	Count    int      `yaml:"count"    json:"count"`
	Elements []string `yaml:"elements" json:"elements"`
}

// locatorFromFlags converts the find flags into a wire locator.
func locatorFromFlags(cmd *cobra.Command) (platform.Locator, error) {
	flags := []struct {
		name  string
		using string
	}{
		{"id", locator.StrategyID},
		{"xpath", locator.StrategyXPath},
		{"text", locator.StrategyXPath},
		{"accessibility-id", locator.StrategyAccessibilityID},
		{"class-name", locator.StrategyClassName},
	}
	for _, f := range flags {
		value, _ := cmd.Flags().GetString(f.name)
		if value == "" {
			continue
		}
		if f.name == "text" {
			value = locator.TextXPath(value)
		}
		return platform.Locator{Using: f.using, Value: value}, nil
	}
	return platform.Locator{}, fmt.Errorf("one of --id, --xpath, --text, --accessibility-id or --class-name is required")
}

func runFind(cmd *cobra.Command, args []string) error {
	loc, err := locatorFromFlags(cmd)
	if err != nil {
		return err
	}

	wait, _ := cmd.Flags().GetDuration("wait")
	interval, _ := cmd.Flags().GetDuration("interval")
	all, _ := cmd.Flags().GetBool("all")

	cfg := currentConfig()
	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	opts := output.CurrentOptions()
	ins := newInspector(cfg, inspector.WithReporter(output.NewReporter(cmd.ErrOrStderr(), opts)))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if all {
		if provider.ElementsFinder == nil {
			return fmt.Errorf("multi-element lookup not supported by this backend")
		}
		ids, err := ins.FindAll(ctx, provider.ElementsFinder, provider.Source, loc)
		if err != nil {
			return err
		}
		return output.Write(cmd.OutOrStdout(), findAllResult{Locator: loc.Descriptor(), Count: len(ids), Elements: ids}, opts)
	}

	if provider.Finder == nil {
		return fmt.Errorf("element lookup not supported by this backend")
	}
	id, err := ins.WaitFind(ctx, provider.Finder, provider.Source, loc, wait, interval)
	if err != nil {
		observability.GetLogger().Debug("lookup failed",
			zap.String("locator", loc.Descriptor()),
			zap.Duration("wait", wait),
			zap.Error(err))
		return err
	}
	return output.Write(cmd.OutOrStdout(), findResult{OK: true, Locator: loc.Descriptor(), Element: id}, opts)
}
