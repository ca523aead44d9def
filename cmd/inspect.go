package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mj1618/element-inspector/internal/annotate"
	"github.com/mj1618/element-inspector/internal/config"
	"github.com/mj1618/element-inspector/internal/inspector"
	"github.com/mj1618/element-inspector/internal/model"
	"github.com/mj1618/element-inspector/internal/observability"
	"github.com/mj1618/element-inspector/internal/output"
	"github.com/mj1618/element-inspector/internal/platform"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Explain why a locator found nothing",
	Long: `Search a page source for the element a failed locator most likely meant.

The report lists the best match with its attributes, locators that would
find it, and the surrounding markup. A report saying no similar element was
found is a normal result and exits 0.

Examples:
  element-inspector inspect --locator "By.id: com.app:id/serch" --file source.xml
  adb exec-out uiautomator dump /dev/tty | element-inspector inspect --locator "By.xpath: //*[@text='Sign in']"
  element-inspector inspect --appium --locator "By.accessibilityId: Login" --format yaml
  element-inspector inspect --locator "By.id: submit" --file source.xml --screenshot screen.png --annotate out.png`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("locator", "", "Failed locator, e.g. \"By.id: com.app:id/login\"")
	addSourceFlags(inspectCmd)
	inspectCmd.Flags().String("screenshot", "", "PNG screenshot to annotate with the match")
	inspectCmd.Flags().Bool("appium-screenshot", false, "Take the screenshot to annotate from the Appium session")
	inspectCmd.Flags().String("annotate", "", "Write the annotated screenshot to this path")
	_ = inspectCmd.MarkFlagRequired("locator")
}

func runInspect(cmd *cobra.Command, args []string) error {
	descriptor, _ := cmd.Flags().GetString("locator")
	annotatePath, _ := cmd.Flags().GetString("annotate")
	screenshotPath, _ := cmd.Flags().GetString("screenshot")
	appiumShot, _ := cmd.Flags().GetBool("appium-screenshot")

	if annotatePath != "" && screenshotPath == "" && !appiumShot {
		return fmt.Errorf("--annotate needs --screenshot or --appium-screenshot")
	}

	cfg := currentConfig()
	src, err := resolveSource(cmd, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := newInspector(cfg).Explain(ctx, src, descriptor)
	if errors.Is(err, inspector.ErrDisabled) {
		observability.GetLogger().Info("inspector disabled by configuration")
		return nil
	}
	if err != nil {
		return fmt.Errorf("inspect %s: %w", descriptor, err)
	}

	if err := output.Write(cmd.OutOrStdout(), report, output.CurrentOptions()); err != nil {
		return err
	}

	if annotatePath == "" {
		return nil
	}
	return writeAnnotation(ctx, cfg, report, screenshotPath, annotatePath)
}

// writeAnnotation highlights the matched element on a screenshot.
func writeAnnotation(ctx context.Context, cfg *config.Config, report *inspector.Report, screenshotPath, outPath string) error {
	if !report.Found() {
		observability.GetLogger().Info("no match to annotate", zap.String("locator", report.Locator))
		return nil
	}
	bounds, err := platform.ParseBounds(report.Match.Attr(model.AttrBounds))
	if err != nil {
		return fmt.Errorf("matched element has no usable bounds: %w", err)
	}

	var data []byte
	if screenshotPath != "" {
		data, err = os.ReadFile(screenshotPath)
	} else {
		data, err = appiumScreenshot(ctx, cfg)
	}
	if err != nil {
		return err
	}

	annotated, err := annotate.PNG(data, *bounds, model.ShortClassName(report.Match.Class))
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, annotated, 0o644); err != nil {
		return fmt.Errorf("write annotated screenshot: %w", err)
	}
	observability.GetLogger().Info("annotated screenshot written", zap.String("path", outPath))
	return nil
}
