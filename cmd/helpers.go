package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mj1618/element-inspector/internal/config"
	"github.com/mj1618/element-inspector/internal/inspector"
	"github.com/mj1618/element-inspector/internal/observability"
	"github.com/mj1618/element-inspector/internal/platform"
	_ "github.com/mj1618/element-inspector/internal/platform/appium"
	"github.com/mj1618/element-inspector/internal/snapshot"
)

// newInspector builds an inspector from the [inspector] config section.
func newInspector(cfg *config.Config, opts ...inspector.Option) *inspector.Inspector {
	base := []inspector.Option{
		inspector.WithLogger(observability.GetLogger()),
		inspector.WithEnabled(cfg.Inspector.Enabled),
		inspector.WithContextDepth(cfg.Inspector.ContextDepth),
		inspector.WithSnapshotOptions(
			snapshot.MaxBytes(cfg.Inspector.MaxSnapshotBytes),
			snapshot.MaxDepth(cfg.Inspector.MaxDepth),
		),
	}
	return inspector.New(append(base, opts...)...)
}

// newProvider connects to the Appium server named in the [appium] section.
func newProvider(cfg *config.Config) (*platform.Provider, error) {
	provider, err := platform.NewProvider(platform.ProviderOptions{
		URL:     cfg.Appium.URL,
		Session: cfg.Appium.Session,
		Timeout: cfg.Appium.Timeout,
		Logger:  observability.GetLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to appium: %w", err)
	}
	return provider, nil
}

// addSourceFlags registers the flags that choose where a snapshot comes from.
func addSourceFlags(c *cobra.Command) {
	c.Flags().String("file", "", "Page source XML file (\"-\" or empty reads stdin)")
	c.Flags().Bool("appium", false, "Read the page source from the attached Appium session")
}

// resolveSource picks the snapshot source for a command: the live session
// with --appium, otherwise --file, otherwise stdin.
func resolveSource(c *cobra.Command, cfg *config.Config) (platform.Source, error) {
	useAppium, _ := c.Flags().GetBool("appium")
	file, _ := c.Flags().GetString("file")

	if useAppium {
		if file != "" {
			return nil, fmt.Errorf("--file and --appium are mutually exclusive")
		}
		provider, err := newProvider(cfg)
		if err != nil {
			return nil, err
		}
		return provider.Source, nil
	}
	if file != "" && file != "-" {
		return platform.FileSource(file), nil
	}

	data, err := io.ReadAll(c.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read page source from stdin: %w", err)
	}
	return platform.StaticSource(string(data)), nil
}

// appiumScreenshot captures the current screen from the Appium session.
func appiumScreenshot(ctx context.Context, cfg *config.Config) ([]byte, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	if provider.Screenshotter == nil {
		return nil, fmt.Errorf("screenshot not supported by this backend")
	}
	return provider.Screenshotter.Screenshot(ctx)
}
