package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mj1618/element-inspector/internal/config"
	"github.com/mj1618/element-inspector/internal/observability"
	"github.com/mj1618/element-inspector/internal/output"
	"github.com/mj1618/element-inspector/internal/version"
)

const envPrefix = "ELEMENT_INSPECTOR"

var (
	cfgFile       string
	appCfg        *config.Config
	traceShutdown func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "element-inspector",
	Short: "Explain failed Android element lookups",
	Long: `Explain failed Android element lookups.

When a locator finds nothing, element-inspector searches the UI hierarchy for
the element that was most likely meant and prints its attributes, locators
that would find it, and the markup around it.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		observability.GetLogger().Debug("command failed", zap.Error(err))
		shutdown()
		os.Exit(1)
	}
	shutdown()
}

func shutdown() {
	if traceShutdown != nil {
		if err := traceShutdown(context.Background()); err != nil {
			observability.GetLogger().Warn("failed to flush spans", zap.Error(err))
		}
		traceShutdown = nil
	}
	observability.Sync()
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./element-inspector.yaml)")
	flags.String("format", "text", "Output format: text, yaml, json")
	flags.String("color", "auto", "Colour text output: auto, always, never")
	flags.Bool("pretty", false, "Pretty-print JSON output")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
	flags.String("appium-url", "http://127.0.0.1:4723/wd/hub", "Appium server URL")
	flags.String("session", "", "Appium session ID (default: first active session)")
	flags.Bool("trace", false, "Write inspection spans to stderr")

	bindFlag("output.format", "format")
	bindFlag("output.color", "color")
	bindFlag("output.pretty", "pretty")
	bindFlag("logger.level", "log-level")
	bindFlag("appium.url", "appium-url")
	bindFlag("appium.session", "session")
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// setup loads configuration, starts the logger and applies output settings.
func setup(cmd *cobra.Command, args []string) error {
	if err := initializeConfig(); err != nil {
		return err
	}

	cfg, err := config.NewConfigFromViper(viper.GetViper())
	if err != nil {
		observability.InitializeLogger(config.NewDefaultConfig().Logger)
		return err
	}
	appCfg = cfg
	observability.InitializeLogger(cfg.Logger)

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	mode, err := output.ParseColorMode(cfg.Output.Color)
	if err != nil {
		return err
	}
	output.OutputFormat = format
	output.PrettyOutput = cfg.Output.Pretty
	output.ColorOutput = format == output.FormatText && output.UseColor(mode, os.Stdout)

	if trace, _ := cmd.Flags().GetBool("trace"); trace && traceShutdown == nil {
		traceShutdown, err = observability.InitTracing(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}

	observability.GetLogger().Debug("configuration loaded",
		zap.String("config", viper.ConfigFileUsed()),
		zap.String("format", string(format)),
		zap.Bool("inspector_enabled", cfg.Inspector.Enabled))
	return nil
}

// initializeConfig reads the config file and environment.
func initializeConfig() error {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("element-inspector")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// currentConfig returns the loaded configuration, or defaults when the
// root pre-run has not executed.
func currentConfig() *config.Config {
	if appCfg == nil {
		return config.NewDefaultConfig()
	}
	return appCfg
}
