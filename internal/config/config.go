// Package config loads element-inspector settings through viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Inspector InspectorConfig `mapstructure:"inspector" yaml:"inspector"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output"`
	Appium    AppiumConfig    `mapstructure:"appium" yaml:"appium"`
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
}

// InspectorConfig controls the inspection engine.
type InspectorConfig struct {
	Enabled          bool `mapstructure:"enabled" yaml:"enabled"`
	ContextDepth     int  `mapstructure:"context_depth" yaml:"context_depth"`
	MaxSnapshotBytes int  `mapstructure:"max_snapshot_bytes" yaml:"max_snapshot_bytes"`
	MaxDepth         int  `mapstructure:"max_depth" yaml:"max_depth"`
}

// OutputConfig controls how reports are printed.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Color  string `mapstructure:"color" yaml:"color"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// AppiumConfig locates the automation server.
type AppiumConfig struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Session string        `mapstructure:"session" yaml:"session"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults registers every default with v.
func SetDefaults(v *viper.Viper) {
	// -- Inspector --
	v.SetDefault("inspector.enabled", true)
	v.SetDefault("inspector.context_depth", 4)
	v.SetDefault("inspector.max_snapshot_bytes", 32<<20)
	v.SetDefault("inspector.max_depth", 512)

	// -- Output --
	v.SetDefault("output.format", "text")
	v.SetDefault("output.color", "auto")
	v.SetDefault("output.pretty", false)

	// -- Appium --
	v.SetDefault("appium.url", "http://127.0.0.1:4723/wd/hub")
	v.SetDefault("appium.session", "")
	v.SetDefault("appium.timeout", "10s")

	// -- Logger --
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "element-inspector")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)
}

// NewDefaultConfig returns the configuration with only defaults applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// defaults are static and always valid
		panic(err)
	}
	return cfg
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Inspector.ContextDepth < 0 {
		return fmt.Errorf("inspector.context_depth must not be negative")
	}
	if c.Inspector.MaxSnapshotBytes < 0 {
		return fmt.Errorf("inspector.max_snapshot_bytes must not be negative")
	}
	if c.Inspector.MaxDepth < 0 {
		return fmt.Errorf("inspector.max_depth must not be negative")
	}
	if err := oneOf("output.format", c.Output.Format, "text", "yaml", "json"); err != nil {
		return err
	}
	if err := oneOf("output.color", c.Output.Color, "auto", "always", "never"); err != nil {
		return err
	}
	if c.Appium.Timeout < 0 {
		return fmt.Errorf("appium.timeout must not be negative")
	}
	if err := oneOf("logger.format", c.Logger.Format, "console", "json"); err != nil {
		return err
	}
	return nil
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v, got %q", key, allowed, value)
}
