// Package config provides configuration management for the stock picker.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	UI       UIConfig       `mapstructure:"ui"`
}

// DatabaseConfig holds persistence configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ScanConfig holds batch-scan configuration.
type ScanConfig struct {
	Concurrency int     `mapstructure:"concurrency"`
	BarLimit    int     `mapstructure:"bar_limit"`
	MinScore    float64 `mapstructure:"min_score"`
}

// AnalysisConfig holds analyzer tunables.
type AnalysisConfig struct {
	PatternLookback int     `mapstructure:"pattern_lookback"`
	TrendHorizons   []int   `mapstructure:"trend_horizons"`
	IndicatorWeight float64 `mapstructure:"indicator_weight"`
	TrendWeight     float64 `mapstructure:"trend_weight"`
	PatternWeight   float64 `mapstructure:"pattern_weight"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/stock-picker"
	}
	return filepath.Join(home, ".config", "stock-picker")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	cfg := &Config{}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if werr := createTemplateConfig(configDir); werr != nil {
				return nil, werr
			}
		} else {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("database.path", filepath.Join(configDir, "picker.db"))
	v.SetDefault("scan.concurrency", 8)
	v.SetDefault("scan.bar_limit", 250)
	v.SetDefault("scan.min_score", 0.0)
	v.SetDefault("analysis.pattern_lookback", 20)
	v.SetDefault("analysis.trend_horizons", []int{5, 10, 20, 30, 60})
	v.SetDefault("analysis.indicator_weight", 0.4)
	v.SetDefault("analysis.trend_weight", 0.3)
	v.SetDefault("analysis.pattern_weight", 0.3)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Scan.Concurrency < 0 {
		return fmt.Errorf("scan.concurrency must be non-negative")
	}
	if c.Analysis.PatternLookback < 5 {
		return fmt.Errorf("analysis.pattern_lookback must be at least 5")
	}
	for _, h := range c.Analysis.TrendHorizons {
		if h < 2 {
			return fmt.Errorf("trend horizon %d too short", h)
		}
	}
	weights := c.Analysis.IndicatorWeight + c.Analysis.TrendWeight + c.Analysis.PatternWeight
	if weights <= 0 {
		return fmt.Errorf("analysis weights must sum to a positive value")
	}
	return nil
}
