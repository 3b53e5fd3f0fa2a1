package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Stock Picker Configuration

[database]
# SQLite database path. Defaults to <config dir>/picker.db
# path = "/home/user/.config/stock-picker/picker.db"

[scan]
# Number of symbols analyzed concurrently
concurrency = 8
# Bars fetched per symbol for a scan
bar_limit = 250
# Minimum composite score for a symbol to appear in scan output
min_score = 0.0

[analysis]
# Bars examined by the pattern recognizer
pattern_lookback = 20
# Lookback horizons for the trend analyzer
trend_horizons = [5, 10, 20, 30, 60]
# Composite score term weights
indicator_weight = 0.4
trend_weight = 0.3
pattern_weight = 0.3

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
file = true

[ui]
color_enabled = true
date_format = "2006-01-02"
`

// createTemplateConfig writes a starter config.toml if none exists.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
