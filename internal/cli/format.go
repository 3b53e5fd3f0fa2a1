package cli

import (
	"fmt"

	"github.com/fatih/color"
)

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatVolume formats volume in compact form.
func FormatVolume(volume int64) string {
	switch {
	case volume >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", float64(volume)/1_000_000_000)
	case volume >= 1_000_000:
		return fmt.Sprintf("%.2fM", float64(volume)/1_000_000)
	case volume >= 1_000:
		return fmt.Sprintf("%.2fK", float64(volume)/1_000)
	default:
		return fmt.Sprintf("%d", volume)
	}
}

// FormatPrice formats a price to two decimal places.
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

// FormatConfidence renders a 0-1 confidence as a percentage.
func FormatConfidence(conf float64) string {
	return fmt.Sprintf("%.0f%%", conf*100)
}

// headerLine prints a cyan section header for command output.
func headerLine(format string, args ...interface{}) {
	color.Cyan(format, args...)
}

// noteLine prints a yellow hint line.
func noteLine(format string, args ...interface{}) {
	color.Yellow(format, args...)
}

// okLine prints a green confirmation line.
func okLine(format string, args ...interface{}) {
	color.Green(format, args...)
}
