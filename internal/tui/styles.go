package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/litescript/tpb-search/internal/theme"
)

// HealthBar renders a visual health indicator
func HealthBar(health int, width int) string {
	styles := theme.Current()

	filled := (health * width) / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var style lipgloss.Style
	switch {
	case health >= 70:
		style = styles.HealthGood
	case health >= 40:
		style = styles.HealthMed
	default:
		style = styles.HealthBad
	}

	return style.Render(strings.Repeat("█", filled)) +
		styles.Muted.Render(strings.Repeat("░", width-filled))
}

// TruncateString shortens s to max runes, ending with an ellipsis
func TruncateString(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// PadRight pads or cuts s to exactly width runes
func PadRight(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

// PadLeft pads s on the left to width runes
func PadLeft(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return strings.Repeat(" ", width-len(r)) + s
}
