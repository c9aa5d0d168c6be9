// Package theme provides terminal theming for the search browser.
// Colors are read from Alacritty or Foot configurations when present,
// with TPB_SEARCH_* environment overrides.
package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the color scheme for the TUI
type Palette struct {
	BG       string // background
	FG       string // foreground (primary text)
	Muted    string // secondary info
	Accent   string // health bars, highlights
	AccentBg string // selection background
	Error    string
}

// DefaultPalette returns the fallback amber-on-dark theme
func DefaultPalette() Palette {
	return Palette{
		BG:       "#0a0a0a",
		FG:       "#d4a017",
		Muted:    "#6b6b4f",
		Accent:   "#8bc34a",
		AccentBg: "#1a1a14",
		Error:    "#ff6b6b",
	}
}

// Styles holds the lipgloss styles derived from a palette
type Styles struct {
	Header      lipgloss.Style
	Title       lipgloss.Style
	StatusBar   lipgloss.Style
	SearchInput lipgloss.Style
	Category    lipgloss.Style
	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	Selected    lipgloss.Style
	HealthGood  lipgloss.Style
	HealthMed   lipgloss.Style
	HealthBad   lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	HelpKey     lipgloss.Style
	HelpDesc    lipgloss.Style
}

// NewStyles creates styles from a palette
func NewStyles(p Palette) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Bold(true).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)).
			Padding(0, 1),

		SearchInput: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)),

		Category: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Accent)).
			Bold(true),

		TableHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color(p.Muted)),

		TableRow: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)),

		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Background(lipgloss.Color(p.AccentBg)).
			Bold(true),

		HealthGood: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8bc34a")),

		HealthMed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffb347")),

		HealthBad: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Error)),

		HelpKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		HelpDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)),
	}
}

var (
	mu      sync.RWMutex
	current = NewStyles(DefaultPalette())
	palette = DefaultPalette()
)

// Current returns the active styles.
func Current() Styles {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CurrentPalette returns the active palette.
func CurrentPalette() Palette {
	mu.RLock()
	defer mu.RUnlock()
	return palette
}

// Refresh reloads the theme from config files
func Refresh() {
	p := Detect()
	mu.Lock()
	palette = p
	current = NewStyles(p)
	mu.Unlock()
}
