package theme

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
)

// Detect loads the palette from the user's terminal config.
// Priority: Alacritty, Foot, then the default palette. Environment
// overrides apply on top of whichever source won.
func Detect() Palette {
	home, err := os.UserHomeDir()
	if err != nil {
		return applyEnvOverrides(DefaultPalette())
	}
	return detectIn(home)
}

func detectIn(home string) Palette {
	for _, path := range alacrittyPaths(home) {
		if p, ok := parseAlacrittyTOML(path); ok {
			return applyEnvOverrides(p)
		}
	}

	if p, ok := parseFootINI(footPath(home)); ok {
		return applyEnvOverrides(p)
	}

	return applyEnvOverrides(DefaultPalette())
}

func alacrittyPaths(home string) []string {
	return []string{
		filepath.Join(home, ".config", "alacritty", "alacritty.toml"),
		filepath.Join(home, ".alacritty.toml"),
	}
}

func footPath(home string) string {
	return filepath.Join(home, ".config", "foot", "foot.ini")
}

// alacrittyConfig represents the relevant parts of alacritty.toml
type alacrittyConfig struct {
	Colors struct {
		Primary struct {
			Background string `toml:"background"`
			Foreground string `toml:"foreground"`
		} `toml:"primary"`
		Selection struct {
			Background string `toml:"background"`
		} `toml:"selection"`
	} `toml:"colors"`
}

func parseAlacrittyTOML(path string) (Palette, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, false
	}

	var cfg alacrittyConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Palette{}, false
	}

	// Need at least bg and fg
	if cfg.Colors.Primary.Background == "" || cfg.Colors.Primary.Foreground == "" {
		return Palette{}, false
	}

	return derive(cfg.Colors.Primary.Background, cfg.Colors.Primary.Foreground, cfg.Colors.Selection.Background), true
}

func parseFootINI(path string) (Palette, bool) {
	cfg, err := ini.Load(path)
	if err != nil {
		return Palette{}, false
	}

	colors := cfg.Section("colors")
	bg := colors.Key("background").String()
	fg := colors.Key("foreground").String()
	if bg == "" || fg == "" {
		return Palette{}, false
	}

	return derive(bg, fg, colors.Key("selection-background").String()), true
}

// derive builds a palette from terminal colors. The muted color is a dimmed
// foreground; a missing selection color is mixed from bg and fg.
func derive(bg, fg, selection string) Palette {
	p := DefaultPalette()
	p.BG = normalizeHex(bg)
	p.FG = normalizeHex(fg)
	p.Muted = dimColor(p.FG, 0.5)
	if selection != "" {
		p.AccentBg = normalizeHex(selection)
	} else {
		p.AccentBg = MixColors(p.BG, p.FG, 0.15)
	}
	return p
}

// applyEnvOverrides applies TPB_SEARCH_* environment variables
func applyEnvOverrides(p Palette) Palette {
	if v := os.Getenv("TPB_SEARCH_BG"); v != "" {
		p.BG = normalizeHex(v)
	}
	if v := os.Getenv("TPB_SEARCH_FG"); v != "" {
		p.FG = normalizeHex(v)
	}
	if v := os.Getenv("TPB_SEARCH_MUTED"); v != "" {
		p.Muted = normalizeHex(v)
	}
	if v := os.Getenv("TPB_SEARCH_ACCENT"); v != "" {
		p.Accent = normalizeHex(v)
	}
	return p
}

var (
	hex6Regex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	hex3Regex = regexp.MustCompile(`^#[0-9a-fA-F]{3}$`)
)

// normalizeHex ensures color is in #rrggbb format. Strings that are not
// hex colors are returned with a leading '#' and otherwise untouched.
func normalizeHex(color string) string {
	color = strings.Trim(strings.TrimSpace(color), `"'`)

	// Handle 0xRRGGBB format
	if strings.HasPrefix(color, "0x") || strings.HasPrefix(color, "0X") {
		color = "#" + color[2:]
	}
	if !strings.HasPrefix(color, "#") {
		color = "#" + color
	}

	switch {
	case hex6Regex.MatchString(color):
		return strings.ToLower(color)
	case hex3Regex.MatchString(color):
		r, g, b := color[1:2], color[2:3], color[3:4]
		return strings.ToLower("#" + r + r + g + g + b + b)
	}
	return color
}

// dimColor scales the brightness of a hex color by factor
func dimColor(hex string, factor float64) string {
	return MixColors("#000000", hex, factor)
}

// MixColors blends two colors together; t=0 yields hex1, t=1 yields hex2.
func MixColors(hex1, hex2 string, t float64) string {
	hex1, hex2 = normalizeHex(hex1), normalizeHex(hex2)
	if !hex6Regex.MatchString(hex1) || !hex6Regex.MatchString(hex2) {
		return hex1
	}

	out := []byte{'#'}
	for i := 1; i < 7; i += 2 {
		a, b := hexToByte(hex1[i:i+2]), hexToByte(hex2[i:i+2])
		out = append(out, byteToHex(byte(float64(a)*(1-t)+float64(b)*t))...)
	}
	return string(out)
}

func hexToByte(s string) byte {
	var v byte
	for _, c := range strings.ToLower(s) {
		v *= 16
		switch {
		case c >= '0' && c <= '9':
			v += byte(c - '0')
		case c >= 'a' && c <= 'f':
			v += byte(c - 'a' + 10)
		}
	}
	return v
}

func byteToHex(b byte) string {
	const hex = "0123456789abcdef"
	return string([]byte{hex[b>>4], hex[b&0x0f]})
}
