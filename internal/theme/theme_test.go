package theme

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TPB_SEARCH_BG", "TPB_SEARCH_FG", "TPB_SEARCH_MUTED", "TPB_SEARCH_ACCENT"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestNormalizeHex(t *testing.T) {
	cases := map[string]string{
		"#AABBCC":   "#aabbcc",
		"0x112233":  "#112233",
		"abc":       "#aabbcc",
		" '#fff' ":  "#ffffff",
		"notacolor": "#notacolor",
	}
	for in, want := range cases {
		if got := normalizeHex(in); got != want {
			t.Errorf("normalizeHex(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMixAndDim(t *testing.T) {
	if got := MixColors("#000000", "#ffffff", 0); got != "#000000" {
		t.Errorf("t=0: %q", got)
	}
	if got := MixColors("#000000", "#ffffff", 1); got != "#ffffff" {
		t.Errorf("t=1: %q", got)
	}
	if got := dimColor("#804020", 0.5); got != "#402010" {
		t.Errorf("dim: %q", got)
	}
}

func TestDetectDefault(t *testing.T) {
	clearEnv(t)
	if got := detectIn(t.TempDir()); got != DefaultPalette() {
		t.Fatalf("expected default palette, got %+v", got)
	}
}

func TestDetectAlacritty(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	writeFile(t, filepath.Join(home, ".config", "alacritty", "alacritty.toml"), `
[colors.primary]
background = "0x101010"
foreground = "#E0E0E0"

[colors.selection]
background = "#333333"
`)

	p := detectIn(home)
	if p.BG != "#101010" || p.FG != "#e0e0e0" || p.AccentBg != "#333333" {
		t.Fatalf("unexpected palette: %+v", p)
	}
	if p.Muted != "#707070" {
		t.Fatalf("muted = %q", p.Muted)
	}
}

func TestDetectFoot(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	writeFile(t, filepath.Join(home, ".config", "foot", "foot.ini"), `
[colors]
background=000000
foreground=ffffff
`)

	p := detectIn(home)
	if p.BG != "#000000" || p.FG != "#ffffff" {
		t.Fatalf("unexpected palette: %+v", p)
	}
	if p.AccentBg != "#262626" {
		t.Fatalf("accent bg = %q", p.AccentBg)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TPB_SEARCH_ACCENT", "#123456")
	if got := detectIn(t.TempDir()).Accent; got != "#123456" {
		t.Fatalf("accent = %q", got)
	}
}

func TestWatcherDebouncesChanges(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	changed := make(chan struct{}, 4)

	w, err := watchDirs([]string{dir, dir, filepath.Join(dir, "missing")}, func() {
		changed <- struct{}{}
	})
	if err != nil {
		t.Fatalf("watchDirs: %v", err)
	}
	defer w.Stop()

	for i := 0; i < 3; i++ {
		writeFile(t, filepath.Join(dir, "foot.ini"), "[colors]\n")
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}

	w.Stop()
	w.Stop()
}
