// Package config handles plugin configuration via TOML files.
// Configuration is stored at ~/.config/tpb-search/config.toml and includes
// the site endpoint, HTTP settings, and the qBittorrent connection used by
// the interactive browser.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// BaseURLEnv overrides Site.BaseURL when set.
const BaseURLEnv = "TPB_SEARCH_BASE_URL"

// Config holds application configuration
type Config struct {
	Site        SiteConfig        `toml:"site"`
	QBittorrent QBittorrentConfig `toml:"qbittorrent"`
	Downloads   DownloadsConfig   `toml:"downloads"`
}

// SiteConfig holds the search site and HTTP settings
type SiteConfig struct {
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the request timeout, falling back to 30s.
func (s SiteConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// QBittorrentConfig holds qBittorrent Web API settings
type QBittorrentConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// DownloadsConfig holds download settings
type DownloadsConfig struct {
	Path string `toml:"path"`
}

// Default returns the default configuration
func Default() Config {
	home, _ := os.UserHomeDir()

	return Config{
		Site: SiteConfig{
			BaseURL:        "https://thepiratebay.org",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			TimeoutSeconds: 30,
		},
		QBittorrent: QBittorrentConfig{
			Host:     "localhost",
			Port:     8080,
			Username: "admin",
			Password: "adminadmin",
		},
		Downloads: DownloadsConfig{
			Path: filepath.Join(home, "Downloads", "torrents"),
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tpb-search", "config.toml")
}

// Load reads config from path, or from ConfigPath when path is empty.
// A missing default file yields the defaults. Any other read failure,
// including a missing explicit path, or a malformed file yields the
// defaults together with the error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return applyEnv(cfg), fmt.Errorf("read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return applyEnv(Default()), fmt.Errorf("decode %s: %w", path, err)
	}

	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv(BaseURLEnv); v != "" {
		cfg.Site.BaseURL = v
	}
	return cfg
}

// Save writes config to path, or to ConfigPath when path is empty.
func Save(path string, cfg Config) error {
	if path == "" {
		path = ConfigPath()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
