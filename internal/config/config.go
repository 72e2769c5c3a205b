// Package config stores partman's application preferences in
// ~/.config/partman/config.json: server URLs, where the settings file lives,
// and logging options. Key bindings and the grid are not stored here; they
// come from the settings language (see internal/settings).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcus/partman/internal/settings"
)

const (
	configFile   = "config.json"
	lockName     = "config.json.lock"
	settingsFile = "partman.conf"
	sessionFile  = "session.db"
	logFile      = "partman.log"

	// DefaultServerURL is used for both server kinds until configured.
	DefaultServerURL = "http://localhost:3000"
)

// Servers maps each server kind to a base URL.
type Servers struct {
	Production  string `json:"production,omitempty"`
	Development string `json:"development,omitempty"`
}

// Config is the on-disk preferences document.
type Config struct {
	Servers      Servers `json:"servers"`
	SettingsPath string  `json:"settings_path,omitempty"`
	LogLevel     string  `json:"log_level,omitempty"`
	LogFile      string  `json:"log_file,omitempty"`
}

// Dir returns the partman config directory, creating it if necessary.
// Priority: PARTMAN_CONFIG_DIR env > ~/.config/partman.
func Dir() (string, error) {
	dir := os.Getenv("PARTMAN_CONFIG_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "partman")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// Load reads the config from dir. A missing file yields an empty Config.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}
	return &cfg, nil
}

// Save writes the config to dir using atomic write (temp file + rename).
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, filepath.Join(dir, configFile))
}

// Update loads, modifies and saves the config while holding the config lock.
func Update(dir string, fn func(*Config) error) error {
	return withConfigLock(dir, func() error {
		cfg, err := Load(dir)
		if err != nil {
			return err
		}
		if err := fn(cfg); err != nil {
			return err
		}
		return Save(dir, cfg)
	})
}

// withConfigLock serializes read-modify-write cycles across processes.
func withConfigLock(dir string, fn func() error) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, lockName), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		return fmt.Errorf("lock config: %w", err)
	}
	defer unlockFile(f)

	return fn()
}

// ServerURL returns the base URL for kind.
// Priority: PARTMAN_SERVER_URL env > config.json > DefaultServerURL.
func (c *Config) ServerURL(kind settings.ServerKind) string {
	if v := os.Getenv("PARTMAN_SERVER_URL"); v != "" {
		return v
	}
	var url string
	switch kind {
	case settings.ServerDevelopment:
		url = c.Servers.Development
	default:
		url = c.Servers.Production
	}
	if url == "" {
		return DefaultServerURL
	}
	return url
}

// SetServerURL records url for kind. An empty url restores the default.
func (c *Config) SetServerURL(kind settings.ServerKind, url string) error {
	url = strings.TrimRight(url, "/")
	if url != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("server url %q must start with http:// or https://", url)
	}
	switch kind {
	case settings.ServerDevelopment:
		c.Servers.Development = url
	default:
		c.Servers.Production = url
	}
	return nil
}

// ResolveSettingsPath picks the settings file to load.
// Priority: explicit flag > PARTMAN_SETTINGS env > config.json settings_path >
// <dir>/partman.conf if it exists > "" (embedded defaults).
func (c *Config) ResolveSettingsPath(dir, flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if v := os.Getenv("PARTMAN_SETTINGS"); v != "" {
		return v
	}
	if c.SettingsPath != "" {
		return expandHome(c.SettingsPath)
	}
	candidate := filepath.Join(dir, settingsFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// LogPath returns where the shell writes its log.
func (c *Config) LogPath(dir string) string {
	if c.LogFile != "" {
		return expandHome(c.LogFile)
	}
	return filepath.Join(dir, logFile)
}

// SessionPath returns the cookie database location.
func SessionPath(dir string) string {
	return filepath.Join(dir, sessionFile)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
