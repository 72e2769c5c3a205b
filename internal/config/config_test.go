package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/marcus/partman/internal/settings"
)

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Servers != (Servers{}) || cfg.SettingsPath != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		Servers:  Servers{Production: "https://parts.example.com"},
		LogLevel: "debug",
	}
	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *cfg {
		t.Errorf("Load = %+v, want %+v", got, cfg)
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected error for corrupt config")
	}
}

func TestUpdateConcurrent(t *testing.T) {
	dir := t.TempDir()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := Update(dir, func(c *Config) error {
				c.LogFile += "x"
				return nil
			})
			if err != nil {
				t.Errorf("Update: %v", err)
			}
		}()
	}
	wg.Wait()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.LogFile) != 10 {
		t.Errorf("lost updates: LogFile = %q", cfg.LogFile)
	}
}

func TestUpdateAbortsOnError(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")
	err := Update(dir, func(c *Config) error {
		c.LogLevel = "debug"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	cfg, _ := Load(dir)
	if cfg.LogLevel != "" {
		t.Error("failed update should not be saved")
	}
}

func TestServerURL(t *testing.T) {
	t.Setenv("PARTMAN_SERVER_URL", "")

	cfg := &Config{}
	if got := cfg.ServerURL(settings.ServerProduction); got != DefaultServerURL {
		t.Errorf("default production = %q", got)
	}
	if got := cfg.ServerURL(settings.ServerDevelopment); got != DefaultServerURL {
		t.Errorf("default development = %q", got)
	}

	if err := cfg.SetServerURL(settings.ServerDevelopment, "http://dev.local:3000/"); err != nil {
		t.Fatal(err)
	}
	if got := cfg.ServerURL(settings.ServerDevelopment); got != "http://dev.local:3000" {
		t.Errorf("development = %q", got)
	}
	if got := cfg.ServerURL(settings.ServerProduction); got != DefaultServerURL {
		t.Errorf("production should be unaffected, got %q", got)
	}

	if err := cfg.SetServerURL(settings.ServerProduction, "ftp://nope"); err == nil {
		t.Error("expected error for non-http url")
	}

	t.Setenv("PARTMAN_SERVER_URL", "http://override")
	if got := cfg.ServerURL(settings.ServerDevelopment); got != "http://override" {
		t.Errorf("env override = %q", got)
	}
}

func TestResolveSettingsPath(t *testing.T) {
	t.Setenv("PARTMAN_SETTINGS", "")
	dir := t.TempDir()
	cfg := &Config{}

	if got := cfg.ResolveSettingsPath(dir, ""); got != "" {
		t.Errorf("no file should resolve to embedded defaults, got %q", got)
	}

	conf := filepath.Join(dir, settingsFile)
	if err := os.WriteFile(conf, []byte("Grid 1 1 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := cfg.ResolveSettingsPath(dir, ""); got != conf {
		t.Errorf("got %q, want %q", got, conf)
	}

	cfg.SettingsPath = "/etc/partman.conf"
	if got := cfg.ResolveSettingsPath(dir, ""); got != "/etc/partman.conf" {
		t.Errorf("config path = %q", got)
	}

	t.Setenv("PARTMAN_SETTINGS", "/env.conf")
	if got := cfg.ResolveSettingsPath(dir, ""); got != "/env.conf" {
		t.Errorf("env path = %q", got)
	}

	if got := cfg.ResolveSettingsPath(dir, "/flag.conf"); got != "/flag.conf" {
		t.Errorf("flag path = %q", got)
	}
}

func TestDirFromEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "cfg")
	t.Setenv("PARTMAN_CONFIG_DIR", want)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if got != want {
		t.Errorf("Dir = %q, want %q", got, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("Dir should create the directory: %v", err)
	}
}
