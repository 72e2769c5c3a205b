package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/marcus/partman/internal/config"
	"github.com/marcus/partman/internal/output"
	"github.com/marcus/partman/internal/partsclient"
	"github.com/marcus/partman/internal/session"
	"github.com/marcus/partman/internal/settings"
	"github.com/spf13/cobra"
)

var (
	configDir string
	prefs     *config.Config
	logCloser io.Closer
)

// setupCommand loads preferences and configures logging before any
// command runs.
func setupCommand(cmd *cobra.Command, args []string) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	p, err := config.Load(dir)
	if err != nil {
		return err
	}
	configDir, prefs = dir, p

	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = os.Getenv("PARTMAN_LOG_LEVEL")
	}
	if level == "" {
		level = prefs.LogLevel
	}

	logPath, _ := cmd.Flags().GetString("log-file")
	// The shell owns the terminal, so it always logs to a file.
	if logPath == "" && cmd == rootCmd {
		logPath = prefs.LogPath(configDir)
	}

	closer, err := setupLogging(os.Stderr, logPath, level, os.Getenv("PARTMAN_LOG_FORMAT"))
	if err != nil {
		return err
	}
	logCloser = closer
	slog.Debug("command start", "cmd", cmd.CommandPath(), "config_dir", configDir)
	return nil
}

func teardownCommand(cmd *cobra.Command, args []string) error {
	if logCloser != nil {
		return logCloser.Close()
	}
	return nil
}

// loadSettings reads the settings file chosen by --config, the environment
// or the preferences into a store. A broken file is reported with its
// offending line and aborts the command.
func loadSettings(cmd *cobra.Command) (*settings.Store, error) {
	flagPath, _ := cmd.Flags().GetString("config")
	path := prefs.ResolveSettingsPath(configDir, flagPath)

	store, err := settings.LoadStore(path)
	if err != nil {
		source := path
		if source == "" {
			source = "embedded defaults"
		}
		fmt.Fprintln(os.Stderr, output.FormatSettingsError(source, err))
		slog.Error("load settings", "path", path, "err", err)
		return nil, errReported
	}
	slog.Debug("settings loaded", "path", path)
	return store, nil
}

// openClient connects a parts client to the server named by cfg, with
// cookies persisted in the session database.
func openClient(cfg *settings.Config) (*partsclient.Client, *session.Jar, error) {
	jar, err := session.Open(config.SessionPath(configDir))
	if err != nil {
		return nil, nil, fmt.Errorf("open session: %w", err)
	}
	if n, err := jar.Prune(); err != nil {
		slog.Warn("prune session cookies", "err", err)
	} else if n > 0 {
		slog.Debug("pruned expired cookies", "count", n)
	}
	url := prefs.ServerURL(cfg.ServerKind)
	slog.Debug("parts server", "kind", cfg.ServerKind, "url", url)
	return partsclient.New(url, jar), jar, nil
}

// withClient loads settings, opens a client and runs fn with it.
func withClient(cmd *cobra.Command, fn func(*partsclient.Client) error) error {
	store, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	client, jar, err := openClient(store.Current())
	if err != nil {
		return err
	}
	defer jar.Close()
	return fn(client)
}

// explain rewrites client errors into something a user can act on.
func explain(err error) error {
	switch {
	case errors.Is(err, partsclient.ErrUnauthorized):
		return fmt.Errorf("not logged in (run \"partman user login\"): %w", err)
	case errors.Is(err, partsclient.ErrNoProfile):
		return fmt.Errorf("no profile selected (pass --profile): %w", err)
	}
	return err
}
