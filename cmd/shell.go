package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/partman/pkg/shell"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNoTerminal = errors.New(`the shell needs a terminal (see "partman --help" for non-interactive commands)`)

func runShell(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTerminal
	}

	store, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cfg := store.Current()
	client, jar, err := openClient(cfg)
	if err != nil {
		return err
	}
	defer jar.Close()

	model := shell.New(shell.Options{
		Store:         store,
		Client:        client,
		ServerURL:     client.BaseURL,
		MarkdownStyle: os.Getenv("PARTMAN_MARKDOWN_STYLE"),
	})

	slog.Info("shell start", "server", client.BaseURL, "grid", cfg.Grid, "bindings", cfg.Keyboard.Len())
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running shell: %w", err)
	}
	return nil
}
