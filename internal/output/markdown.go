package output

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/marcus/partman/internal/settings"
	"golang.org/x/term"
)

const (
	defaultMarkdownWidth = 80
	minMarkdownWidth     = 20
)

// TerminalWidth returns the current terminal width or a fallback when unavailable.
func TerminalWidth(fallback int) int {
	if fallback <= 0 {
		fallback = defaultMarkdownWidth
	}

	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}

	if cols := os.Getenv("COLUMNS"); cols != "" {
		if parsed, err := strconv.Atoi(cols); err == nil && parsed > 0 {
			return parsed
		}
	}

	return fallback
}

// RenderMarkdown renders markdown with glamour, wrapped at width. An empty
// style picks light or dark from the terminal background; "notty" renders
// plain text.
func RenderMarkdown(text string, width int, style string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if width < minMarkdownWidth {
		width = minMarkdownWidth
	}

	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}

	rendered, err := renderer.Render(text)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(rendered, "\n"), nil
}

// KeymapMarkdown documents the active key bindings of cfg.
func KeymapMarkdown(cfg *settings.Config) string {
	var sb strings.Builder
	sb.WriteString("# Keys\n\n")
	if cfg.Keyboard.Len() == 0 {
		sb.WriteString("_No key bindings configured._\n")
	} else {
		sb.WriteString("| Key | Action | |\n|---|---|---|\n")
		for _, b := range cfg.Keyboard.Bindings() {
			fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", b.Chord, b.Action, b.Action.Description())
		}
	}
	sb.WriteString("\n`F1` toggles this help. `Esc` closes dialogs.\n")
	fmt.Fprintf(&sb, "\nGrid: %d x %d, %d layers. Server: %s.\n",
		cfg.Grid.Rows, cfg.Grid.Columns, cfg.Grid.Zs, cfg.ServerKind)
	return sb.String()
}
