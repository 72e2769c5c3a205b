// Package output provides styled terminal output helpers (success, error,
// warning, parts tables, settings diagnostics) using lipgloss.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/partman/internal/partsclient"
	"github.com/marcus/partman/internal/planner"
	"github.com/marcus/partman/internal/settings"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Bold(true).Align(lipgloss.Center)
	markStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON writes data as indented JSON to w.
func JSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// SectionHeader renders a bold section title.
func SectionHeader(title string) string {
	return titleStyle.Render(title)
}

// maxDescriptionWidth bounds the description column so tables fit a terminal.
const maxDescriptionWidth = 48

// PartsTable renders parts as a rounded-border table with a centered header.
func PartsTable(parts []partsclient.PartWithStock) string {
	rows := make([][]string, 0, len(parts))
	for _, p := range parts {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			ansi.Truncate(p.Description, maxDescriptionWidth, "…"),
			strconv.FormatInt(p.Stock, 10),
			fmt.Sprintf("%d,%d,%d", p.Row, p.Column, p.Z),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(subtleStyle).
		Headers("ID", "NAME", "DESCRIPTION", "STOCK", "BIN").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})
	return t.Render()
}

// PlanTable renders a purchase plan. Rows stock cannot cover are marked.
func PlanTable(reqs []planner.Requirement) string {
	rows := make([][]string, 0, len(reqs))
	for _, r := range reqs {
		rows = append(rows, []string{
			r.Part.Name,
			ansi.Truncate(r.Part.Description, maxDescriptionWidth, "…"),
			strconv.FormatInt(r.Part.Stock, 10),
			strconv.FormatInt(r.Required, 10),
			strconv.FormatInt(r.Shortfall, 10),
			r.RequiredBy(),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(subtleStyle).
		Headers("PART", "DESCRIPTION", "STOCK", "REQUIRED", "BUY", "REQUIRED BY").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 4 && row >= 0 && row < len(reqs) && reqs[row].Shortfall > 0:
				return warningStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Render()
}

// BindingsTable renders the key bindings of cfg, one row per chord.
func BindingsTable(cfg *settings.Config) string {
	rows := make([][]string, 0, cfg.Keyboard.Len())
	for _, b := range cfg.Keyboard.Bindings() {
		rows = append(rows, []string{b.Chord.String(), b.Action.String(), b.Action.Description()})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(subtleStyle).
		Headers("KEY", "ACTION", "DESCRIPTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Render()
}

// SettingsSummary describes a parsed settings file in a few lines.
func SettingsSummary(cfg *settings.Config) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d bindings\n", subtleStyle.Render("keyboard:"), cfg.Keyboard.Len())
	fmt.Fprintf(&sb, "%s %d rows x %d columns x %d layers\n", subtleStyle.Render("grid:    "),
		cfg.Grid.Rows, cfg.Grid.Columns, cfg.Grid.Zs)
	fmt.Fprintf(&sb, "%s %s", subtleStyle.Render("server:  "), cfg.ServerKind)
	return sb.String()
}

// FormatSettingsError renders a settings parse failure with the offending
// line and a caret under the first token. Errors that did not come from
// the parser are rendered as plain text.
func FormatSettingsError(source string, err error) string {
	var pe *settings.ParseError
	if !errors.As(err, &pe) {
		return errorStyle.Render(err.Error())
	}

	var sb strings.Builder
	loc := fmt.Sprintf("line %d", pe.Line)
	if source != "" {
		loc = fmt.Sprintf("%s:%d", source, pe.Line)
	}
	sb.WriteString(errorStyle.Render(loc+": "+pe.Err.Error()) + "\n")

	gutter := subtleStyle.Render(fmt.Sprintf("%4d | ", pe.Line))
	sb.WriteString(gutter + pe.Statement + "\n")

	indent := len(pe.Statement) - len(strings.TrimLeft(pe.Statement, " "))
	width := 1
	if fields := strings.Fields(pe.Statement); len(fields) > 0 {
		width = utf8.RuneCountInString(fields[0])
	}
	sb.WriteString(strings.Repeat(" ", 7+indent) + markStyle.Render(strings.Repeat("^", width)))
	return sb.String()
}
