package shell

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

var errNameRequired = errors.New("name is required")

// ImportForm is the "new part" form shown on the import tab.
type ImportForm struct {
	Form        *huh.Form
	Name        string
	Description string
}

// NewImportForm builds an empty import form.
func NewImportForm() *ImportForm {
	f := &ImportForm{}
	f.buildForm()
	return f
}

func (f *ImportForm) buildForm() {
	f.Form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Part name").
				Value(&f.Name).
				Placeholder("NE555").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errNameRequired
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&f.Description).
				Placeholder("Precision timer, DIP-8"),
		).Title("New part"),
	).WithShowHelp(false)
	f.Form.WithTheme(huh.ThemeDracula())
}

// updateImportForm forwards msg to the import form and submits it once
// complete.
func (m Model) updateImportForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.importer.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.importer.Form = f
	}
	switch m.importer.Form.State {
	case huh.StateCompleted:
		return m.submitImport()
	case huh.StateAborted:
		m.importer = NewImportForm()
		return m, m.importer.Form.Init()
	}
	return m, cmd
}

func (m Model) submitImport() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.importer.Name)
	desc := strings.TrimSpace(m.importer.Description)
	m.importer = NewImportForm()

	client := m.client
	add := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.NewPart(ctx, name, desc)
		return PartAddedMsg{Name: name, Err: err}
	}
	cmd := tea.Batch(m.setStatus("Adding "+name+"…", false), add, m.importer.Form.Init())
	return m, cmd
}

func (m Model) handlePartAdded(msg PartAddedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		slog.Warn("shell: new part", "name", msg.Name, "err", msg.Err)
		cmd := m.setStatus("Add part failed: "+msg.Err.Error(), true)
		return m, cmd
	}
	slog.Info("shell: part added", "name", msg.Name)
	m.search.loading = true
	cmd := tea.Batch(m.setStatus("Added "+msg.Name, false), m.fetchParts())
	return m, cmd
}
