package shell

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/partman/internal/output"
)

// helpState is the F1 overlay listing the active key bindings.
type helpState struct {
	view     viewport.Model
	rendered bool
}

func newHelpState() helpState {
	return helpState{view: viewport.New(60, 16)}
}

// helpSize fits the help viewport inside the modal for the terminal size.
func helpSize(width, height int) (int, int) {
	w, h := 60, 16
	if width > 0 && width-8 < w {
		w = width - 8
	}
	if height > 0 && height-8 < h {
		h = height - 8
	}
	return max(w, 20), max(h, 4)
}

func (m Model) toggleHelp() (tea.Model, tea.Cmd) {
	if m.Modal == ModalHelp {
		m.closeModal()
		return m, nil
	}
	m.Modal = ModalHelp
	m.help.view.Width, m.help.view.Height = helpSize(m.Width, m.Height)
	if m.help.rendered {
		return m, nil
	}
	return m, m.renderHelp()
}

// renderHelp renders the binding table off the update loop; glamour is slow
// to start.
func (m Model) renderHelp() tea.Cmd {
	cfg := m.config()
	width := m.help.view.Width
	style := m.markdownStyle
	return func() tea.Msg {
		text, err := output.RenderMarkdown(output.KeymapMarkdown(cfg), width, style)
		return HelpRenderedMsg{Text: text, Err: err}
	}
}

func (m Model) handleHelpRendered(msg HelpRenderedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// Fall back to the raw markdown.
		m.help.view.SetContent(output.KeymapMarkdown(m.config()))
	} else {
		m.help.view.SetContent(msg.Text)
	}
	m.help.rendered = true
	return m, nil
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.closeModal()
		return m, nil
	}
	var cmd tea.Cmd
	m.help.view, cmd = m.help.view.Update(msg)
	return m, cmd
}
