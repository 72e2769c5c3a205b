package shell

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/partman/internal/partsclient"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// View implements tea.Model
func (m Model) View() string {
	width, height := m.size()

	header := m.renderHeader(width)
	footer := m.renderFooter(width)
	bodyHeight := height - lipgloss.Height(header) - lipgloss.Height(footer)

	var body string
	if m.Tab == TabImport {
		body = m.renderImport(width)
	} else {
		body = m.renderSearch(width, bodyHeight)
	}
	base := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	var modal string
	switch m.Modal {
	case ModalLogin:
		if m.login != nil {
			modal = modalStyle.Render(m.login.Form.View() + "\n" + subtleStyle.Render("esc cancel"))
		}
	case ModalStock:
		if m.stock != nil {
			modal = modalStyle.Render(m.stock.Form.View() + "\n" + subtleStyle.Render("enter next · esc cancel"))
		}
	case ModalProfiles:
		modal = modalStyle.Render(m.profiles.view(m.activeProfile()))
	case ModalHelp:
		modal = m.renderHelpModal()
	}
	if modal == "" {
		return base
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("0")))
}

func (m Model) activeProfile() *partsclient.Profile {
	if m.client == nil {
		return nil
	}
	return m.client.Profile()
}

func (m Model) size() (int, int) {
	w, h := m.Width, m.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m Model) renderHeader(width int) string {
	var tabs []string
	for _, t := range []Tab{TabSearch, TabImport} {
		if t == m.Tab {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.String()))
		}
	}
	left := strings.Join(tabs, " ")

	var info []string
	if m.LoggedInAs != "" {
		info = append(info, m.LoggedInAs)
	}
	if p := m.activeProfile(); p != nil {
		info = append(info, "profile "+p.Name)
	}
	if m.serverURL != "" {
		info = append(info, m.serverURL)
	}
	right := subtleStyle.Render(strings.Join(info, " · "))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(left+" "+right, width, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderFooter(width int) string {
	if m.StatusMessage != "" {
		style := okStyle
		if m.StatusIsError {
			style = errorStyle
		}
		return style.Render(ansi.Truncate(m.StatusMessage, width, "…"))
	}
	hint := "F1 keys · ctrl+c quit"
	if m.Tab == TabSearch {
		hint = "enter stock · ctrl+r refresh · ↑/↓ select · pgup/pgdn layer · " + hint
	}
	return subtleStyle.Render(ansi.Truncate(hint, width, "…"))
}

// renderSearch draws the query box, the grid and the result list.
func (m Model) renderSearch(width, height int) string {
	inner := width - panelStyle.GetHorizontalFrameSize()

	labels := m.search.highlights()
	var focus *Cell
	if p := m.search.selected(); p != nil {
		focus = &Cell{Row: p.Row, Column: p.Column, Z: p.Z}
	}
	grid := panel(m.grid.render(inner, labels, focus), width)

	query := m.search.input.View()
	// query line, grid panel, result panel borders
	resultRows := height - 1 - lipgloss.Height(grid) - panelStyle.GetVerticalFrameSize()
	if resultRows < 1 {
		resultRows = 1
	}
	results := panel(m.search.renderResults(inner, resultRows), width)

	return lipgloss.JoinVertical(lipgloss.Left, query, grid, results)
}

func (m Model) renderImport(width int) string {
	return panel(m.importer.Form.View(), width)
}

// panel wraps content in a bordered panel exactly width columns wide.
func panel(content string, width int) string {
	return panelStyle.Width(width - panelStyle.GetHorizontalBorderSize()).Render(content)
}

func (m Model) renderHelpModal() string {
	var content string
	if m.help.rendered {
		content = m.help.view.View()
	} else {
		content = subtleStyle.Render("Rendering…")
	}
	footer := subtleStyle.Render("↑/↓ scroll · F1/esc close")
	return modalStyle.Render(content + "\n" + footer)
}
