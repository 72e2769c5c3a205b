package shell

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/partman/internal/partsclient"
)

// profilesState backs the profile picker. The last row is a text field for
// creating a new profile.
type profilesState struct {
	list    []partsclient.Profile
	cursor  int
	loading bool
	err     error
	input   textinput.Model
}

func newProfilesState() profilesState {
	ti := textinput.New()
	ti.Placeholder = "new profile name"
	ti.Prompt = "+ "
	ti.CharLimit = 64
	return profilesState{input: ti, loading: true}
}

// onInput reports whether the cursor sits on the new-profile row.
func (p profilesState) onInput() bool {
	return p.cursor == len(p.list)
}

func (p *profilesState) move(delta int) tea.Cmd {
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor > len(p.list) {
		p.cursor = len(p.list)
	}
	if p.onInput() {
		return p.input.Focus()
	}
	p.input.Blur()
	return nil
}

func (m Model) openProfiles() (tea.Model, tea.Cmd) {
	m.profiles = newProfilesState()
	m.Modal = ModalProfiles
	return m, m.fetchProfiles()
}

func (m Model) fetchProfiles() tea.Cmd {
	client := m.client
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		profiles, err := client.ListProfiles(ctx)
		if err != nil {
			slog.Warn("shell: list profiles", "err", err)
		}
		return ProfilesMsg{Profiles: profiles, Err: err}
	}
}

func (m Model) handleProfiles(msg ProfilesMsg) (tea.Model, tea.Cmd) {
	m.profiles.loading = false
	m.profiles.err = msg.Err
	if msg.Err != nil {
		return m, nil
	}
	m.profiles.list = msg.Profiles
	m.profiles.cursor = 0
	if current := m.activeProfile(); current != nil {
		for i, p := range msg.Profiles {
			if p.ID == current.ID {
				m.profiles.cursor = i
				break
			}
		}
	}
	var cmd tea.Cmd
	if m.profiles.onInput() {
		cmd = m.profiles.input.Focus()
	} else {
		m.profiles.input.Blur()
	}
	return m, cmd
}

func (m Model) handleProfilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeModal()
		return m, nil
	case tea.KeyUp, tea.KeyShiftTab:
		cmd := m.profiles.move(-1)
		return m, cmd
	case tea.KeyDown, tea.KeyTab:
		cmd := m.profiles.move(1)
		return m, cmd
	case tea.KeyEnter:
		if m.profiles.loading {
			return m, nil
		}
		if m.profiles.onInput() {
			return m.createProfile()
		}
		return m.selectProfile(m.profiles.list[m.profiles.cursor])
	}

	if !m.profiles.onInput() {
		return m, nil
	}
	var cmd tea.Cmd
	m.profiles.input, cmd = m.profiles.input.Update(msg)
	return m, cmd
}

// selectProfile makes p the active profile. Selection is local to this
// client; the server only sees it on stock requests.
func (m Model) selectProfile(p partsclient.Profile) (tea.Model, tea.Cmd) {
	m.client.SelectProfile(p)
	m.closeModal()
	slog.Info("shell: profile selected", "profile", p.Name, "id", p.ID)
	cmd := m.setStatus("Profile: "+p.Name, false)
	return m, cmd
}

func (m Model) createProfile() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.profiles.input.Value())
	if name == "" {
		cmd := m.setStatus("Profile name cannot be empty", true)
		return m, cmd
	}
	m.profiles.loading = true
	client := m.client
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.NewProfile(ctx, name)
		return ProfileCreatedMsg{Name: name, Err: err}
	}
}

func (m Model) handleProfileCreated(msg ProfileCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.profiles.loading = false
		slog.Warn("shell: new profile", "name", msg.Name, "err", msg.Err)
		cmd := m.setStatus("Create profile failed: "+msg.Err.Error(), true)
		return m, cmd
	}
	m.profiles.input.SetValue("")
	if m.Modal != ModalProfiles {
		cmd := m.setStatus("Created profile "+msg.Name, false)
		return m, cmd
	}
	cmd := tea.Batch(m.setStatus("Created profile "+msg.Name, false), m.fetchProfiles())
	return m, cmd
}

func (p profilesState) view(active *partsclient.Profile) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Select profile"))
	sb.WriteString("\n\n")

	switch {
	case p.loading && len(p.list) == 0:
		sb.WriteString(subtleStyle.Render("Loading profiles…"))
		sb.WriteString("\n")
	case p.err != nil:
		sb.WriteString(errorStyle.Render(p.err.Error()))
		sb.WriteString("\n")
	case len(p.list) == 0:
		sb.WriteString(subtleStyle.Render("No profiles yet."))
		sb.WriteString("\n")
	}

	for i, prof := range p.list {
		marker := "  "
		if active != nil && active.ID == prof.ID {
			marker = "✓ "
		}
		line := fmt.Sprintf("%s%s", marker, prof.Name)
		if i == p.cursor {
			line = selectedRowStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString(p.input.View())
	sb.WriteString("\n\n")
	sb.WriteString(subtleStyle.Render("↑/↓ move · enter select · esc close"))
	return sb.String()
}
