// Package shell is the interactive parts browser. Key events are resolved
// through the keyboard table of the loaded settings before any widget sees
// them.
package shell

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/marcus/partman/internal/partsclient"
	"github.com/marcus/partman/internal/settings"
	"github.com/marcus/partman/pkg/shell/keymap"
)

// Options configures a new shell.
type Options struct {
	// Store holds the loaded settings. The grid shape is read from it once;
	// key bindings are read on every key press.
	Store     *settings.Store
	Client    PartsService
	ServerURL string
	// MarkdownStyle is a glamour style name for the help overlay. Empty
	// picks one from the terminal background.
	MarkdownStyle string
}

// Model is the bubbletea model for the shell.
type Model struct {
	store         *settings.Store
	client        PartsService
	serverURL     string
	markdownStyle string

	// Window dimensions
	Width  int
	Height int

	Tab   Tab
	Modal ModalKind

	// Status line
	StatusMessage string
	StatusIsError bool
	statusSeq     int

	// Email of the logged in user, if known.
	LoggedInAs string

	grid     gridView
	search   searchState
	login    *LoginForm
	profiles profilesState
	importer *ImportForm
	stock    *StockForm
	help     helpState
}

// New builds the shell. The grid shape is read from the settings once here.
func New(opts Options) Model {
	store := opts.Store
	if store == nil {
		store = settings.NewStore(settings.New())
	}
	cfg := store.Current()
	search := newSearchState()
	search.loading = opts.Client != nil
	return Model{
		store:         store,
		client:        opts.Client,
		serverURL:     opts.ServerURL,
		markdownStyle: opts.MarkdownStyle,
		grid:          newGridView(cfg.Grid),
		search:        search,
		profiles:      newProfilesState(),
		importer:      NewImportForm(),
		help:          newHelpState(),
	}
}

// Init starts the cursor blinking and loads the part list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetchParts())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.view.Width, m.help.view.Height = helpSize(m.Width, m.Height)
		m.help.rendered = false
		var cmd tea.Cmd
		if m.Modal == ModalHelp {
			cmd = m.renderHelp()
		}
		// Forms size themselves from this message.
		next, formCmd := m.forward(msg)
		return next, tea.Batch(cmd, formCmd)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case PartsMsg:
		return m.handleParts(msg)

	case LoginResultMsg:
		return m.handleLoginResult(msg)

	case ProfilesMsg:
		return m.handleProfiles(msg)

	case ProfileCreatedMsg:
		return m.handleProfileCreated(msg)

	case PartAddedMsg:
		return m.handlePartAdded(msg)

	case StockChangedMsg:
		return m.handleStockChanged(msg)

	case HelpRenderedMsg:
		return m.handleHelpRendered(msg)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMessage = ""
			m.StatusIsError = false
		}
		return m, nil
	}

	return m.forward(msg)
}

// forward passes non-key messages (cursor blinks, form navigation) to the
// focused widget.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch {
	case m.Modal == ModalLogin:
		return m.updateLoginForm(msg)
	case m.Modal == ModalStock:
		return m.updateStockForm(msg)
	case m.Modal == ModalProfiles:
		var cmd tea.Cmd
		m.profiles.input, cmd = m.profiles.input.Update(msg)
		return m, cmd
	case m.Tab == TabImport:
		return m.updateImportForm(msg)
	}
	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	return m, cmd
}

// handleKey dispatches a key press. ctrl+c and F1 are fixed; everything
// else is looked up in the keyboard table, except printable characters
// typed into a focused text field.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyF1:
		return m.toggleHelp()
	}

	if !(keymap.IsPrintable(msg) && m.textFocused()) {
		if action, ok := m.config().Keyboard.Lookup(msg); ok {
			return m.executeAction(action)
		}
	}

	switch m.Modal {
	case ModalLogin:
		if msg.Type == tea.KeyEsc {
			m.closeModal()
			return m, nil
		}
		return m.updateLoginForm(msg)
	case ModalStock:
		if msg.Type == tea.KeyEsc {
			m.closeModal()
			return m, nil
		}
		return m.updateStockForm(msg)
	case ModalProfiles:
		return m.handleProfilesKey(msg)
	case ModalHelp:
		return m.handleHelpKey(msg)
	}

	if m.Tab == TabImport {
		return m.updateImportForm(msg)
	}

	switch msg.Type {
	case tea.KeyPgUp:
		m.grid.layerUp()
		return m, nil
	case tea.KeyPgDown:
		m.grid.layerDown()
		return m, nil
	}
	return m.handleSearchKey(msg)
}

// textFocused reports whether the widget receiving keys is a text field.
func (m Model) textFocused() bool {
	switch m.Modal {
	case ModalLogin:
		if m.login == nil {
			return false
		}
		_, ok := m.login.Form.GetFocusedField().(*huh.Input)
		return ok
	case ModalStock:
		return m.stock != nil
	case ModalProfiles:
		return m.profiles.input.Focused()
	case ModalHelp:
		return false
	}
	if m.Tab == TabImport {
		return true
	}
	return m.search.input.Focused()
}

// executeAction performs a bound action.
func (m Model) executeAction(action settings.Action) (tea.Model, tea.Cmd) {
	switch action {
	case settings.ActionQuit:
		if m.Modal != ModalNone {
			return m, nil
		}
		return m, tea.Quit
	case settings.ActionLogin:
		return m.openLogin()
	case settings.ActionSelectProfile:
		return m.openProfiles()
	case settings.ActionImportTab:
		m.Tab = TabImport
		return m, m.importer.Form.Init()
	case settings.ActionSearchTab:
		m.Tab = TabSearch
		cmd := m.search.input.Focus()
		return m, cmd
	}
	return m, nil
}

// config returns the settings currently installed in the store.
func (m Model) config() *settings.Config {
	return m.store.Current()
}

func (m *Model) closeModal() {
	m.Modal = ModalNone
	m.login = nil
	m.stock = nil
}

func (m Model) handleParts(msg PartsMsg) (tea.Model, tea.Cmd) {
	m.search.loading = false
	if msg.Err != nil {
		if errors.Is(msg.Err, partsclient.ErrUnauthorized) {
			m.search.err = nil
			cmd := m.setStatus(m.loginHint(), true)
			return m, cmd
		}
		m.search.err = msg.Err
		return m, nil
	}
	m.search.err = nil
	m.search.all = msg.Parts
	m.search.filter()
	m.followSelection()
	return m, nil
}

// loginHint names the chord bound to Login, if any.
func (m Model) loginHint() string {
	chords := m.config().Keyboard.ChordsFor(settings.ActionLogin)
	if len(chords) == 0 {
		return "Not logged in"
	}
	return "Not logged in (press " + chords[0].String() + ")"
}

// setStatus shows text on the status line and schedules its removal.
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	m.StatusMessage = text
	m.StatusIsError = isErr
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
