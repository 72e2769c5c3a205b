package shell

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// LoginMode selects between signing in and registering.
type LoginMode string

const (
	LoginModeSignIn LoginMode = "login"
	LoginModeCreate LoginMode = "create"
)

var (
	errEmailRequired    = errors.New("email is required")
	errEmailInvalid     = errors.New("email must contain @")
	errPasswordRequired = errors.New("password is required")
)

// LoginForm holds the login dialog and its bound values.
type LoginForm struct {
	Form     *huh.Form
	Mode     string
	Email    string
	Password string
}

// NewLoginForm builds a login dialog, prefilling the email if known.
func NewLoginForm(email string) *LoginForm {
	lf := &LoginForm{Mode: string(LoginModeSignIn), Email: email}
	lf.buildForm()
	return lf
}

func (lf *LoginForm) buildForm() {
	lf.Form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Account").
				Options(
					huh.NewOption("Log in", string(LoginModeSignIn)),
					huh.NewOption("Create account", string(LoginModeCreate)),
				).
				Value(&lf.Mode),
			huh.NewInput().
				Title("Email").
				Value(&lf.Email).
				Placeholder("you@example.com").
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				Value(&lf.Password).
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s == "" {
						return errPasswordRequired
					}
					return nil
				}),
		).Title("Login"),
	).WithShowHelp(false).WithWidth(44)
	lf.Form.WithTheme(huh.ThemeDracula())
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errEmailRequired
	}
	if !strings.Contains(s, "@") {
		return errEmailInvalid
	}
	return nil
}

// openLogin shows a fresh login dialog.
func (m Model) openLogin() (tea.Model, tea.Cmd) {
	m.login = NewLoginForm(m.LoggedInAs)
	m.Modal = ModalLogin
	return m, m.login.Form.Init()
}

// updateLoginForm forwards msg to the login form and acts on completion.
func (m Model) updateLoginForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.login == nil {
		return m, nil
	}
	form, cmd := m.login.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.login.Form = f
	}
	switch m.login.Form.State {
	case huh.StateCompleted:
		return m.submitLogin()
	case huh.StateAborted:
		m.closeModal()
		return m, nil
	}
	return m, cmd
}

// submitLogin closes the dialog and sends the credentials.
func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	lf := m.login
	m.closeModal()
	if lf == nil || m.client == nil {
		return m, nil
	}
	email := strings.TrimSpace(lf.Email)
	password := lf.Password
	create := LoginMode(lf.Mode) == LoginModeCreate

	client := m.client
	cmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if create {
			if err := client.CreateUser(ctx, email, password); err != nil {
				return LoginResultMsg{Email: email, Created: true, Err: err}
			}
		}
		err := client.Login(ctx, email, password)
		return LoginResultMsg{Email: email, Created: create, Err: err}
	}

	status := "Logging in…"
	if create {
		status = "Creating account…"
	}
	statusCmd := m.setStatus(status, false)
	return m, tea.Batch(statusCmd, cmd)
}

func (m Model) handleLoginResult(msg LoginResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		slog.Warn("shell: login", "email", msg.Email, "err", msg.Err)
		verb := "Login"
		if msg.Created {
			verb = "Account creation"
		}
		cmd := m.setStatus(verb+" failed: "+msg.Err.Error(), true)
		return m, cmd
	}
	m.LoggedInAs = msg.Email
	slog.Info("shell: logged in", "email", msg.Email, "created", msg.Created)
	text := "Logged in as " + msg.Email
	if msg.Created {
		text = "Created account " + msg.Email
	}
	m.search.loading = true
	cmd := tea.Batch(m.setStatus(text, false), m.fetchParts())
	return m, cmd
}
