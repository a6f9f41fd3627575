package ui

import (
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayoubkh/campuschat/internal/api"
	"github.com/ayoubkh/campuschat/internal/keys"
	"github.com/ayoubkh/campuschat/internal/ui/modals"
)

// AuthScreen identifies which auth form is showing
type AuthScreen int

const (
	AuthLogin AuthScreen = iota
	AuthRegister
	AuthForgot
	AuthReset
)

// AuthSubmittedMsg is sent when an auth form is completed with Enter
type AuthSubmittedMsg struct {
	Screen AuthScreen
}

// authFormWidth is the width of the centered auth forms
const authFormWidth = 48

// Auth is the full-screen component for login, registration, and password
// recovery. Exactly one form is active at a time; submission is reported to
// the app layer via AuthSubmittedMsg.
type Auth struct {
	screen AuthScreen
	form   *huh.Form
	width  int
	height int

	status    string
	statusErr bool
	busy      bool

	// Login fields
	Username string
	Password string

	// Registration fields
	RegUsername  string
	RegEmail     string
	RegPassword  string
	RegFirstName string
	RegLastName  string
	RegRole      string

	// Password recovery fields
	ForgotEmail   string
	ResetToken    string
	ResetPassword string
}

// NewAuth creates the auth component showing the login form
func NewAuth() *Auth {
	a := &Auth{}
	a.SetScreen(AuthLogin)
	return a
}

// SetSize sets the screen dimensions
func (a *Auth) SetSize(width, height int) {
	a.width = width
	a.height = height
}

// Screen returns the active auth screen
func (a *Auth) Screen() AuthScreen {
	return a.screen
}

// SetScreen switches to another auth form, rebuilding it from scratch
func (a *Auth) SetScreen(screen AuthScreen) {
	a.screen = screen
	a.status = ""
	a.statusErr = false
	a.busy = false

	switch screen {
	case AuthRegister:
		a.form = a.registerForm()
	case AuthForgot:
		a.form = a.forgotForm()
	case AuthReset:
		a.form = a.resetForm()
	default:
		a.form = a.loginForm()
	}
	a.form.Init()
}

// SetStatus shows a status line under the form
func (a *Auth) SetStatus(text string, isError bool) {
	a.status = text
	a.statusErr = isError
}

// SetBusy blocks form input while a request is in flight
func (a *Auth) SetBusy(busy bool) {
	a.busy = busy
}

// RegisterRequest builds the registration payload from the form fields
func (a *Auth) RegisterRequest() api.RegisterRequest {
	return api.RegisterRequest{
		Username:  a.RegUsername,
		Email:     a.RegEmail,
		Password:  a.RegPassword,
		FirstName: a.RegFirstName,
		LastName:  a.RegLastName,
		Role:      a.RegRole,
	}
}

func (a *Auth) loginForm() *huh.Form {
	a.Username = ""
	a.Password = ""
	return a.buildForm(huh.NewGroup(
		huh.NewInput().
			Title("Username").
			Value(&a.Username),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&a.Password),
	))
}

func (a *Auth) registerForm() *huh.Form {
	a.RegUsername = ""
	a.RegEmail = ""
	a.RegPassword = ""
	a.RegFirstName = ""
	a.RegLastName = ""
	a.RegRole = "student"
	return a.buildForm(huh.NewGroup(
		huh.NewInput().
			Title("Username").
			Value(&a.RegUsername),
		huh.NewInput().
			Title("Email").
			Value(&a.RegEmail),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&a.RegPassword),
		huh.NewInput().
			Title("First name").
			Value(&a.RegFirstName),
		huh.NewInput().
			Title("Last name").
			Value(&a.RegLastName),
		huh.NewSelect[string]().
			Title("Role").
			Options(
				huh.NewOption("Student", "student"),
				huh.NewOption("Professor", "professor"),
			).
			Value(&a.RegRole),
	))
}

func (a *Auth) forgotForm() *huh.Form {
	a.ForgotEmail = ""
	return a.buildForm(huh.NewGroup(
		huh.NewInput().
			Title("Email").
			Description("We will send a reset token to this address").
			Value(&a.ForgotEmail),
	))
}

func (a *Auth) resetForm() *huh.Form {
	a.ResetToken = ""
	a.ResetPassword = ""
	return a.buildForm(huh.NewGroup(
		huh.NewInput().
			Title("Reset token").
			Description("Paste the token from the email").
			Value(&a.ResetToken),
		huh.NewInput().
			Title("New password").
			EchoMode(huh.EchoModePassword).
			Value(&a.ResetPassword),
	))
}

func (a *Auth) buildForm(group *huh.Group) *huh.Form {
	return huh.NewForm(group).
		WithTheme(modals.ModalTheme()).
		WithShowHelp(false).
		WithWidth(authFormWidth).
		WithLayout(huh.LayoutStack)
}

// Update handles messages. Screen switches are ctrl combinations so they
// never collide with form typing.
func (a *Auth) Update(msg tea.Msg) (*Auth, tea.Cmd) {
	if a.busy {
		return a, nil
	}

	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "ctrl+r":
			if a.screen == AuthLogin {
				a.SetScreen(AuthRegister)
			}
			return a, nil
		case "ctrl+o":
			if a.screen == AuthLogin {
				a.SetScreen(AuthForgot)
			}
			return a, nil
		case keys.Escape:
			if a.screen != AuthLogin {
				a.SetScreen(AuthLogin)
			}
			return a, nil
		}
	}

	m, cmd := a.form.Update(msg)
	a.form = m.(*huh.Form)

	if a.form.State == huh.StateCompleted {
		screen := a.screen
		return a, tea.Batch(cmd, func() tea.Msg {
			return AuthSubmittedMsg{Screen: screen}
		})
	}
	return a, cmd
}

func (a *Auth) title() string {
	switch a.screen {
	case AuthRegister:
		return "Create your account"
	case AuthForgot:
		return "Forgot password"
	case AuthReset:
		return "Reset password"
	default:
		return "Sign in"
	}
}

func (a *Auth) hint() string {
	switch a.screen {
	case AuthLogin:
		return "ctrl+r: register  ctrl+o: forgot password  ctrl+c: quit"
	default:
		return "esc: back to sign in  ctrl+c: quit"
	}
}

// View renders the auth screen centered
func (a *Auth) View() string {
	appName := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Render("campuschat")

	title := lipgloss.NewStyle().
		Foreground(ColorText).
		MarginBottom(1).
		Render(a.title())

	var statusLine string
	switch {
	case a.busy:
		statusLine = StatusLoadingStyle.Render("Working...")
	case a.status != "" && a.statusErr:
		statusLine = StatusErrorStyle.Render(a.status)
	case a.status != "":
		statusLine = StatusSuccessStyle.Render(a.status)
	}

	hint := ModalHelpStyle.Render(a.hint())

	sections := []string{appName, title, a.form.View()}
	if statusLine != "" {
		sections = append(sections, statusLine)
	}
	sections = append(sections, hint)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorderFocus).
		Padding(1, 3).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}
