package modals

import (
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayoubkh/campuschat/internal/api"
)

// ProfileState - State for the Edit Profile modal. Built on a huh form;
// the app layer reads the values when the user submits with Enter.
type ProfileState struct {
	form *huh.Form

	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string // empty means keep the current password
	Picture   string // optional path to a new profile picture
}

func (*ProfileState) modalState() {}

func (s *ProfileState) Title() string { return "Edit Profile" }

func (s *ProfileState) Help() string {
	return "Tab: next field  Enter: save  Esc: cancel"
}

func (s *ProfileState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *ProfileState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// Values returns the profile update request built from the form
func (s *ProfileState) Values() api.ProfileUpdate {
	return api.ProfileUpdate{
		Username:  s.Username,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Password:  s.Password,
		Picture:   s.Picture,
	}
}

// NewProfileState creates a new ProfileState prefilled from the user
func NewProfileState(user api.User) *ProfileState {
	s := &ProfileState{
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}

	s.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Username").
			Value(&s.Username),
		huh.NewInput().
			Title("First name").
			Value(&s.FirstName),
		huh.NewInput().
			Title("Last name").
			Value(&s.LastName),
		huh.NewInput().
			Title("Email").
			Value(&s.Email),
		huh.NewInput().
			Title("New password").
			Description("Leave empty to keep your current password").
			EchoMode(huh.EchoModePassword).
			Value(&s.Password),
		huh.NewInput().
			Title("Profile picture").
			Description("Optional path to an image file").
			Value(&s.Picture),
	)).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(ModalInputWidth).
		WithLayout(huh.LayoutStack)
	initHuhForm(s.form)

	return s
}
