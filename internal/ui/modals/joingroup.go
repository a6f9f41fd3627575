package modals

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// JoinGroupState - State for the Join Group modal
type JoinGroupState struct {
	CodeInput textinput.Model
}

func (*JoinGroupState) modalState() {}

func (s *JoinGroupState) Title() string { return "Join Group" }

func (s *JoinGroupState) Help() string {
	return "Enter to join, Esc to cancel"
}

func (s *JoinGroupState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	label := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Render("Invite code:")

	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left, title, label, s.CodeInput.View(), help)
}

func (s *JoinGroupState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.CodeInput, cmd = s.CodeInput.Update(msg)
	return s, cmd
}

// GetCode returns the entered invite code
func (s *JoinGroupState) GetCode() string {
	return strings.TrimSpace(s.CodeInput.Value())
}

// NewJoinGroupState creates a new JoinGroupState
func NewJoinGroupState() *JoinGroupState {
	code := textinput.New()
	code.Placeholder = "invite code"
	code.CharLimit = 64
	code.SetWidth(ModalInputWidth)
	code.Focus()

	return &JoinGroupState{CodeInput: code}
}
