package modals

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayoubkh/campuschat/internal/keys"
)

// LeaveGroupState - State for the Leave Group confirmation modal
type LeaveGroupState struct {
	GroupName     string
	RoomID        int
	Options       []string
	SelectedIndex int
}

func (*LeaveGroupState) modalState() {}

func (s *LeaveGroupState) Title() string { return "Leave Group?" }

func (s *LeaveGroupState) Help() string {
	return "↑/↓ to select, Enter to confirm, Esc to cancel"
}

func (s *LeaveGroupState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	groupLabel := lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		MarginBottom(1).
		Render(s.GroupName)

	message := lipgloss.NewStyle().
		Foreground(ColorText).
		MarginBottom(1).
		Render("You will stop receiving messages from this group.")

	optionList := RenderSelectableList(s.Options, s.SelectedIndex)

	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left, title, groupLabel, message, optionList, help)
}

func (s *LeaveGroupState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Up, "k":
			if s.SelectedIndex > 0 {
				s.SelectedIndex--
			}
		case keys.Down, "j":
			if s.SelectedIndex < len(s.Options)-1 {
				s.SelectedIndex++
			}
		}
	}
	return s, nil
}

// Confirmed reports whether the user selected the leave option
func (s *LeaveGroupState) Confirmed() bool {
	return s.SelectedIndex == 1
}

// NewLeaveGroupState creates a new LeaveGroupState
func NewLeaveGroupState(groupName string, roomID int) *LeaveGroupState {
	return &LeaveGroupState{
		GroupName:     groupName,
		RoomID:        roomID,
		Options:       []string{"Stay", "Leave group"},
		SelectedIndex: 0,
	}
}
