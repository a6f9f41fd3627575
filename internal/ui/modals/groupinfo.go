package modals

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayoubkh/campuschat/internal/api"
	"github.com/ayoubkh/campuschat/internal/keys"
)

// maxVisibleMembers bounds the member list height inside the modal
const maxVisibleMembers = 10

// GroupInfoState - State for the Group Info modal showing members and the
// invite code
type GroupInfoState struct {
	Group        api.Group
	ScrollOffset int
}

func (*GroupInfoState) modalState() {}

func (s *GroupInfoState) Title() string { return "Group Info" }

func (s *GroupInfoState) Help() string {
	if len(s.Group.Users) > maxVisibleMembers {
		return "↑/↓ scroll  Esc: close"
	}
	return "Esc: close"
}

func (s *GroupInfoState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	nameLabel := lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		Render(s.Group.RoomName)

	var codeSection string
	if s.Group.RoomCode != "" {
		codeLabel := lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			MarginTop(1).
			Render("Invite code:")
		code := lipgloss.NewStyle().
			Foreground(ColorText).
			Render("  " + s.Group.RoomCode)
		codeSection = lipgloss.JoinVertical(lipgloss.Left, codeLabel, code)
	}

	membersLabel := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		MarginTop(1).
		Render(fmt.Sprintf("Members (%d):", len(s.Group.Users)))

	var memberList string
	end := s.ScrollOffset + maxVisibleMembers
	if end > len(s.Group.Users) {
		end = len(s.Group.Users)
	}
	for _, u := range s.Group.Users[s.ScrollOffset:end] {
		line := "  " + u.DisplayName()
		if u.Username != "" {
			line += " " + lipgloss.NewStyle().Foreground(ColorTextMuted).Render("@"+u.Username)
		}
		memberList += lipgloss.NewStyle().Foreground(ColorText).Render(line) + "\n"
	}

	help := ModalHelpStyle.Render(s.Help())

	if codeSection != "" {
		return lipgloss.JoinVertical(lipgloss.Left, title, nameLabel, codeSection, membersLabel, memberList, help)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, nameLabel, membersLabel, memberList, help)
}

func (s *GroupInfoState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Up, "k":
			if s.ScrollOffset > 0 {
				s.ScrollOffset--
			}
		case keys.Down, "j":
			if s.ScrollOffset < len(s.Group.Users)-maxVisibleMembers {
				s.ScrollOffset++
			}
		}
	}
	return s, nil
}

// NewGroupInfoState creates a new GroupInfoState
func NewGroupInfoState(group api.Group) *GroupInfoState {
	return &GroupInfoState{Group: group}
}
