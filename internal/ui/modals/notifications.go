package modals

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayoubkh/campuschat/internal/api"
	"github.com/ayoubkh/campuschat/internal/keys"
)

// maxVisibleNotifications bounds the list height inside the modal
const maxVisibleNotifications = 8

// NotificationsState - State for the Notifications modal
type NotificationsState struct {
	Notifications []api.Notification
	ScrollOffset  int
	Loading       bool
	AlertsEnabled bool // desktop alert toggle, mirrors the config flag
}

func (*NotificationsState) modalState() {}

func (s *NotificationsState) Title() string { return "Notifications" }

func (s *NotificationsState) Help() string {
	toggle := "n: alerts on"
	if s.AlertsEnabled {
		toggle = "n: alerts off"
	}
	if len(s.Notifications) > 0 {
		return "↑/↓ scroll  c: clear all  " + toggle + "  Esc: close"
	}
	return toggle + "  Esc: close"
}

func (s *NotificationsState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	var content string
	switch {
	case s.Loading:
		content = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Render("Loading...")
	case len(s.Notifications) == 0:
		content = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Render("No notifications")
	default:
		end := s.ScrollOffset + maxVisibleNotifications
		if end > len(s.Notifications) {
			end = len(s.Notifications)
		}
		for _, n := range s.Notifications[s.ScrollOffset:end] {
			line := lipgloss.NewStyle().Foreground(ColorText).Render("• " + n.Content)
			if n.CreatedAt != "" {
				line += " " + lipgloss.NewStyle().Foreground(ColorTextMuted).Render(n.CreatedAt)
			}
			content += line + "\n"
		}
		if len(s.Notifications) > maxVisibleNotifications {
			content += lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true).
				Render("(scroll for more)")
		}
	}

	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left, title, content, help)
}

func (s *NotificationsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Up, "k":
			if s.ScrollOffset > 0 {
				s.ScrollOffset--
			}
		case keys.Down, "j":
			if s.ScrollOffset < len(s.Notifications)-maxVisibleNotifications {
				s.ScrollOffset++
			}
		}
	}
	return s, nil
}

// SetNotifications installs the fetched list
func (s *NotificationsState) SetNotifications(list []api.Notification) {
	s.Loading = false
	s.Notifications = list
	s.ScrollOffset = 0
}

// Clear empties the list after a successful delete
func (s *NotificationsState) Clear() {
	s.Notifications = nil
	s.ScrollOffset = 0
}

// NewNotificationsState creates a new NotificationsState in loading mode
func NewNotificationsState(alertsEnabled bool) *NotificationsState {
	return &NotificationsState{Loading: true, AlertsEnabled: alertsEnabled}
}
