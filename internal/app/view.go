package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// View renders the app. This is the core Bubble Tea view function.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		v.SetContent("Loading...")
		return v
	}

	if m.screen == ScreenAuth {
		v.SetContent(m.auth.View())
		return v
	}

	m.updateFooter()

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.sidebar.View(),
		m.chatUI.View(),
	)

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		panels,
		m.footer.View(),
	)

	if m.modal.IsVisible() {
		v.SetContent(m.modal.View(m.width, m.height))
		return v
	}

	v.SetContent(view)
	return v
}
