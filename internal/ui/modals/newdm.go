package modals

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayoubkh/campuschat/internal/api"
	"github.com/ayoubkh/campuschat/internal/keys"
)

// NewDMState - State for the New Direct Message modal. The user search runs
// through the app layer; results land here via SetResults.
type NewDMState struct {
	SearchInput   textinput.Model
	Results       []api.User
	SelectedIndex int
	Searching     bool
	Searched      bool // whether at least one search completed
	Focus         int  // 0=search input, 1=result list
}

func (*NewDMState) modalState() {}

func (s *NewDMState) Title() string { return "New Direct Message" }

func (s *NewDMState) Help() string {
	if s.Focus == 0 {
		return "Enter: search  Tab: results  Esc: cancel"
	}
	return "↑/↓ select  Enter: start chat  Tab: search  Esc: cancel"
}

func (s *NewDMState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	label := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Render("Find a user:")
	searchView := fieldInput(s.SearchInput.View(), s.Focus == 0)

	var resultSection string
	switch {
	case s.Searching:
		resultSection = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			MarginTop(1).
			Render("Searching...")
	case len(s.Results) > 0:
		var items []string
		for _, u := range s.Results {
			label := u.DisplayName()
			if u.Username != "" && label != u.Username {
				label += " (@" + u.Username + ")"
			}
			items = append(items, label)
		}
		idx := s.SelectedIndex
		if s.Focus != 1 {
			idx = -1
		}
		resultSection = RenderSelectableList(items, idx)
	case s.Searched:
		resultSection = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			MarginTop(1).
			Render("No users found")
	}

	help := ModalHelpStyle.Render(s.Help())

	if resultSection != "" {
		return lipgloss.JoinVertical(lipgloss.Left, title, label, searchView, resultSection, help)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, label, searchView, help)
}

func (s *NewDMState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Tab, keys.ShiftTab:
			if s.Focus == 0 && len(s.Results) > 0 {
				s.Focus = 1
				s.SearchInput.Blur()
			} else {
				s.Focus = 0
				s.SearchInput.Focus()
			}
			return s, nil
		case keys.Up:
			if s.Focus == 1 && s.SelectedIndex > 0 {
				s.SelectedIndex--
			}
			return s, nil
		case keys.Down:
			if s.Focus == 1 && s.SelectedIndex < len(s.Results)-1 {
				s.SelectedIndex++
			}
			return s, nil
		}
	}

	if s.Focus == 0 {
		var cmd tea.Cmd
		s.SearchInput, cmd = s.SearchInput.Update(msg)
		return s, cmd
	}
	return s, nil
}

// Query returns the trimmed search text
func (s *NewDMState) Query() string {
	return strings.TrimSpace(s.SearchInput.Value())
}

// SetSearching marks a search as in flight
func (s *NewDMState) SetSearching() {
	s.Searching = true
}

// SetResults installs the search results and moves focus to the list
func (s *NewDMState) SetResults(users []api.User) {
	s.Searching = false
	s.Searched = true
	s.Results = users
	s.SelectedIndex = 0
	if len(users) > 0 {
		s.Focus = 1
		s.SearchInput.Blur()
	}
}

// SelectedUser returns the highlighted user, if any
func (s *NewDMState) SelectedUser() (api.User, bool) {
	if s.Focus != 1 || s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Results) {
		return api.User{}, false
	}
	return s.Results[s.SelectedIndex], true
}

// NewNewDMState creates a new NewDMState
func NewNewDMState() *NewDMState {
	search := textinput.New()
	search.Placeholder = "username"
	search.CharLimit = 64
	search.SetWidth(ModalInputWidth)
	search.Focus()

	return &NewDMState{SearchInput: search}
}
