package modals

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayoubkh/campuschat/internal/keys"
)

// CreateGroupState - State for the Create Group modal
type CreateGroupState struct {
	NameInput    textinput.Model
	PictureInput textinput.Model
	Focus        int // 0=name, 1=picture
}

func (*CreateGroupState) modalState() {}

func (s *CreateGroupState) Title() string { return "Create Group" }

func (s *CreateGroupState) Help() string {
	return "Tab: next field  Enter: create  Esc: cancel"
}

func (s *CreateGroupState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	nameLabel := fieldLabel("Group name:", s.Focus == 0)
	nameView := fieldInput(s.NameInput.View(), s.Focus == 0)

	pictureLabel := fieldLabel("Picture path (optional):", s.Focus == 1)
	pictureView := fieldInput(s.PictureInput.View(), s.Focus == 1)

	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left, title, nameLabel, nameView, pictureLabel, pictureView, help)
}

func (s *CreateGroupState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Tab, keys.Down:
			s.setFocus((s.Focus + 1) % 2)
			return s, nil
		case keys.ShiftTab, keys.Up:
			s.setFocus((s.Focus + 1) % 2)
			return s, nil
		}
	}

	var cmd tea.Cmd
	if s.Focus == 0 {
		s.NameInput, cmd = s.NameInput.Update(msg)
	} else {
		s.PictureInput, cmd = s.PictureInput.Update(msg)
	}
	return s, cmd
}

func (s *CreateGroupState) setFocus(focus int) {
	s.Focus = focus
	if focus == 0 {
		s.NameInput.Focus()
		s.PictureInput.Blur()
	} else {
		s.NameInput.Blur()
		s.PictureInput.Focus()
	}
}

// GetName returns the entered group name
func (s *CreateGroupState) GetName() string {
	return s.NameInput.Value()
}

// GetPicturePath returns the optional picture path
func (s *CreateGroupState) GetPicturePath() string {
	return s.PictureInput.Value()
}

// NewCreateGroupState creates a new CreateGroupState
func NewCreateGroupState() *CreateGroupState {
	name := textinput.New()
	name.Placeholder = "e.g. CS101 Study Group"
	name.CharLimit = ModalInputCharLimit
	name.SetWidth(ModalInputWidth)
	name.Focus()

	picture := textinput.New()
	picture.Placeholder = "/path/to/image.png"
	picture.CharLimit = ModalInputCharLimit
	picture.SetWidth(ModalInputWidth)

	return &CreateGroupState{NameInput: name, PictureInput: picture}
}

// fieldLabel renders a form field label, highlighted when focused
func fieldLabel(label string, focused bool) string {
	style := lipgloss.NewStyle().Foreground(ColorTextMuted).MarginTop(1)
	if focused {
		style = style.Foreground(ColorPrimary)
	}
	return style.Render(label)
}

// fieldInput renders a form field with a left border when focused
func fieldInput(view string, focused bool) string {
	style := lipgloss.NewStyle()
	if focused {
		style = style.BorderLeft(true).BorderStyle(lipgloss.NormalBorder()).BorderForeground(ColorPrimary).PaddingLeft(1)
	} else {
		style = style.PaddingLeft(2)
	}
	return style.Render(view)
}
