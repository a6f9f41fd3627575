package modals

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// AttachFileState - State for the Attach File modal
type AttachFileState struct {
	PathInput textinput.Model
	ChatName  string
	Uploading bool
}

func (*AttachFileState) modalState() {}

func (s *AttachFileState) Title() string { return "Attach File" }

func (s *AttachFileState) Help() string {
	if s.Uploading {
		return "Uploading..."
	}
	return "Enter to upload, Esc to cancel"
}

func (s *AttachFileState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	chatLabel := lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		MarginBottom(1).
		Render(s.ChatName)

	label := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Render("File path:")

	var status string
	if s.Uploading {
		status = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			MarginTop(1).
			Render("Uploading...")
	}

	help := ModalHelpStyle.Render(s.Help())

	if status != "" {
		return lipgloss.JoinVertical(lipgloss.Left, title, chatLabel, label, s.PathInput.View(), status, help)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, chatLabel, label, s.PathInput.View(), help)
}

func (s *AttachFileState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if s.Uploading {
		return s, nil
	}
	var cmd tea.Cmd
	s.PathInput, cmd = s.PathInput.Update(msg)
	return s, cmd
}

// GetPath returns the entered file path
func (s *AttachFileState) GetPath() string {
	return strings.TrimSpace(s.PathInput.Value())
}

// SetUploading locks the modal while the upload is in flight
func (s *AttachFileState) SetUploading(uploading bool) {
	s.Uploading = uploading
}

// NewAttachFileState creates a new AttachFileState
func NewAttachFileState(chatName string) *AttachFileState {
	path := textinput.New()
	path.Placeholder = "/path/to/file"
	path.CharLimit = ModalInputCharLimit
	path.SetWidth(ModalInputWidth)
	path.Focus()

	return &AttachFileState{PathInput: path, ChatName: chatName}
}
