package ui

import (
	"fmt"
	"strings"
)

// Header represents the top header bar
type Header struct {
	width       int
	username    string
	chatName    string
	memberCount int
	connected   bool
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetUsername sets the logged-in username shown on the right
func (h *Header) SetUsername(name string) {
	h.username = name
}

// SetChat sets the open chat name and member count. A zero or negative
// count hides the member indicator, which is the case for direct chats.
func (h *Header) SetChat(name string, members int) {
	h.chatName = name
	h.memberCount = members
}

// ClearChat removes the chat portion of the header
func (h *Header) ClearChat() {
	h.chatName = ""
	h.memberCount = 0
}

// SetConnected sets the connection indicator state
func (h *Header) SetConnected(connected bool) {
	h.connected = connected
}

// View renders the header
func (h *Header) View() string {
	titleText := " campuschat"
	if h.chatName != "" {
		titleText += "  ·  " + h.chatName
		if h.memberCount > 0 {
			titleText += fmt.Sprintf(" (%d members)", h.memberCount)
		}
	}

	var rightText string
	if h.username != "" {
		indicator := "●"
		if !h.connected {
			indicator = "○"
		}
		rightText = h.username + " " + indicator + " "
	}

	paddingLen := h.width - len(titleText) - len(rightText)
	if paddingLen < 0 {
		paddingLen = 0
	}

	content := titleText + strings.Repeat(" ", paddingLen) + rightText
	return HeaderStyle.Width(h.width).Render(content)
}
