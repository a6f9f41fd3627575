package ui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayoubkh/campuschat/internal/api"
	"github.com/ayoubkh/campuschat/internal/keys"
)

// Chat represents the right panel with the open conversation
type Chat struct {
	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	focused  bool

	hasChat       bool
	chatName      string
	messages      []api.Message
	currentUserID int
	loadingOlder  bool
	exhausted     bool
}

// NewChat creates a new chat panel
func NewChat() *Chat {
	ti := textarea.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 0
	ti.SetHeight(TextareaHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &Chat{
		viewport: vp,
		input:    ti,
	}
	c.updateContent()
	return c
}

// SetSize sets the chat panel dimensions
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height

	chatPanelHeight := height - InputTotalHeight
	innerWidth := width - BorderSize
	viewportHeight := chatPanelHeight - BorderSize
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	c.viewport.SetWidth(innerWidth)
	c.viewport.SetHeight(viewportHeight)
	c.input.SetWidth(innerWidth - InputPaddingWidth)

	c.updateContent()
}

// SetFocused sets the focus state
func (c *Chat) SetFocused(focused bool) {
	c.focused = focused
	if focused && c.hasChat {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

// IsFocused returns the focus state
func (c *Chat) IsFocused() bool {
	return c.focused
}

// SetChat opens a conversation. The message list is replaced wholesale;
// live and optimistic appends come in through SetMessages.
func (c *Chat) SetChat(name string, currentUserID int) {
	c.hasChat = true
	c.chatName = name
	c.currentUserID = currentUserID
	c.messages = nil
	c.loadingOlder = false
	c.exhausted = false
	c.input.Reset()
	if c.focused {
		c.input.Focus()
	}
	c.updateContent()
}

// ClearChat closes the open conversation
func (c *Chat) ClearChat() {
	c.hasChat = false
	c.chatName = ""
	c.messages = nil
	c.loadingOlder = false
	c.exhausted = false
	c.input.Reset()
	c.input.Blur()
	c.updateContent()
}

// HasChat reports whether a conversation is open
func (c *Chat) HasChat() bool {
	return c.hasChat
}

// SetMessages replaces the rendered timeline. When keepScroll is set the
// viewport position is preserved, used after prepending older history so
// the reader does not lose their place.
func (c *Chat) SetMessages(msgs []api.Message, keepScroll bool) {
	prevOffset := c.viewport.YOffset()
	prevTotal := c.viewport.TotalLineCount()

	c.messages = msgs
	c.updateContentNoScroll()

	if keepScroll {
		grown := c.viewport.TotalLineCount() - prevTotal
		if grown < 0 {
			grown = 0
		}
		c.viewport.SetYOffset(prevOffset + grown)
	} else {
		c.viewport.GotoBottom()
	}
}

// SetLoadingOlder toggles the loading indicator at the top of the timeline
func (c *Chat) SetLoadingOlder(loading bool) {
	c.loadingOlder = loading
	c.updateContentNoScroll()
}

// SetExhausted marks the top of history
func (c *Chat) SetExhausted(exhausted bool) {
	c.exhausted = exhausted
	c.updateContentNoScroll()
}

// AtTop reports whether the viewport is scrolled to the top, the trigger
// position for fetching older history.
func (c *Chat) AtTop() bool {
	return c.viewport.AtTop()
}

// GetInput returns the current input text
func (c *Chat) GetInput() string {
	return c.input.Value()
}

// ClearInput clears the input textarea
func (c *Chat) ClearInput() {
	c.input.Reset()
}

func (c *Chat) renderNoChatMessage() string {
	return lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true).
		Render("Select a chat to start messaging")
}

// sameDay reports whether two timestamps fall on the same calendar day
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// formatSize renders a byte count for attachment lines
func formatSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/float64(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

func (c *Chat) renderMessage(msg api.Message, wrapWidth int) string {
	var sb strings.Builder

	senderStyle := ChatPeerStyle
	sender := msg.SenderName
	if msg.SenderID == c.currentUserID {
		senderStyle = ChatSelfStyle
		sender = "You"
	}
	if sender == "" {
		sender = fmt.Sprintf("user %d", msg.SenderID)
	}

	sb.WriteString(senderStyle.Render(sender))
	sb.WriteString(" ")
	sb.WriteString(ChatTimeStyle.Render(msg.Timestamp.Local().Format("15:04")))
	sb.WriteString("\n")

	if msg.Type == api.MessageFile && msg.Attachment != nil {
		line := fmt.Sprintf("📎 %s (%s)", msg.Attachment.Name, formatSize(msg.Attachment.Size))
		sb.WriteString(ChatAttachmentStyle.Render(line))
		if msg.Body != "" {
			sb.WriteString("\n")
		}
	}
	if msg.Body != "" {
		body := lipgloss.NewStyle().Width(wrapWidth).Render(msg.Body)
		sb.WriteString(body)
	}
	return sb.String()
}

func (c *Chat) buildContent() string {
	var sb strings.Builder

	wrapWidth := c.viewport.Width()
	if wrapWidth <= 0 {
		wrapWidth = DefaultWrapWidth
	}

	if c.exhausted {
		sb.WriteString(ChatSeparatorStyle.Render("── start of conversation ──"))
		sb.WriteString("\n\n")
	} else if c.loadingOlder {
		sb.WriteString(StatusLoadingStyle.Render("Loading older messages..."))
		sb.WriteString("\n\n")
	}

	if len(c.messages) == 0 {
		sb.WriteString(lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Render("No messages yet. Say hi!"))
	}

	for i, msg := range c.messages {
		if i == 0 || !sameDay(c.messages[i-1].Timestamp.Local(), msg.Timestamp.Local()) {
			if i > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(ChatSeparatorStyle.Render(msg.Timestamp.Local().Format("Monday, January 2")))
			sb.WriteString("\n\n")
		} else {
			sb.WriteString("\n\n")
		}
		sb.WriteString(c.renderMessage(msg, wrapWidth))
	}

	return sb.String()
}

func (c *Chat) updateContent() {
	c.viewport.SetContent(c.buildContent())
	c.viewport.GotoBottom()
}

func (c *Chat) updateContentNoScroll() {
	c.viewport.SetContent(c.buildContent())
}

// Update handles messages
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	var cmds []tea.Cmd

	if c.focused && c.hasChat {
		if keyMsg, isKey := msg.(tea.KeyPressMsg); isKey {
			switch keyMsg.String() {
			case keys.PgUp, keys.PgDown, keys.CtrlUp, keys.CtrlDown, keys.Home, keys.End:
				var cmd tea.Cmd
				c.viewport, cmd = c.viewport.Update(msg)
				cmds = append(cmds, cmd)
				return c, tea.Batch(cmds...)
			}
		}

		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		cmds = append(cmds, cmd)

		// Key events stop here so typing never scrolls the viewport
		if _, isKey := msg.(tea.KeyPressMsg); isKey {
			return c, tea.Batch(cmds...)
		}
	}

	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return c, tea.Batch(cmds...)
}

// View renders the chat panel
func (c *Chat) View() string {
	panelStyle := PanelStyle
	if c.focused {
		panelStyle = PanelFocusedStyle
	}

	innerWidth := c.width - BorderSize

	if !c.hasChat {
		return panelStyle.Width(innerWidth).Height(c.height - BorderSize).Render(c.renderNoChatMessage())
	}

	chatPanelHeight := c.height - InputTotalHeight
	chatPanel := panelStyle.Width(innerWidth).Height(chatPanelHeight - BorderSize).Render(c.viewport.View())

	inputStyle := ChatInputStyle
	if c.focused {
		inputStyle = ChatInputFocusedStyle
	}
	inputPanel := inputStyle.Width(innerWidth - InputPaddingWidth).Render(c.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, chatPanel, inputPanel)
}
