package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// FlashType classifies a transient footer message
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashError
)

// FlashDuration is how long a flash message stays visible
const FlashDuration = 4 * time.Second

// FlashExpiredMsg is sent when a flash message should be cleared
type FlashExpiredMsg struct {
	ID int
}

// Footer represents the bottom footer bar with keybindings and flash
// messages
type Footer struct {
	width          int
	hasChat        bool // whether a chat is open
	sidebarFocused bool // whether the sidebar has focus
	loadingOlder   bool // whether a history page fetch is in flight
	exhausted      bool // whether all history has been loaded

	flash     string
	flashType FlashType
	flashID   int
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{}
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(hasChat, sidebarFocused, loadingOlder, exhausted bool) {
	f.hasChat = hasChat
	f.sidebarFocused = sidebarFocused
	f.loadingOlder = loadingOlder
	f.exhausted = exhausted
}

// Flash shows a transient message in place of the keybindings and returns
// the command that clears it after FlashDuration.
func (f *Footer) Flash(text string, kind FlashType) tea.Cmd {
	f.flash = text
	f.flashType = kind
	f.flashID++
	id := f.flashID
	return tea.Tick(FlashDuration, func(time.Time) tea.Msg {
		return FlashExpiredMsg{ID: id}
	})
}

// ClearFlash removes the flash message if the expiry matches the message
// currently shown. A newer flash keeps its own timer.
func (f *Footer) ClearFlash(id int) {
	if id == f.flashID {
		f.flash = ""
	}
}

// View renders the footer
func (f *Footer) View() string {
	if f.flash != "" {
		style := FooterDescStyle
		switch f.flashType {
		case FlashSuccess:
			style = StatusSuccessStyle
		case FlashError:
			style = StatusErrorStyle
		}
		return FooterStyle.Width(f.width).Render(style.Render(f.flash))
	}

	var bindings []KeyBinding
	switch {
	case f.sidebarFocused:
		bindings = []KeyBinding{
			{Key: "↑/↓", Desc: "navigate"},
			{Key: "enter", Desc: "open"},
			{Key: "tab", Desc: "switch pane"},
			{Key: "ctrl+n", Desc: "new group"},
			{Key: "ctrl+j", Desc: "join group"},
			{Key: "ctrl+d", Desc: "new dm"},
			{Key: "ctrl+p", Desc: "profile"},
			{Key: "ctrl+l", Desc: "notifications"},
			{Key: "ctrl+o", Desc: "sign out"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	case f.hasChat:
		bindings = []KeyBinding{
			{Key: "enter", Desc: "send"},
			{Key: "ctrl+f", Desc: "attach file"},
			{Key: "ctrl+u", Desc: "older messages"},
			{Key: "ctrl+i", Desc: "info"},
			{Key: "ctrl+x", Desc: "leave"},
			{Key: "ctrl+up/dn", Desc: "scroll"},
			{Key: "esc", Desc: "close chat"},
			{Key: "tab", Desc: "switch pane"},
		}
		if f.loadingOlder {
			bindings = append([]KeyBinding{{Key: "…", Desc: "loading"}}, bindings...)
		} else if f.exhausted {
			bindings = append([]KeyBinding{{Key: "⊤", Desc: "start of history"}}, bindings...)
		}
	default:
		bindings = []KeyBinding{
			{Key: "tab", Desc: "switch pane"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	}

	var parts []string
	for _, b := range bindings {
		key := FooterKeyStyle.Render(b.Key)
		desc := FooterDescStyle.Render(": " + b.Desc)
		parts = append(parts, key+desc)
	}

	content := strings.Join(parts, "  "+lipgloss.NewStyle().Foreground(ColorBorder).Render("|")+"  ")
	return FooterStyle.Width(f.width).Render(content)
}
