package ui

import (
	"strings"

	"github.com/ayoubkh/campuschat/internal/api"
	"github.com/ayoubkh/campuschat/internal/chat"
)

// sidebarItemKind distinguishes between section headers and chat entries
// in the sidebar.
type sidebarItemKind int

const (
	itemKindSection sidebarItemKind = iota // A section header (not selectable)
	itemKindGroup                          // A group chat entry
	itemKindDirect                         // A direct chat entry
)

// sidebarItem represents one row in the sidebar list.
type sidebarItem struct {
	Kind   sidebarItemKind
	Label  string
	Target chat.Target // Only valid for group and direct kinds
}

// Sidebar represents the left panel with the group and direct chat lists
type Sidebar struct {
	items        []sidebarItem
	selectedIdx  int
	width        int
	height       int
	focused      bool
	scrollOffset int
	currentUser  api.User
	unread       map[int]int // room id -> unread count
	activeRoomID int         // room id of the open chat, 0 when none
}

// NewSidebar creates a new sidebar
func NewSidebar(user api.User) *Sidebar {
	return &Sidebar{
		currentUser: user,
		unread:      make(map[int]int),
	}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetUser updates the user the direct chat labels are derived from
func (s *Sidebar) SetUser(user api.User) {
	s.currentUser = user
}

// SetChats rebuilds the sidebar list from the fetched rosters. The
// selection is kept on the same room when it still exists.
func (s *Sidebar) SetChats(groups []api.Group, dms []api.DirectRoom) {
	var keepRoomID int
	if t, ok := s.Selected(); ok {
		keepRoomID = t.RoomID
	}

	s.items = s.items[:0]
	s.items = append(s.items, sidebarItem{Kind: itemKindSection, Label: "Groups"})
	for i := range groups {
		t := chat.GroupTarget(groups[i])
		s.items = append(s.items, sidebarItem{Kind: itemKindGroup, Label: t.Name(s.currentUser), Target: t})
	}
	s.items = append(s.items, sidebarItem{Kind: itemKindSection, Label: "Direct Messages"})
	for i := range dms {
		t := chat.DirectTarget(dms[i])
		s.items = append(s.items, sidebarItem{Kind: itemKindDirect, Label: t.Name(s.currentUser), Target: t})
	}

	s.selectedIdx = s.firstSelectable()
	if keepRoomID != 0 {
		for i, item := range s.items {
			if item.Kind != itemKindSection && item.Target.RoomID == keepRoomID {
				s.selectedIdx = i
				break
			}
		}
	}
	s.clampScroll()
}

// SetActiveRoom marks the open chat so its unread marker is suppressed
func (s *Sidebar) SetActiveRoom(roomID int) {
	s.activeRoomID = roomID
	if roomID != 0 {
		delete(s.unread, roomID)
	}
}

// MarkUnread bumps the unread count for a room that is not currently open
func (s *Sidebar) MarkUnread(roomID int) {
	if roomID == s.activeRoomID {
		return
	}
	s.unread[roomID]++
}

// Selected returns the chat under the cursor, if any
func (s *Sidebar) Selected() (chat.Target, bool) {
	if s.selectedIdx < 0 || s.selectedIdx >= len(s.items) {
		return chat.Target{}, false
	}
	item := s.items[s.selectedIdx]
	if item.Kind == itemKindSection {
		return chat.Target{}, false
	}
	return item.Target, true
}

// MoveUp moves the selection up, skipping section headers
func (s *Sidebar) MoveUp() {
	for i := s.selectedIdx - 1; i >= 0; i-- {
		if s.items[i].Kind != itemKindSection {
			s.selectedIdx = i
			break
		}
	}
	s.clampScroll()
}

// MoveDown moves the selection down, skipping section headers
func (s *Sidebar) MoveDown() {
	for i := s.selectedIdx + 1; i < len(s.items); i++ {
		if s.items[i].Kind != itemKindSection {
			s.selectedIdx = i
			break
		}
	}
	s.clampScroll()
}

func (s *Sidebar) firstSelectable() int {
	for i, item := range s.items {
		if item.Kind != itemKindSection {
			return i
		}
	}
	return 0
}

// visibleRows is the number of list rows that fit inside the panel
func (s *Sidebar) visibleRows() int {
	rows := s.height - BorderSize
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (s *Sidebar) clampScroll() {
	rows := s.visibleRows()
	if s.selectedIdx < s.scrollOffset {
		s.scrollOffset = s.selectedIdx
	}
	if s.selectedIdx >= s.scrollOffset+rows {
		s.scrollOffset = s.selectedIdx - rows + 1
	}
	if s.scrollOffset < 0 {
		s.scrollOffset = 0
	}
}

// View renders the sidebar
func (s *Sidebar) View() string {
	innerWidth := s.width - BorderSize
	rows := s.visibleRows()

	var lines []string
	end := s.scrollOffset + rows
	if end > len(s.items) {
		end = len(s.items)
	}
	for i := s.scrollOffset; i < end; i++ {
		item := s.items[i]
		switch item.Kind {
		case itemKindSection:
			lines = append(lines, SidebarSectionStyle.Render(item.Label))
		default:
			label := item.Label
			if n := s.unread[item.Target.RoomID]; n > 0 {
				label += " " + SidebarUnreadStyle.Render("●")
			}
			label = truncate(label, innerWidth-InputPaddingWidth)
			if i == s.selectedIdx {
				lines = append(lines, SidebarSelectedStyle.Render(label))
			} else {
				lines = append(lines, SidebarItemStyle.Render(label))
			}
		}
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}

	content := strings.Join(lines, "\n")
	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}
	return style.Width(innerWidth).Height(rows).Render(content)
}

// truncate trims a string to fit the given display width
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
