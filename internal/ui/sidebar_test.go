package ui

import (
	"testing"

	"github.com/ayoubkh/campuschat/internal/api"
)

func sidebarUser() api.User {
	return api.User{UserID: 42, Username: "sam"}
}

func sidebarGroups() []api.Group {
	return []api.Group{
		{RoomID: 1, RoomName: "Algorithms"},
		{RoomID: 2, RoomName: "Databases"},
	}
}

func sidebarDMs() []api.DirectRoom {
	return []api.DirectRoom{
		{RoomID: 10, Users: []api.User{{UserID: 7, Username: "ana", FirstName: "Ana", LastName: "Ruiz"}}},
	}
}

func TestSidebar_SelectionSkipsSections(t *testing.T) {
	s := NewSidebar(sidebarUser())
	s.SetSize(30, 20)
	s.SetChats(sidebarGroups(), sidebarDMs())

	target, ok := s.Selected()
	if !ok {
		t.Fatal("first chat should be selected after SetChats")
	}
	if target.RoomID != 1 {
		t.Errorf("got room %d, want 1", target.RoomID)
	}

	s.MoveDown()
	s.MoveDown() // skips the Direct Messages header
	target, ok = s.Selected()
	if !ok || target.RoomID != 10 {
		t.Errorf("got (%+v, %v), want the direct room", target, ok)
	}

	s.MoveDown() // already at the bottom
	target, _ = s.Selected()
	if target.RoomID != 10 {
		t.Errorf("selection moved past the last chat to room %d", target.RoomID)
	}
}

func TestSidebar_SetChatsKeepsSelection(t *testing.T) {
	s := NewSidebar(sidebarUser())
	s.SetSize(30, 20)
	s.SetChats(sidebarGroups(), sidebarDMs())
	s.MoveDown()

	// A refresh with a new group prepended should not move the cursor
	groups := append([]api.Group{{RoomID: 3, RoomName: "Compilers"}}, sidebarGroups()...)
	s.SetChats(groups, sidebarDMs())

	target, ok := s.Selected()
	if !ok || target.RoomID != 2 {
		t.Errorf("got (%+v, %v), want selection kept on room 2", target, ok)
	}
}

func TestSidebar_UnreadSuppressedForActiveRoom(t *testing.T) {
	s := NewSidebar(sidebarUser())
	s.SetChats(sidebarGroups(), nil)

	s.SetActiveRoom(1)
	s.MarkUnread(1)
	if s.unread[1] != 0 {
		t.Error("the open chat should never accumulate unread")
	}

	s.MarkUnread(2)
	if s.unread[2] != 1 {
		t.Errorf("unread[2] = %d, want 1", s.unread[2])
	}

	// Opening the room clears its marker
	s.SetActiveRoom(2)
	if _, ok := s.unread[2]; ok {
		t.Error("opening a chat should clear its unread marker")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("a very long label", 7); got != "a very…" {
		t.Errorf("got %q", got)
	}
	if got := truncate("anything", 0); got != "" {
		t.Errorf("got %q", got)
	}
}
