package chat

import "github.com/ayoubkh/campuschat/internal/api"

// Timeline is the ordered message sequence for the currently selected chat.
// Messages are whole, immutable records; the timeline only appends live and
// local messages and prepends older history pages. Inbound order is taken
// as delivered; there is no client-side re-sort.
//
// Every mutation is scoped to a room id so that a fetch resolving after the
// user switched chats cannot leak into the wrong timeline.
type Timeline struct {
	roomID int
	msgs   []api.Message
}

// NewTimeline creates an empty timeline bound to no room.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Bind clears the timeline and scopes it to a room.
func (t *Timeline) Bind(roomID int) {
	t.roomID = roomID
	t.msgs = nil
}

// Clear drops all messages and the room binding.
func (t *Timeline) Clear() {
	t.roomID = 0
	t.msgs = nil
}

// RoomID returns the room the timeline is bound to, 0 when unbound.
func (t *Timeline) RoomID() int {
	return t.roomID
}

// Len returns the number of messages.
func (t *Timeline) Len() int {
	return len(t.msgs)
}

// Messages returns the timeline in chronological order. The returned slice
// is shared; callers must not mutate it.
func (t *Timeline) Messages() []api.Message {
	return t.msgs
}

// chronological reverses a newest-first server page into display order.
func chronological(page []api.Message) []api.Message {
	out := make([]api.Message, len(page))
	for i, m := range page {
		out[len(page)-1-i] = m
	}
	return out
}

// Replace commits an initial history fetch, replacing the timeline. The
// page arrives newest-first and is reversed. Returns false (and leaves the
// timeline alone) when the fetch belongs to a different room.
func (t *Timeline) Replace(roomID int, page []api.Message) bool {
	if roomID != t.roomID {
		return false
	}
	t.msgs = chronological(page)
	return true
}

// Prepend commits an older history page in front of the timeline without
// disturbing existing order. Stale pages for other rooms are discarded.
func (t *Timeline) Prepend(roomID int, page []api.Message) bool {
	if roomID != t.roomID {
		return false
	}
	if len(page) == 0 {
		return true
	}
	older := chronological(page)
	t.msgs = append(older, t.msgs...)
	return true
}

// AppendLive appends a message received over the connection. Rebroadcasts
// of the current user's own messages are dropped; they were already
// appended optimistically on send. Returns true when the timeline changed.
func (t *Timeline) AppendLive(msg api.Message, currentUserID int) bool {
	if msg.RoomID != t.roomID {
		return false
	}
	if msg.SenderID == currentUserID {
		return false
	}
	t.msgs = append(t.msgs, msg)
	return true
}

// AppendLocal appends a locally composed message before any server
// acknowledgement (optimistic send; there is no rollback on failure).
func (t *Timeline) AppendLocal(msg api.Message) {
	t.msgs = append(t.msgs, msg)
}
