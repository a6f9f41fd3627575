package chat

import (
	"testing"
	"time"

	"github.com/ayoubkh/campuschat/internal/api"
)

func msgAt(roomID, senderID int, body string, ts int) api.Message {
	return api.Message{
		RoomID:    roomID,
		SenderID:  senderID,
		Body:      body,
		Type:      api.MessageText,
		Timestamp: time.Unix(int64(ts), 0),
	}
}

func bodies(msgs []api.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Body
	}
	return out
}

func TestTimeline_ReplaceReversesNewestFirst(t *testing.T) {
	tl := NewTimeline()
	tl.Bind(7)

	// Server pages arrive newest-first
	page := []api.Message{
		msgAt(7, 1, "c", 10),
		msgAt(7, 1, "b", 9),
		msgAt(7, 1, "a", 8),
	}
	if !tl.Replace(7, page) {
		t.Fatal("Replace for the bound room should succeed")
	}

	got := bodies(tl.Messages())
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTimeline_ReplaceDropsStaleRoom(t *testing.T) {
	tl := NewTimeline()
	tl.Bind(7)
	tl.AppendLocal(msgAt(7, 1, "keep", 1))

	if tl.Replace(8, []api.Message{msgAt(8, 2, "stale", 2)}) {
		t.Fatal("Replace for another room should be rejected")
	}
	if tl.Len() != 1 || tl.Messages()[0].Body != "keep" {
		t.Error("Timeline changed after a stale Replace")
	}
}

func TestTimeline_PrependKeepsOrder(t *testing.T) {
	tl := NewTimeline()
	tl.Bind(7)
	tl.Replace(7, []api.Message{
		msgAt(7, 1, "f", 10),
		msgAt(7, 1, "e", 9),
		msgAt(7, 1, "d", 8),
	})

	// The older page is also newest-first
	older := []api.Message{
		msgAt(7, 1, "c", 7),
		msgAt(7, 1, "b", 6),
		msgAt(7, 1, "a", 5),
	}
	if !tl.Prepend(7, older) {
		t.Fatal("Prepend for the bound room should succeed")
	}

	got := bodies(tl.Messages())
	want := []string{"a", "b", "c", "d", "e", "f"}
	if len(got) != len(want) {
		t.Fatalf("got %d messages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTimeline_PrependEmptyPageIsNoop(t *testing.T) {
	tl := NewTimeline()
	tl.Bind(7)
	tl.AppendLocal(msgAt(7, 1, "only", 1))

	if !tl.Prepend(7, nil) {
		t.Fatal("Empty page for the bound room should still be accepted")
	}
	if tl.Len() != 1 {
		t.Errorf("got %d messages, want 1", tl.Len())
	}
}

func TestTimeline_AppendLiveSuppressesSelfEcho(t *testing.T) {
	tl := NewTimeline()
	tl.Bind(7)

	if tl.AppendLive(msgAt(7, 42, "mine", 1), 42) {
		t.Error("Own message echoed back should be dropped")
	}
	if !tl.AppendLive(msgAt(7, 99, "theirs", 2), 42) {
		t.Error("Another user's message should be appended")
	}
	if tl.Len() != 1 {
		t.Errorf("got %d messages, want 1", tl.Len())
	}
}

func TestTimeline_AppendLiveWrongRoom(t *testing.T) {
	tl := NewTimeline()
	tl.Bind(7)

	if tl.AppendLive(msgAt(8, 99, "other room", 1), 42) {
		t.Error("Message for another room should be dropped")
	}
	if tl.Len() != 0 {
		t.Errorf("got %d messages, want 0", tl.Len())
	}
}

func TestTimeline_BindClears(t *testing.T) {
	tl := NewTimeline()
	tl.Bind(7)
	tl.AppendLocal(msgAt(7, 1, "old", 1))

	tl.Bind(8)
	if tl.Len() != 0 {
		t.Error("Bind should clear the previous room's messages")
	}
	if tl.RoomID() != 8 {
		t.Errorf("got room %d, want 8", tl.RoomID())
	}
}
