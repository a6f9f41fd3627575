package chat

import (
	"encoding/json"
	"testing"

	"github.com/ayoubkh/campuschat/internal/api"
	"github.com/ayoubkh/campuschat/internal/realtime"
)

// fakeEmitter records emits and subscriptions in order
type fakeEmitter struct {
	emits      []emitCall
	subscribed map[string]realtime.Handler
	emitErr    error
}

type emitCall struct {
	event   string
	payload interface{}
}

func newFakeEmitter() *fakeEmitter {
	return &fakeEmitter{subscribed: make(map[string]realtime.Handler)}
}

func (f *fakeEmitter) Emit(event string, payload interface{}) error {
	if f.emitErr != nil {
		return f.emitErr
	}
	f.emits = append(f.emits, emitCall{event: event, payload: payload})
	return nil
}

func (f *fakeEmitter) Subscribe(event string, h realtime.Handler) {
	f.subscribed[event] = h
}

func (f *fakeEmitter) Unsubscribe(event string) {
	delete(f.subscribed, event)
}

func (f *fakeEmitter) events() []string {
	out := make([]string, len(f.emits))
	for i, e := range f.emits {
		out[i] = e.event
	}
	return out
}

func testUser() api.User {
	return api.User{UserID: 42, Username: "sam"}
}

func testGroup(roomID int) Target {
	return GroupTarget(api.Group{RoomID: roomID, RoomName: "Study Group"})
}

func testDirect(roomID int) Target {
	return DirectTarget(api.DirectRoom{RoomID: roomID, Users: []api.User{{UserID: 7, Username: "ana"}}})
}

func noopSink(string, json.RawMessage) {}

func TestController_SelectGroupJoinsAndFetches(t *testing.T) {
	conn := newFakeEmitter()
	c := NewController(conn, testUser(), noopSink)

	fetchNow, err := c.Select(testGroup(5))
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if !fetchNow {
		t.Error("Group selection should fetch history immediately")
	}
	if c.State() != StateJoined {
		t.Errorf("got state %v, want Joined", c.State())
	}

	events := conn.events()
	if len(events) != 1 || events[0] != realtime.EventJoinRoom {
		t.Fatalf("got emits %v, want [joinRoom]", events)
	}
	payload := conn.emits[0].payload.(realtime.JoinRoomPayload)
	if payload.RoomID != 5 || payload.UserID != 42 {
		t.Errorf("joinRoom payload = %+v", payload)
	}

	if conn.subscribed[realtime.EventReceiveMessage] == nil {
		t.Error("receiveMessage handler not registered")
	}
	if conn.subscribed[realtime.EventDirectRoomJoined] == nil {
		t.Error("directRoomJoined handler not registered")
	}
}

func TestController_SelectDirectWaitsForConfirmation(t *testing.T) {
	conn := newFakeEmitter()
	c := NewController(conn, testUser(), noopSink)

	fetchNow, err := c.Select(testDirect(9))
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if fetchNow {
		t.Error("Direct selection must wait for the server confirmation")
	}
	if c.State() != StateJoining {
		t.Errorf("got state %v, want Joining", c.State())
	}

	if !c.HandleDirectRoomJoined(9) {
		t.Fatal("Confirmation for the pending room should trigger the fetch")
	}
	if c.State() != StateJoined {
		t.Errorf("got state %v, want Joined", c.State())
	}

	// A second confirmation is a no-op
	if c.HandleDirectRoomJoined(9) {
		t.Error("Duplicate confirmation should not trigger another fetch")
	}
}

func TestController_HandleDirectRoomJoinedWrongRoom(t *testing.T) {
	conn := newFakeEmitter()
	c := NewController(conn, testUser(), noopSink)
	c.Select(testDirect(9))

	if c.HandleDirectRoomJoined(11) {
		t.Error("Confirmation for another room should be ignored")
	}
	if c.State() != StateJoining {
		t.Errorf("got state %v, want Joining", c.State())
	}
}

func TestController_SelectLeavesPreviousRoomFirst(t *testing.T) {
	conn := newFakeEmitter()
	c := NewController(conn, testUser(), noopSink)

	c.Select(testGroup(5))
	c.Select(testGroup(6))

	events := conn.events()
	want := []string{realtime.EventJoinRoom, realtime.EventLeaveRoom, realtime.EventJoinRoom}
	if len(events) != len(want) {
		t.Fatalf("got emits %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("got emits %v, want %v", events, want)
		}
	}

	// The leave payload is the bare room id
	if got := conn.emits[1].payload.(int); got != 5 {
		t.Errorf("leaveRoom payload = %v, want 5", got)
	}

	// The previous room's timeline never bleeds into the new one
	if c.Timeline().Len() != 0 {
		t.Error("Timeline should be empty until the new room's fetch lands")
	}
}

func TestController_DeselectTearsDown(t *testing.T) {
	conn := newFakeEmitter()
	c := NewController(conn, testUser(), noopSink)
	c.Select(testGroup(5))

	c.Deselect()

	if c.State() != StateIdle {
		t.Errorf("got state %v, want Idle", c.State())
	}
	if c.Target() != nil {
		t.Error("Target should be cleared")
	}
	if len(conn.subscribed) != 0 {
		t.Errorf("handlers still registered: %v", conn.subscribed)
	}
	if c.Timeline().Len() != 0 {
		t.Error("Timeline should be cleared")
	}
}

func TestController_CommitInitialSetsCursor(t *testing.T) {
	conn := newFakeEmitter()
	c := NewController(conn, testUser(), noopSink)
	c.Select(testGroup(5))

	page := []api.Message{msgAt(5, 7, "hello", 1)}
	if !c.CommitInitial(5, page) {
		t.Fatal("CommitInitial for the selected room should succeed")
	}

	// Page 0 is loaded; the next load-more fetches page 1
	next, ok := c.NextPage()
	if !ok || next != 1 {
		t.Errorf("got (%d, %v), want (1, true)", next, ok)
	}
}

func TestController_CommitInitialDropsStale(t *testing.T) {
	conn := newFakeEmitter()
	c := NewController(conn, testUser(), noopSink)
	c.Select(testGroup(5))
	c.Select(testGroup(6))

	// A fetch for the previously selected room resolves late
	if c.CommitInitial(5, []api.Message{msgAt(5, 7, "stale", 1)}) {
		t.Fatal("Stale initial fetch should be dropped")
	}
	if c.Timeline().Len() != 0 {
		t.Error("Stale fetch leaked into the timeline")
	}
}

func TestController_CommitOlderEmptyMarksExhausted(t *testing.T) {
	conn := newFakeEmitter()
	c := NewController(conn, testUser(), noopSink)
	c.Select(testGroup(5))
	c.CommitInitial(5, []api.Message{msgAt(5, 7, "x", 1)})

	page, ok := c.NextPage()
	if !ok || page != 1 {
		t.Fatalf("got (%d, %v), want (1, true)", page, ok)
	}
	if !c.CommitOlder(5, nil) {
		t.Fatal("Empty page for the selected room should be accepted")
	}
	if !c.Exhausted() {
		t.Error("Empty page should mark history exhausted")
	}
	if _, ok := c.NextPage(); ok {
		t.Error("NextPage after exhaustion should return false")
	}
}

func TestController_AppendLiveUsesCurrentUser(t *testing.T) {
	conn := newFakeEmitter()
	c := NewController(conn, testUser(), noopSink)
	c.Select(testGroup(5))

	if c.AppendLive(msgAt(5, 42, "echo", 1)) {
		t.Error("Own echo should be suppressed")
	}
	if !c.AppendLive(msgAt(5, 7, "real", 2)) {
		t.Error("Peer message should be appended")
	}
}

func TestController_SinkReceivesForwardedEvents(t *testing.T) {
	conn := newFakeEmitter()
	var gotEvent string
	sink := func(event string, data json.RawMessage) {
		gotEvent = event
	}
	c := NewController(conn, testUser(), sink)
	c.Select(testGroup(5))

	h := conn.subscribed[realtime.EventReceiveMessage]
	h(json.RawMessage(`{}`))
	if gotEvent != realtime.EventReceiveMessage {
		t.Errorf("sink got %q, want %q", gotEvent, realtime.EventReceiveMessage)
	}
}
