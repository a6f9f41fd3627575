package chat

import (
	"encoding/json"

	"github.com/ayoubkh/campuschat/internal/api"
	"github.com/ayoubkh/campuschat/internal/logger"
	"github.com/ayoubkh/campuschat/internal/realtime"
)

// State is the membership state for the selected chat.
type State int

const (
	StateIdle State = iota
	StateJoining
	StateJoined
	StateLeaving
)

func (s State) String() string {
	switch s {
	case StateJoining:
		return "Joining"
	case StateJoined:
		return "Joined"
	case StateLeaving:
		return "Leaving"
	default:
		return "Idle"
	}
}

// Emitter is the slice of the realtime connection the controller needs.
// *realtime.Conn satisfies this; tests use a recording fake.
type Emitter interface {
	Emit(event string, payload interface{}) error
	Subscribe(event string, h realtime.Handler)
	Unsubscribe(event string)
}

// Sink receives inbound room events (receiveMessage, directRoomJoined)
// forwarded off the read pump. The app layer bridges these into its event
// loop; the sink must not block.
type Sink func(event string, data json.RawMessage)

// Controller drives room membership for one selected chat at a time:
// join/leave events over the connection, handler subscriptions, and the
// timeline and pagination cursor scoped to the selection.
type Controller struct {
	conn Emitter
	user api.User
	sink Sink

	state    State
	target   *Target
	timeline *Timeline
	cursor   Cursor
}

// NewController creates a controller bound to a connection and the current
// user. Inbound events for the selected room are forwarded to sink.
func NewController(conn Emitter, user api.User, sink Sink) *Controller {
	return &Controller{
		conn:     conn,
		user:     user,
		sink:     sink,
		timeline: NewTimeline(),
	}
}

// State returns the current membership state.
func (c *Controller) State() State {
	return c.state
}

// Target returns the selected chat, or nil when none is selected.
func (c *Controller) Target() *Target {
	return c.target
}

// Timeline returns the timeline for the selected chat.
func (c *Controller) Timeline() *Timeline {
	return c.timeline
}

// Exhausted reports whether all history for the selection has been loaded.
func (c *Controller) Exhausted() bool {
	return c.cursor.Exhausted()
}

// Select switches to a chat: the previous room is left and its state torn
// down, then the join event for the new room is emitted. Groups are ready
// to read immediately; direct chats wait for the server's directRoomJoined
// confirmation because the room may be created on first contact. The
// returned fetchNow tells the caller whether to start the initial history
// fetch right away.
func (c *Controller) Select(t Target) (fetchNow bool, err error) {
	c.leaveCurrent()

	c.target = &t
	c.state = StateJoining
	c.timeline.Bind(t.RoomID)
	c.cursor.Reset()
	c.subscribe()

	log := logger.WithRoom(t.RoomID)
	switch t.Kind {
	case TargetGroup:
		err = c.conn.Emit(realtime.EventJoinRoom, realtime.JoinRoomPayload{
			RoomID: t.RoomID,
			UserID: c.user.UserID,
		})
		if err == nil {
			c.state = StateJoined
			fetchNow = true
		}
	case TargetDirect:
		err = c.conn.Emit(realtime.EventJoinDirectRoom, realtime.JoinDirectRoomPayload{
			Room: t.Direct,
		})
	}
	if err != nil {
		log.Warn("join emit failed", "kind", t.Kind.String(), "err", err)
		return false, err
	}
	log.Debug("joining room", "kind", t.Kind.String(), "state", c.state.String())
	return fetchNow, nil
}

// Deselect leaves the current room, if any, and returns to Idle.
func (c *Controller) Deselect() {
	c.leaveCurrent()
}

// Close is the terminal cleanup on view teardown or connection loss: the
// leave event is emitted and all handlers removed regardless of sub-state,
// so no server-side room membership or handler registration leaks.
func (c *Controller) Close() {
	c.leaveCurrent()
}

func (c *Controller) leaveCurrent() {
	if c.target == nil {
		return
	}
	c.state = StateLeaving
	// The leave payload is the bare room id, matching the server protocol.
	if err := c.conn.Emit(realtime.EventLeaveRoom, c.target.RoomID); err != nil {
		logger.WithRoom(c.target.RoomID).Warn("leave emit failed", "err", err)
	}
	c.unsubscribe()
	c.timeline.Clear()
	c.cursor.Reset()
	c.target = nil
	c.state = StateIdle
}

// subscribe registers the message handlers for the selection. Handlers are
// explicit subscribe/unsubscribe pairs tied to state transitions, never to
// a render cycle.
func (c *Controller) subscribe() {
	forward := func(event string) realtime.Handler {
		return func(data json.RawMessage) {
			c.sink(event, data)
		}
	}
	c.conn.Subscribe(realtime.EventReceiveMessage, forward(realtime.EventReceiveMessage))
	c.conn.Subscribe(realtime.EventDirectRoomJoined, forward(realtime.EventDirectRoomJoined))
}

func (c *Controller) unsubscribe() {
	c.conn.Unsubscribe(realtime.EventReceiveMessage)
	c.conn.Unsubscribe(realtime.EventDirectRoomJoined)
}

// HandleDirectRoomJoined processes the server confirmation for a direct
// join. Returns true when the initial history fetch should start now,
// decoupling "room exists" from "room ready to read".
func (c *Controller) HandleDirectRoomJoined(roomID int) bool {
	if c.state != StateJoining || c.target == nil || c.target.RoomID != roomID {
		return false
	}
	c.state = StateJoined
	return true
}

// NextPage hands out the next history page index to fetch, advancing the
// cursor before the fetch starts. Returns false when nothing is selected
// or history is exhausted.
func (c *Controller) NextPage() (int, bool) {
	if c.target == nil {
		return 0, false
	}
	return c.cursor.Advance()
}

// CommitInitial applies an initial history fetch. Stale results for a
// previously selected room are discarded. On success the cursor points at
// the first older page.
func (c *Controller) CommitInitial(roomID int, page []api.Message) bool {
	if c.target == nil || c.target.RoomID != roomID {
		logger.Debug("Chat: dropping stale initial fetch for room %d", roomID)
		return false
	}
	if !c.timeline.Replace(roomID, page) {
		return false
	}
	// Page 0 is loaded; older pages start at 1.
	c.cursor.Reset()
	c.cursor.Advance()
	return true
}

// CommitOlder applies a load-more fetch. An empty page marks history as
// exhausted and leaves the timeline unchanged. Stale results are dropped.
func (c *Controller) CommitOlder(roomID int, page []api.Message) bool {
	if c.target == nil || c.target.RoomID != roomID {
		logger.Debug("Chat: dropping stale page for room %d", roomID)
		return false
	}
	if len(page) == 0 {
		c.cursor.MarkExhausted()
		return true
	}
	return c.timeline.Prepend(roomID, page)
}

// AppendLive applies an inbound receiveMessage event. Self-echoes are
// suppressed. Returns true when the timeline changed.
func (c *Controller) AppendLive(msg api.Message) bool {
	if c.target == nil {
		return false
	}
	return c.timeline.AppendLive(msg, c.user.UserID)
}

// AppendLocal applies an optimistic local append from the dispatcher.
func (c *Controller) AppendLocal(msg api.Message) {
	if c.target == nil || msg.RoomID != c.target.RoomID {
		return
	}
	c.timeline.AppendLocal(msg)
}
