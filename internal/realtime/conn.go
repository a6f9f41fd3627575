// Package realtime manages the persistent websocket connection to the chat
// server. Events are JSON envelopes {"event": name, "data": payload},
// mirroring the server's named-event protocol.
//
// At most one connection exists per process. Acquire returns the existing
// connection when present and dials a new one otherwise; Release tears it
// down. Components register per-event handlers with Subscribe and must
// Unsubscribe when they stop caring, so switching rooms never leaks a stale
// message handler.
package realtime

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayoubkh/campuschat/internal/errors"
	"github.com/ayoubkh/campuschat/internal/logger"
)

// Event names understood by the server.
const (
	EventJoinRoom         = "joinRoom"
	EventJoinDirectRoom   = "joinDirectRoom"
	EventLeaveRoom        = "leaveRoom"
	EventSendMessage      = "sendMessage"
	EventSendDM           = "sendDM"
	EventReceiveMessage   = "receiveMessage"
	EventDirectRoomJoined = "directRoomJoined"
	EventConnect          = "connect"
	EventDisconnect       = "disconnect"
)

const writeTimeout = 10 * time.Second

// Handler is invoked from the read pump whenever the subscribed event
// arrives. Handlers must not block; push into a channel and return.
type Handler func(data json.RawMessage)

// envelope is the wire format for both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Conn is a live connection to the realtime server.
type Conn struct {
	ws *websocket.Conn

	writeMu sync.Mutex // gorilla allows one concurrent writer

	handlerMu sync.RWMutex
	handlers  map[string]Handler

	closeOnce sync.Once
	closed    chan struct{}
}

var (
	singletonMu sync.Mutex
	singleton   *Conn
)

// Acquire returns the process-wide connection, dialing wsURL with the given
// auth token only when no connection exists. Re-acquiring while connected
// returns the same instance, regardless of token.
func Acquire(wsURL, token string) (*Conn, error) {
	singletonMu.Lock()
	defer singletonMu.Unlock()

	if singleton != nil {
		return singleton, nil
	}

	c, err := dial(wsURL, token)
	if err != nil {
		return nil, err
	}
	singleton = c
	return c, nil
}

// Release tears down the active connection and clears the singleton.
// Safe to call when none exists.
func Release() {
	singletonMu.Lock()
	c := singleton
	singleton = nil
	singletonMu.Unlock()

	if c != nil {
		c.close()
	}
}

// Active returns the current connection, or nil when disconnected.
func Active() *Conn {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	return singleton
}

func dial(wsURL, token string) (*Conn, error) {
	op := errors.Op("realtime.Acquire")

	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, errors.E(op, errors.KindSocket, err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	ws, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, errors.E(op, errors.KindSocket, "dial failed", err)
	}

	c := &Conn{
		ws:       ws,
		handlers: make(map[string]Handler),
		closed:   make(chan struct{}),
	}
	go c.readPump()

	logger.ComponentLogger("Realtime").Info("connection opened", "url", u.Host)
	return c, nil
}

// Subscribe registers the handler for an event name, replacing any previous
// handler for that name. Each event has a single owner; the room membership
// controller owns the message events for the selected chat.
func (c *Conn) Subscribe(event string, h Handler) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	c.handlers[event] = h
}

// Unsubscribe removes the handler for an event name.
func (c *Conn) Unsubscribe(event string) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	delete(c.handlers, event)
}

// Emit sends an event to the server. Fire-and-forget: a nil return means
// the frame was written, not that the server processed it.
func (c *Conn) Emit(event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.E(errors.Op("realtime.Emit"), err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.closed:
		return errors.NotConnected()
	default:
	}

	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.ws.WriteJSON(envelope{Event: event, Data: data}); err != nil {
		return errors.E(errors.Op("realtime.Emit"), errors.KindSocket, err)
	}
	logger.Debug("Realtime: emitted %s", event)
	return nil
}

// Closed returns a channel that is closed when the connection is gone.
func (c *Conn) Closed() <-chan struct{} {
	return c.closed
}

// readPump reads envelopes until the connection dies, dispatching each to
// its subscribed handler. A read error is surfaced as the reserved
// "disconnect" event, which upstream treats as session invalidation.
func (c *Conn) readPump() {
	c.dispatch(EventConnect, nil)

	for {
		var env envelope
		if err := c.ws.ReadJSON(&env); err != nil {
			logger.ComponentLogger("Realtime").Warn("read pump stopped", "err", err)
			break
		}
		c.dispatch(env.Event, env.Data)
	}

	c.close()

	// Clear the singleton if it still points at us, then tell upstream.
	singletonMu.Lock()
	if singleton == c {
		singleton = nil
	}
	singletonMu.Unlock()

	c.dispatch(EventDisconnect, nil)
}

func (c *Conn) dispatch(event string, data json.RawMessage) {
	c.handlerMu.RLock()
	h := c.handlers[event]
	c.handlerMu.RUnlock()

	if h != nil {
		h(data)
	} else if event != EventConnect {
		logger.Debug("Realtime: no handler for event %s", event)
	}
}

func (c *Conn) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.ws.Close()
	})
}

// JoinRoomPayload is the outbound payload for joining a group room.
type JoinRoomPayload struct {
	RoomID int `json:"room_id"`
	UserID int `json:"user_id"`
}

// JoinDirectRoomPayload wraps the selected direct room; the server creates
// the room on first contact.
type JoinDirectRoomPayload struct {
	Room interface{} `json:"room"`
}

// DirectRoomJoinedPayload is the server's confirmation for a direct join.
type DirectRoomJoinedPayload struct {
	RoomID  int    `json:"room_id"`
	Message string `json:"message"`
}
