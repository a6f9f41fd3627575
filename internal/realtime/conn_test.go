package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// wsServer upgrades incoming connections and hands them to fn.
func wsServer(t *testing.T, fn func(ws *websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		fn(ws)
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestAcquire_PassesTokenAndIsSingleton(t *testing.T) {
	tokens := make(chan string, 2)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens <- r.URL.Query().Get("token")
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		<-time.After(time.Second)
		ws.Close()
	}))
	defer srv.Close()

	defer Release()
	first, err := Acquire(wsURL(srv), "tok-123")
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if got := <-tokens; got != "tok-123" {
		t.Errorf("token query param = %q, want tok-123", got)
	}

	second, err := Acquire(wsURL(srv), "other-token")
	if err != nil {
		t.Fatalf("second Acquire returned error: %v", err)
	}
	if second != first {
		t.Error("re-acquiring while connected should return the same instance")
	}
	if Active() != first {
		t.Error("Active should return the acquired connection")
	}
}

func TestConn_EmitWritesEnvelope(t *testing.T) {
	envelopes := make(chan envelope, 1)
	srv := wsServer(t, func(ws *websocket.Conn) {
		var env envelope
		if err := ws.ReadJSON(&env); err == nil {
			envelopes <- env
		}
	})
	defer srv.Close()

	defer Release()
	c, err := Acquire(wsURL(srv), "tok")
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}

	if err := c.Emit(EventJoinRoom, JoinRoomPayload{RoomID: 5, UserID: 42}); err != nil {
		t.Fatalf("Emit returned error: %v", err)
	}

	select {
	case env := <-envelopes:
		if env.Event != EventJoinRoom {
			t.Errorf("event = %q, want %q", env.Event, EventJoinRoom)
		}
		var payload JoinRoomPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			t.Fatalf("unmarshaling payload: %v", err)
		}
		if payload.RoomID != 5 || payload.UserID != 42 {
			t.Errorf("payload = %+v", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the frame")
	}
}

func TestConn_SubscribeDispatchesEvents(t *testing.T) {
	srv := wsServer(t, func(ws *websocket.Conn) {
		// Wait for the join before confirming, like the real server
		var env envelope
		if err := ws.ReadJSON(&env); err != nil {
			return
		}
		data, _ := json.Marshal(map[string]interface{}{"room_id": 9, "message": "joined"})
		ws.WriteJSON(envelope{Event: EventDirectRoomJoined, Data: data})
		<-time.After(time.Second)
		ws.Close()
	})
	defer srv.Close()

	defer Release()
	c, err := Acquire(wsURL(srv), "tok")
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}

	got := make(chan DirectRoomJoinedPayload, 1)
	c.Subscribe(EventDirectRoomJoined, func(data json.RawMessage) {
		var payload DirectRoomJoinedPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			t.Errorf("unmarshaling event data: %v", err)
			return
		}
		got <- payload
	})
	if err := c.Emit(EventJoinDirectRoom, JoinDirectRoomPayload{Room: map[string]int{"room_id": 9}}); err != nil {
		t.Fatalf("Emit returned error: %v", err)
	}

	select {
	case payload := <-got:
		if payload.RoomID != 9 {
			t.Errorf("room_id = %d, want 9", payload.RoomID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never fired")
	}
}

func TestConn_DisconnectDispatchedOnServerClose(t *testing.T) {
	srv := wsServer(t, func(ws *websocket.Conn) {
		// Hang up after the first frame, once the client is listening
		var env envelope
		ws.ReadJSON(&env)
		ws.Close()
	})
	defer srv.Close()

	defer Release()
	c, err := Acquire(wsURL(srv), "tok")
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}

	disconnected := make(chan struct{}, 1)
	c.Subscribe(EventDisconnect, func(json.RawMessage) {
		disconnected <- struct{}{}
	})
	if err := c.Emit(EventLeaveRoom, 5); err != nil {
		t.Fatalf("Emit returned error: %v", err)
	}

	select {
	case <-disconnected:
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect event never dispatched")
	}

	select {
	case <-c.Closed():
	default:
		t.Error("Closed channel should be closed after the server hangs up")
	}
	if err := c.Emit(EventSendMessage, nil); err == nil {
		t.Error("Emit on a dead connection should fail")
	}
	if Active() != nil {
		t.Error("singleton should be cleared after disconnect")
	}
}

func TestRelease_ClearsSingleton(t *testing.T) {
	srv := wsServer(t, func(ws *websocket.Conn) {
		<-time.After(time.Second)
		ws.Close()
	})
	defer srv.Close()

	if _, err := Acquire(wsURL(srv), "tok"); err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	Release()
	if Active() != nil {
		t.Error("Release should clear the singleton")
	}
	// Safe to call again with nothing active
	Release()
}
