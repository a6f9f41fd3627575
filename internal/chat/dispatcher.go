package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayoubkh/campuschat/internal/api"
	"github.com/ayoubkh/campuschat/internal/errors"
	"github.com/ayoubkh/campuschat/internal/logger"
	"github.com/ayoubkh/campuschat/internal/realtime"
)

// MaxFileSize is the upload ceiling enforced client-side before any
// network call.
const MaxFileSize int64 = 100 << 20 // 100 MB

// Dispatcher constructs outbound messages from local input and emits them
// over the connection. Sends are optimistic: the returned message is meant
// to be appended to the timeline immediately, without waiting for (or ever
// receiving) a delivery acknowledgement.
type Dispatcher struct {
	conn Emitter
	user api.User
}

// NewDispatcher creates a dispatcher for the current user.
func NewDispatcher(conn Emitter, user api.User) *Dispatcher {
	return &Dispatcher{conn: conn, user: user}
}

// sendEvent picks the send event for the chat kind. Direct rooms use the
// dedicated DM event so the server can route to the created room.
func sendEvent(kind TargetKind) string {
	if kind == TargetDirect {
		return realtime.EventSendDM
	}
	return realtime.EventSendMessage
}

// SendText emits a text message and returns it for optimistic append.
// Whitespace-only input is rejected before any emit.
func (d *Dispatcher) SendText(t Target, body string) (api.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return api.Message{}, errors.EmptyMessage()
	}

	msg := api.Message{
		LocalID:    uuid.NewString(),
		RoomID:     t.RoomID,
		SenderID:   d.user.UserID,
		SenderName: d.user.Username,
		Body:       body,
		Type:       api.MessageText,
		Timestamp:  time.Now(),
	}
	if err := d.conn.Emit(sendEvent(t.Kind), msg); err != nil {
		return api.Message{}, err
	}
	logger.Debug("Chat: sent text %s to room %d", msg.LocalID, t.RoomID)
	return msg, nil
}

// ValidateFile rejects oversized files before the upload request is made.
func ValidateFile(name string, size int64) error {
	if size > MaxFileSize {
		return errors.FileTooLarge(name, size, MaxFileSize)
	}
	return nil
}

// SendFile emits a file message for an already-uploaded attachment and
// returns it for optimistic append. The upload itself goes through the
// REST endpoint first; nothing is emitted or appended when it fails.
func (d *Dispatcher) SendFile(t Target, up api.UploadResult) (api.Message, error) {
	msg := api.Message{
		LocalID:    uuid.NewString(),
		RoomID:     t.RoomID,
		SenderID:   d.user.UserID,
		SenderName: d.user.Username,
		Type:       api.MessageFile,
		Timestamp:  time.Now(),
		Attachment: &api.Attachment{Link: up.Link, Name: up.Name, Size: up.Size},
	}
	if err := d.conn.Emit(sendEvent(t.Kind), msg); err != nil {
		return api.Message{}, err
	}
	logger.Debug("Chat: sent file %s (%s) to room %d", msg.LocalID, up.Name, t.RoomID)
	return msg, nil
}
