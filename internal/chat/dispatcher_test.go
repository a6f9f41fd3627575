package chat

import (
	"testing"

	"github.com/ayoubkh/campuschat/internal/api"
	"github.com/ayoubkh/campuschat/internal/errors"
	"github.com/ayoubkh/campuschat/internal/realtime"
)

func TestDispatcher_SendTextTrims(t *testing.T) {
	conn := newFakeEmitter()
	d := NewDispatcher(conn, testUser())

	msg, err := d.SendText(testGroup(5), "  hello there  ")
	if err != nil {
		t.Fatalf("SendText returned error: %v", err)
	}
	if msg.Body != "hello there" {
		t.Errorf("got body %q, want trimmed", msg.Body)
	}
	if msg.RoomID != 5 || msg.SenderID != 42 {
		t.Errorf("message = %+v", msg)
	}
	if msg.LocalID == "" {
		t.Error("outbound message should carry a local id")
	}
	if len(conn.emits) != 1 || conn.emits[0].event != realtime.EventSendMessage {
		t.Errorf("got emits %v, want one sendMessage", conn.events())
	}
}

func TestDispatcher_SendTextRejectsWhitespaceOnly(t *testing.T) {
	conn := newFakeEmitter()
	d := NewDispatcher(conn, testUser())

	_, err := d.SendText(testGroup(5), "   \n\t  ")
	if err == nil {
		t.Fatal("whitespace-only input should be rejected")
	}
	if errors.GetKind(err) != errors.KindValidation {
		t.Errorf("got kind %v, want KindValidation", errors.GetKind(err))
	}
	if len(conn.emits) != 0 {
		t.Error("nothing should be emitted for rejected input")
	}
}

func TestDispatcher_SendTextDirectUsesDMEvent(t *testing.T) {
	conn := newFakeEmitter()
	d := NewDispatcher(conn, testUser())

	if _, err := d.SendText(testDirect(9), "hi"); err != nil {
		t.Fatalf("SendText returned error: %v", err)
	}
	if conn.emits[0].event != realtime.EventSendDM {
		t.Errorf("got event %q, want %q", conn.emits[0].event, realtime.EventSendDM)
	}
}

func TestDispatcher_SendFile(t *testing.T) {
	conn := newFakeEmitter()
	d := NewDispatcher(conn, testUser())

	up := api.UploadResult{Link: "/files/notes.pdf", Name: "notes.pdf", Size: 2048}
	msg, err := d.SendFile(testGroup(5), up)
	if err != nil {
		t.Fatalf("SendFile returned error: %v", err)
	}
	if msg.Type != api.MessageFile {
		t.Errorf("got type %q, want file", msg.Type)
	}
	if msg.Attachment == nil || msg.Attachment.Name != "notes.pdf" {
		t.Errorf("attachment = %+v", msg.Attachment)
	}
	if len(conn.emits) != 1 {
		t.Errorf("got %d emits, want 1", len(conn.emits))
	}
}

func TestValidateFile(t *testing.T) {
	if err := ValidateFile("ok.bin", MaxFileSize); err != nil {
		t.Errorf("file at the ceiling should be accepted: %v", err)
	}
	err := ValidateFile("big.bin", MaxFileSize+1)
	if err == nil {
		t.Fatal("oversized file should be rejected")
	}
	if errors.GetKind(err) != errors.KindValidation {
		t.Errorf("got kind %v, want KindValidation", errors.GetKind(err))
	}
}
