package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestE_BuildsStructuredError(t *testing.T) {
	underlying := stderrors.New("boom")
	err := E(Op("api.Login"), KindNetwork, "request failed", underlying)

	if !Is(err, KindNetwork) {
		t.Error("Is should match the assigned kind")
	}
	if !stderrors.Is(err, underlying) {
		t.Error("underlying error should be reachable via errors.Is")
	}
	msg := err.Error()
	if !strings.Contains(msg, "api.Login") || !strings.Contains(msg, "request failed") {
		t.Errorf("message missing op or context: %q", msg)
	}
}

func TestE_ContextOnlyBecomesError(t *testing.T) {
	err := E(Op("chat.SendText"), KindValidation, "message is empty")
	if err.Error() != "chat.SendText: message is empty" {
		t.Errorf("got %q", err.Error())
	}
}

func TestGetKind(t *testing.T) {
	if got := GetKind(E(KindAuth, "nope")); got != KindAuth {
		t.Errorf("got %v, want KindAuth", got)
	}
	if got := GetKind(stderrors.New("plain")); got != KindUnknown {
		t.Errorf("plain error: got %v, want KindUnknown", got)
	}
}

func TestRequestFailed_KindByStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{401, KindAuth},
		{403, KindAuth},
		{404, KindNetwork},
		{500, KindNetwork},
	}
	for _, tt := range tests {
		err := RequestFailed(Op("api.Groups"), tt.status, "oops")
		if got := GetKind(err); got != tt.want {
			t.Errorf("status %d: got kind %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestValidationConstructors(t *testing.T) {
	if GetKind(EmptyMessage()) != KindValidation {
		t.Error("EmptyMessage should be KindValidation")
	}
	err := FileTooLarge("big.iso", 200, 100)
	if GetKind(err) != KindValidation {
		t.Error("FileTooLarge should be KindValidation")
	}
	if !strings.Contains(err.Error(), "big.iso") {
		t.Errorf("file name missing from message: %q", err.Error())
	}
}
