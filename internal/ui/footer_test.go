package ui

import (
	"strings"
	"testing"
)

func TestFooter_ContextualBindings(t *testing.T) {
	f := NewFooter()
	f.SetWidth(120)

	f.SetContext(false, true, false, false)
	view := f.View()
	if !strings.Contains(view, "new group") || !strings.Contains(view, "join group") {
		t.Errorf("sidebar bindings missing from %q", view)
	}

	f.SetContext(true, false, false, false)
	view = f.View()
	if !strings.Contains(view, "attach file") || !strings.Contains(view, "close chat") {
		t.Errorf("chat bindings missing from %q", view)
	}
	if strings.Contains(view, "new group") {
		t.Error("sidebar bindings should not show while a chat has focus")
	}
}

func TestFooter_HistoryStateIndicators(t *testing.T) {
	f := NewFooter()
	f.SetWidth(120)

	f.SetContext(true, false, true, false)
	if !strings.Contains(f.View(), "loading") {
		t.Error("loading indicator missing")
	}

	f.SetContext(true, false, false, true)
	if !strings.Contains(f.View(), "start of history") {
		t.Error("exhaustion indicator missing")
	}
}

func TestFooter_FlashReplacesBindings(t *testing.T) {
	f := NewFooter()
	f.SetWidth(120)
	f.SetContext(false, true, false, false)

	cmd := f.Flash("File sent", FlashSuccess)
	if cmd == nil {
		t.Fatal("Flash should return the expiry command")
	}
	view := f.View()
	if !strings.Contains(view, "File sent") {
		t.Errorf("flash text missing from %q", view)
	}
	if strings.Contains(view, "new group") {
		t.Error("bindings should be hidden while a flash is showing")
	}
}

func TestFooter_ClearFlashIgnoresStaleExpiry(t *testing.T) {
	f := NewFooter()
	f.SetWidth(120)

	f.Flash("first", FlashInfo)
	staleID := f.flashID
	f.Flash("second", FlashInfo)

	f.ClearFlash(staleID)
	if !strings.Contains(f.View(), "second") {
		t.Error("a stale expiry should not clear a newer flash")
	}

	f.ClearFlash(f.flashID)
	if strings.Contains(f.View(), "second") {
		t.Error("the matching expiry should clear the flash")
	}
}
