package chat

import "testing"

func TestCursor_AdvanceIncrements(t *testing.T) {
	var c Cursor

	for want := 0; want < 3; want++ {
		page, ok := c.Advance()
		if !ok {
			t.Fatalf("Advance %d returned ok=false", want)
		}
		if page != want {
			t.Errorf("got page %d, want %d", page, want)
		}
	}
}

func TestCursor_Exhausted(t *testing.T) {
	var c Cursor
	c.Advance()
	c.MarkExhausted()

	if !c.Exhausted() {
		t.Error("Exhausted() should report true")
	}
	if _, ok := c.Advance(); ok {
		t.Error("Advance after exhaustion should return false")
	}
}

func TestCursor_ResetClearsExhaustion(t *testing.T) {
	var c Cursor
	c.Advance()
	c.Advance()
	c.MarkExhausted()

	c.Reset()
	if c.Exhausted() {
		t.Error("Reset should clear exhaustion")
	}
	page, ok := c.Advance()
	if !ok || page != 0 {
		t.Errorf("got (%d, %v), want (0, true)", page, ok)
	}
}
