package chat

// Cursor tracks pagination progress for historical message loads as a
// single zero-based page index. Page 0 is the initial load; every older
// page is the next index. The counter advances before the fetch resolves
// so concurrent load-more requests never refetch the same page; the cost
// is that a failed fetch permanently skips its page.
type Cursor struct {
	next      int
	exhausted bool
}

// Reset returns the cursor to the beginning, typically on chat switch.
func (c *Cursor) Reset() {
	c.next = 0
	c.exhausted = false
}

// Advance hands out the next page index to fetch and increments the
// counter (increment-then-fetch). Returns false when history is exhausted.
func (c *Cursor) Advance() (int, bool) {
	if c.exhausted {
		return 0, false
	}
	page := c.next
	c.next++
	return page, true
}

// MarkExhausted records that the server returned an empty page; no further
// loads are offered until the cursor is reset.
func (c *Cursor) MarkExhausted() {
	c.exhausted = true
}

// Exhausted reports whether all history has been loaded.
func (c *Cursor) Exhausted() bool {
	return c.exhausted
}

// Next returns the page index the next Advance would hand out.
func (c *Cursor) Next() int {
	return c.next
}
