// Package upload validates documents, sends them for extraction and holds the
// single pending extracted context until a turn consumes it.
package upload

import "sync"

// Context is the extracted content of one uploaded file
type Context struct {
	DisplayName    string
	ExtractedText  string
	CharacterCount int
}

// Ticket identifies one Set so a turn can consume exactly the context it read
type Ticket uint64

// Holder keeps at most one pending Context. Set, Consume and Discard are atomic
// with respect to each other
type Holder struct {
	mu      sync.Mutex
	pending *Context
	ticket  Ticket
}

// NewHolder creates an empty holder
func NewHolder() *Holder {
	return &Holder{}
}

// Set replaces any pending context (last set wins) and returns its ticket
func (h *Holder) Set(c Context) Ticket {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ticket++
	h.pending = &c
	return h.ticket
}

// Get peeks at the pending context without consuming it
func (h *Holder) Get() (Context, bool) {
	c, _, ok := h.Peek()
	return c, ok
}

// Peek returns the pending context together with its ticket
func (h *Holder) Peek() (Context, Ticket, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending == nil {
		return Context{}, 0, false
	}
	return *h.pending, h.ticket, true
}

// Consume returns and clears the pending context
func (h *Holder) Consume() (Context, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending == nil {
		return Context{}, false
	}
	c := *h.pending
	h.pending = nil
	return c, true
}

// ConsumeTicket clears the pending context only if it is still the one identified
// by t. It reports whether anything was consumed; a context discarded or replaced
// in the meantime is left alone
func (h *Holder) ConsumeTicket(t Ticket) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending == nil || h.ticket != t {
		return false
	}
	h.pending = nil
	return true
}

// Discard drops the pending context without consuming it and reports whether
// there was one
func (h *Holder) Discard() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	had := h.pending != nil
	h.pending = nil
	return had
}
