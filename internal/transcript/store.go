// Package transcript keeps the ordered, append-only log of a conversation.
package transcript

import (
	"sync"
	"time"
)

// AppendHook is notified once for every appended message, after it is stored.
// The presentation layer uses it to scroll to the latest message
type AppendHook func(Message)

// Store is an append-only, in-memory log of messages. There is no way to delete
// or edit a message once appended
type Store struct {
	mu       sync.RWMutex
	messages []Message
	nextID   uint64
	now      func() time.Time
	hooks    []AppendHook
}

// Option customizes a Store
type Option func(*Store)

// WithClock overrides the clock used for CreatedAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty transcript
func NewStore(opts ...Option) *Store {
	s := &Store{
		nextID: 1,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnAppend registers a hook fired exactly once per Append
func (s *Store) OnAppend(hook AppendHook) {
	if hook == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Append stores a copy of msg with the next ID and returns the stored copy.
// Any ID set by the caller is ignored; a zero CreatedAt is filled in
func (s *Store) Append(msg Message) Message {
	s.mu.Lock()
	stored := msg.clone()
	stored.ID = s.nextID
	s.nextID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now()
	}
	s.messages = append(s.messages, stored)
	hooks := s.hooks
	s.mu.Unlock()

	// Hooks run outside the lock so they may read the store
	for _, hook := range hooks {
		hook(stored.clone())
	}

	return stored.clone()
}

// All returns a snapshot of every message in append order
func (s *Store) All() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.clone()
	}
	return out
}

// Get returns a copy of the message with the given ID
func (s *Store) Get(id uint64) (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// IDs are dense and start at 1
	if id == 0 || id > uint64(len(s.messages)) {
		return Message{}, false
	}
	return s.messages[id-1].clone(), true
}

// Last returns the most recent message
func (s *Store) Last() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1].clone(), true
}

// Len is the number of stored messages
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
