package chat

import "sync"

// Session is the single source of truth for one conversation: an
// append-only message log, a busy flag covering the outstanding
// round-trip, and a terminal connection error. It is safe for use from
// the turn controller and a rendering collaborator concurrently.
type Session struct {
	mu       sync.RWMutex
	messages []Message
	busy     bool
	connErr  string
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Append(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Messages returns a copy of the log; mutating the returned slice does
// not affect the session.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Groups projects the current log into consecutive same-role groups.
func (s *Session) Groups() []Group {
	return GroupMessages(s.Messages())
}

func (s *Session) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

// TryBeginTurn marks the session busy. It reports false when a turn is
// already in flight, so at most one round-trip is outstanding at a time.
func (s *Session) TryBeginTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *Session) EndTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// FailConnection records a terminal configuration failure. The first
// reason sticks; the session stays non-interactive until recreated.
func (s *Session) FailConnection(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connErr == "" {
		s.connErr = reason
	}
}

func (s *Session) ConnectionError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connErr
}
