package state

import (
	"errors"
	"time"

	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

var ErrNilSession = errors.New("session is nil")

// Session is the in-memory record of one assistant run. History only grows;
// it is never persisted.
type Session struct {
	ID        string
	Ticket    string
	StartedAt time.Time

	history []contractx.Turn
}

func NewSession(id, ticket string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Ticket:    ticket,
		StartedAt: now.UTC(),
		history:   make([]contractx.Turn, 0, 8),
	}
}

// Append adds turns to the end of the history.
func (s *Session) Append(turns ...contractx.Turn) error {
	if s == nil {
		return ErrNilSession
	}
	s.history = append(s.history, turns...)
	return nil
}

// History returns a copy of the turns so far. Block slices are shared but
// callers must treat them as read-only.
func (s *Session) History() []contractx.Turn {
	if s == nil {
		return nil
	}
	out := make([]contractx.Turn, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return len(s.history)
}

// Last returns the most recent turn.
func (s *Session) Last() (contractx.Turn, bool) {
	if s == nil || len(s.history) == 0 {
		return contractx.Turn{}, false
	}
	return s.history[len(s.history)-1], true
}
