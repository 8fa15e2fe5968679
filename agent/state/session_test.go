package state

import (
	"errors"
	"testing"
	"time"

	contractx "github.com/tanpawarit/story-slammer/agent/contract"
)

func TestSessionAppendAndHistory(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("x", 3600))
	s := NewSession("sess-1", "PROJ-5", now)
	if !s.StartedAt.Equal(now) || s.StartedAt.Location() != time.UTC {
		t.Fatalf("unexpected start time: %v", s.StartedAt)
	}

	if err := s.Append(contractx.UserText("hi"), contractx.AssistantText("hello")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d", s.Len())
	}

	history := s.History()
	history[0] = contractx.AssistantText("mutated")
	if got := s.History()[0]; got.Role != contractx.RoleUser {
		t.Fatalf("history copy leaked mutation: %#v", got)
	}

	last, ok := s.Last()
	if !ok || last.Content[0].Text != "hello" {
		t.Fatalf("Last() = %#v, %v", last, ok)
	}
}

func TestNilSession(t *testing.T) {
	t.Parallel()

	var s *Session
	if err := s.Append(contractx.UserText("x")); !errors.Is(err, ErrNilSession) {
		t.Fatalf("expected ErrNilSession, got %v", err)
	}
	if s.Len() != 0 || s.History() != nil {
		t.Fatal("nil session should be empty")
	}
	if _, ok := s.Last(); ok {
		t.Fatal("nil session has no last turn")
	}
}
