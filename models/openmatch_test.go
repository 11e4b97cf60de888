package models

import (
	"errors"
	"testing"
	"time"
)

func newOpenMatch() *OpenMatch {
	return &OpenMatch{
		CourtID:         1,
		Start:           time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
		DurationMinutes: 90,
		Capacity:        OpenMatchCapacity,
		LevelMin:        2.0,
		LevelMax:        4.0,
		Status:          OpenMatchStatusOpen,
	}
}

func TestOpenMatchAddPlayer(t *testing.T) {
	m := newOpenMatch()

	if err := m.AddPlayer("alice", 3.0); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if m.Status != OpenMatchStatusOpen {
		t.Errorf("status after one player = %s, want open", m.Status)
	}

	if err := m.AddPlayer("alice", 3.0); !errors.Is(err, ErrOpenMatchDuplicatePlayer) {
		t.Errorf("duplicate join: got %v, want ErrOpenMatchDuplicatePlayer", err)
	}
	if err := m.AddPlayer("bob", 4.5); !errors.Is(err, ErrOpenMatchLevelOutOfRange) {
		t.Errorf("level above max: got %v, want ErrOpenMatchLevelOutOfRange", err)
	}
	if err := m.AddPlayer("bob", 1.9); !errors.Is(err, ErrOpenMatchLevelOutOfRange) {
		t.Errorf("level below min: got %v, want ErrOpenMatchLevelOutOfRange", err)
	}

	// Boundary levels are inclusive.
	if err := m.AddPlayer("bob", 2.0); err != nil {
		t.Errorf("level at min: %v", err)
	}
	if err := m.AddPlayer("carol", 4.0); err != nil {
		t.Errorf("level at max: %v", err)
	}
}

func TestOpenMatchFullExactlyAtCapacity(t *testing.T) {
	m := newOpenMatch()
	players := []string{"p1", "p2", "p3", "p4"}

	for i, p := range players {
		if err := m.AddPlayer(p, 3.0); err != nil {
			t.Fatalf("AddPlayer(%s): %v", p, err)
		}
		wantFull := i == len(players)-1
		gotFull := m.Status == OpenMatchStatusFull
		if gotFull != wantFull {
			t.Errorf("after %d players status = %s", i+1, m.Status)
		}
	}

	if err := m.AddPlayer("p5", 3.0); !errors.Is(err, ErrOpenMatchCapacityExceeded) {
		t.Errorf("fifth join: got %v, want ErrOpenMatchCapacityExceeded", err)
	}
}

func TestOpenMatchLeaveReopensFullMatch(t *testing.T) {
	m := newOpenMatch()
	for _, p := range []string{"p1", "p2", "p3", "p4"} {
		if err := m.AddPlayer(p, 3.0); err != nil {
			t.Fatalf("AddPlayer(%s): %v", p, err)
		}
	}

	if err := m.RemovePlayer("p2"); err != nil {
		t.Fatalf("RemovePlayer: %v", err)
	}
	if m.Status != OpenMatchStatusOpen {
		t.Errorf("status after leave = %s, want open", m.Status)
	}
	if len(m.Players) != 3 {
		t.Errorf("roster size = %d, want 3", len(m.Players))
	}

	if err := m.RemovePlayer("p2"); !errors.Is(err, ErrOpenMatchPlayerNotJoined) {
		t.Errorf("second leave: got %v, want ErrOpenMatchPlayerNotJoined", err)
	}
}

func TestOpenMatchAddPlayerTerminalStates(t *testing.T) {
	for _, status := range []OpenMatchStatus{OpenMatchStatusConsumed, OpenMatchStatusCancelled} {
		m := newOpenMatch()
		m.Status = status
		if err := m.AddPlayer("late", 3.0); !errors.Is(err, ErrOpenMatchNotJoinable) {
			t.Errorf("join while %s: got %v, want ErrOpenMatchNotJoinable", status, err)
		}
	}
}

func TestOpenMatchInterval(t *testing.T) {
	m := newOpenMatch()
	got := m.Interval()
	if !got.Start.Equal(m.Start) {
		t.Errorf("interval start = %v", got.Start)
	}
	if want := m.Start.Add(90 * time.Minute); !got.End.Equal(want) {
		t.Errorf("interval end = %v, want %v", got.End, want)
	}
}

func TestIsValidOpenMatchTransition(t *testing.T) {
	tests := []struct {
		current, next OpenMatchStatus
		want          bool
	}{
		{OpenMatchStatusOpen, OpenMatchStatusFull, true},
		{OpenMatchStatusOpen, OpenMatchStatusCancelled, true},
		{OpenMatchStatusOpen, OpenMatchStatusConsumed, false},
		{OpenMatchStatusFull, OpenMatchStatusOpen, true},
		{OpenMatchStatusFull, OpenMatchStatusConsumed, true},
		{OpenMatchStatusFull, OpenMatchStatusCancelled, true},
		{OpenMatchStatusConsumed, OpenMatchStatusOpen, false},
		{OpenMatchStatusConsumed, OpenMatchStatusCancelled, false},
		{OpenMatchStatusCancelled, OpenMatchStatusOpen, false},
		{OpenMatchStatusCancelled, OpenMatchStatusCancelled, true},
	}

	for _, tt := range tests {
		if got := IsValidOpenMatchTransition(tt.current, tt.next); got != tt.want {
			t.Errorf("IsValidOpenMatchTransition(%s, %s) = %v, want %v", tt.current, tt.next, got, tt.want)
		}
	}
}
