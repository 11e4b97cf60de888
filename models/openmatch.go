package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const OpenMatchCapacity = 4

type OpenMatchStatus string

const (
	OpenMatchStatusOpen      OpenMatchStatus = "open"
	OpenMatchStatusFull      OpenMatchStatus = "full"
	OpenMatchStatusConsumed  OpenMatchStatus = "consumed"
	OpenMatchStatusCancelled OpenMatchStatus = "cancelled"
)

var (
	ErrOpenMatchCapacityExceeded = errors.New("open match is already at capacity")
	ErrOpenMatchDuplicatePlayer  = errors.New("player already joined this open match")
	ErrOpenMatchPlayerNotJoined  = errors.New("player has not joined this open match")
	ErrOpenMatchLevelOutOfRange  = errors.New("player level outside the open match range")
	ErrOpenMatchNotJoinable      = errors.New("open match is not accepting players")
)

// OpenMatch is a pooled booking: it owns exactly one provisional reservation
// covering [Start, Start+Duration).
type OpenMatch struct {
	ID              uuid.UUID       `json:"id"`
	CourtID         int             `json:"court_id"`
	ReservationID   uuid.UUID       `json:"reservation_id"`
	Start           time.Time       `json:"start"`
	DurationMinutes int             `json:"duration_minutes"`
	Capacity        int             `json:"capacity"`
	Players         []string        `json:"players"`
	LevelMin        float64         `json:"level_min"`
	LevelMax        float64         `json:"level_max"`
	Status          OpenMatchStatus `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (m *OpenMatch) Interval() Interval {
	return Interval{
		Start: m.Start,
		End:   m.Start.Add(time.Duration(m.DurationMinutes) * time.Minute),
	}
}

// AddPlayer mutates the roster and recomputes the OPEN/FULL status.
func (m *OpenMatch) AddPlayer(playerID string, level float64) error {
	if m.Status != OpenMatchStatusOpen {
		if m.Status == OpenMatchStatusFull {
			return ErrOpenMatchCapacityExceeded
		}
		return ErrOpenMatchNotJoinable
	}
	if len(m.Players) >= m.Capacity {
		return ErrOpenMatchCapacityExceeded
	}
	for _, p := range m.Players {
		if p == playerID {
			return ErrOpenMatchDuplicatePlayer
		}
	}
	if level < m.LevelMin || level > m.LevelMax {
		return ErrOpenMatchLevelOutOfRange
	}
	m.Players = append(m.Players, playerID)
	m.recomputeStatus()
	return nil
}

func (m *OpenMatch) RemovePlayer(playerID string) error {
	for i, p := range m.Players {
		if p == playerID {
			m.Players = append(m.Players[:i], m.Players[i+1:]...)
			if m.Status == OpenMatchStatusFull {
				m.Status = OpenMatchStatusOpen
			}
			return nil
		}
	}
	return ErrOpenMatchPlayerNotJoined
}

// recomputeStatus keeps the invariant: FULL iff |Players| == Capacity.
func (m *OpenMatch) recomputeStatus() {
	if m.Status != OpenMatchStatusOpen && m.Status != OpenMatchStatusFull {
		return
	}
	if len(m.Players) == m.Capacity {
		m.Status = OpenMatchStatusFull
	} else {
		m.Status = OpenMatchStatusOpen
	}
}

func IsValidOpenMatchTransition(current, next OpenMatchStatus) bool {
	if current == next {
		return true
	}
	allowed := map[OpenMatchStatus][]OpenMatchStatus{
		OpenMatchStatusOpen:      {OpenMatchStatusFull, OpenMatchStatusCancelled},
		OpenMatchStatusFull:      {OpenMatchStatusOpen, OpenMatchStatusConsumed, OpenMatchStatusCancelled},
		OpenMatchStatusConsumed:  {},
		OpenMatchStatusCancelled: {},
	}
	for _, s := range allowed[current] {
		if s == next {
			return true
		}
	}
	return false
}
