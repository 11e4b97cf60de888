package models

import "github.com/google/uuid"

// Block is the tagged union of things occupying a court timeline. The
// isBlock marker keeps the set of variants closed to this package.
type Block interface {
	BlockInterval() Interval
	isBlock()
}

// ReservedBlock is a direct member booking on the timeline.
type ReservedBlock struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	Interval      Interval  `json:"interval"`
	OwnerRef      string    `json:"owner_ref"`
}

func (b ReservedBlock) BlockInterval() Interval { return b.Interval }
func (b ReservedBlock) isBlock()                {}

// OpenMatchBlock is a joinable pooled slot backed by a provisional reservation.
type OpenMatchBlock struct {
	OpenMatchID   uuid.UUID       `json:"open_match_id"`
	ReservationID uuid.UUID       `json:"reservation_id"`
	Interval      Interval        `json:"interval"`
	Joined        int             `json:"joined"`
	Capacity      int             `json:"capacity"`
	LevelMin      float64         `json:"level_min"`
	LevelMax      float64         `json:"level_max"`
	Status        OpenMatchStatus `json:"status"`
}

func (b OpenMatchBlock) BlockInterval() Interval { return b.Interval }
func (b OpenMatchBlock) isBlock()                {}
