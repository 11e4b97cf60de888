package models

import (
	"time"

	"github.com/google/uuid"
)

type ReservationKind string

const (
	ReservationKindStandard    ReservationKind = "standard"
	ReservationKindProvisional ReservationKind = "provisional" // backs an open match
)

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Reservation occupies one court for one interval. For a fixed court, no two
// active reservations may overlap.
type Reservation struct {
	ID        uuid.UUID         `json:"id"`
	CourtID   int               `json:"court_id"`
	Interval  Interval          `json:"interval"`
	Kind      ReservationKind   `json:"kind"`
	Status    ReservationStatus `json:"status"`
	OwnerRef  string            `json:"owner_ref"`
	CreatedAt time.Time         `json:"created_at"`
}

func (r *Reservation) Active() bool {
	return r.Status == ReservationStatusActive
}
