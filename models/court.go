package models

import "time"

type Club struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Court belongs to exactly one club; all reservation conflict checks are
// scoped to a single court.
type Court struct {
	ID        int       `json:"id"`
	ClubID    int       `json:"club_id"`
	Name      string    `json:"name"`
	Indoor    bool      `json:"indoor"`
	CreatedAt time.Time `json:"created_at"`
}
