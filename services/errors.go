package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Expected, recoverable outcomes. Services return these as typed results;
// only infrastructure failures surface as wrapped unexpected errors.
var (
	// Booking
	ErrInvalidInterval     = errors.New("invalid reservation interval")
	ErrSlotConflict        = errors.New("slot conflicts with an existing reservation")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrCourtNotFound       = errors.New("court not found")
	ErrStaleState          = errors.New("state changed concurrently, retry the operation")
	ErrRateLimited         = errors.New("too many booking attempts, slow down")

	// Open matches
	ErrOpenMatchNotFound = errors.New("open match not found")
	ErrCapacityExceeded  = errors.New("open match is already at capacity")
	ErrDuplicatePlayer   = errors.New("player already present")
	ErrPlayerNotJoined   = errors.New("player has not joined this open match")
	ErrLevelOutOfRange   = errors.New("player level outside the allowed range")

	// Competitions
	ErrInsufficientTeams    = errors.New("not enough teams to generate fixtures")
	ErrFixtureNotFound      = errors.New("fixture not found")
	ErrFixtureAlreadyGraded = errors.New("fixture result has already been recorded")
	ErrTeamNotFound         = errors.New("team not found")

	// Access
	ErrForbiddenOperation = errors.New("operation not allowed for the current role")
)

// SlotConflictError carries the identity of the colliding reservation so the
// caller can present it. errors.Is(err, ErrSlotConflict) matches it.
type SlotConflictError struct {
	ConflictingID uuid.UUID
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot conflicts with reservation %s", e.ConflictingID)
}

func (e *SlotConflictError) Is(target error) bool {
	return target == ErrSlotConflict
}
