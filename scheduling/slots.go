// Package scheduling holds the pure court-slot admission logic. It has no
// side effects and is safe to call concurrently against an immutable
// snapshot of a court's intervals.
package scheduling

import (
	"github.com/Dosada05/club-system/models"
)

// Overlaps reports whether two half-open intervals share at least one
// instant. Back-to-back intervals (a.End == b.Start) do not overlap.
func Overlaps(a, b models.Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// FirstConflict validates the candidate and returns the index of the first
// existing interval it overlaps, or -1 if the slot is free. A malformed
// candidate is rejected up front, never treated as non-conflicting.
func FirstConflict(candidate models.Interval, existing []models.Interval) (int, error) {
	if err := candidate.Validate(); err != nil {
		return -1, err
	}
	for i, iv := range existing {
		if Overlaps(candidate, iv) {
			return i, nil
		}
	}
	return -1, nil
}
