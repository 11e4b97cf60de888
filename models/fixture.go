package models

import "time"

type FixtureStatus string

const (
	FixtureStatusScheduled FixtureStatus = "scheduled"
	FixtureStatusCompleted FixtureStatus = "completed"
)

// Fixture is one round-robin pairing. Identity is immutable once generated;
// Result and WinnerTeamID are written exactly once when the match is graded.
type Fixture struct {
	ID            int           `json:"id"`
	CompetitionID int           `json:"competition_id"`
	Round         int           `json:"round"`
	Team1ID       int           `json:"team1_id"`
	Team2ID       int           `json:"team2_id"`
	Result        SetScores     `json:"result,omitempty"`
	WinnerTeamID  *int          `json:"winner_team_id,omitempty"`
	Status        FixtureStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

func (f *Fixture) Graded() bool {
	return f.Status == FixtureStatusCompleted
}
