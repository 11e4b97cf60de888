package models

import (
	"errors"
	"time"
)

var ErrTeamDuplicatePlayer = errors.New("team players must be two distinct players")

type TeamStats struct {
	Played       int `json:"played"`
	Won          int `json:"won"`
	Lost         int `json:"lost"`
	Points       int `json:"points"`
	SetsFor      int `json:"sets_for"`
	SetsAgainst  int `json:"sets_against"`
	GamesFor     int `json:"games_for"`
	GamesAgainst int `json:"games_against"`
}

// Team is a doubles pair registered in one competition.
type Team struct {
	ID            int       `json:"id"`
	CompetitionID int       `json:"competition_id"`
	Player1ID     string    `json:"player1_id"`
	Player2ID     string    `json:"player2_id"`
	Stats         TeamStats `json:"stats"`
	CreatedAt     time.Time `json:"created_at"`
}

func (t *Team) Validate() error {
	if t.Player1ID == t.Player2ID {
		return ErrTeamDuplicatePlayer
	}
	return nil
}
