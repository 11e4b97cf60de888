package models

import "time"

// DefaultRating is assigned when a player is first rated.
const DefaultRating = 1500

// PlayerRating is created lazily at a player's first rated match and never
// deleted. GamesPlayed only ever increases.
type PlayerRating struct {
	PlayerID    string    `json:"player_id"`
	Rating      int       `json:"rating"`
	GamesPlayed int       `json:"games_played"`
	UpdatedAt   time.Time `json:"updated_at"`
}
