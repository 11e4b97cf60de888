// Package ratings implements the doubles ELO engine. Every function is pure:
// given current ratings and an outcome it computes new ratings without
// touching storage, so it is safe to call from any number of workers.
package ratings

import "math"

// PlayerState is one player's rating inputs before a match.
type PlayerState struct {
	Rating      int
	GamesPlayed int
}

// PlayerUpdate is the engine's output for one player.
type PlayerUpdate struct {
	Rating      int
	GamesPlayed int
}

// DoublesResult carries the four independent per-player updates.
type DoublesResult struct {
	Team1 [2]PlayerUpdate
	Team2 [2]PlayerUpdate
}

// ExpectedScore is the standard ELO win expectancy of a player rated rA
// against an opponent rated rB.
func ExpectedScore(rA, rB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (rB-rA)/400.0))
}

// KFactor widens rating movement for newer players.
func KFactor(gamesPlayed int) float64 {
	switch {
	case gamesPlayed < 30:
		return 32
	case gamesPlayed < 100:
		return 24
	default:
		return 16
	}
}

// UpdatePair computes both players' new integer ratings for one head-to-head
// outcome. score is 1 for a win and 0 for a loss; draws are not modeled.
func UpdatePair(rA, rB float64, scoreA, scoreB float64, gamesA, gamesB int) (int, int) {
	newRA := updateOne(rA, rB, scoreA, gamesA)
	newRB := updateOne(rB, rA, scoreB, gamesB)
	return newRA, newRB
}

func updateOne(r, opponent, score float64, gamesPlayed int) int {
	expected := ExpectedScore(r, opponent)
	return int(math.Round(r + KFactor(gamesPlayed)*(score-expected)))
}

// UpdateDoublesMatch rates each of the four players individually against the
// opposing pair's average rating. winner is 1 or 2. The four updates depend
// only on the player's own state, the opposing average, and the outcome;
// none of them feeds into another. No floor is applied, so ratings can go
// negative.
func UpdateDoublesMatch(team1, team2 [2]PlayerState, winner int) DoublesResult {
	avg1 := (float64(team1[0].Rating) + float64(team1[1].Rating)) / 2
	avg2 := (float64(team2[0].Rating) + float64(team2[1].Rating)) / 2

	score1, score2 := 0.0, 1.0
	if winner == 1 {
		score1, score2 = 1.0, 0.0
	}

	var result DoublesResult
	for i, p := range team1 {
		result.Team1[i] = PlayerUpdate{
			Rating:      updateOne(float64(p.Rating), avg2, score1, p.GamesPlayed),
			GamesPlayed: p.GamesPlayed + 1,
		}
	}
	for i, p := range team2 {
		result.Team2[i] = PlayerUpdate{
			Rating:      updateOne(float64(p.Rating), avg1, score2, p.GamesPlayed),
			GamesPlayed: p.GamesPlayed + 1,
		}
	}
	return result
}
