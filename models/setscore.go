package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrSetScoreMalformed = errors.New("malformed set score")
	ErrSetScoreEmpty     = errors.New("at least one set score is required")
	ErrSetScoreNoWinner  = errors.New("set scores do not produce a winner")
)

// SetScore is the games won by each team in a single set.
type SetScore struct {
	Team1Games int `json:"team1_games"`
	Team2Games int `json:"team2_games"`
}

type SetScores []SetScore

// ParseSetScores parses the wire form "6-4,3-6,7-5". Validation happens here,
// once, at the boundary; the rest of the system works with the structured value.
func ParseSetScores(raw string) (SetScores, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrSetScoreEmpty
	}
	parts := strings.Split(raw, ",")
	scores := make(SetScores, 0, len(parts))
	for _, part := range parts {
		fields := strings.Split(strings.TrimSpace(part), "-")
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrSetScoreMalformed, part)
		}
		g1, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrSetScoreMalformed, part)
		}
		g2, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrSetScoreMalformed, part)
		}
		if g1 < 0 || g2 < 0 {
			return nil, fmt.Errorf("%w: negative games in %q", ErrSetScoreMalformed, part)
		}
		if g1 == g2 {
			return nil, fmt.Errorf("%w: drawn set %q", ErrSetScoreMalformed, part)
		}
		scores = append(scores, SetScore{Team1Games: g1, Team2Games: g2})
	}
	if _, err := scores.Winner(); err != nil {
		return nil, err
	}
	return scores, nil
}

// Winner returns 1 or 2 for the team taking the majority of sets.
func (s SetScores) Winner() (int, error) {
	if len(s) == 0 {
		return 0, ErrSetScoreEmpty
	}
	var sets1, sets2 int
	for _, set := range s {
		if set.Team1Games > set.Team2Games {
			sets1++
		} else {
			sets2++
		}
	}
	switch {
	case sets1 > sets2:
		return 1, nil
	case sets2 > sets1:
		return 2, nil
	default:
		return 0, ErrSetScoreNoWinner
	}
}

// TotalGames sums games for each team across all sets.
func (s SetScores) TotalGames() (team1, team2 int) {
	for _, set := range s {
		team1 += set.Team1Games
		team2 += set.Team2Games
	}
	return team1, team2
}

// SetsWon counts sets taken by each team.
func (s SetScores) SetsWon() (team1, team2 int) {
	for _, set := range s {
		if set.Team1Games > set.Team2Games {
			team1++
		} else {
			team2++
		}
	}
	return team1, team2
}

func (s SetScores) String() string {
	parts := make([]string, len(s))
	for i, set := range s {
		parts[i] = fmt.Sprintf("%d-%d", set.Team1Games, set.Team2Games)
	}
	return strings.Join(parts, ",")
}
