package models

import (
	"errors"
	"testing"
)

func TestParseSetScores(t *testing.T) {
	scores, err := ParseSetScores("6-4,3-6,7-5")
	if err != nil {
		t.Fatalf("ParseSetScores: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("got %d sets, want 3", len(scores))
	}
	if scores[1] != (SetScore{Team1Games: 3, Team2Games: 6}) {
		t.Errorf("second set = %+v", scores[1])
	}
	if scores.String() != "6-4,3-6,7-5" {
		t.Errorf("round trip = %q", scores.String())
	}
}

func TestParseSetScoresTrimsWhitespace(t *testing.T) {
	scores, err := ParseSetScores(" 6-4 , 6-2 ")
	if err != nil {
		t.Fatalf("ParseSetScores: %v", err)
	}
	if len(scores) != 2 {
		t.Errorf("got %d sets, want 2", len(scores))
	}
}

func TestParseSetScoresRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty", "", ErrSetScoreEmpty},
		{"blank", "   ", ErrSetScoreEmpty},
		{"missing side", "6-", ErrSetScoreMalformed},
		{"not a number", "six-4", ErrSetScoreMalformed},
		{"three fields", "6-4-2", ErrSetScoreMalformed},
		{"negative games", "6--4", ErrSetScoreMalformed},
		{"drawn set", "6-6", ErrSetScoreMalformed},
		{"even split", "6-4,4-6", ErrSetScoreNoWinner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSetScores(tt.raw); !errors.Is(err, tt.want) {
				t.Errorf("ParseSetScores(%q) = %v, want %v", tt.raw, err, tt.want)
			}
		})
	}
}

func TestSetScoresWinner(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"6-4,6-2", 1},
		{"4-6,2-6", 2},
		{"6-4,3-6,7-5", 1},
		{"4-6,6-3,4-6", 2},
	}

	for _, tt := range tests {
		scores, err := ParseSetScores(tt.raw)
		if err != nil {
			t.Fatalf("ParseSetScores(%q): %v", tt.raw, err)
		}
		winner, err := scores.Winner()
		if err != nil {
			t.Fatalf("Winner(%q): %v", tt.raw, err)
		}
		if winner != tt.want {
			t.Errorf("Winner(%q) = %d, want %d", tt.raw, winner, tt.want)
		}
	}
}

func TestSetScoresTotals(t *testing.T) {
	scores, err := ParseSetScores("6-4,3-6,7-5")
	if err != nil {
		t.Fatalf("ParseSetScores: %v", err)
	}

	g1, g2 := scores.TotalGames()
	if g1 != 16 || g2 != 15 {
		t.Errorf("TotalGames = %d, %d, want 16, 15", g1, g2)
	}

	s1, s2 := scores.SetsWon()
	if s1 != 2 || s2 != 1 {
		t.Errorf("SetsWon = %d, %d, want 2, 1", s1, s2)
	}
}
