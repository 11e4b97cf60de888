package ratings

import (
	"math"
	"testing"
)

func TestExpectedScore(t *testing.T) {
	tests := []struct {
		name   string
		rA, rB float64
		want   float64
	}{
		{"equal ratings", 1500, 1500, 0.5},
		{"400 points ahead", 1900, 1500, 10.0 / 11.0},
		{"400 points behind", 1500, 1900, 1.0 / 11.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpectedScore(tt.rA, tt.rB)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ExpectedScore(%v, %v) = %v, want %v", tt.rA, tt.rB, got, tt.want)
			}
		})
	}
}

func TestExpectedScoreComplement(t *testing.T) {
	for _, pairing := range [][2]float64{{1500, 1500}, {1620, 1480}, {900, 2100}} {
		a, b := pairing[0], pairing[1]
		sum := ExpectedScore(a, b) + ExpectedScore(b, a)
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("expectations for %v vs %v sum to %v, want 1", a, b, sum)
		}
	}
}

func TestKFactor(t *testing.T) {
	tests := []struct {
		gamesPlayed int
		want        float64
	}{
		{0, 32},
		{29, 32},
		{30, 24},
		{99, 24},
		{100, 16},
		{500, 16},
	}

	for _, tt := range tests {
		if got := KFactor(tt.gamesPlayed); got != tt.want {
			t.Errorf("KFactor(%d) = %v, want %v", tt.gamesPlayed, got, tt.want)
		}
	}
}

func TestUpdatePairEqualRatings(t *testing.T) {
	newA, newB := UpdatePair(1500, 1500, 1, 0, 0, 0)
	if newA != 1516 {
		t.Errorf("winner: got %d, want 1516", newA)
	}
	if newB != 1484 {
		t.Errorf("loser: got %d, want 1484", newB)
	}
}

func TestUpdateDoublesMatchSymmetricGainLoss(t *testing.T) {
	team1 := [2]PlayerState{{Rating: 1500, GamesPlayed: 0}, {Rating: 1500, GamesPlayed: 0}}
	team2 := [2]PlayerState{{Rating: 1500, GamesPlayed: 0}, {Rating: 1500, GamesPlayed: 0}}

	result := UpdateDoublesMatch(team1, team2, 1)

	for i, update := range result.Team1 {
		if update.Rating != 1516 {
			t.Errorf("winner %d: got %d, want 1516", i, update.Rating)
		}
	}
	for i, update := range result.Team2 {
		if update.Rating != 1484 {
			t.Errorf("loser %d: got %d, want 1484", i, update.Rating)
		}
	}
}

func TestUpdateDoublesMatchUsesOpposingAverage(t *testing.T) {
	// Opponents average 1500 regardless of the split; a 1500 player's update
	// must be identical in both cases.
	balanced := [2]PlayerState{{Rating: 1500, GamesPlayed: 0}, {Rating: 1500, GamesPlayed: 0}}
	lopsided := [2]PlayerState{{Rating: 1800, GamesPlayed: 0}, {Rating: 1200, GamesPlayed: 0}}
	me := [2]PlayerState{{Rating: 1500, GamesPlayed: 0}, {Rating: 1500, GamesPlayed: 0}}

	vsBalanced := UpdateDoublesMatch(me, balanced, 1)
	vsLopsided := UpdateDoublesMatch(me, lopsided, 1)

	if vsBalanced.Team1[0].Rating != vsLopsided.Team1[0].Rating {
		t.Errorf("update differs by opponent split: %d vs %d",
			vsBalanced.Team1[0].Rating, vsLopsided.Team1[0].Rating)
	}
}

func TestUpdateDoublesMatchOpponentGamesIrrelevant(t *testing.T) {
	me := [2]PlayerState{{Rating: 1500, GamesPlayed: 10}, {Rating: 1500, GamesPlayed: 10}}
	freshOpponents := [2]PlayerState{{Rating: 1550, GamesPlayed: 0}, {Rating: 1450, GamesPlayed: 0}}
	veteranOpponents := [2]PlayerState{{Rating: 1550, GamesPlayed: 400}, {Rating: 1450, GamesPlayed: 400}}

	a := UpdateDoublesMatch(me, freshOpponents, 1)
	b := UpdateDoublesMatch(me, veteranOpponents, 1)

	if a.Team1[0].Rating != b.Team1[0].Rating || a.Team1[1].Rating != b.Team1[1].Rating {
		t.Error("a player's update must not depend on the opposing side's games played")
	}
}

func TestUpdateDoublesMatchIncrementsGamesPlayed(t *testing.T) {
	team1 := [2]PlayerState{{Rating: 1500, GamesPlayed: 0}, {Rating: 1510, GamesPlayed: 31}}
	team2 := [2]PlayerState{{Rating: 1490, GamesPlayed: 99}, {Rating: 1505, GamesPlayed: 100}}

	result := UpdateDoublesMatch(team1, team2, 2)

	wantGames := []int{1, 32, 100, 101}
	gotGames := []int{
		result.Team1[0].GamesPlayed, result.Team1[1].GamesPlayed,
		result.Team2[0].GamesPlayed, result.Team2[1].GamesPlayed,
	}
	for i := range wantGames {
		if gotGames[i] != wantGames[i] {
			t.Errorf("player %d games played = %d, want %d", i, gotGames[i], wantGames[i])
		}
	}
}

func TestUpdateDoublesMatchAllowsNegativeRatings(t *testing.T) {
	lowTeam := [2]PlayerState{{Rating: 5, GamesPlayed: 0}, {Rating: 5, GamesPlayed: 0}}
	highTeam := [2]PlayerState{{Rating: 5, GamesPlayed: 0}, {Rating: 5, GamesPlayed: 0}}

	result := UpdateDoublesMatch(lowTeam, highTeam, 2)

	for _, update := range result.Team1 {
		if update.Rating >= 5 {
			t.Errorf("loser rating should drop, got %d", update.Rating)
		}
		if update.Rating > -10 {
			t.Errorf("no floor expected: got %d, want 5-16 = -11", update.Rating)
		}
	}
}
