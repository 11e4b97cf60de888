package fixtures

import (
	"github.com/Dosada05/club-system/models"
)

// byeTeamID marks the synthetic slot padded in for an odd team count. A
// fixture against the bye is a rest round, never emitted.
const byeTeamID = -1

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// Generate builds a single round-robin using the circle method: the first
// team stays fixed while the remaining ids rotate one position per round
// (last element moved to the front). Every unordered pair meets exactly once
// across n-1 rounds of the padded list.
func (g *RoundRobinGenerator) Generate(params GenerateParams) ([]*models.Fixture, error) {
	teamIDs := make([]int, len(params.TeamIDs))
	copy(teamIDs, params.TeamIDs)

	if len(teamIDs) < 2 {
		return nil, ErrInsufficientTeams
	}
	if len(teamIDs)%2 != 0 {
		teamIDs = append(teamIDs, byeTeamID)
	}

	n := len(teamIDs)
	fixed := teamIDs[0]
	rotating := make([]int, n-1)
	copy(rotating, teamIDs[1:])

	matches := make([]*models.Fixture, 0, n*(n-1)/2)
	for round := 1; round <= n-1; round++ {
		appendFixture(&matches, params.CompetitionID, round, fixed, rotating[0])
		for j := 1; j <= n/2-1; j++ {
			appendFixture(&matches, params.CompetitionID, round, rotating[j], rotating[n-1-j])
		}
		// Rotate: last element to the front.
		last := rotating[len(rotating)-1]
		copy(rotating[1:], rotating[:len(rotating)-1])
		rotating[0] = last
	}

	return matches, nil
}

func appendFixture(matches *[]*models.Fixture, competitionID, round, team1, team2 int) {
	if team1 == byeTeamID || team2 == byeTeamID {
		return
	}
	*matches = append(*matches, &models.Fixture{
		CompetitionID: competitionID,
		Round:         round,
		Team1ID:       team1,
		Team2ID:       team2,
		Status:        models.FixtureStatusScheduled,
	})
}
