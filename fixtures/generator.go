package fixtures

import (
	"errors"

	"github.com/Dosada05/club-system/models"
)

var ErrInsufficientTeams = errors.New("at least 2 teams are required to generate fixtures")

type GenerateParams struct {
	CompetitionID int
	TeamIDs       []int
}

type Generator interface {
	Generate(params GenerateParams) ([]*models.Fixture, error)

	Name() string
}
