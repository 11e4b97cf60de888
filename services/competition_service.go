package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Dosada05/club-system/fixtures"
	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/ratings"
	"github.com/Dosada05/club-system/repositories"
	"github.com/Dosada05/club-system/storage"
)

const (
	pointsForWin  = 2
	pointsForLoss = 0
)

// CompetitionService owns the fixture lifecycle: generation, result
// recording (with team stats and player ratings), and schedule export.
type CompetitionService interface {
	GenerateFixtures(ctx context.Context, role models.Role, competitionID int) ([]*models.Fixture, error)
	RecordResult(ctx context.Context, role models.Role, fixtureID int, scores models.SetScores) (*models.Fixture, error)
	RecordResultRaw(ctx context.Context, role models.Role, fixtureID int, rawScores string) (*models.Fixture, error)
	Standings(ctx context.Context, competitionID int) ([]*models.Team, error)
	ExportSchedule(ctx context.Context, competitionID int) (string, error)
}

type competitionService struct {
	tx        repositories.TxRunner
	teams     repositories.TeamRepository
	fixtures  repositories.FixtureRepository
	ratings   repositories.RatingRepository
	generator fixtures.Generator
	uploader  storage.FileUploader // optional; nil disables export
	logger    *slog.Logger
}

func NewCompetitionService(
	tx repositories.TxRunner,
	teamRepo repositories.TeamRepository,
	fixtureRepo repositories.FixtureRepository,
	ratingRepo repositories.RatingRepository,
	generator fixtures.Generator,
	uploader storage.FileUploader,
	logger *slog.Logger,
) CompetitionService {
	return &competitionService{
		tx:        tx,
		teams:     teamRepo,
		fixtures:  fixtureRepo,
		ratings:   ratingRepo,
		generator: generator,
		uploader:  uploader,
		logger:    logger,
	}
}

// GenerateFixtures discards the competition's ungraded fixtures and writes a
// fresh full round-robin. Graded fixtures are never touched or merged.
func (s *competitionService) GenerateFixtures(ctx context.Context, role models.Role, competitionID int) ([]*models.Fixture, error) {
	if !models.RoleAllows(role, models.CapabilityManageFixtures) {
		return nil, ErrForbiddenOperation
	}

	teams, err := s.teams.ListByCompetition(ctx, nil, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for competition %d: %w", competitionID, err)
	}
	if len(teams) < 2 {
		return nil, ErrInsufficientTeams
	}

	teamIDs := make([]int, len(teams))
	for i, team := range teams {
		teamIDs[i] = team.ID
	}

	generated, err := s.generator.Generate(fixtures.GenerateParams{
		CompetitionID: competitionID,
		TeamIDs:       teamIDs,
	})
	if err != nil {
		if errors.Is(err, fixtures.ErrInsufficientTeams) {
			return nil, ErrInsufficientTeams
		}
		return nil, fmt.Errorf("fixture generation failed: %w", err)
	}

	var discarded int64
	err = s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		discarded, err = s.fixtures.DeleteUngradedByCompetition(ctx, exec, competitionID)
		if err != nil {
			return fmt.Errorf("failed to discard prior fixtures: %w", err)
		}
		return s.fixtures.BatchCreate(ctx, exec, generated)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "fixtures generated",
		slog.Int("competition_id", competitionID),
		slog.Int("teams", len(teams)),
		slog.Int("fixtures", len(generated)),
		slog.Int64("discarded", discarded))
	return generated, nil
}

func (s *competitionService) RecordResultRaw(ctx context.Context, role models.Role, fixtureID int, rawScores string) (*models.Fixture, error) {
	scores, err := models.ParseSetScores(rawScores)
	if err != nil {
		return nil, err
	}
	return s.RecordResult(ctx, role, fixtureID, scores)
}

// RecordResult grades a fixture exactly once. The result, the winner, both
// teams' stats and the four independent player rating updates are written
// inside a single transaction, so a failure leaves nothing half-applied.
func (s *competitionService) RecordResult(ctx context.Context, role models.Role, fixtureID int, scores models.SetScores) (*models.Fixture, error) {
	if !models.RoleAllows(role, models.CapabilityRecordResults) {
		return nil, ErrForbiddenOperation
	}
	winnerSide, err := scores.Winner()
	if err != nil {
		return nil, err
	}

	var fixture *models.Fixture
	var winnerTeamID int
	err = s.tx.InTx(ctx, func(exec repositories.SQLExecutor) error {
		fixture, err = s.fixtures.GetByID(ctx, exec, fixtureID)
		if err != nil {
			if errors.Is(err, repositories.ErrFixtureNotFound) {
				return ErrFixtureNotFound
			}
			return err
		}
		if fixture.Graded() {
			return ErrFixtureAlreadyGraded
		}

		team1, err := s.teams.GetByID(ctx, exec, fixture.Team1ID)
		if err != nil {
			return mapTeamError(fixture.Team1ID, err)
		}
		team2, err := s.teams.GetByID(ctx, exec, fixture.Team2ID)
		if err != nil {
			return mapTeamError(fixture.Team2ID, err)
		}

		winnerTeamID = team1.ID
		if winnerSide == 2 {
			winnerTeamID = team2.ID
		}

		if err := s.fixtures.Grade(ctx, exec, fixtureID, scores, winnerTeamID); err != nil {
			if errors.Is(err, repositories.ErrFixtureNotGradable) {
				return ErrFixtureAlreadyGraded
			}
			return err
		}

		applyTeamStats(team1, team2, scores, winnerSide)
		if err := s.teams.UpdateStats(ctx, exec, team1.ID, team1.Stats); err != nil {
			return err
		}
		if err := s.teams.UpdateStats(ctx, exec, team2.ID, team2.Stats); err != nil {
			return err
		}

		return s.applyRatings(ctx, exec, team1, team2, winnerSide)
	})
	if err != nil {
		return nil, err
	}

	fixture.Result = scores
	fixture.WinnerTeamID = &winnerTeamID
	fixture.Status = models.FixtureStatusCompleted

	s.logger.InfoContext(ctx, "fixture graded",
		slog.Int("fixture_id", fixtureID),
		slog.Int("winner_team_id", winnerTeamID),
		slog.String("score", scores.String()))
	return fixture, nil
}

// applyRatings runs the doubles ELO update: each player is rated against the
// opposing pair's average, independently of their partner and of each other.
func (s *competitionService) applyRatings(ctx context.Context, exec repositories.SQLExecutor, team1, team2 *models.Team, winnerSide int) error {
	playerIDs := [4]string{team1.Player1ID, team1.Player2ID, team2.Player1ID, team2.Player2ID}
	states := [4]ratings.PlayerState{}
	records := [4]*models.PlayerRating{}

	for i, playerID := range playerIDs {
		record, err := s.ratings.GetOrCreate(ctx, exec, playerID)
		if err != nil {
			return err
		}
		records[i] = record
		states[i] = ratings.PlayerState{Rating: record.Rating, GamesPlayed: record.GamesPlayed}
	}

	result := ratings.UpdateDoublesMatch(
		[2]ratings.PlayerState{states[0], states[1]},
		[2]ratings.PlayerState{states[2], states[3]},
		winnerSide,
	)

	updates := [4]ratings.PlayerUpdate{result.Team1[0], result.Team1[1], result.Team2[0], result.Team2[1]}
	for i, record := range records {
		record.Rating = updates[i].Rating
		record.GamesPlayed = updates[i].GamesPlayed
		if err := s.ratings.Update(ctx, exec, record); err != nil {
			return err
		}
	}
	return nil
}

// Standings orders teams by points, then set difference, then games
// difference, with team id as the stable tie-break.
func (s *competitionService) Standings(ctx context.Context, competitionID int) ([]*models.Team, error) {
	teams, err := s.teams.ListByCompetition(ctx, nil, competitionID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(teams, func(i, j int) bool {
		a, b := teams[i].Stats, teams[j].Stats
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if diffA, diffB := a.SetsFor-a.SetsAgainst, b.SetsFor-b.SetsAgainst; diffA != diffB {
			return diffA > diffB
		}
		if diffA, diffB := a.GamesFor-a.GamesAgainst, b.GamesFor-b.GamesAgainst; diffA != diffB {
			return diffA > diffB
		}
		return teams[i].ID < teams[j].ID
	})
	return teams, nil
}

type scheduleExport struct {
	CompetitionID int               `json:"competition_id"`
	GeneratedAt   time.Time         `json:"generated_at"`
	Fixtures      []*models.Fixture `json:"fixtures"`
}

// ExportSchedule uploads a JSON snapshot of the competition's fixtures and
// returns its public URL.
func (s *competitionService) ExportSchedule(ctx context.Context, competitionID int) (string, error) {
	if s.uploader == nil {
		return "", errors.New("schedule export is not configured")
	}

	list, err := s.fixtures.ListByCompetition(ctx, nil, competitionID, nil, nil)
	if err != nil {
		return "", err
	}

	payload, err := json.MarshalIndent(scheduleExport{
		CompetitionID: competitionID,
		GeneratedAt:   time.Now().UTC(),
		Fixtures:      list,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode schedule export: %w", err)
	}

	key := fmt.Sprintf("schedules/competition-%d.json", competitionID)
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to upload schedule export: %w", err)
	}

	s.logger.InfoContext(ctx, "schedule exported",
		slog.Int("competition_id", competitionID),
		slog.String("key", result.Key))
	return result.Location, nil
}

func mapTeamError(teamID int, err error) error {
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return fmt.Errorf("%w: id %d", ErrTeamNotFound, teamID)
	}
	return fmt.Errorf("failed to load team %d: %w", teamID, err)
}

func applyTeamStats(team1, team2 *models.Team, scores models.SetScores, winnerSide int) {
	sets1, sets2 := scores.SetsWon()
	games1, games2 := scores.TotalGames()

	team1.Stats.Played++
	team2.Stats.Played++
	team1.Stats.SetsFor += sets1
	team1.Stats.SetsAgainst += sets2
	team2.Stats.SetsFor += sets2
	team2.Stats.SetsAgainst += sets1
	team1.Stats.GamesFor += games1
	team1.Stats.GamesAgainst += games2
	team2.Stats.GamesFor += games2
	team2.Stats.GamesAgainst += games1

	if winnerSide == 1 {
		team1.Stats.Won++
		team1.Stats.Points += pointsForWin
		team2.Stats.Lost++
		team2.Stats.Points += pointsForLoss
	} else {
		team2.Stats.Won++
		team2.Stats.Points += pointsForWin
		team1.Stats.Lost++
		team1.Stats.Points += pointsForLoss
	}
}
