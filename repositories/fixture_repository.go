package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/club-system/models"
	"github.com/lib/pq"
)

var (
	ErrFixtureNotFound    = errors.New("fixture not found")
	ErrFixtureNotGradable = errors.New("fixture already graded or missing")
	ErrFixtureTeamInvalid = errors.New("fixture team conflict or invalid")
)

type FixtureRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, fixtures []*models.Fixture) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Fixture, error)
	ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID int, round *int, status *models.FixtureStatus) ([]*models.Fixture, error)
	// DeleteUngradedByCompetition clears scheduled fixtures before a fresh
	// generation; graded results are never touched.
	DeleteUngradedByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) (int64, error)
	// Grade writes result and winner exactly once; regrading is refused.
	Grade(ctx context.Context, exec SQLExecutor, id int, result models.SetScores, winnerTeamID int) error
}

type postgresFixtureRepository struct {
	db *sql.DB
}

func NewPostgresFixtureRepository(db *sql.DB) FixtureRepository {
	return &postgresFixtureRepository{db: db}
}

func (r *postgresFixtureRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresFixtureRepository) BatchCreate(ctx context.Context, exec SQLExecutor, fixtures []*models.Fixture) error {
	if len(fixtures) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO fixtures (competition_id, round, team1_id, team2_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	for _, fixture := range fixtures {
		err := executor.QueryRowContext(ctx, query,
			fixture.CompetitionID, fixture.Round, fixture.Team1ID, fixture.Team2ID, fixture.Status,
		).Scan(&fixture.ID, &fixture.CreatedAt)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return ErrFixtureTeamInvalid
			}
			return fmt.Errorf("BatchCreate failed for round %d (%d vs %d): %w",
				fixture.Round, fixture.Team1ID, fixture.Team2ID, err)
		}
	}
	return nil
}

func (r *postgresFixtureRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Fixture, error) {
	executor := r.getExecutor(exec)
	query := fixtureSelect + ` WHERE id = $1`
	row := executor.QueryRowContext(ctx, query, id)
	return scanFixture(row)
}

func (r *postgresFixtureRepository) ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID int, round *int, status *models.FixtureStatus) ([]*models.Fixture, error) {
	executor := r.getExecutor(exec)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fixtureSelect)
	queryBuilder.WriteString(" WHERE competition_id = $1")

	args := []interface{}{competitionID}
	placeholderIndex := 2

	if round != nil {
		queryBuilder.WriteString(" AND round = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *round)
		placeholderIndex++
	}
	if status != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *status)
		placeholderIndex++
	}
	queryBuilder.WriteString(" ORDER BY round ASC, id ASC")

	rows, err := executor.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fixtures := make([]*models.Fixture, 0)
	for rows.Next() {
		fixture, scanErr := scanFixture(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		fixtures = append(fixtures, fixture)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return fixtures, nil
}

func (r *postgresFixtureRepository) DeleteUngradedByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) (int64, error) {
	executor := r.getExecutor(exec)
	query := `DELETE FROM fixtures WHERE competition_id = $1 AND status = $2`

	result, err := executor.ExecContext(ctx, query, competitionID, models.FixtureStatusScheduled)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresFixtureRepository) Grade(ctx context.Context, exec SQLExecutor, id int, result models.SetScores, winnerTeamID int) error {
	executor := r.getExecutor(exec)

	// The status guard makes the first grade win; a second attempt matches
	// zero rows.
	query := `
		UPDATE fixtures
		SET result = $1, winner_team_id = $2, status = $3
		WHERE id = $4 AND status = $5`

	res, err := executor.ExecContext(ctx, query,
		result.String(), winnerTeamID, models.FixtureStatusCompleted,
		id, models.FixtureStatusScheduled)
	if err != nil {
		return err
	}
	return checkAffectedRows(res, ErrFixtureNotGradable)
}

const fixtureSelect = `
	SELECT id, competition_id, round, team1_id, team2_id, result, winner_team_id, status, created_at
	FROM fixtures`

func scanFixture(rowScanner interface{ Scan(...interface{}) error }) (*models.Fixture, error) {
	fixture := &models.Fixture{}
	var rawResult sql.NullString

	err := rowScanner.Scan(
		&fixture.ID,
		&fixture.CompetitionID,
		&fixture.Round,
		&fixture.Team1ID,
		&fixture.Team2ID,
		&rawResult,
		&fixture.WinnerTeamID,
		&fixture.Status,
		&fixture.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFixtureNotFound
		}
		return nil, err
	}

	if rawResult.Valid && rawResult.String != "" {
		scores, parseErr := models.ParseSetScores(rawResult.String)
		if parseErr != nil {
			return nil, fmt.Errorf("fixture %d has corrupt result %q: %w", fixture.ID, rawResult.String, parseErr)
		}
		fixture.Result = scores
	}
	return fixture, nil
}
