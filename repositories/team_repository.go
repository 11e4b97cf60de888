package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/club-system/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamPlayerConflict = errors.New("team player conflict or invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) ([]*models.Team, error)
	UpdateStats(ctx context.Context, exec SQLExecutor, id int, stats models.TeamStats) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	if err := team.Validate(); err != nil {
		return err
	}

	executor := r.getExecutor(exec)
	query := `
		INSERT INTO teams (competition_id, player1_id, player2_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		team.CompetitionID, team.Player1ID, team.Player2ID,
	).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrTeamPlayerConflict
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	executor := r.getExecutor(exec)
	query := teamSelect + ` WHERE id = $1`
	row := executor.QueryRowContext(ctx, query, id)
	return scanTeam(row)
}

func (r *postgresTeamRepository) ListByCompetition(ctx context.Context, exec SQLExecutor, competitionID int) ([]*models.Team, error) {
	executor := r.getExecutor(exec)
	query := teamSelect + ` WHERE competition_id = $1 ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query, competitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		team, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdateStats(ctx context.Context, exec SQLExecutor, id int, stats models.TeamStats) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE teams SET
			played = $1, won = $2, lost = $3, points = $4,
			sets_for = $5, sets_against = $6, games_for = $7, games_against = $8
		WHERE id = $9`

	result, err := executor.ExecContext(ctx, query,
		stats.Played, stats.Won, stats.Lost, stats.Points,
		stats.SetsFor, stats.SetsAgainst, stats.GamesFor, stats.GamesAgainst,
		id,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

const teamSelect = `
	SELECT id, competition_id, player1_id, player2_id,
	       played, won, lost, points, sets_for, sets_against, games_for, games_against,
	       created_at
	FROM teams`

func scanTeam(rowScanner interface{ Scan(...interface{}) error }) (*models.Team, error) {
	team := &models.Team{}
	err := rowScanner.Scan(
		&team.ID, &team.CompetitionID, &team.Player1ID, &team.Player2ID,
		&team.Stats.Played, &team.Stats.Won, &team.Stats.Lost, &team.Stats.Points,
		&team.Stats.SetsFor, &team.Stats.SetsAgainst, &team.Stats.GamesFor, &team.Stats.GamesAgainst,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}
