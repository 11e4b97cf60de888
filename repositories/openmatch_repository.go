package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrOpenMatchNotFound           = errors.New("open match not found")
	ErrOpenMatchReservationInvalid = errors.New("open match reservation conflict or invalid")
)

type OpenMatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.OpenMatch) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.OpenMatch, error)
	GetByReservation(ctx context.Context, exec SQLExecutor, reservationID uuid.UUID) (*models.OpenMatch, error)
	ListByCourtInWindow(ctx context.Context, exec SQLExecutor, courtID int, window models.Interval) ([]*models.OpenMatch, error)
	// ListOpenStartedBefore returns joinable matches whose start time has
	// already passed; the sweep job cancels them.
	ListOpenStartedBefore(ctx context.Context, exec SQLExecutor, cutoff time.Time) ([]*models.OpenMatch, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id uuid.UUID, status models.OpenMatchStatus) error
	ReplacePlayers(ctx context.Context, exec SQLExecutor, id uuid.UUID, players []string) error
	Delete(ctx context.Context, exec SQLExecutor, id uuid.UUID) error
}

type postgresOpenMatchRepository struct {
	db *sql.DB
}

func NewPostgresOpenMatchRepository(db *sql.DB) OpenMatchRepository {
	return &postgresOpenMatchRepository{db: db}
}

func (r *postgresOpenMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresOpenMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.OpenMatch) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO open_matches
			(id, court_id, reservation_id, start_time, duration_minutes, capacity, level_min, level_max, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		match.ID,
		match.CourtID,
		match.ReservationID,
		match.Start,
		match.DurationMinutes,
		match.Capacity,
		match.LevelMin,
		match.LevelMax,
		match.Status,
	).Scan(&match.CreatedAt)
	if err != nil {
		return r.handleOpenMatchError(err)
	}

	if len(match.Players) > 0 {
		if err := r.insertPlayers(ctx, executor, match.ID, match.Players); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresOpenMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.OpenMatch, error) {
	executor := r.getExecutor(exec)
	query := openMatchSelect + ` WHERE id = $1`
	return r.queryOne(ctx, executor, query, id)
}

func (r *postgresOpenMatchRepository) GetByReservation(ctx context.Context, exec SQLExecutor, reservationID uuid.UUID) (*models.OpenMatch, error) {
	executor := r.getExecutor(exec)
	query := openMatchSelect + ` WHERE reservation_id = $1`
	return r.queryOne(ctx, executor, query, reservationID)
}

func (r *postgresOpenMatchRepository) ListByCourtInWindow(ctx context.Context, exec SQLExecutor, courtID int, window models.Interval) ([]*models.OpenMatch, error) {
	executor := r.getExecutor(exec)
	query := openMatchSelect + `
		WHERE court_id = $1
		  AND status IN ($2, $3)
		  AND start_time < $4
		  AND start_time + duration_minutes * INTERVAL '1 minute' > $5
		ORDER BY start_time ASC`

	return r.queryMany(ctx, executor, query,
		courtID, models.OpenMatchStatusOpen, models.OpenMatchStatusFull, window.End, window.Start)
}

func (r *postgresOpenMatchRepository) ListOpenStartedBefore(ctx context.Context, exec SQLExecutor, cutoff time.Time) ([]*models.OpenMatch, error) {
	executor := r.getExecutor(exec)
	query := openMatchSelect + `
		WHERE status = $1 AND start_time <= $2
		ORDER BY start_time ASC`

	return r.queryMany(ctx, executor, query, models.OpenMatchStatusOpen, cutoff)
}

func (r *postgresOpenMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id uuid.UUID, status models.OpenMatchStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE open_matches SET status = $1 WHERE id = $2`

	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrOpenMatchNotFound)
}

func (r *postgresOpenMatchRepository) ReplacePlayers(ctx context.Context, exec SQLExecutor, id uuid.UUID, players []string) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx, `DELETE FROM open_match_players WHERE open_match_id = $1`, id); err != nil {
		return err
	}
	return r.insertPlayers(ctx, executor, id, players)
}

func (r *postgresOpenMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id uuid.UUID) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx, `DELETE FROM open_match_players WHERE open_match_id = $1`, id); err != nil {
		return err
	}
	result, err := executor.ExecContext(ctx, `DELETE FROM open_matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrOpenMatchNotFound)
}

const openMatchSelect = `
	SELECT id, court_id, reservation_id, start_time, duration_minutes, capacity, level_min, level_max, status, created_at
	FROM open_matches`

func (r *postgresOpenMatchRepository) insertPlayers(ctx context.Context, executor SQLExecutor, id uuid.UUID, players []string) error {
	for i, playerID := range players {
		_, err := executor.ExecContext(ctx,
			`INSERT INTO open_match_players (open_match_id, player_id, position) VALUES ($1, $2, $3)`,
			id, playerID, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresOpenMatchRepository) loadPlayers(ctx context.Context, executor SQLExecutor, id uuid.UUID) ([]string, error) {
	rows, err := executor.QueryContext(ctx,
		`SELECT player_id FROM open_match_players WHERE open_match_id = $1 ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]string, 0)
	for rows.Next() {
		var playerID string
		if scanErr := rows.Scan(&playerID); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, playerID)
	}
	return players, rows.Err()
}

func (r *postgresOpenMatchRepository) queryOne(ctx context.Context, executor SQLExecutor, query string, arg interface{}) (*models.OpenMatch, error) {
	match, err := scanOpenMatch(executor.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	match.Players, err = r.loadPlayers(ctx, executor, match.ID)
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (r *postgresOpenMatchRepository) queryMany(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.OpenMatch, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.OpenMatch, 0)
	for rows.Next() {
		match, scanErr := scanOpenMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for _, match := range matches {
		match.Players, err = r.loadPlayers(ctx, executor, match.ID)
		if err != nil {
			return nil, err
		}
	}
	return matches, nil
}

func scanOpenMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.OpenMatch, error) {
	match := &models.OpenMatch{}
	err := rowScanner.Scan(
		&match.ID,
		&match.CourtID,
		&match.ReservationID,
		&match.Start,
		&match.DurationMinutes,
		&match.Capacity,
		&match.LevelMin,
		&match.LevelMax,
		&match.Status,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOpenMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresOpenMatchRepository) handleOpenMatchError(err error) error {
	if err == nil {
		return nil
	}
	if isConcurrencyError(err) {
		return ErrSerializationFailure
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" && pqErr.Constraint == "open_matches_reservation_id_fkey" {
			return ErrOpenMatchReservationInvalid
		}
	}
	return err
}
