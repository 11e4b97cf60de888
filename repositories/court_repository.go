package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/club-system/models"
)

var ErrCourtNotFound = errors.New("court not found")

type CourtRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Court, error)
	ListByClub(ctx context.Context, exec SQLExecutor, clubID int) ([]*models.Court, error)
	// LockForBooking takes a row lock on the court so that reservation
	// admission serializes per court. Must be called inside a transaction.
	LockForBooking(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresCourtRepository struct {
	db *sql.DB
}

func NewPostgresCourtRepository(db *sql.DB) CourtRepository {
	return &postgresCourtRepository{db: db}
}

func (r *postgresCourtRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresCourtRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Court, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, club_id, name, indoor, created_at FROM courts WHERE id = $1`

	court := &models.Court{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&court.ID, &court.ClubID, &court.Name, &court.Indoor, &court.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	return court, nil
}

func (r *postgresCourtRepository) ListByClub(ctx context.Context, exec SQLExecutor, clubID int) ([]*models.Court, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, club_id, name, indoor, created_at FROM courts WHERE club_id = $1 ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courts := make([]*models.Court, 0)
	for rows.Next() {
		court := &models.Court{}
		if scanErr := rows.Scan(&court.ID, &court.ClubID, &court.Name, &court.Indoor, &court.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		courts = append(courts, court)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return courts, nil
}

func (r *postgresCourtRepository) LockForBooking(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	query := `SELECT id FROM courts WHERE id = $1 FOR UPDATE`

	var lockedID int
	err := executor.QueryRowContext(ctx, query, id).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCourtNotFound
		}
		if isConcurrencyError(err) {
			return ErrSerializationFailure
		}
		return err
	}
	return nil
}
