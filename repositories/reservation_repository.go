package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/club-system/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrReservationNotFound     = errors.New("reservation not found")
	ErrReservationCourtInvalid = errors.New("reservation court conflict or invalid")
)

type ReservationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, reservation *models.Reservation) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Reservation, error)
	// ListActiveInWindow returns the non-cancelled reservations for one court
	// whose interval intersects the given window, optionally excluding one
	// reservation (a reservation must not conflict with itself on update).
	ListActiveInWindow(ctx context.Context, exec SQLExecutor, courtID int, window models.Interval, excludeID *uuid.UUID) ([]*models.Reservation, error)
	Cancel(ctx context.Context, exec SQLExecutor, id uuid.UUID) error
	UpdateInterval(ctx context.Context, exec SQLExecutor, id uuid.UUID, interval models.Interval) error
}

type postgresReservationRepository struct {
	db *sql.DB
}

func NewPostgresReservationRepository(db *sql.DB) ReservationRepository {
	return &postgresReservationRepository{db: db}
}

func (r *postgresReservationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresReservationRepository) Create(ctx context.Context, exec SQLExecutor, reservation *models.Reservation) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO reservations
			(id, court_id, start_time, end_time, kind, status, owner_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		reservation.ID,
		reservation.CourtID,
		reservation.Interval.Start,
		reservation.Interval.End,
		reservation.Kind,
		reservation.Status,
		reservation.OwnerRef,
	).Scan(&reservation.CreatedAt)

	return r.handleReservationError(err)
}

func (r *postgresReservationRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Reservation, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, court_id, start_time, end_time, kind, status, owner_ref, created_at
		FROM reservations
		WHERE id = $1`

	row := executor.QueryRowContext(ctx, query, id)
	return scanReservation(row)
}

func (r *postgresReservationRepository) ListActiveInWindow(ctx context.Context, exec SQLExecutor, courtID int, window models.Interval, excludeID *uuid.UUID) ([]*models.Reservation, error) {
	executor := r.getExecutor(exec)

	// Half-open overlap against the bounding window keeps this a
	// time-bounded query rather than a full-court scan.
	query := `
		SELECT id, court_id, start_time, end_time, kind, status, owner_ref, created_at
		FROM reservations
		WHERE court_id = $1
		  AND status = $2
		  AND start_time < $3
		  AND end_time > $4`
	args := []interface{}{courtID, models.ReservationStatusActive, window.End, window.Start}

	if excludeID != nil {
		query += " AND id <> $5"
		args = append(args, *excludeID)
	}
	query += " ORDER BY start_time ASC"

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]*models.Reservation, 0)
	for rows.Next() {
		reservation, scanErr := scanReservation(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		reservations = append(reservations, reservation)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *postgresReservationRepository) Cancel(ctx context.Context, exec SQLExecutor, id uuid.UUID) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE reservations
		SET status = $1
		WHERE id = $2 AND status = $3`

	result, err := executor.ExecContext(ctx, query,
		models.ReservationStatusCancelled, id, models.ReservationStatusActive)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrReservationNotFound)
}

func (r *postgresReservationRepository) UpdateInterval(ctx context.Context, exec SQLExecutor, id uuid.UUID, interval models.Interval) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE reservations
		SET start_time = $1, end_time = $2
		WHERE id = $3 AND status = $4`

	result, err := executor.ExecContext(ctx, query,
		interval.Start, interval.End, id, models.ReservationStatusActive)
	if err != nil {
		return r.handleReservationError(err)
	}
	return checkAffectedRows(result, ErrReservationNotFound)
}

func scanReservation(rowScanner interface{ Scan(...interface{}) error }) (*models.Reservation, error) {
	reservation := &models.Reservation{}
	err := rowScanner.Scan(
		&reservation.ID,
		&reservation.CourtID,
		&reservation.Interval.Start,
		&reservation.Interval.End,
		&reservation.Kind,
		&reservation.Status,
		&reservation.OwnerRef,
		&reservation.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return reservation, nil
}

func (r *postgresReservationRepository) handleReservationError(err error) error {
	if err == nil {
		return nil
	}
	if isConcurrencyError(err) {
		return ErrSerializationFailure
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" && pqErr.Constraint == "reservations_court_id_fkey" {
			return ErrReservationCourtInvalid
		}
	}
	return err
}
