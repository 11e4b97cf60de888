package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/google/uuid"
)

// BookingTx is the set of timeline mutations available inside one per-court
// transaction. The check-then-insert sequence executed through it is atomic
// with respect to other attempts on the same court.
type BookingTx interface {
	ListActiveInWindow(ctx context.Context, courtID int, window models.Interval, excludeID *uuid.UUID) ([]*models.Reservation, error)
	InsertReservation(ctx context.Context, reservation *models.Reservation) error
	GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	CancelReservation(ctx context.Context, id uuid.UUID) error
	UpdateReservationInterval(ctx context.Context, id uuid.UUID, interval models.Interval) error

	InsertOpenMatch(ctx context.Context, match *models.OpenMatch) error
	GetOpenMatch(ctx context.Context, id uuid.UUID) (*models.OpenMatch, error)
	GetOpenMatchByReservation(ctx context.Context, reservationID uuid.UUID) (*models.OpenMatch, error)
	UpdateOpenMatchStatus(ctx context.Context, id uuid.UUID, status models.OpenMatchStatus) error
	ReplaceOpenMatchPlayers(ctx context.Context, id uuid.UUID, players []string) error
	DeleteOpenMatch(ctx context.Context, id uuid.UUID) error
}

// BookingStore provides per-court mutual exclusion: InCourtTx serializes
// callbacks for the same court while different courts proceed independently.
type BookingStore interface {
	InCourtTx(ctx context.Context, courtID int, fn func(tx BookingTx) error) error
	// FindReservation and FindOpenMatch are plain lookups used to resolve an
	// entity's court before entering its transaction.
	FindReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	FindOpenMatch(ctx context.Context, id uuid.UUID) (*models.OpenMatch, error)
	ListOpenMatchesStartedBefore(ctx context.Context, cutoff time.Time) ([]*models.OpenMatch, error)
}

type postgresBookingStore struct {
	db           *sql.DB
	courts       CourtRepository
	reservations ReservationRepository
	openMatches  OpenMatchRepository
}

func NewPostgresBookingStore(db *sql.DB, courts CourtRepository, reservations ReservationRepository, openMatches OpenMatchRepository) BookingStore {
	return &postgresBookingStore{
		db:           db,
		courts:       courts,
		reservations: reservations,
		openMatches:  openMatches,
	}
}

// InCourtTx opens a transaction, takes a FOR UPDATE lock on the court row and
// runs fn against it. The row lock is what serializes concurrent admission on
// one court; on any error the transaction rolls back, so a conflicting or
// timed-out attempt leaves nothing behind.
func (s *postgresBookingStore) InCourtTx(ctx context.Context, courtID int, fn func(tx BookingTx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin booking transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := s.courts.LockForBooking(ctx, sqlTx, courtID); err != nil {
		return err
	}

	if err := fn(&postgresBookingTx{store: s, exec: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		if isConcurrencyError(err) {
			return ErrSerializationFailure
		}
		return fmt.Errorf("failed to commit booking transaction: %w", err)
	}
	return nil
}

func (s *postgresBookingStore) FindReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	return s.reservations.GetByID(ctx, nil, id)
}

func (s *postgresBookingStore) FindOpenMatch(ctx context.Context, id uuid.UUID) (*models.OpenMatch, error) {
	return s.openMatches.GetByID(ctx, nil, id)
}

func (s *postgresBookingStore) ListOpenMatchesStartedBefore(ctx context.Context, cutoff time.Time) ([]*models.OpenMatch, error) {
	return s.openMatches.ListOpenStartedBefore(ctx, nil, cutoff)
}

type postgresBookingTx struct {
	store *postgresBookingStore
	exec  SQLExecutor
}

func (t *postgresBookingTx) ListActiveInWindow(ctx context.Context, courtID int, window models.Interval, excludeID *uuid.UUID) ([]*models.Reservation, error) {
	return t.store.reservations.ListActiveInWindow(ctx, t.exec, courtID, window, excludeID)
}

func (t *postgresBookingTx) InsertReservation(ctx context.Context, reservation *models.Reservation) error {
	return t.store.reservations.Create(ctx, t.exec, reservation)
}

func (t *postgresBookingTx) GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	return t.store.reservations.GetByID(ctx, t.exec, id)
}

func (t *postgresBookingTx) CancelReservation(ctx context.Context, id uuid.UUID) error {
	return t.store.reservations.Cancel(ctx, t.exec, id)
}

func (t *postgresBookingTx) UpdateReservationInterval(ctx context.Context, id uuid.UUID, interval models.Interval) error {
	return t.store.reservations.UpdateInterval(ctx, t.exec, id, interval)
}

func (t *postgresBookingTx) InsertOpenMatch(ctx context.Context, match *models.OpenMatch) error {
	return t.store.openMatches.Create(ctx, t.exec, match)
}

func (t *postgresBookingTx) GetOpenMatch(ctx context.Context, id uuid.UUID) (*models.OpenMatch, error) {
	return t.store.openMatches.GetByID(ctx, t.exec, id)
}

func (t *postgresBookingTx) GetOpenMatchByReservation(ctx context.Context, reservationID uuid.UUID) (*models.OpenMatch, error) {
	return t.store.openMatches.GetByReservation(ctx, t.exec, reservationID)
}

func (t *postgresBookingTx) UpdateOpenMatchStatus(ctx context.Context, id uuid.UUID, status models.OpenMatchStatus) error {
	return t.store.openMatches.UpdateStatus(ctx, t.exec, id, status)
}

func (t *postgresBookingTx) ReplaceOpenMatchPlayers(ctx context.Context, id uuid.UUID, players []string) error {
	return t.store.openMatches.ReplacePlayers(ctx, t.exec, id, players)
}

func (t *postgresBookingTx) DeleteOpenMatch(ctx context.Context, id uuid.UUID) error {
	return t.store.openMatches.Delete(ctx, t.exec, id)
}
