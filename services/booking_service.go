package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/ratelimit"
	"github.com/Dosada05/club-system/repositories"
	"github.com/Dosada05/club-system/scheduling"
	"github.com/google/uuid"
)

type ReserveParams struct {
	Kind     models.ReservationKind
	OwnerRef string
}

type OpenMatchParams struct {
	CourtID         int
	Start           time.Time
	DurationMinutes int
	LevelMin        float64
	LevelMax        float64
	InitialPlayers  []string
	OwnerRef        string
}

// BookingService is the court booking coordinator: every admission runs as an
// atomic check-then-commit inside a per-court transaction.
type BookingService interface {
	Reserve(ctx context.Context, courtID int, candidate models.Interval, params ReserveParams) (*models.Reservation, error)
	Cancel(ctx context.Context, reservationID uuid.UUID) error
	UpdateInterval(ctx context.Context, reservationID uuid.UUID, newCandidate models.Interval) (*models.Reservation, error)
	ReserveForOpenMatch(ctx context.Context, params OpenMatchParams) (*models.OpenMatch, error)
	JoinOpenMatch(ctx context.Context, openMatchID uuid.UUID, playerID string, level float64) (*models.OpenMatch, error)
	LeaveOpenMatch(ctx context.Context, openMatchID uuid.UUID, playerID string) (*models.OpenMatch, error)
	ExpireStaleOpenMatches(ctx context.Context, now time.Time) (int, error)
}

type bookingService struct {
	store   repositories.BookingStore
	limiter *ratelimit.Limiter // optional; nil disables the guard
	logger  *slog.Logger
}

func NewBookingService(store repositories.BookingStore, limiter *ratelimit.Limiter, logger *slog.Logger) BookingService {
	return &bookingService{
		store:   store,
		limiter: limiter,
		logger:  logger,
	}
}

func (s *bookingService) Reserve(ctx context.Context, courtID int, candidate models.Interval, params ReserveParams) (*models.Reservation, error) {
	if err := candidate.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, err)
	}
	if s.limiter != nil && params.OwnerRef != "" && !s.limiter.Allow(params.OwnerRef) {
		return nil, ErrRateLimited
	}

	kind := params.Kind
	if kind == "" {
		kind = models.ReservationKindStandard
	}
	reservation := &models.Reservation{
		ID:       uuid.New(),
		CourtID:  courtID,
		Interval: candidate,
		Kind:     kind,
		Status:   models.ReservationStatusActive,
		OwnerRef: params.OwnerRef,
	}

	err := s.store.InCourtTx(ctx, courtID, func(tx repositories.BookingTx) error {
		if err := s.admit(ctx, tx, courtID, candidate, nil); err != nil {
			return err
		}
		return tx.InsertReservation(ctx, reservation)
	})
	if err != nil {
		return nil, s.mapStoreError(err)
	}

	s.logger.InfoContext(ctx, "reservation created",
		slog.String("reservation_id", reservation.ID.String()),
		slog.Int("court_id", courtID))
	return reservation, nil
}

func (s *bookingService) Cancel(ctx context.Context, reservationID uuid.UUID) error {
	reservation, err := s.store.FindReservation(ctx, reservationID)
	if err != nil {
		return s.mapStoreError(err)
	}
	if !reservation.Active() {
		return ErrReservationNotFound
	}

	err = s.store.InCourtTx(ctx, reservation.CourtID, func(tx repositories.BookingTx) error {
		if err := tx.CancelReservation(ctx, reservationID); err != nil {
			return err
		}
		if reservation.Kind != models.ReservationKindProvisional {
			return nil
		}
		// A provisional booking belongs to an open match; leaving the match
		// behind without its reservation would violate the ownership
		// invariant, so it goes in the same transaction.
		match, err := tx.GetOpenMatchByReservation(ctx, reservationID)
		if err != nil {
			if errors.Is(err, repositories.ErrOpenMatchNotFound) {
				return nil
			}
			return err
		}
		return tx.DeleteOpenMatch(ctx, match.ID)
	})
	if err != nil {
		return s.mapStoreError(err)
	}

	s.logger.InfoContext(ctx, "reservation cancelled",
		slog.String("reservation_id", reservationID.String()),
		slog.Int("court_id", reservation.CourtID))
	return nil
}

func (s *bookingService) UpdateInterval(ctx context.Context, reservationID uuid.UUID, newCandidate models.Interval) (*models.Reservation, error) {
	if err := newCandidate.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, err)
	}

	reservation, err := s.store.FindReservation(ctx, reservationID)
	if err != nil {
		return nil, s.mapStoreError(err)
	}
	if !reservation.Active() {
		return nil, ErrReservationNotFound
	}

	err = s.store.InCourtTx(ctx, reservation.CourtID, func(tx repositories.BookingTx) error {
		// The reservation must not collide with itself when only shrinking
		// or shifting, so its own row is excluded from the conflict set.
		if err := s.admit(ctx, tx, reservation.CourtID, newCandidate, &reservationID); err != nil {
			return err
		}
		return tx.UpdateReservationInterval(ctx, reservationID, newCandidate)
	})
	if err != nil {
		return nil, s.mapStoreError(err)
	}

	reservation.Interval = newCandidate
	return reservation, nil
}

func (s *bookingService) ReserveForOpenMatch(ctx context.Context, params OpenMatchParams) (*models.OpenMatch, error) {
	interval := models.Interval{
		Start: params.Start,
		End:   params.Start.Add(time.Duration(params.DurationMinutes) * time.Minute),
	}
	if err := interval.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, err)
	}
	if len(params.InitialPlayers) > models.OpenMatchCapacity {
		return nil, ErrCapacityExceeded
	}
	seen := make(map[string]bool, len(params.InitialPlayers))
	for _, playerID := range params.InitialPlayers {
		if seen[playerID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, playerID)
		}
		seen[playerID] = true
	}
	if s.limiter != nil && params.OwnerRef != "" && !s.limiter.Allow(params.OwnerRef) {
		return nil, ErrRateLimited
	}

	status := models.OpenMatchStatusOpen
	if len(params.InitialPlayers) == models.OpenMatchCapacity {
		status = models.OpenMatchStatusFull
	}

	reservation := &models.Reservation{
		ID:       uuid.New(),
		CourtID:  params.CourtID,
		Interval: interval,
		Kind:     models.ReservationKindProvisional,
		Status:   models.ReservationStatusActive,
		OwnerRef: params.OwnerRef,
	}
	match := &models.OpenMatch{
		ID:              uuid.New(),
		CourtID:         params.CourtID,
		ReservationID:   reservation.ID,
		Start:           params.Start,
		DurationMinutes: params.DurationMinutes,
		Capacity:        models.OpenMatchCapacity,
		Players:         params.InitialPlayers,
		LevelMin:        params.LevelMin,
		LevelMax:        params.LevelMax,
		Status:          status,
	}

	// Both records commit or neither does: a conflicting court booking must
	// leave zero open match artifacts behind.
	err := s.store.InCourtTx(ctx, params.CourtID, func(tx repositories.BookingTx) error {
		if err := s.admit(ctx, tx, params.CourtID, interval, nil); err != nil {
			return err
		}
		if err := tx.InsertReservation(ctx, reservation); err != nil {
			return err
		}
		return tx.InsertOpenMatch(ctx, match)
	})
	if err != nil {
		return nil, s.mapStoreError(err)
	}

	s.logger.InfoContext(ctx, "open match created",
		slog.String("open_match_id", match.ID.String()),
		slog.Int("court_id", params.CourtID),
		slog.Int("joined", len(match.Players)))
	return match, nil
}

func (s *bookingService) JoinOpenMatch(ctx context.Context, openMatchID uuid.UUID, playerID string, level float64) (*models.OpenMatch, error) {
	located, err := s.store.FindOpenMatch(ctx, openMatchID)
	if err != nil {
		return nil, s.mapStoreError(err)
	}

	var match *models.OpenMatch
	err = s.store.InCourtTx(ctx, located.CourtID, func(tx repositories.BookingTx) error {
		// Re-read under the court lock; the copy fetched outside may be stale.
		current, err := tx.GetOpenMatch(ctx, openMatchID)
		if err != nil {
			return err
		}
		if err := current.AddPlayer(playerID, level); err != nil {
			return mapOpenMatchError(err)
		}
		if err := tx.ReplaceOpenMatchPlayers(ctx, openMatchID, current.Players); err != nil {
			return err
		}
		if err := tx.UpdateOpenMatchStatus(ctx, openMatchID, current.Status); err != nil {
			return err
		}
		match = current
		return nil
	})
	if err != nil {
		return nil, s.mapStoreError(err)
	}
	return match, nil
}

func (s *bookingService) LeaveOpenMatch(ctx context.Context, openMatchID uuid.UUID, playerID string) (*models.OpenMatch, error) {
	located, err := s.store.FindOpenMatch(ctx, openMatchID)
	if err != nil {
		return nil, s.mapStoreError(err)
	}

	var match *models.OpenMatch
	err = s.store.InCourtTx(ctx, located.CourtID, func(tx repositories.BookingTx) error {
		current, err := tx.GetOpenMatch(ctx, openMatchID)
		if err != nil {
			return err
		}
		if err := current.RemovePlayer(playerID); err != nil {
			return mapOpenMatchError(err)
		}
		if err := tx.ReplaceOpenMatchPlayers(ctx, openMatchID, current.Players); err != nil {
			return err
		}
		if err := tx.UpdateOpenMatchStatus(ctx, openMatchID, current.Status); err != nil {
			return err
		}
		match = current
		return nil
	})
	if err != nil {
		return nil, s.mapStoreError(err)
	}
	return match, nil
}

// ExpireStaleOpenMatches cancels OPEN matches whose start time has passed,
// releasing their provisional reservations. Returns how many were expired.
func (s *bookingService) ExpireStaleOpenMatches(ctx context.Context, now time.Time) (int, error) {
	stale, err := s.store.ListOpenMatchesStartedBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale open matches: %w", err)
	}

	expired := 0
	for _, candidate := range stale {
		cancelled := false
		err := s.store.InCourtTx(ctx, candidate.CourtID, func(tx repositories.BookingTx) error {
			cancelled = false
			current, err := tx.GetOpenMatch(ctx, candidate.ID)
			if err != nil {
				if errors.Is(err, repositories.ErrOpenMatchNotFound) {
					return nil
				}
				return err
			}
			if current.Status != models.OpenMatchStatusOpen || current.Start.After(now) {
				return nil
			}
			if err := tx.CancelReservation(ctx, current.ReservationID); err != nil &&
				!errors.Is(err, repositories.ErrReservationNotFound) {
				return err
			}
			if err := tx.UpdateOpenMatchStatus(ctx, current.ID, models.OpenMatchStatusCancelled); err != nil {
				return err
			}
			cancelled = true
			return nil
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to expire open match",
				slog.String("open_match_id", candidate.ID.String()),
				slog.Any("error", err))
			continue
		}
		// Counted only once the transaction has committed.
		if cancelled {
			expired++
		}
	}
	return expired, nil
}

// admit runs the conflict check for one candidate inside an open court
// transaction, returning a SlotConflictError naming the colliding
// reservation.
func (s *bookingService) admit(ctx context.Context, tx repositories.BookingTx, courtID int, candidate models.Interval, excludeID *uuid.UUID) error {
	existing, err := tx.ListActiveInWindow(ctx, courtID, candidate, excludeID)
	if err != nil {
		return err
	}
	intervals := make([]models.Interval, len(existing))
	for i, reservation := range existing {
		intervals[i] = reservation.Interval
	}
	idx, err := scheduling.FirstConflict(candidate, intervals)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, err)
	}
	if idx >= 0 {
		return &SlotConflictError{ConflictingID: existing[idx].ID}
	}
	return nil
}

func (s *bookingService) mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrSerializationFailure):
		return ErrStaleState
	case errors.Is(err, repositories.ErrCourtNotFound):
		return ErrCourtNotFound
	case errors.Is(err, repositories.ErrReservationNotFound):
		return ErrReservationNotFound
	case errors.Is(err, repositories.ErrOpenMatchNotFound):
		return ErrOpenMatchNotFound
	default:
		return err
	}
}

func mapOpenMatchError(err error) error {
	switch {
	case errors.Is(err, models.ErrOpenMatchCapacityExceeded):
		return ErrCapacityExceeded
	case errors.Is(err, models.ErrOpenMatchDuplicatePlayer):
		return ErrDuplicatePlayer
	case errors.Is(err, models.ErrOpenMatchLevelOutOfRange):
		return ErrLevelOutOfRange
	case errors.Is(err, models.ErrOpenMatchPlayerNotJoined):
		return ErrPlayerNotJoined
	case errors.Is(err, models.ErrOpenMatchNotJoinable):
		return ErrOpenMatchNotFound
	default:
		return err
	}
}
