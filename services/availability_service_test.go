package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
	"github.com/google/uuid"
)

// stubReservationRepo serves a fixed window listing; the mutation methods are
// never reached from the timeline.
type stubReservationRepo struct {
	reservations []*models.Reservation
}

func (r *stubReservationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, reservation *models.Reservation) error {
	return errors.New("not implemented")
}

func (r *stubReservationRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) (*models.Reservation, error) {
	return nil, repositories.ErrReservationNotFound
}

func (r *stubReservationRepo) ListActiveInWindow(ctx context.Context, exec repositories.SQLExecutor, courtID int, window models.Interval, excludeID *uuid.UUID) ([]*models.Reservation, error) {
	var out []*models.Reservation
	for _, reservation := range r.reservations {
		if reservation.CourtID == courtID &&
			reservation.Interval.Start.Before(window.End) &&
			reservation.Interval.End.After(window.Start) {
			out = append(out, reservation)
		}
	}
	return out, nil
}

func (r *stubReservationRepo) Cancel(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) error {
	return errors.New("not implemented")
}

func (r *stubReservationRepo) UpdateInterval(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID, interval models.Interval) error {
	return errors.New("not implemented")
}

type stubOpenMatchRepo struct {
	matches []*models.OpenMatch
}

func (r *stubOpenMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.OpenMatch) error {
	return errors.New("not implemented")
}

func (r *stubOpenMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) (*models.OpenMatch, error) {
	return nil, repositories.ErrOpenMatchNotFound
}

func (r *stubOpenMatchRepo) GetByReservation(ctx context.Context, exec repositories.SQLExecutor, reservationID uuid.UUID) (*models.OpenMatch, error) {
	return nil, repositories.ErrOpenMatchNotFound
}

func (r *stubOpenMatchRepo) ListByCourtInWindow(ctx context.Context, exec repositories.SQLExecutor, courtID int, window models.Interval) ([]*models.OpenMatch, error) {
	var out []*models.OpenMatch
	for _, match := range r.matches {
		in := match.Interval()
		if match.CourtID == courtID && in.Start.Before(window.End) && in.End.After(window.Start) {
			out = append(out, match)
		}
	}
	return out, nil
}

func (r *stubOpenMatchRepo) ListOpenStartedBefore(ctx context.Context, exec repositories.SQLExecutor, cutoff time.Time) ([]*models.OpenMatch, error) {
	return nil, nil
}

func (r *stubOpenMatchRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID, status models.OpenMatchStatus) error {
	return errors.New("not implemented")
}

func (r *stubOpenMatchRepo) ReplacePlayers(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID, players []string) error {
	return errors.New("not implemented")
}

func (r *stubOpenMatchRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) error {
	return errors.New("not implemented")
}

func TestCourtTimeline(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	at := func(hour int) time.Time { return day.Add(time.Duration(hour) * time.Hour) }

	standard := &models.Reservation{
		ID:       uuid.New(),
		CourtID:  1,
		Interval: models.Interval{Start: at(14), End: at(15)},
		Kind:     models.ReservationKindStandard,
		Status:   models.ReservationStatusActive,
		OwnerRef: "alice",
	}
	provisional := &models.Reservation{
		ID:       uuid.New(),
		CourtID:  1,
		Interval: models.Interval{Start: at(10), End: at(11)},
		Kind:     models.ReservationKindProvisional,
		Status:   models.ReservationStatusActive,
	}
	match := &models.OpenMatch{
		ID:              uuid.New(),
		CourtID:         1,
		ReservationID:   provisional.ID,
		Start:           at(10),
		DurationMinutes: 60,
		Capacity:        models.OpenMatchCapacity,
		Players:         []string{"p1", "p2"},
		LevelMin:        2.0,
		LevelMax:        4.0,
		Status:          models.OpenMatchStatusOpen,
	}
	otherCourt := &models.Reservation{
		ID:       uuid.New(),
		CourtID:  2,
		Interval: models.Interval{Start: at(10), End: at(11)},
		Kind:     models.ReservationKindStandard,
		Status:   models.ReservationStatusActive,
	}

	svc := NewAvailabilityService(
		&stubReservationRepo{reservations: []*models.Reservation{standard, provisional, otherCourt}},
		&stubOpenMatchRepo{matches: []*models.OpenMatch{match}},
	)

	blocks, err := svc.CourtTimeline(context.Background(), 1, models.Interval{Start: at(8), End: at(20)})
	if err != nil {
		t.Fatalf("CourtTimeline: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2 (open match block subsumes its reservation)", len(blocks))
	}

	openBlock, ok := blocks[0].(models.OpenMatchBlock)
	if !ok {
		t.Fatalf("first block is %T, want OpenMatchBlock", blocks[0])
	}
	if openBlock.OpenMatchID != match.ID || openBlock.Joined != 2 {
		t.Errorf("open match block = %+v", openBlock)
	}

	reservedBlock, ok := blocks[1].(models.ReservedBlock)
	if !ok {
		t.Fatalf("second block is %T, want ReservedBlock", blocks[1])
	}
	if reservedBlock.ReservationID != standard.ID || reservedBlock.OwnerRef != "alice" {
		t.Errorf("reserved block = %+v", reservedBlock)
	}

	if !blocks[0].BlockInterval().Start.Before(blocks[1].BlockInterval().Start) {
		t.Error("blocks should be sorted by start time")
	}
}

func TestCourtTimelineInvalidWindow(t *testing.T) {
	svc := NewAvailabilityService(&stubReservationRepo{}, &stubOpenMatchRepo{})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := svc.CourtTimeline(context.Background(), 1, models.Interval{Start: now, End: now})
	if !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("zero-length window: got %v, want ErrInvalidInterval", err)
	}
}
