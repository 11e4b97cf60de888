package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
	"golang.org/x/sync/errgroup"
)

// AvailabilityService renders one court's occupancy for a window as a list
// of typed blocks, so consumers handle the reservation and open-match shapes
// exhaustively instead of sniffing a loose list.
type AvailabilityService interface {
	CourtTimeline(ctx context.Context, courtID int, window models.Interval) ([]models.Block, error)
}

type availabilityService struct {
	reservations repositories.ReservationRepository
	openMatches  repositories.OpenMatchRepository
}

func NewAvailabilityService(reservations repositories.ReservationRepository, openMatches repositories.OpenMatchRepository) AvailabilityService {
	return &availabilityService{
		reservations: reservations,
		openMatches:  openMatches,
	}
}

func (s *availabilityService) CourtTimeline(ctx context.Context, courtID int, window models.Interval) ([]models.Block, error) {
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, err)
	}

	var (
		reservations []*models.Reservation
		matches      []*models.OpenMatch
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reservations, err = s.reservations.ListActiveInWindow(gctx, nil, courtID, window, nil)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.openMatches.ListByCourtInWindow(gctx, nil, courtID, window)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Provisional reservations are represented by their open-match block.
	backing := make(map[string]bool, len(matches))
	for _, match := range matches {
		backing[match.ReservationID.String()] = true
	}

	blocks := make([]models.Block, 0, len(reservations)+len(matches))
	for _, reservation := range reservations {
		if backing[reservation.ID.String()] {
			continue
		}
		blocks = append(blocks, models.ReservedBlock{
			ReservationID: reservation.ID,
			Interval:      reservation.Interval,
			OwnerRef:      reservation.OwnerRef,
		})
	}
	for _, match := range matches {
		blocks = append(blocks, models.OpenMatchBlock{
			OpenMatchID:   match.ID,
			ReservationID: match.ReservationID,
			Interval:      match.Interval(),
			Joined:        len(match.Players),
			Capacity:      match.Capacity,
			LevelMin:      match.LevelMin,
			LevelMax:      match.LevelMax,
			Status:        match.Status,
		})
	}

	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].BlockInterval().Start.Before(blocks[j].BlockInterval().Start)
	})
	return blocks, nil
}
