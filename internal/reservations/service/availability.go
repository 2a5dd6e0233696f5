package service

import (
	"context"
	"time"

	"innkeeper/internal/reservations/repository"
	"innkeeper/pkg/config"
	apperrors "innkeeper/pkg/errors"
	"innkeeper/pkg/interval"
	"innkeeper/pkg/model"
)

// Per-room fetch cap when scanning the ledger. A single hotel room rarely
// carries more than a few dozen current-and-future entries.
const maxEntriesPerRoom = 100

// AvailabilityService computes which rooms of a hotel are free over a date
// range. The result is an advisory snapshot: it takes no locks, may be
// slightly stale under concurrent writers, and is always re-validated by
// Reserve before anything commits.
type AvailabilityService interface {
	FindAvailableRooms(ctx context.Context, hotelID string, checkIn, checkOut time.Time) ([]*model.Room, error)
}

type availabilityService struct {
	rooms  repository.RoomRepository
	ledger repository.BookingLedger
	cfg    *config.Config
}

func NewAvailabilityService(
	rooms repository.RoomRepository,
	ledger repository.BookingLedger,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		rooms:  rooms,
		ledger: ledger,
		cfg:    cfg,
	}
}

func (s *availabilityService) FindAvailableRooms(ctx context.Context, hotelID string, checkIn, checkOut time.Time) ([]*model.Room, error) {
	if hotelID == "" {
		return nil, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	requested := interval.New(interval.NormalizeDate(checkIn), interval.NormalizeDate(checkOut))
	if !requested.Valid() {
		return nil, apperrors.InvalidInput("check_out must be after check_in")
	}

	rooms, err := s.rooms.FindByHotel(ctx, hotelID)
	if err != nil {
		s.cfg.Log.Error("Failed to list rooms for hotel", "hotel_id", hotelID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve rooms", err)
	}
	if len(rooms) == 0 {
		return nil, apperrors.NotFoundWithID("Hotel", hotelID)
	}

	available := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		free, err := s.isFree(ctx, room.ID, requested)
		if err != nil {
			s.cfg.Log.Error("Failed to check room availability",
				"hotel_id", hotelID,
				"room_id", room.ID,
				"error", err,
			)
			return nil, apperrors.Internal("Failed to check room availability", err)
		}
		if free {
			available = append(available, room)
		}
	}

	s.cfg.Log.Debug("Availability computed",
		"hotel_id", hotelID,
		"check_in", requested.CheckIn,
		"check_out", requested.CheckOut,
		"rooms_total", len(rooms),
		"rooms_available", len(available),
	)
	return available, nil
}

func (s *availabilityService) isFree(ctx context.Context, roomID string, requested interval.Interval) (bool, error) {
	// Entries ending before the requested check-in cannot overlap; filter
	// them out at the store and run the predicate over the rest.
	entries, err := s.ledger.EntriesForRoom(ctx, roomID, &requested.CheckIn, maxEntriesPerRoom, 0)
	if err != nil {
		return false, err
	}

	for _, entry := range entries {
		if interval.Overlaps(requested, interval.New(entry.CheckIn, entry.CheckOut)) {
			return false, nil
		}
	}
	return true, nil
}
