package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	reserrors "innkeeper/internal/reservations/errors"
	"innkeeper/internal/reservations/events"
	"innkeeper/internal/reservations/repository"
	"innkeeper/internal/reservations/validator"
	"innkeeper/pkg/config"
	apperrors "innkeeper/pkg/errors"
	"innkeeper/pkg/interval"
	"innkeeper/pkg/model"
	"innkeeper/pkg/sanitizer"
)

// ReservationService owns the booking lifecycle. Reserve and Cancel both run
// as lock -> transact -> release: per-room advisory locks serialize writers
// on each room, and the transaction re-checks the ledger before mutating it,
// so a room can never carry two overlapping confirmed bookings.
type ReservationService interface {
	Reserve(ctx context.Context, booking *model.Booking) error
	Cancel(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	EntriesForRoom(ctx context.Context, roomID string, includeHistory bool, limit int, offset int64) ([]*model.Booking, int64, error)
}

type reservationService struct {
	ledger    repository.BookingLedger
	rooms     repository.RoomRepository
	locks     repository.RoomLockRepository
	validator *validator.ReservationValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewReservationService(
	ledger repository.BookingLedger,
	rooms repository.RoomRepository,
	locks repository.RoomLockRepository,
	v *validator.ReservationValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		ledger:    ledger,
		rooms:     rooms,
		locks:     locks,
		validator: v,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *reservationService) Reserve(ctx context.Context, booking *model.Booking) error {
	s.sanitizeGuest(booking)
	booking.CheckIn = interval.NormalizeDate(booking.CheckIn)
	booking.CheckOut = interval.NormalizeDate(booking.CheckOut)
	if booking.Status == "" {
		booking.Status = model.StatusConfirmed
	}

	if err := s.validator.Validate(booking); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return apperrors.Validation("Booking validation failed", map[string]any{
				"fields": verrs,
			})
		}
		return apperrors.Internal("Failed to validate booking", err)
	}

	if err := s.verifyRooms(ctx, booking); err != nil {
		return err
	}

	release, err := s.acquireRoomLocks(ctx, booking.RoomIDs)
	if err != nil {
		return err
	}
	defer release()

	if err := s.commitWithRetry(ctx, booking); err != nil {
		return err
	}

	s.refreshOccupancy(ctx, booking.RoomIDs)

	if err := s.publisher.BookingConfirmed(ctx, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking confirmed event",
			"booking_id", booking.ID,
			"error", err,
		)
	}

	s.cfg.Log.Info("Booking confirmed",
		"booking_id", booking.ID,
		"hotel_id", booking.HotelID,
		"rooms", len(booking.RoomIDs),
		"check_in", booking.CheckIn,
		"check_out", booking.CheckOut,
	)
	return nil
}

func (s *reservationService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}

	release, err := s.acquireRoomLocks(ctx, booking.RoomIDs)
	if err != nil {
		return err
	}
	defer release()

	err = s.ledger.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return s.ledger.Delete(sessCtx, id)
	})
	if err != nil {
		if errors.Is(err, reserrors.ErrBookingNotFound) {
			// Lost a race with another cancel; the entry is gone either way.
			return apperrors.NotFoundWithID("Booking", id)
		}
		if apperrors.IsAppError(err) {
			return err
		}
		s.cfg.Log.Error("Failed to cancel booking", "booking_id", id, "error", err)
		return apperrors.Internal("Failed to cancel booking", err)
	}

	s.refreshOccupancy(ctx, booking.RoomIDs)

	if err := s.publisher.BookingCancelled(ctx, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking cancelled event",
			"booking_id", id,
			"error", err,
		)
	}

	s.cfg.Log.Info("Booking cancelled", "booking_id", id, "hotel_id", booking.HotelID)
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	return s.findBooking(ctx, id)
}

func (s *reservationService) EntriesForRoom(ctx context.Context, roomID string, includeHistory bool, limit int, offset int64) ([]*model.Booking, int64, error) {
	if roomID == "" {
		return nil, 0, apperrors.InvalidInput("Room ID cannot be empty")
	}

	var after *time.Time
	if !includeHistory {
		now := s.now()
		after = &now
	}

	bookings, err := s.ledger.EntriesForRoom(ctx, roomID, after, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list ledger entries", "room_id", roomID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	total, err := s.ledger.CountForRoom(ctx, roomID, after)
	if err != nil {
		s.cfg.Log.Error("Failed to count ledger entries", "room_id", roomID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, total, nil
}

func (s *reservationService) sanitizeGuest(booking *model.Booking) {
	booking.Guest.Name = sanitizer.SanitizeGuestName(booking.Guest.Name)
	booking.Guest.Email = sanitizer.SanitizeEmail(booking.Guest.Email)
	booking.Guest.Phone = sanitizer.SanitizePhone(booking.Guest.Phone)
}

// verifyRooms checks every requested room exists and belongs to the booking's
// hotel before any lock is taken.
func (s *reservationService) verifyRooms(ctx context.Context, booking *model.Booking) error {
	for _, roomID := range booking.RoomIDs {
		room, err := s.rooms.FindByID(ctx, roomID)
		if err != nil {
			switch {
			case errors.Is(err, reserrors.ErrRoomNotFound):
				return apperrors.NotFoundWithID("Room", roomID)
			case errors.Is(err, reserrors.ErrInvalidID):
				return apperrors.InvalidInput(fmt.Sprintf("Invalid room ID: %s", roomID))
			default:
				s.cfg.Log.Error("Failed to look up room", "room_id", roomID, "error", err)
				return apperrors.Internal("Failed to verify rooms", err)
			}
		}
		if room.HotelID != booking.HotelID {
			return apperrors.InvalidInput(
				fmt.Sprintf("Room %s does not belong to hotel %s", roomID, booking.HotelID),
			)
		}
	}
	return nil
}

// acquireRoomLocks takes the advisory lock on every room, in sorted order so
// two requests over intersecting room sets cannot deadlock. Each held lock is
// retried until cfg.LockWaitTimeout elapses; on failure every lock acquired
// so far is released before returning.
func (s *reservationService) acquireRoomLocks(ctx context.Context, roomIDs []string) (func(), error) {
	sorted := make([]string, len(roomIDs))
	copy(sorted, roomIDs)
	sort.Strings(sorted)

	acquired := make([]string, 0, len(sorted))
	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			if err := s.locks.Release(context.WithoutCancel(ctx), acquired[i]); err != nil {
				// The TTL index reclaims it once expires_at passes.
				s.cfg.Log.Warn("Failed to release room lock", "room_id", acquired[i], "error", err)
			}
		}
	}

	deadline := s.now().Add(s.cfg.LockWaitTimeout)
	for _, roomID := range sorted {
		if err := s.acquireOne(ctx, roomID, deadline); err != nil {
			release()
			return nil, err
		}
		acquired = append(acquired, roomID)
	}

	return release, nil
}

func (s *reservationService) acquireOne(ctx context.Context, roomID string, deadline time.Time) error {
	for {
		err := s.locks.Acquire(ctx, roomID, s.cfg.LockTTL)
		if err == nil {
			return nil
		}
		if !errors.Is(err, reserrors.ErrLockHeld) {
			s.cfg.Log.Error("Failed to acquire room lock", "room_id", roomID, "error", err)
			return apperrors.Internal("Failed to lock room", err)
		}
		if !s.now().Before(deadline) {
			return apperrors.Unavailable("Room is locked by another reservation attempt, retry shortly").
				WithDetails(map[string]any{"room_id": roomID})
		}

		select {
		case <-ctx.Done():
			return apperrors.Timeout("Reservation request timed out waiting for room lock")
		case <-time.After(s.cfg.LockRetryInterval):
		}
	}
}

// commitWithRetry runs the check-then-append transaction. Inside the
// transaction every room is re-checked against the ledger; a conflict aborts
// with CONFLICT and is never retried, while transient store failures are
// retried up to cfg.ReserveMaxRetries times.
func (s *reservationService) commitWithRetry(ctx context.Context, booking *model.Booking) error {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.ReserveMaxRetries; attempt++ {
		err := s.ledger.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			busy, err := s.findBusyRooms(sessCtx, booking)
			if err != nil {
				return err
			}
			if len(busy) > 0 {
				return apperrors.Conflict("One or more rooms are already booked for the requested dates").
					WithDetails(map[string]any{"rooms": busy})
			}
			return s.ledger.Insert(sessCtx, booking)
		})
		if err == nil {
			return nil
		}
		if apperrors.IsAppError(err) {
			return err
		}

		lastErr = err
		s.cfg.Log.Warn("Transient store failure during reserve",
			"attempt", attempt,
			"max_attempts", s.cfg.ReserveMaxRetries,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return apperrors.Timeout("Reservation request timed out")
		case <-time.After(s.cfg.ReserveRetryBackoff):
		}
	}

	s.cfg.Log.Error("Reservation failed after retries", "error", lastErr)
	return apperrors.Wrap(lastErr, apperrors.CodeUnavailable,
		"Booking store unavailable, retry later", http.StatusServiceUnavailable)
}

func (s *reservationService) findBusyRooms(ctx context.Context, booking *model.Booking) ([]string, error) {
	var busy []string
	for _, roomID := range booking.RoomIDs {
		overlapping, err := s.ledger.FindOverlapping(ctx, roomID, booking.CheckIn, booking.CheckOut)
		if err != nil {
			return nil, err
		}
		if len(overlapping) > 0 {
			busy = append(busy, roomID)
		}
	}
	return busy, nil
}

// refreshOccupancy recomputes the derived occupied flag for each room from
// the ledger. Failures are logged and left for the sweeper to repair.
func (s *reservationService) refreshOccupancy(ctx context.Context, roomIDs []string) {
	for _, roomID := range roomIDs {
		active, err := s.ledger.HasActiveEntry(ctx, roomID, s.now())
		if err != nil {
			s.cfg.Log.Warn("Failed to compute room occupancy", "room_id", roomID, "error", err)
			continue
		}
		if err := s.rooms.SetOccupied(ctx, roomID, active); err != nil {
			s.cfg.Log.Warn("Failed to update room occupancy", "room_id", roomID, "error", err)
		}
	}
}

func (s *reservationService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.ledger.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, reserrors.ErrBookingNotFound):
			return nil, apperrors.NotFoundWithID("Booking", id)
		case errors.Is(err, reserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid booking ID: %s", id))
		default:
			s.cfg.Log.Error("Failed to find booking", "booking_id", id, "error", err)
			return nil, apperrors.Internal("Failed to retrieve booking", err)
		}
	}
	return booking, nil
}
