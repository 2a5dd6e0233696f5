package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	reserrors "innkeeper/internal/reservations/errors"
	"innkeeper/internal/reservations/repository"
	"innkeeper/internal/reservations/validator"
	"innkeeper/pkg/config"
	mongotx "innkeeper/pkg/db/mongo"
	apperrors "innkeeper/pkg/errors"
	"innkeeper/pkg/interval"
	"innkeeper/pkg/logger"
	"innkeeper/pkg/model"
)

const (
	testHotelID = "605c72ef1532081e0b000001"
	testRoomA   = "605c72ef1532081e0b0000a1"
	testRoomB   = "605c72ef1532081e0b0000b2"
	testRoomC   = "605c72ef1532081e0b0000c3"
)

// Mock repositories for testing
type mockRoomRepository struct {
	findByHotelFunc  func(ctx context.Context, hotelID string) ([]*model.Room, error)
	findByIDFunc     func(ctx context.Context, id string) (*model.Room, error)
	findOccupiedFunc func(ctx context.Context) ([]*model.Room, error)
	setOccupiedFunc  func(ctx context.Context, id string, occupied bool) error
}

func (m *mockRoomRepository) FindByHotel(ctx context.Context, hotelID string) ([]*model.Room, error) {
	if m.findByHotelFunc != nil {
		return m.findByHotelFunc(ctx, hotelID)
	}
	return []*model.Room{}, nil
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Room{ID: id, HotelID: testHotelID, RoomNumber: "101", Category: model.CategoryDouble, Price: 140}, nil
}

func (m *mockRoomRepository) FindOccupied(ctx context.Context) ([]*model.Room, error) {
	if m.findOccupiedFunc != nil {
		return m.findOccupiedFunc(ctx)
	}
	return []*model.Room{}, nil
}

func (m *mockRoomRepository) SetOccupied(ctx context.Context, id string, occupied bool) error {
	if m.setOccupiedFunc != nil {
		return m.setOccupiedFunc(ctx, id, occupied)
	}
	return nil
}

type mockBookingLedger struct {
	insertFunc             func(ctx context.Context, booking *model.Booking) error
	deleteFunc             func(ctx context.Context, id string) error
	findByIDFunc           func(ctx context.Context, id string) (*model.Booking, error)
	entriesForRoomFunc     func(ctx context.Context, roomID string, after *time.Time, limit int, offset int64) ([]*model.Booking, error)
	countForRoomFunc       func(ctx context.Context, roomID string, after *time.Time) (int64, error)
	findOverlappingFunc    func(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error)
	hasActiveEntryFunc     func(ctx context.Context, roomID string, now time.Time) (bool, error)
	executeTransactionFunc func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockBookingLedger) Insert(ctx context.Context, booking *model.Booking) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, booking)
	}
	booking.ID = "605c72ef1532081e0b00beef"
	return nil
}

func (m *mockBookingLedger) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingLedger) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, reserrors.ErrBookingNotFound
}

func (m *mockBookingLedger) EntriesForRoom(ctx context.Context, roomID string, after *time.Time, limit int, offset int64) ([]*model.Booking, error) {
	if m.entriesForRoomFunc != nil {
		return m.entriesForRoomFunc(ctx, roomID, after, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingLedger) CountForRoom(ctx context.Context, roomID string, after *time.Time) (int64, error) {
	if m.countForRoomFunc != nil {
		return m.countForRoomFunc(ctx, roomID, after)
	}
	return 0, nil
}

func (m *mockBookingLedger) FindOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, roomID, checkIn, checkOut)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingLedger) HasActiveEntry(ctx context.Context, roomID string, now time.Time) (bool, error) {
	if m.hasActiveEntryFunc != nil {
		return m.hasActiveEntryFunc(ctx, roomID, now)
	}
	return false, nil
}

func (m *mockBookingLedger) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.executeTransactionFunc != nil {
		return m.executeTransactionFunc(ctx, fn)
	}
	// SessionContext is an interface; the callback tolerates nil in tests.
	return fn(nil)
}

type mockRoomLockRepository struct {
	acquireFunc func(ctx context.Context, roomID string, ttl time.Duration) error
	releaseFunc func(ctx context.Context, roomID string) error
}

func (m *mockRoomLockRepository) Acquire(ctx context.Context, roomID string, ttl time.Duration) error {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, roomID, ttl)
	}
	return nil
}

func (m *mockRoomLockRepository) Release(ctx context.Context, roomID string) error {
	if m.releaseFunc != nil {
		return m.releaseFunc(ctx, roomID)
	}
	return nil
}

type mockPublisher struct {
	mu        sync.Mutex
	confirmed int
	cancelled int
}

func (m *mockPublisher) BookingConfirmed(ctx context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmed++
	return nil
}

func (m *mockPublisher) BookingCancelled(ctx context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled++
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
		LockTTL:             time.Second,
		LockWaitTimeout:     200 * time.Millisecond,
		LockRetryInterval:   5 * time.Millisecond,
		ReserveMaxRetries:   3,
		ReserveRetryBackoff: 5 * time.Millisecond,
	}
}

func newTestService(ledger repository.BookingLedger, rooms repository.RoomRepository, locks repository.RoomLockRepository, publisher *mockPublisher) *reservationService {
	cfg := testConfig()
	return &reservationService{
		ledger:    ledger,
		rooms:     rooms,
		locks:     locks,
		validator: validator.NewReservationValidator(cfg.Log),
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

func testBooking(roomIDs ...string) *model.Booking {
	if len(roomIDs) == 0 {
		roomIDs = []string{testRoomA}
	}
	checkIn := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	return &model.Booking{
		HotelID:    testHotelID,
		RoomIDs:    roomIDs,
		CheckIn:    checkIn,
		CheckOut:   checkIn.AddDate(0, 0, 4),
		TotalPrice: 560.0,
		Guest: model.GuestContact{
			Name:  "John Smith",
			Email: "john@example.com",
		},
	}
}

func TestReserve_Success(t *testing.T) {
	publisher := &mockPublisher{}
	var inserted *model.Booking
	var released []string

	ledger := &mockBookingLedger{
		insertFunc: func(ctx context.Context, booking *model.Booking) error {
			inserted = booking
			booking.ID = "605c72ef1532081e0b00beef"
			return nil
		},
	}
	locks := &mockRoomLockRepository{
		releaseFunc: func(ctx context.Context, roomID string) error {
			released = append(released, roomID)
			return nil
		},
	}
	service := newTestService(ledger, &mockRoomRepository{}, locks, publisher)

	booking := testBooking()
	// Clients send arbitrary clock times; the service stores whole days.
	booking.CheckIn = booking.CheckIn.Add(15 * time.Hour)
	booking.CheckOut = booking.CheckOut.Add(9 * time.Hour)

	if err := service.Reserve(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inserted == nil {
		t.Fatal("expected booking to be inserted")
	}
	if booking.ID == "" {
		t.Error("expected booking ID to be assigned")
	}
	if booking.Status != model.StatusConfirmed {
		t.Errorf("Status = %q, want %q", booking.Status, model.StatusConfirmed)
	}
	wantCheckIn := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	if !booking.CheckIn.Equal(wantCheckIn) {
		t.Errorf("CheckIn = %v, want normalized %v", booking.CheckIn, wantCheckIn)
	}
	if len(released) != 1 || released[0] != testRoomA {
		t.Errorf("released locks = %v, want [%s]", released, testRoomA)
	}
	if publisher.confirmed != 1 {
		t.Errorf("confirmed events = %d, want 1", publisher.confirmed)
	}
}

func TestReserve_ConflictingEntry(t *testing.T) {
	existing := testBooking()
	var insertCalled bool

	ledger := &mockBookingLedger{
		findOverlappingFunc: func(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
			return []*model.Booking{existing}, nil
		},
		insertFunc: func(ctx context.Context, booking *model.Booking) error {
			insertCalled = true
			return nil
		},
	}
	publisher := &mockPublisher{}
	service := newTestService(ledger, &mockRoomRepository{}, &mockRoomLockRepository{}, publisher)

	err := service.Reserve(context.Background(), testBooking())
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeConflict)
	}
	rooms, ok := appErr.Details["rooms"].([]string)
	if !ok || len(rooms) != 1 || rooms[0] != testRoomA {
		t.Errorf("Details[rooms] = %v, want [%s]", appErr.Details["rooms"], testRoomA)
	}
	if insertCalled {
		t.Error("expected no insert after conflict")
	}
	if apperrors.IsRetryable(err) {
		t.Error("conflicts must not be marked retryable")
	}
	if publisher.confirmed != 0 {
		t.Error("expected no confirmed event after conflict")
	}
}

func TestReserve_MultiRoomAtomicity(t *testing.T) {
	var insertCalled bool

	// Room B already carries an overlapping entry; the whole request fails.
	ledger := &mockBookingLedger{
		findOverlappingFunc: func(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
			if roomID == testRoomB {
				return []*model.Booking{testBooking(testRoomB)}, nil
			}
			return []*model.Booking{}, nil
		},
		insertFunc: func(ctx context.Context, booking *model.Booking) error {
			insertCalled = true
			return nil
		},
	}
	service := newTestService(ledger, &mockRoomRepository{}, &mockRoomLockRepository{}, &mockPublisher{})

	err := service.Reserve(context.Background(), testBooking(testRoomA, testRoomB, testRoomC))
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeConflict)
	}
	rooms, _ := appErr.Details["rooms"].([]string)
	if len(rooms) != 1 || rooms[0] != testRoomB {
		t.Errorf("Details[rooms] = %v, want only the busy room %s", rooms, testRoomB)
	}
	if insertCalled {
		t.Error("no room may be booked when any requested room is busy")
	}
}

func TestReserve_ValidationFailure(t *testing.T) {
	service := newTestService(&mockBookingLedger{}, &mockRoomRepository{}, &mockRoomLockRepository{}, &mockPublisher{})

	booking := testBooking()
	booking.TotalPrice = -5

	err := service.Reserve(context.Background(), booking)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeValidation)
	}
}

func TestReserve_RoomNotFound(t *testing.T) {
	rooms := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Room, error) {
			return nil, reserrors.ErrRoomNotFound
		},
	}
	service := newTestService(&mockBookingLedger{}, rooms, &mockRoomLockRepository{}, &mockPublisher{})

	err := service.Reserve(context.Background(), testBooking())
	if err == nil {
		t.Fatal("expected not found error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeNotFound)
	}
}

func TestReserve_RoomBelongsToOtherHotel(t *testing.T) {
	rooms := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Room, error) {
			return &model.Room{ID: id, HotelID: "605c72ef1532081e0b00ffff"}, nil
		},
	}
	service := newTestService(&mockBookingLedger{}, rooms, &mockRoomLockRepository{}, &mockPublisher{})

	err := service.Reserve(context.Background(), testBooking())
	if err == nil {
		t.Fatal("expected invalid input error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeInvalidInput)
	}
}

func TestReserve_LockTimeout(t *testing.T) {
	locks := &mockRoomLockRepository{
		acquireFunc: func(ctx context.Context, roomID string, ttl time.Duration) error {
			return reserrors.ErrLockHeld
		},
	}
	service := newTestService(&mockBookingLedger{}, &mockRoomRepository{}, locks, &mockPublisher{})

	err := service.Reserve(context.Background(), testBooking())
	if err == nil {
		t.Fatal("expected unavailable error, got nil")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeUnavailable {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeUnavailable)
	}
	if !apperrors.IsRetryable(err) {
		t.Error("lock timeouts must be retryable")
	}
}

func TestReserve_LocksSortedAcrossRooms(t *testing.T) {
	var mu sync.Mutex
	var order []string
	locks := &mockRoomLockRepository{
		acquireFunc: func(ctx context.Context, roomID string, ttl time.Duration) error {
			mu.Lock()
			order = append(order, roomID)
			mu.Unlock()
			return nil
		},
	}
	service := newTestService(&mockBookingLedger{}, &mockRoomRepository{}, locks, &mockPublisher{})

	// Rooms arrive in caller order; locks must be taken sorted.
	if err := service.Reserve(context.Background(), testBooking(testRoomC, testRoomA, testRoomB)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{testRoomA, testRoomB, testRoomC}
	if len(order) != 3 {
		t.Fatalf("acquired %d locks, want 3", len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("lock order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestReserve_TransientFailureRetries(t *testing.T) {
	attempts := 0
	ledger := &mockBookingLedger{
		executeTransactionFunc: func(ctx context.Context, fn mongotx.TransactionFunc) error {
			attempts++
			if attempts < 3 {
				return errors.New("transaction failed: connection reset")
			}
			return fn(nil)
		},
	}
	service := newTestService(ledger, &mockRoomRepository{}, &mockRoomLockRepository{}, &mockPublisher{})

	if err := service.Reserve(context.Background(), testBooking()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestReserve_TransientFailureExhaustsRetries(t *testing.T) {
	attempts := 0
	ledger := &mockBookingLedger{
		executeTransactionFunc: func(ctx context.Context, fn mongotx.TransactionFunc) error {
			attempts++
			return errors.New("transaction failed: connection reset")
		},
	}
	service := newTestService(ledger, &mockRoomRepository{}, &mockRoomLockRepository{}, &mockPublisher{})

	err := service.Reserve(context.Background(), testBooking())
	if err == nil {
		t.Fatal("expected unavailable error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeUnavailable {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeUnavailable)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

// Run with -race. N concurrent requests for the same room and dates must
// produce exactly one ledger entry; the advisory lock serializes the
// check-then-append and the in-transaction re-check rejects the rest.
func TestReserve_ConcurrentSameRoom(t *testing.T) {
	const workers = 8

	var lockMu sync.Mutex
	held := make(map[string]bool)
	locks := &mockRoomLockRepository{
		acquireFunc: func(ctx context.Context, roomID string, ttl time.Duration) error {
			lockMu.Lock()
			defer lockMu.Unlock()
			if held[roomID] {
				return reserrors.ErrLockHeld
			}
			held[roomID] = true
			return nil
		},
		releaseFunc: func(ctx context.Context, roomID string) error {
			lockMu.Lock()
			defer lockMu.Unlock()
			delete(held, roomID)
			return nil
		},
	}

	var ledgerMu sync.Mutex
	var entries []*model.Booking
	ledger := &mockBookingLedger{
		findOverlappingFunc: func(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
			ledgerMu.Lock()
			defer ledgerMu.Unlock()
			requested := interval.New(checkIn, checkOut)
			var overlapping []*model.Booking
			for _, e := range entries {
				for _, id := range e.RoomIDs {
					if id == roomID && interval.Overlaps(requested, interval.New(e.CheckIn, e.CheckOut)) {
						overlapping = append(overlapping, e)
					}
				}
			}
			return overlapping, nil
		},
		insertFunc: func(ctx context.Context, booking *model.Booking) error {
			ledgerMu.Lock()
			defer ledgerMu.Unlock()
			booking.ID = "605c72ef1532081e0b00beef"
			stored := *booking
			entries = append(entries, &stored)
			return nil
		},
	}

	service := newTestService(ledger, &mockRoomRepository{}, locks, &mockPublisher{})
	// Generous wait so every worker gets its turn at the lock.
	service.cfg.LockWaitTimeout = 500 * time.Millisecond

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- service.Reserve(context.Background(), testBooking())
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		appErr := apperrors.AsAppError(err)
		if appErr.Code != apperrors.CodeConflict && appErr.Code != apperrors.CodeUnavailable {
			t.Errorf("unexpected failure code %s: %v", appErr.Code, err)
		}
	}

	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if len(entries) != 1 {
		t.Errorf("ledger entries = %d, want exactly 1", len(entries))
	}
}

func TestCancel_Success(t *testing.T) {
	publisher := &mockPublisher{}
	existing := testBooking()
	existing.ID = "605c72ef1532081e0b00beef"

	var deletedID string
	var occupancyChecked []string
	ledger := &mockBookingLedger{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return existing, nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
		hasActiveEntryFunc: func(ctx context.Context, roomID string, now time.Time) (bool, error) {
			occupancyChecked = append(occupancyChecked, roomID)
			return false, nil
		},
	}
	service := newTestService(ledger, &mockRoomRepository{}, &mockRoomLockRepository{}, publisher)

	if err := service.Cancel(context.Background(), existing.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deletedID != existing.ID {
		t.Errorf("deleted ID = %s, want %s", deletedID, existing.ID)
	}
	if len(occupancyChecked) != 1 || occupancyChecked[0] != testRoomA {
		t.Errorf("occupancy refreshed for %v, want [%s]", occupancyChecked, testRoomA)
	}
	if publisher.cancelled != 1 {
		t.Errorf("cancelled events = %d, want 1", publisher.cancelled)
	}
}

func TestCancel_NotFound(t *testing.T) {
	service := newTestService(&mockBookingLedger{}, &mockRoomRepository{}, &mockRoomLockRepository{}, &mockPublisher{})

	err := service.Cancel(context.Background(), "605c72ef1532081e0b00beef")
	if err == nil {
		t.Fatal("expected not found error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeNotFound)
	}
}

func TestCancel_LostRaceWithConcurrentCancel(t *testing.T) {
	existing := testBooking()
	existing.ID = "605c72ef1532081e0b00beef"

	ledger := &mockBookingLedger{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return existing, nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			return reserrors.ErrBookingNotFound
		},
	}
	service := newTestService(ledger, &mockRoomRepository{}, &mockRoomLockRepository{}, &mockPublisher{})

	err := service.Cancel(context.Background(), existing.ID)
	if err == nil {
		t.Fatal("expected not found error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeNotFound)
	}
}

func TestGetByID_InvalidID(t *testing.T) {
	ledger := &mockBookingLedger{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, reserrors.ErrInvalidID
		},
	}
	service := newTestService(ledger, &mockRoomRepository{}, &mockRoomLockRepository{}, &mockPublisher{})

	_, err := service.GetByID(context.Background(), "nonsense")
	if err == nil {
		t.Fatal("expected invalid input error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeInvalidInput)
	}
}

func TestEntriesForRoom_HistoryFilter(t *testing.T) {
	var capturedAfter *time.Time
	ledger := &mockBookingLedger{
		entriesForRoomFunc: func(ctx context.Context, roomID string, after *time.Time, limit int, offset int64) ([]*model.Booking, error) {
			capturedAfter = after
			return []*model.Booking{}, nil
		},
	}
	service := newTestService(ledger, &mockRoomRepository{}, &mockRoomLockRepository{}, &mockPublisher{})

	if _, _, err := service.EntriesForRoom(context.Background(), testRoomA, false, 10, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedAfter == nil {
		t.Error("expected history cutoff when include_history is off")
	}

	if _, _, err := service.EntriesForRoom(context.Background(), testRoomA, true, 10, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedAfter != nil {
		t.Error("expected no cutoff when history is included")
	}
}
