package service

import (
	"context"
	"testing"
	"time"

	apperrors "innkeeper/pkg/errors"
	"innkeeper/pkg/model"
)

func testRooms() []*model.Room {
	return []*model.Room{
		{ID: testRoomA, HotelID: testHotelID, RoomNumber: "101", Category: model.CategorySingle, Price: 90},
		{ID: testRoomB, HotelID: testHotelID, RoomNumber: "102", Category: model.CategoryDouble, Price: 140},
		{ID: testRoomC, HotelID: testHotelID, RoomNumber: "201", Category: model.CategorySuite, Price: 320},
	}
}

func newAvailabilityService(rooms *mockRoomRepository, ledger *mockBookingLedger) AvailabilityService {
	return &availabilityService{
		rooms:  rooms,
		ledger: ledger,
		cfg:    testConfig(),
	}
}

func TestFindAvailableRooms_FiltersBookedRooms(t *testing.T) {
	checkIn := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 3)

	rooms := &mockRoomRepository{
		findByHotelFunc: func(ctx context.Context, hotelID string) ([]*model.Room, error) {
			return testRooms(), nil
		},
	}
	// Room B has an entry crossing the requested range.
	ledger := &mockBookingLedger{
		entriesForRoomFunc: func(ctx context.Context, roomID string, after *time.Time, limit int, offset int64) ([]*model.Booking, error) {
			if roomID == testRoomB {
				return []*model.Booking{{
					RoomIDs:  []string{testRoomB},
					CheckIn:  checkIn.AddDate(0, 0, -1),
					CheckOut: checkIn.AddDate(0, 0, 1),
				}}, nil
			}
			return []*model.Booking{}, nil
		},
	}

	service := newAvailabilityService(rooms, ledger)
	available, err := service.FindAvailableRooms(context.Background(), testHotelID, checkIn, checkOut)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(available) != 2 {
		t.Fatalf("available rooms = %d, want 2", len(available))
	}
	for _, room := range available {
		if room.ID == testRoomB {
			t.Errorf("room %s is booked and must not be offered", testRoomB)
		}
	}
}

func TestFindAvailableRooms_SameDayTurnover(t *testing.T) {
	checkIn := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 3)

	rooms := &mockRoomRepository{
		findByHotelFunc: func(ctx context.Context, hotelID string) ([]*model.Room, error) {
			return testRooms()[:1], nil
		},
	}
	// Existing guest checks out the morning the new guest checks in.
	ledger := &mockBookingLedger{
		entriesForRoomFunc: func(ctx context.Context, roomID string, after *time.Time, limit int, offset int64) ([]*model.Booking, error) {
			return []*model.Booking{{
				RoomIDs:  []string{testRoomA},
				CheckIn:  checkIn.AddDate(0, 0, -4),
				CheckOut: checkIn,
			}}, nil
		},
	}

	service := newAvailabilityService(rooms, ledger)
	available, err := service.FindAvailableRooms(context.Background(), testHotelID, checkIn, checkOut)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(available) != 1 {
		t.Errorf("available rooms = %d, want 1 (back-to-back stays share a turnover day)", len(available))
	}
}

func TestFindAvailableRooms_InvalidRange(t *testing.T) {
	service := newAvailabilityService(&mockRoomRepository{}, &mockBookingLedger{})
	checkIn := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
	}{
		{"checkout before checkin", checkIn, checkIn.AddDate(0, 0, -1)},
		{"zero length stay", checkIn, checkIn},
		{"same day after normalization", checkIn.Add(8 * time.Hour), checkIn.Add(20 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.FindAvailableRooms(context.Background(), testHotelID, tt.checkIn, tt.checkOut)
			if err == nil {
				t.Fatal("expected invalid input error, got nil")
			}
			if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
				t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeInvalidInput)
			}
		})
	}
}

func TestFindAvailableRooms_UnknownHotel(t *testing.T) {
	rooms := &mockRoomRepository{
		findByHotelFunc: func(ctx context.Context, hotelID string) ([]*model.Room, error) {
			return []*model.Room{}, nil
		},
	}
	service := newAvailabilityService(rooms, &mockBookingLedger{})

	checkIn := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	_, err := service.FindAvailableRooms(context.Background(), "605c72ef1532081e0b00dead", checkIn, checkIn.AddDate(0, 0, 2))
	if err == nil {
		t.Fatal("expected not found error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("Code = %s, want %s", appErr.Code, apperrors.CodeNotFound)
	}
}

func TestFindAvailableRooms_AllRoomsFree(t *testing.T) {
	rooms := &mockRoomRepository{
		findByHotelFunc: func(ctx context.Context, hotelID string) ([]*model.Room, error) {
			return testRooms(), nil
		},
	}
	service := newAvailabilityService(rooms, &mockBookingLedger{})

	checkIn := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	available, err := service.FindAvailableRooms(context.Background(), testHotelID, checkIn, checkIn.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(available) != 3 {
		t.Errorf("available rooms = %d, want 3", len(available))
	}
}
