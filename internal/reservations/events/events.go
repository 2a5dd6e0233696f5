package events

import (
	"time"

	"innkeeper/pkg/model"
)

const (
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"
)

// BookingEvent is the payload collaborators (notification delivery, payment
// capture) consume. Guest contact data stays out of the event; consumers
// that need it fetch the booking by ID.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	HotelID    string    `json:"hotel_id"`
	RoomIDs    []string  `json:"room_ids"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	TotalPrice float64   `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newBookingEvent(eventType string, booking *model.Booking) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		HotelID:    booking.HotelID,
		RoomIDs:    booking.RoomIDs,
		CheckIn:    booking.CheckIn,
		CheckOut:   booking.CheckOut,
		TotalPrice: booking.TotalPrice,
		OccurredAt: time.Now().UTC(),
	}
}
