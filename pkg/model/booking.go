package model

import (
	"time"
)

const (
	StatusConfirmed = "confirmed"
)

// GuestContact is opaque to the reservation core beyond basic shape checks.
type GuestContact struct {
	Name  string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" bson:"email" validate:"required,email"`
	Phone string `json:"phone" bson:"phone" validate:"omitempty,guest_phone"`
}

// Booking is a ledger entry: a committed reservation of one or more rooms of
// a single hotel for a half-open [check_in, check_out) range. Entries are
// retained after check-out for history; only cancellation removes them.
type Booking struct {
	ID         string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HotelID    string       `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	RoomIDs    []string     `json:"room_ids" bson:"room_ids" validate:"required,min=1,max=20,dive,mongodb"`
	CheckIn    time.Time    `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut   time.Time    `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	TotalPrice float64      `json:"total_price" bson:"total_price" validate:"required,gt=0"`
	Guest      GuestContact `json:"guest" bson:"guest" validate:"required"`
	Status     string       `json:"status" bson:"status" validate:"omitempty,oneof=confirmed"`
	CreatedAt  time.Time    `json:"created_at" bson:"created_at" validate:"omitempty"`
}
