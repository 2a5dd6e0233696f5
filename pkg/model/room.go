package model

type RoomCategory string

const (
	CategorySingle RoomCategory = "single"
	CategoryDouble RoomCategory = "double"
	CategorySuite  RoomCategory = "suite"
)

// Room is a read-only view over hotel inventory. Room management is owned by
// the hotel administration service; this core only looks rooms up and
// maintains the derived Occupied flag.
type Room struct {
	ID         string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HotelID    string       `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	RoomNumber string       `json:"room_number" bson:"room_number" validate:"required,min=1,max=20"`
	Category   RoomCategory `json:"category" bson:"category" validate:"required,oneof=single double suite"`
	Price      float64      `json:"price" bson:"price" validate:"required,gt=0"`

	// Occupied is a read model derived from the booking ledger. It is
	// refreshed by the expiry sweeper and never consulted when deciding
	// whether a reservation may proceed; the ledger is authoritative.
	Occupied bool `json:"occupied" bson:"occupied"`
}
