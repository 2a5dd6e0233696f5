package model

import "time"

// RoomLock is an advisory lock serializing check-then-append on a single
// room. The unique _id insert is the mutual exclusion point; ExpiresAt backs
// a TTL index so locks orphaned by a crashed process release themselves.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
