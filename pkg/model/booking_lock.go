package model

import "time"

// BookingLock is an advisory lock serializing the overlap-check-then-insert
// sequence for a single car. The _id encodes the car, so a duplicate key
// error means another request currently holds the car.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
