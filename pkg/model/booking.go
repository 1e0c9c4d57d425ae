package model

import (
	"time"
)

// DateTimeLayout is the wire format accepted for booking start/end times.
const DateTimeLayout = "2006-01-02 15:04:05"

// Booking reserves a car for a half-open time window [start, end).
// IDs are allocated from a monotonic sequence at insert time.
type Booking struct {
	ID            int64     `json:"id" bson:"_id"`
	CarID         int64     `json:"car_id" bson:"car_id"`
	StartDatetime time.Time `json:"start_datetime" bson:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime" bson:"end_datetime"`
	BookedBy      string    `json:"booked_by" bson:"booked_by"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// Overlaps reports whether the booking's window shares any instant with
// [start, end). Touching boundaries do not overlap.
func (b Booking) Overlaps(start, end time.Time) bool {
	return b.StartDatetime.Before(end) && b.EndDatetime.After(start)
}

// BookingRequest is the create-booking payload. Datetimes arrive as
// "YYYY-MM-DD HH:MM:SS" strings and are parsed by the validator.
type BookingRequest struct {
	CarID         int64  `json:"car_id" validate:"required,min=1"`
	StartDatetime string `json:"start_datetime" validate:"required"`
	EndDatetime   string `json:"end_datetime" validate:"required"`
	BookedBy      string `json:"booked_by" validate:"required,min=1,max=100"`
}

// BookingResult is the create-booking response body. EmailSent reflects
// the delivery outcome of the synchronous confirmation attempt.
type BookingResult struct {
	ID        int64 `json:"id"`
	EmailSent bool  `json:"email_sent"`
}
