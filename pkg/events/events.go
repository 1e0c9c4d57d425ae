package events

import "time"

// Header keys attached to every published event.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

const TypeBookingCreated = "booking.created"

// BookingCreated is emitted after a booking commits. Consumers (fleet
// dashboards, reporting) must tolerate at-most-once delivery: publishing
// is best-effort and never blocks or fails the booking itself.
type BookingCreated struct {
	BookingID int64     `json:"booking_id"`
	CarID     int64     `json:"car_id"`
	Start     time.Time `json:"start_datetime"`
	End       time.Time `json:"end_datetime"`
	BookedBy  string    `json:"booked_by"`
	CreatedAt time.Time `json:"created_at"`
}
