package notify

import (
	"context"
	"time"
)

// Payload carries everything needed to render a booking confirmation.
type Payload struct {
	RecipientEmail string
	RecipientName  string
	BookingID      int64
	CarMake        string
	CarModel       string
	LicensePlate   string
	Start          time.Time
	End            time.Time
}

// Notifier delivers booking confirmations. Implementations are
// best-effort collaborators: they report failure through the returned
// values and must never panic past this boundary. The booking that
// triggered the notification is already committed and is never undone
// by a delivery failure.
type Notifier interface {
	Send(ctx context.Context, payload Payload) (delivered bool, detail string)
}
