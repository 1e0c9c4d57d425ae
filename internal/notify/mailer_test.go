package notify

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"carbook/pkg/config"
	"carbook/pkg/logger"
)

func testPayload() Payload {
	start := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	return Payload{
		RecipientEmail: "dana@example.com",
		RecipientName:  "Dana",
		BookingID:      42,
		CarMake:        "Toyota",
		CarModel:       "Corolla",
		LicensePlate:   "AB-123-CD",
		Start:          start,
		End:            start.Add(4 * time.Hour),
	}
}

func devConfig() *config.Config {
	return &config.Config{
		Log:         logger.New(logger.Config{Level: "error", Output: io.Discard, Service: "test"}),
		SMTPServer:  "smtp.example.com",
		SMTPPort:    587,
		SenderEmail: "noreply@example.com",
		// No SenderPassword: development mode, nothing is sent.
	}
}

func TestSend_DevModeReportsDelivered(t *testing.T) {
	mailer := NewMailer(devConfig())

	delivered, detail := mailer.Send(context.Background(), testPayload())
	if !delivered {
		t.Error("expected dev-mode delivery to report success")
	}
	if !strings.Contains(detail, "development mode") {
		t.Errorf("unexpected detail: %q", detail)
	}
}

func TestBuildInvite(t *testing.T) {
	invite, err := buildInvite(testPayload())
	if err != nil {
		t.Fatalf("buildInvite() failed: %v", err)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:REQUEST",
		"UID:booking-42@carbook",
		"SUMMARY:Car Rental: Toyota Corolla",
		"DTSTART:20260914T100000Z",
		"DTEND:20260914T140000Z",
		"STATUS:CONFIRMED",
		"BEGIN:VALARM",
		"TRIGGER:-PT1H",
		"END:VCALENDAR",
	} {
		if !strings.Contains(invite, want) {
			t.Errorf("invite missing %q:\n%s", want, invite)
		}
	}
}

func TestBuildMessage(t *testing.T) {
	cfg := devConfig()
	mailer := NewMailer(cfg)

	msg, err := mailer.buildMessage(testPayload())
	if err != nil {
		t.Fatalf("buildMessage() failed: %v", err)
	}

	text := string(msg)
	for _, want := range []string{
		"To: dana@example.com",
		"Subject: Booking Confirmed - Toyota Corolla (#42)",
		"Content-Type: multipart/mixed",
		"Content-Type: text/html",
		"Content-Type: text/calendar",
		`filename="booking.ics"`,
		"Hi Dana,",
		"AB-123-CD",
		"Monday, September 14, 2026 at 10:00 AM",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q", want)
		}
	}
}
