package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/smtp"

	"carbook/pkg/config"
	"carbook/pkg/logger"
)

const bodyTemplate = `<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #00a82d; color: white; padding: 20px; text-align: center;">
      <h1 style="margin: 0;">Booking Confirmed!</h1>
    </div>
    <div style="background-color: #f9f9f9; padding: 30px; border: 1px solid #ddd;">
      <p>Hi {{.RecipientName}},</p>
      <p>Your car booking has been confirmed. Here are the details:</p>
      <div style="background-color: white; padding: 20px; margin: 20px 0;">
        <h3 style="color: #00a82d; margin-top: 0;">Vehicle Information</h3>
        <p><strong>Car:</strong> {{.CarMake}} {{.CarModel}}</p>
        <p><strong>License Plate:</strong> {{.LicensePlate}}</p>
        <p><strong>Confirmation #:</strong> {{.BookingID}}</p>
        <h3 style="color: #00a82d; margin-top: 30px;">Rental Period</h3>
        <p><strong>Pickup:</strong> {{.StartFormatted}}</p>
        <p><strong>Return:</strong> {{.EndFormatted}}</p>
      </div>
      <p style="color: #666; font-size: 14px;">
        A calendar event has been attached to this email. Add it to your calendar so you don't forget!
      </p>
      <p>Best regards,<br><strong>The Car Booking Team</strong></p>
    </div>
    <div style="text-align: center; color: #999; font-size: 12px; margin-top: 20px;">
      <p>This is an automated message. Please do not reply to this email.</p>
    </div>
  </div>
</body>
</html>`

var emailBody = template.Must(template.New("confirmation").Parse(bodyTemplate))

// Mailer sends booking confirmations over SMTP with the invite attached.
// Without a sender password it runs in development mode: nothing is sent
// and delivery is reported as successful.
type Mailer struct {
	cfg *config.Config
	log *logger.Logger
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		cfg: cfg,
		log: cfg.Log,
	}
}

func (m *Mailer) Send(ctx context.Context, payload Payload) (delivered bool, detail string) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("Notifier panic recovered", "booking_id", payload.BookingID, "panic", r)
			delivered = false
			detail = "internal notifier failure"
		}
	}()

	if m.cfg.SenderPassword == "" {
		m.log.Info("Email disabled, skipping delivery",
			"recipient", payload.RecipientEmail,
			"booking_id", payload.BookingID,
		)
		return true, "email disabled in development mode"
	}

	msg, err := m.buildMessage(payload)
	if err != nil {
		m.log.Error("Failed to build confirmation email", "booking_id", payload.BookingID, "error", err)
		return false, err.Error()
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPServer, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.SenderEmail, m.cfg.SenderPassword, m.cfg.SMTPServer)

	// smtp.SendMail negotiates STARTTLS when the server offers it.
	if err := smtp.SendMail(addr, auth, m.cfg.SenderEmail, []string{payload.RecipientEmail}, msg); err != nil {
		m.log.Error("Failed to send confirmation email",
			"recipient", payload.RecipientEmail,
			"booking_id", payload.BookingID,
			"error", err,
		)
		return false, err.Error()
	}

	m.log.Info("Confirmation email sent",
		"recipient", payload.RecipientEmail,
		"booking_id", payload.BookingID,
	)
	return true, "email sent successfully"
}

type bodyData struct {
	Payload
	StartFormatted string
	EndFormatted   string
}

const humanLayout = "Monday, January 2, 2006 at 3:04 PM"

func (m *Mailer) buildMessage(payload Payload) ([]byte, error) {
	var body bytes.Buffer
	err := emailBody.Execute(&body, bodyData{
		Payload:        payload,
		StartFormatted: payload.Start.Format(humanLayout),
		EndFormatted:   payload.End.Format(humanLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render email body: %w", err)
	}

	invite, err := buildInvite(payload)
	if err != nil {
		return nil, err
	}

	boundary := "carbook-booking-boundary"
	var msg bytes.Buffer

	fmt.Fprintf(&msg, "From: Car Booking <%s>\r\n", m.cfg.SenderEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", payload.RecipientEmail)
	fmt.Fprintf(&msg, "Subject: Booking Confirmed - %s %s (#%d)\r\n", payload.CarMake, payload.CarModel, payload.BookingID)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%q\r\n", boundary)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/calendar; method=REQUEST; name=\"booking.ics\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("Content-Disposition: attachment; filename=\"booking.ics\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(base64.StdEncoding.EncodeToString([]byte(invite)))
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return msg.Bytes(), nil
}
