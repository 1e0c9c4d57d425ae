package notify

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
)

// buildInvite renders the booking as an iCalendar REQUEST so mail
// clients offer to add the rental period to the recipient's calendar.
func buildInvite(payload Payload) (string, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Carbook//Car Booking//EN")
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropMethod, "REQUEST")

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, fmt.Sprintf("booking-%d@carbook", payload.BookingID))
	event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, payload.Start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, payload.End.UTC())
	event.Props.SetText(ical.PropSummary, fmt.Sprintf("Car Rental: %s %s", payload.CarMake, payload.CarModel))
	event.Props.SetText(ical.PropDescription, fmt.Sprintf(
		"Car Booking Confirmation\n\nVehicle: %s %s\nLicense Plate: %s\nBooked by: %s\nConfirmation #: %d",
		payload.CarMake, payload.CarModel, payload.LicensePlate, payload.RecipientName, payload.BookingID,
	))
	event.Props.SetText(ical.PropLocation, "Company garage")
	event.Props.SetText(ical.PropStatus, "CONFIRMED")
	event.Props.SetText(ical.PropSequence, "0")

	alarm := &ical.Component{
		Name:  ical.CompAlarm,
		Props: make(ical.Props),
	}
	alarm.Props.SetText(ical.PropTrigger, "-PT1H")
	alarm.Props.SetText(ical.PropDescription, "Car booking reminder")
	alarm.Props.SetText(ical.PropAction, "DISPLAY")
	event.Children = append(event.Children, alarm)

	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return "", fmt.Errorf("failed to encode calendar invite: %w", err)
	}
	return buf.String(), nil
}
