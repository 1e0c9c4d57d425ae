package testutil

import (
	"fmt"
	"time"

	"carbook/pkg/model"
)

// BookingRequestBuilder assembles create-booking payloads with sane
// defaults so tests only state what they care about.
type BookingRequestBuilder struct {
	req model.BookingRequest
}

func NewBookingRequestBuilder() *BookingRequestBuilder {
	base := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	return &BookingRequestBuilder{
		req: model.BookingRequest{
			CarID:         1,
			StartDatetime: base.Format(model.DateTimeLayout),
			EndDatetime:   base.Add(4 * time.Hour).Format(model.DateTimeLayout),
			BookedBy:      "Integration Tester",
		},
	}
}

func (b *BookingRequestBuilder) WithCarID(id int64) *BookingRequestBuilder {
	b.req.CarID = id
	return b
}

func (b *BookingRequestBuilder) WithWindow(start, end time.Time) *BookingRequestBuilder {
	b.req.StartDatetime = start.Format(model.DateTimeLayout)
	b.req.EndDatetime = end.Format(model.DateTimeLayout)
	return b
}

func (b *BookingRequestBuilder) WithRawWindow(start, end string) *BookingRequestBuilder {
	b.req.StartDatetime = start
	b.req.EndDatetime = end
	return b
}

func (b *BookingRequestBuilder) WithBookedBy(name string) *BookingRequestBuilder {
	b.req.BookedBy = name
	return b
}

func (b *BookingRequestBuilder) Build() model.BookingRequest {
	return b.req
}

// TestCar is a fleet vehicle present for booking tests.
func TestCar(id int64) model.Car {
	return model.Car{
		ID:           id,
		Make:         "Toyota",
		Model:        "Corolla",
		Year:         2022,
		FuelType:     "hybrid",
		Seats:        5,
		BodyStyle:    "sedan",
		LicensePlate: fmt.Sprintf("TEST-%04d", id),
	}
}
