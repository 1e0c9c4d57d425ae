package model

// Car is a fleet vehicle. Cars are seeded by the migrate command and
// never mutated by the service.
type Car struct {
	ID           int64  `json:"id" bson:"_id"`
	Make         string `json:"make" bson:"make" validate:"required"`
	Model        string `json:"model" bson:"model" validate:"required"`
	Year         int    `json:"year" bson:"year" validate:"required,min=1950"`
	FuelType     string `json:"fuel_type" bson:"fuel_type"`
	Seats        int    `json:"seats" bson:"seats" validate:"min=1,max=9"`
	BodyStyle    string `json:"body_style" bson:"body_style"`
	LicensePlate string `json:"license_plate" bson:"license_plate" validate:"required"`
	Image        string `json:"image" bson:"image"`
}

// BookingSlot is the reduced booking view nested under each car in the
// fleet listing.
type BookingSlot struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	BookedBy string `json:"bookedBy"`
}

// CarWithBookings is one entry of the fleet listing: the car joined with
// its reservations, ordered by start time.
type CarWithBookings struct {
	Car      `bson:",inline"`
	Bookings []BookingSlot `json:"bookings"`
}
