package integration

import (
	"bytes"
	"net/http"
	"testing"

	"carbook/pkg/model"
	"carbook/test/integration/testutil"
)

func TestListCars_IncludesBookings(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	mongo.EnsureCar(t, testutil.TestCar(1))

	created := client.POST(t, "/api/bookings", testutil.NewBookingRequestBuilder().Build())
	testutil.AssertStatusCode(t, created, http.StatusCreated)

	resp := client.GET(t, "/api/cars")
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var cars []model.CarWithBookings
	if err := resp.DecodeJSON(&cars); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	var found *model.CarWithBookings
	for i := range cars {
		if cars[i].ID == 1 {
			found = &cars[i]
			break
		}
	}
	if found == nil {
		t.Fatal("expected car 1 in fleet listing")
	}
	if len(found.Bookings) == 0 {
		t.Error("expected car 1 to list its booking")
	}
	if found.Bookings[0].BookedBy == "" {
		t.Error("expected bookedBy to be populated")
	}
}

func TestListCars_RepeatedReadsIdentical(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	mongo.EnsureCar(t, testutil.TestCar(1))

	created := client.POST(t, "/api/bookings", testutil.NewBookingRequestBuilder().Build())
	testutil.AssertStatusCode(t, created, http.StatusCreated)

	first := client.GET(t, "/api/cars")
	testutil.AssertStatusCode(t, first, http.StatusOK)

	second := client.GET(t, "/api/cars")
	testutil.AssertStatusCode(t, second, http.StatusOK)

	if !bytes.Equal(first.Body, second.Body) {
		t.Errorf("listing changed without writes:\nfirst:  %s\nsecond: %s", first.Body, second.Body)
	}
}

func TestGetCar_Unknown(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := client.GET(t, "/api/cars/99999")
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}
