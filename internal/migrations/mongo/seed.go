package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"carbook/pkg/model"
)

// seedCars is the initial fleet. Seeding only runs against an empty cars
// collection so re-running migrations never duplicates or resets cars.
var seedCars = []model.Car{
	{ID: 1, Make: "Toyota", Model: "Corolla", Year: 2022, FuelType: "petrol", Seats: 5, BodyStyle: "sedan", LicensePlate: "AB 12345", Image: "cars/toyota-corolla.jpg"},
	{ID: 2, Make: "Volkswagen", Model: "ID.4", Year: 2023, FuelType: "electric", Seats: 5, BodyStyle: "suv", LicensePlate: "CD 23456", Image: "cars/vw-id4.jpg"},
	{ID: 3, Make: "Skoda", Model: "Octavia", Year: 2021, FuelType: "diesel", Seats: 5, BodyStyle: "wagon", LicensePlate: "EF 34567", Image: "cars/skoda-octavia.jpg"},
	{ID: 4, Make: "Tesla", Model: "Model 3", Year: 2023, FuelType: "electric", Seats: 5, BodyStyle: "sedan", LicensePlate: "GH 45678", Image: "cars/tesla-model3.jpg"},
	{ID: 5, Make: "Ford", Model: "Transit", Year: 2020, FuelType: "diesel", Seats: 3, BodyStyle: "van", LicensePlate: "IJ 56789", Image: "cars/ford-transit.jpg"},
	{ID: 6, Make: "Volvo", Model: "XC40", Year: 2022, FuelType: "hybrid", Seats: 5, BodyStyle: "suv", LicensePlate: "KL 67890", Image: "cars/volvo-xc40.jpg"},
}

func SeedFleet(ctx context.Context, client *mongo.Client, dbName string) (int, error) {
	collection := client.Database(dbName).Collection("cars")

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count cars: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	docs := make([]any, len(seedCars))
	for i, car := range seedCars {
		docs[i] = car
	}

	result, err := collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to seed cars: %w", err)
	}
	return len(result.InsertedIDs), nil
}
