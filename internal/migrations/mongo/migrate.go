package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"carbook/internal/migrations/mongo/validators"
)

var (
	CarsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "license_plate", Value: 1}},
			Options: options.Index().SetUnique(true)},
	}

	// The compound index backs both the overlap query and the sorted
	// per-car booking listing.
	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "car_id", Value: 1},
			{Key: "start_datetime", Value: 1},
			{Key: "end_datetime", Value: 1},
		}},
	}

	UsersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true)},
	}

	// TTL reaping; expired sessions and abandoned advisory locks are
	// removed by the server within roughly a minute of expiry.
	SessionsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0)},
	}

	BookingLocksIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0)},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)

	collections := []struct {
		Name      string
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		{"cars", CarsIndexes, validators.CarValidator},
		{"bookings", BookingsIndexes, validators.BookingValidator},
		{"users", UsersIndexes, validators.UserValidator},
		{"sessions", SessionsIndexes, nil},
		{"booking_locks", BookingLocksIndexes, nil},
		{"counters", nil, nil},
	}

	for _, def := range collections {
		if err := ensureCollection(ctx, db, def.Name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		opts := options.CreateCollection()
		if validator != nil {
			opts = opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator != nil {
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			return fmt.Errorf("failed updating validator for %s: %w", name, err)
		}
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, indexes []mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}
	_, err := db.Collection(name).Indexes().CreateMany(ctx, indexes)
	return err
}
