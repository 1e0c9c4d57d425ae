package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	carserrors "carbook/internal/cars/errors"
	"carbook/pkg/config"
	"carbook/pkg/model"
)

const (
	CollectionName         = "cars"
	BookingsCollectionName = "bookings"
)

// CarJoin is one row of the fleet listing aggregation: the car with its
// bookings already embedded and sorted by start time.
type CarJoin struct {
	model.Car `bson:",inline"`
	Bookings  []model.Booking `bson:"bookings"`
}

type CarRepository interface {
	FindAllWithBookings(ctx context.Context) ([]*CarJoin, error)
	FindByID(ctx context.Context, id int64) (*model.Car, error)
}

type mongoCarRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCarRepository(cfg *config.Config) CarRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCarRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoCarRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// FindAllWithBookings joins each car with its reservations via $lookup.
// The one-row-per-car shape of the aggregation guarantees no duplicate
// cars regardless of how many bookings each one has.
func (r *mongoCarRepository) FindAllWithBookings(ctx context.Context) ([]*CarJoin, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         BookingsCollectionName,
			"localField":   "_id",
			"foreignField": "car_id",
			"as":           "bookings",
			"pipeline": []bson.M{
				{"$sort": bson.M{"start_datetime": 1}},
			},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate cars with bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var cars []*CarJoin
	if err = cursor.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("failed to decode cars: %w", err)
	}

	return cars, nil
}

func (r *mongoCarRepository) FindByID(ctx context.Context, id int64) (*model.Car, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var car model.Car
	err := r.collection.FindOne(ctx, bson.M{"_id": id}, options.FindOne()).Decode(&car)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, carserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find car: %w", err)
	}

	return &car, nil
}
