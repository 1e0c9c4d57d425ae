package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"carbook/pkg/model"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "car_booking_test"
	ConnectionTimeout   = 10 * time.Second

	CarsCollection     = "cars"
	BookingsCollection = "bookings"
	UsersCollection    = "users"
	SessionsCollection = "sessions"
)

// MongoHelper provides MongoDB test utilities
type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
}

// NewMongoHelper creates a new MongoDB test helper
func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	if mongoURI == "" {
		mongoURI = DefaultMongoURI
	}
	if dbName == "" {
		dbName = DefaultDatabaseName
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Skipf("MongoDB not available at %s: %v", mongoURI, err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("MongoDB not reachable at %s: %v", mongoURI, err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
		DBName:   dbName,
	}
}

// Close closes MongoDB connection
func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// CleanBookings removes reservations, sessions and accounts between
// tests without disturbing the seeded fleet.
func (m *MongoHelper) CleanBookings(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, collName := range []string{BookingsCollection, UsersCollection, SessionsCollection, "booking_locks", "counters"} {
		if _, err := m.Database.Collection(collName).DeleteMany(ctx, map[string]interface{}{}); err != nil {
			t.Fatalf("failed to clean collection %s: %v", collName, err)
		}
	}
}

// CountDocuments returns document count in a collection
func (m *MongoHelper) CountDocuments(t *testing.T, collName string) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := m.Database.Collection(collName).CountDocuments(ctx, map[string]interface{}{})
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collName, err)
	}
	return count
}

// EnsureCar inserts a car with the given id if it does not exist yet.
func (m *MongoHelper) EnsureCar(t *testing.T, car model.Car) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	coll := m.Database.Collection(CarsCollection)
	count, err := coll.CountDocuments(ctx, map[string]interface{}{"_id": car.ID})
	if err != nil {
		t.Fatalf("failed to check for car %d: %v", car.ID, err)
	}
	if count > 0 {
		return
	}
	if _, err := coll.InsertOne(ctx, car); err != nil {
		t.Fatalf("failed to insert car %d: %v", car.ID, err)
	}
}
