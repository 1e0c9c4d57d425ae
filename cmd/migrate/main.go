package main

import (
	"context"
	"time"

	mongomigration "carbook/internal/migrations/mongo"
	"carbook/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Mongo migration job", "database", cfg.MongoDatabaseName)

	if err := mongomigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed")

	seeded, err := mongomigration.SeedFleet(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName)
	if err != nil {
		cfg.Log.Fatal("Fleet seeding failed", "error", err)
	}
	if seeded > 0 {
		cfg.Log.Info("Fleet seeded", "cars", seeded)
	} else {
		cfg.Log.Info("Fleet already present, seeding skipped")
	}
}
