package main

import (
	authhandler "carbook/internal/auth/handler"
	authrepository "carbook/internal/auth/repository"
	authservice "carbook/internal/auth/service"
	"carbook/internal/auth/session"
	authvalidator "carbook/internal/auth/validator"
	bookinghandler "carbook/internal/bookings/handler"
	bookingrepository "carbook/internal/bookings/repository"
	bookingservice "carbook/internal/bookings/service"
	bookingvalidator "carbook/internal/bookings/validator"
	carhandler "carbook/internal/cars/handler"
	carrepository "carbook/internal/cars/repository"
	carservice "carbook/internal/cars/service"
	"carbook/internal/notify"
	"carbook/pkg/app"
	"carbook/pkg/config"
	"carbook/pkg/contracts"
	"carbook/pkg/events"
)

const ServiceName = "carbook"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.SetMongo()

	cfg.Log.Info("Starting car booking service")

	publisher := initPublisher(cfg)
	sessions := session.NewMongoStore(cfg)
	handlers := []contracts.Handler{
		initCarHandler(cfg),
		initBookingHandler(cfg, publisher),
		initAuthHandler(cfg, sessions),
	}

	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown(publisher)
	serverApp.SetApp(sessions, handlers...)
	serverApp.Run()
}

func initCarHandler(cfg *config.Config) contracts.Handler {
	carRepo := carrepository.NewMongoCarRepository(cfg)
	carService := carservice.NewCarService(carRepo, cfg)

	cfg.Log.Info("Fleet catalog initialized", "database", cfg.MongoDatabaseName)
	return carhandler.NewCarHandler(carService, cfg.Log)
}

func initBookingHandler(cfg *config.Config, publisher events.Publisher) contracts.Handler {
	bookingRepo := bookingrepository.NewMongoBookingRepository(cfg)
	lockRepo := bookingrepository.NewBookingLockRepository(cfg)
	carRepo := carrepository.NewMongoCarRepository(cfg)
	mailer := notify.NewMailer(cfg)

	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		lockRepo,
		carRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		mailer,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking engine initialized", "database", cfg.MongoDatabaseName)
	return bookinghandler.NewBookingHandler(bookingService, cfg.Log)
}

func initAuthHandler(cfg *config.Config, sessions session.Store) contracts.Handler {
	userRepo := authrepository.NewMongoUserRepository(cfg)
	authService := authservice.NewAuthService(cfg, userRepo, sessions, authvalidator.NewAuthValidator(cfg.Log))

	cfg.Log.Info("Identity provider initialized", "database", cfg.MongoDatabaseName)
	return authhandler.NewAuthHandler(authService, cfg.Log)
}

func initPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, booking events disabled")
		return events.NoopPublisher{}
	}

	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka publisher", "error", err)
	}

	cfg.Log.Info("Kafka publisher initialized", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return publisher
}
