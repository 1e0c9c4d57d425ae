package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "car_booking"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultSessionTTL     = 24 * time.Hour
	DefaultBookingLockTTL = 10 * time.Second

	DefaultSMTPServer  = "smtp.gmail.com"
	DefaultSMTPPort    = 587
	DefaultSenderEmail = "noreply@carbook.local"

	DefaultKafkaTopic = "booking-events"

	DefaultCORSAllowedOrigins = "http://localhost,http://127.0.0.1"
)
