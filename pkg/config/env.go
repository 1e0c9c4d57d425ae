package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvSessionTTL            = "SESSION_TTL"
	EnvRequireAuthForBooking = "REQUIRE_AUTH_FOR_BOOKING"
	EnvBookingLockTTL        = "BOOKING_LOCK_TTL"

	EnvSMTPServer     = "SMTP_SERVER"
	EnvSMTPPort       = "SMTP_PORT"
	EnvSenderEmail    = "SENDER_EMAIL"
	EnvSenderPassword = "SENDER_PASSWORD"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_TOPIC"

	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"
)
