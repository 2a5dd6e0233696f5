package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "innkeeper"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultLockTTL             = 10 * time.Second
	DefaultLockWaitTimeout     = 3 * time.Second
	DefaultLockRetryInterval   = 50 * time.Millisecond
	DefaultReserveMaxRetries   = 3
	DefaultReserveRetryBackoff = 100 * time.Millisecond

	DefaultSweepInterval = 24 * time.Hour

	DefaultKafkaTopic    = "booking-events"
	DefaultKafkaDLQTopic = "booking-events-dlq"

	DefaultPaginationLimit = 100
)
