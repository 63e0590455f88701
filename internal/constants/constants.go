package constants

import "time"

const (
	EntityCacheTTL  = 24 * time.Hour
	CreditsCacheTTL = 12 * time.Hour
	SearchCacheTTL  = 10 * time.Minute
	ListingCacheTTL = 1 * time.Hour
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	DailyJobTimeout    = 2 * time.Minute
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// RandomPageCount bounds the page drawn from popular/discover listings.
	RandomPageCount   = 10
	MaxRerollAttempts = 50
	DefaultListLimit  = 50
	MaxListLimit      = 500
)
