package usecase

import "time"

const (
	// DefaultListLimit caps listing queries when the caller asks for nothing.
	DefaultListLimit = 20

	// MaxListLimit is the hard ceiling for listing queries.
	MaxListLimit = 100

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// CapitalCacheTTL bounds how long a stored monthly capital value may be
	// served from cache.
	CapitalCacheTTL = time.Hour
)
