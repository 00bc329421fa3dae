package redis

import "errors"

// Domain-specific errors for consistent handling across applications.
// Use errors.Is() to check error types for retry logic and user-facing messages.
var (
	ErrEmptyConnectionURL      = errors.New("empty redis connection URL")
	ErrFailedToParseConnString = errors.New("failed to parse redis connection string")
	ErrNotReady                = errors.New("redis did not become ready within the given time period")
	ErrHealthcheckFailed       = errors.New("redis healthcheck failed")

	ErrNilClient          = errors.New("redis client cannot be nil")
	ErrNilCell            = errors.New("cell cannot be nil")
	ErrEmptyMirrorChannel = errors.New("mirror channel name cannot be empty")
)
