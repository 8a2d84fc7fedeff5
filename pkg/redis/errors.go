package redis

import "errors"

var (
	ErrFailedToParseRedisConnString = errors.New("redis: failed to parse connection string")
	ErrRedisNotReady                = errors.New("redis: server did not become ready")
	ErrHealthcheckFailed            = errors.New("redis: healthcheck failed")
	ErrNotFound                     = errors.New("redis: key not found")
	ErrEmptyKey                     = errors.New("redis: empty key")
)
