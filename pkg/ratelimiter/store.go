package ratelimiter

import (
	"context"
	"time"
)

// Store keeps bucket state. ConsumeTokens refills the bucket for the time
// elapsed, takes tokens and reports what is left; a negative remainder means
// the request must be denied. Denied requests leave the bucket as it was.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// refill returns the tokens in a bucket after elapsed time, capped at
// capacity, and how many whole intervals were credited.
func refill(tokens int, elapsed time.Duration, config Config) (int, int) {
	if elapsed <= 0 {
		return tokens, 0
	}
	// Enough intervals to fill an empty bucket; more would only overflow.
	limit := int64(config.Capacity/config.RefillRate + 1)
	intervals := int(min(int64(elapsed/config.RefillInterval), limit))
	if intervals == 0 {
		return tokens, 0
	}
	return min(tokens+intervals*config.RefillRate, config.Capacity), intervals
}
