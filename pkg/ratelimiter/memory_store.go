package ratelimiter

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryKeys bounds the number of buckets a MemoryStore tracks.
const DefaultMemoryKeys = 100_000

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// MemoryStore keeps buckets in an LRU. Evicting an idle bucket is the same
// as letting it refill completely.
type MemoryStore struct {
	mu      sync.Mutex
	buckets *lru.Cache[string, *bucket]
	now     func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore tracks up to size keys, DefaultMemoryKeys when size <= 0.
func NewMemoryStore(size int, opts ...MemoryOption) *MemoryStore {
	if size <= 0 {
		size = DefaultMemoryKeys
	}
	buckets, _ := lru.New[string, *bucket](size)
	s := &MemoryStore{buckets: buckets, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	b, ok := s.buckets.Get(key)
	if !ok {
		b = &bucket{tokens: config.Capacity, lastRefill: now}
		s.buckets.Add(key, b)
	}

	var intervals int
	b.tokens, intervals = refill(b.tokens, now.Sub(b.lastRefill), config)
	if intervals > 0 {
		b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * config.RefillInterval)
		if b.tokens == config.Capacity {
			b.lastRefill = now
		}
	}

	// Denied requests do not drain the bucket below empty.
	if b.tokens-tokens < 0 {
		return b.tokens - tokens, b.lastRefill.Add(config.RefillInterval), nil
	}
	b.tokens -= tokens
	return b.tokens, b.lastRefill.Add(config.RefillInterval), nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets.Remove(key)
	return nil
}
