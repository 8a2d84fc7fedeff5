package ratelimiter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/ratelimiter"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newBucket(t *testing.T, capacity int) (*ratelimiter.Bucket, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := ratelimiter.NewMemoryStore(0, ratelimiter.WithClock(c.Now))
	b, err := ratelimiter.NewBucket(store, ratelimiter.Config{
		Capacity:       capacity,
		RefillRate:     1,
		RefillInterval: time.Second,
	})
	require.NoError(t, err)
	return b, c
}

func TestNewBucket_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config ratelimiter.Config
	}{
		{name: "zero capacity", config: ratelimiter.Config{RefillRate: 1, RefillInterval: time.Second}},
		{name: "zero rate", config: ratelimiter.Config{Capacity: 1, RefillInterval: time.Second}},
		{name: "zero interval", config: ratelimiter.Config{Capacity: 1, RefillRate: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(1), tt.config)
			assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
		})
	}
}

func TestBucket_Allow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, c := newBucket(t, 3)

	for want := 2; want >= 0; want-- {
		res, err := b.Allow(ctx, "acme")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Equal(t, want, res.Remaining)
		assert.Equal(t, 3, res.Limit)
	}

	res, err := b.Allow(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, c.Now().Add(time.Second), res.ResetAt)

	// Another key has its own bucket.
	res, err = b.Allow(ctx, "globex")
	require.NoError(t, err)
	assert.True(t, res.Allowed())

	// A denied request does not push the bucket further into debt.
	c.Advance(time.Second)
	res, err = b.Allow(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 0, res.Remaining)

	c.Advance(time.Hour)
	res, err = b.Status(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Remaining)

	_, err = b.AllowN(ctx, "acme", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
}

func TestBucket_Reset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, _ := newBucket(t, 1)

	res, err := b.Allow(ctx, "acme")
	require.NoError(t, err)
	require.True(t, res.Allowed())

	res, err = b.Allow(ctx, "acme")
	require.NoError(t, err)
	require.False(t, res.Allowed())

	require.NoError(t, b.Reset(ctx, "acme"))
	res, err = b.Allow(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
}

func TestBucket_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, _ := newBucket(t, 50)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := b.Allow(ctx, "shared")
			if err != nil || !res.Allowed() {
				return
			}
			mu.Lock()
			allowed++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestComposite(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:4321"
	req.Header.Set("X-Account-ID", " acme ")

	key := ratelimiter.Composite(ratelimiter.ByHeader("X-Account-ID"), ratelimiter.ByIP)
	assert.Equal(t, "acme:203.0.113.7", key(req))

	req.Header.Set("X-Account-ID", strings.Repeat("a", 80))
	hashed := key(req)
	assert.NotEmpty(t, hashed)
	assert.LessOrEqual(t, len(hashed), 64)
	assert.Equal(t, hashed, key(req))

	assert.Empty(t, ratelimiter.Composite(ratelimiter.ByHeader("X-Missing"))(req))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	b, c := newBucket(t, 2)
	var denied error
	h := ratelimiter.Middleware(b, ratelimiter.ByIP, func(w http.ResponseWriter, _ *http.Request, err error) {
		denied = err
		w.WriteHeader(http.StatusTooManyRequests)
	})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := call()
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusNoContent, call().Code)

	rec = call()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.ErrorIs(t, denied, ratelimiter.ErrLimitExceeded)

	c.Advance(time.Second)
	assert.Equal(t, http.StatusNoContent, call().Code)
}
