package tenant

import (
	"context"
	"errors"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/redis"
)

// Cache stores resolved accounts by identifier.
type Cache interface {
	Get(ctx context.Context, key string) (*Account, bool)
	Set(ctx context.Context, key string, account *Account)
	Delete(ctx context.Context, keys ...string)
}

const (
	DefaultCacheSize = 1000
	DefaultCacheTTL  = 5 * time.Minute
)

type memoryEntry struct {
	account   Account
	expiresAt time.Time
}

// MemoryCache is a size-bounded LRU with per-entry expiry. Expired entries
// are dropped on read.
type MemoryCache struct {
	items *lru.Cache[string, memoryEntry]
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryCache returns a cache holding up to size accounts for ttl.
// Non-positive arguments select the defaults.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	items, _ := lru.New[string, memoryEntry](size)
	return &MemoryCache{items: items, ttl: ttl, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Account, bool) {
	e, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.items.Remove(key)
		return nil, false
	}
	account := e.account
	return &account, true
}

func (c *MemoryCache) Set(_ context.Context, key string, account *Account) {
	if account == nil {
		return
	}
	c.items.Add(key, memoryEntry{account: *account, expiresAt: c.now().Add(c.ttl)})
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) {
	for _, k := range keys {
		c.items.Remove(k)
	}
}

// Len returns the number of cached entries, expired ones included.
func (c *MemoryCache) Len() int {
	return c.items.Len()
}

// RedisCache shares resolved accounts between instances. Redis errors are
// treated as cache misses.
type RedisCache struct {
	store   *redis.JSONStore[Account]
	onError func(error)
}

// NewRedisCache stores accounts under prefix+identifier for ttl.
func NewRedisCache(client goredis.UniversalClient, prefix string, ttl time.Duration, onError func(error)) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &RedisCache{store: redis.NewJSONStore[Account](client, prefix, ttl), onError: onError}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Account, bool) {
	account, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.ErrNotFound) {
			c.onError(err)
		}
		return nil, false
	}
	return &account, true
}

func (c *RedisCache) Set(ctx context.Context, key string, account *Account) {
	if account == nil {
		return
	}
	if err := c.store.Set(ctx, key, *account); err != nil {
		c.onError(err)
	}
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	for _, k := range keys {
		if err := c.store.Delete(ctx, k); err != nil {
			c.onError(err)
		}
	}
}

type noOpCache struct{}

// NewNoOpCache returns a Cache that never stores anything.
func NewNoOpCache() Cache { return noOpCache{} }

func (noOpCache) Get(context.Context, string) (*Account, bool) { return nil, false }
func (noOpCache) Set(context.Context, string, *Account)        {}
func (noOpCache) Delete(context.Context, ...string)            {}
