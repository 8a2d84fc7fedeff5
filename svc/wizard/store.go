package wizard

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/redis"
)

// Store persists sessions. Get returns ErrSessionNotFound for unknown or
// expired sessions.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Lock claims the session for a single turn. While the claim is held
	// further calls fail with ErrSessionBusy. unlock releases it.
	Lock(ctx context.Context, id uuid.UUID) (unlock func(), err error)
}

const (
	DefaultSessionTTL = 24 * time.Hour
	DefaultMemorySize = 10000
	// LockTTL bounds how long a crashed turn keeps a Redis session locked.
	LockTTL = 30 * time.Second
)

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemoryStore keeps up to size sessions in process, each for ttl after its
// last save.
type MemoryStore struct {
	items *lru.Cache[uuid.UUID, memoryEntry]
	ttl   time.Duration
	now   func() time.Time

	mu     sync.Mutex
	locked map[uuid.UUID]struct{}
}

// NewMemoryStore returns a MemoryStore. Non-positive arguments select the
// defaults.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = DefaultMemorySize
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	items, _ := lru.New[uuid.UUID, memoryEntry](size)
	return &MemoryStore{items: items, ttl: ttl, now: time.Now, locked: make(map[uuid.UUID]struct{})}
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	e, ok := m.items.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.now().After(e.expiresAt) {
		m.items.Remove(id)
		return nil, ErrSessionNotFound
	}
	s := e.session
	s.Messages = slices.Clone(s.Messages)
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	stored := *s
	stored.Messages = slices.Clone(s.Messages)
	if s.Result != nil {
		r := *s.Result
		stored.Result = &r
	}
	m.items.Add(s.ID, memoryEntry{session: stored, expiresAt: m.now().Add(m.ttl)})
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.items.Remove(id)
	return nil
}

func (m *MemoryStore) Lock(_ context.Context, id uuid.UUID) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.locked[id]; busy {
		return nil, ErrSessionBusy
	}
	m.locked[id] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.locked, id)
			m.mu.Unlock()
		})
	}, nil
}

// RedisStore keeps sessions as JSON under "<prefix>wizard:<id>". Every save
// refreshes the TTL. Turn locks live under "<prefix>wizard:lock:<id>".
type RedisStore struct {
	client     goredis.UniversalClient
	sessions   *redis.JSONStore[Session]
	lockPrefix string
}

func NewRedisStore(client goredis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisStore{
		client:     client,
		sessions:   redis.NewJSONStore[Session](client, prefix+"wizard:", ttl),
		lockPrefix: prefix + "wizard:lock:",
	}
}

// releaseScript deletes the lock only while it still carries our token, so an
// expired lock taken over by another turn is left alone.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (r *RedisStore) Lock(ctx context.Context, id uuid.UUID) (func(), error) {
	key := r.lockPrefix + id.String()
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, key, token, LockTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionBusy
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = releaseScript.Run(context.WithoutCancel(ctx), r.client, []string{key}, token).Err()
		})
	}, nil
}

func (r *RedisStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	s, err := r.sessions.Get(ctx, id.String())
	if errors.Is(err, redis.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	return r.sessions.Set(ctx, s.ID.String(), *s)
}

func (r *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	return r.sessions.Delete(ctx, id.String())
}
