// Package audit records who changed what. Events pick up the account, user
// and request id from the context through extractors and are written to a
// Storage, usually PGStorage.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/logger"
)

// ActorSystem is recorded when no user is known.
const ActorSystem = "system"

// DefaultLimit caps Find when Criteria.Limit is not set.
const DefaultLimit = 100

type actorKey struct{}

// ContextWithActor names the actor of events logged with ctx when no user
// is known, e.g. "vendor" for console calls.
func ContextWithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// Extractor reads a value from the request context.
type Extractor func(context.Context) (string, bool)

type Logger struct {
	storage   Storage
	account   Extractor
	user      Extractor
	requestID Extractor
	now       func() time.Time
}

type Option func(*Logger)

func WithAccountExtractor(fn Extractor) Option {
	return func(l *Logger) { l.account = fn }
}

func WithUserExtractor(fn Extractor) Option {
	return func(l *Logger) { l.user = fn }
}

func WithRequestIDExtractor(fn Extractor) Option {
	return func(l *Logger) { l.requestID = fn }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLogger panics on a nil storage.
func NewLogger(storage Storage, opts ...Option) *Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	l := &Logger{storage: storage, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log records a successful action.
func (l *Logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	return l.store(ctx, l.event(ctx, action, ResultSuccess, opts))
}

// LogError records a failed action together with err.
func (l *Logger) LogError(ctx context.Context, action string, err error, opts ...EventOption) error {
	e := l.event(ctx, action, ResultFailure, opts)
	if err != nil {
		e.Error = err.Error()
	}
	return l.store(ctx, e)
}

// Find returns the events matching c, newest first.
func (l *Logger) Find(ctx context.Context, c Criteria) ([]Event, error) {
	if c.Limit <= 0 || c.Limit > DefaultLimit {
		c.Limit = DefaultLimit
	}
	c.Offset = max(c.Offset, 0)
	return l.storage.Query(ctx, c)
}

func (l *Logger) event(ctx context.Context, action string, result Result, opts []EventOption) Event {
	e := Event{
		ID:        uuid.NewString(),
		Action:    action,
		Actor:     ActorSystem,
		Result:    result,
		CreatedAt: l.now().UTC(),
	}
	if v, ok := extract(ctx, l.account); ok {
		e.AccountID = v
	}
	if v, ok := extract(ctx, l.user); ok {
		e.UserID = v
		e.Actor = v
	}
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" && e.UserID == "" {
		e.Actor = actor
	}
	if v, ok := extract(ctx, l.requestID); ok {
		e.RequestID = v
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (l *Logger) store(ctx context.Context, e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return l.storage.Store(ctx, e)
}

func extract(ctx context.Context, fn Extractor) (string, bool) {
	if fn == nil {
		return "", false
	}
	v, ok := fn(ctx)
	return v, ok && v != ""
}

// Record logs the action and reports storage failures to log instead of
// failing the caller. A nil Logger records nothing.
func Record(ctx context.Context, l *Logger, log *slog.Logger, action string, opts ...EventOption) {
	if l == nil {
		return
	}
	if err := l.Log(ctx, action, opts...); err != nil && log != nil {
		log.WarnContext(ctx, "audit event dropped",
			slog.String("action", action), logger.Component("audit"), logger.Error(err))
	}
}
