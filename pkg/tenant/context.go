package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/logger"
)

type contextKey struct{}

// WithAccount stores account in ctx.
func WithAccount(ctx context.Context, account *Account) context.Context {
	return context.WithValue(ctx, contextKey{}, account)
}

// FromContext returns the account stored by Middleware.
func FromContext(ctx context.Context) (*Account, bool) {
	account, ok := ctx.Value(contextKey{}).(*Account)
	return account, ok && account != nil
}

// IDFromContext returns the id of the account in ctx.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	account, ok := FromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return account.ID, true
}

// MustFromContext panics when ctx carries no account. Only use it behind
// RequireAccount.
func MustFromContext(ctx context.Context) *Account {
	account, ok := FromContext(ctx)
	if !ok {
		panic("tenant: no account in context")
	}
	return account
}

// LogExtractor adds account_id to log records.
func LogExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return logger.AccountID(id), true
		}
		return slog.Attr{}, false
	}
}
