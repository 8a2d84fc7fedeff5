package account

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/logger"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/tenant"
)

// Context is the request context of account-scoped handlers.
type Context interface {
	handler.Context
	Account() *tenant.Account
	Member() Member
}

type accountContext struct {
	handler.Context
	account *tenant.Account
	member  Member
}

func (c *accountContext) Account() *tenant.Account { return c.account }
func (c *accountContext) Member() Member           { return c.member }

// NewContext reads the account and membership stored by the middlewares.
// Pass it to handler.WithContextFactory.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	a, _ := tenant.FromContext(r.Context())
	m, _ := MemberFromContext(r.Context())
	return &accountContext{Context: handler.NewContext(w, r), account: a, member: m}
}

type memberCtxKey struct{}

// WithMember stores m in ctx.
func WithMember(ctx context.Context, m Member) context.Context {
	return context.WithValue(ctx, memberCtxKey{}, m)
}

// MemberFromContext returns the membership stored by Middleware.
func MemberFromContext(ctx context.Context) (Member, bool) {
	m, ok := ctx.Value(memberCtxKey{}).(Member)
	return m, ok
}

// LogExtractor adds the acting user_id to log records.
func LogExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		m, ok := MemberFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return logger.UserID(m.UserID), true
	}
}
