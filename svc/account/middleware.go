package account

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/feature"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/tenant"
)

// UserHeader carries the authenticated user id set by the identity proxy.
const UserHeader = "X-User-ID"

// MemberLoader is the part of Service used by Middleware.
type MemberLoader interface {
	Member(ctx context.Context, accountID, userID uuid.UUID) (*Member, error)
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	header  string
	onError tenant.ErrorHandler
}

// WithUserHeader overrides UserHeader.
func WithUserHeader(name string) MiddlewareOption {
	return func(c *middlewareConfig) {
		if name != "" {
			c.header = name
		}
	}
}

// WithMiddlewareErrorHandler replaces the JSON error renderer.
func WithMiddlewareErrorHandler(h tenant.ErrorHandler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if h != nil {
			c.onError = h
		}
	}
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr handler.HTTPError
	if !errors.As(err, &httpErr) {
		err = errors.Join(handler.ErrForbidden, err)
	}
	_ = handler.JSONError(err).Render(w, r)
}

// Middleware loads the caller's membership of the account resolved by
// tenant.Middleware. Requests without a valid user id get 401, users who are
// not members get 403. The member role, the plan id and the feature subject
// are stored in the request context for rbac, limits and feature checks.
func Middleware(members MemberLoader, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{header: UserHeader, onError: renderError}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acc, ok := tenant.FromContext(r.Context())
			if !ok {
				cfg.onError(w, r, errors.Join(handler.ErrNotFound, tenant.ErrNoAccountInContext))
				return
			}

			userID, err := uuid.Parse(strings.TrimSpace(r.Header.Get(cfg.header)))
			if err != nil {
				cfg.onError(w, r, errors.Join(handler.ErrUnauthorized, ErrMissingUser))
				return
			}

			member, err := members.Member(r.Context(), acc.ID, userID)
			switch {
			case errors.Is(err, ErrMemberNotFound):
				cfg.onError(w, r, errors.Join(handler.ErrForbidden, ErrNotMember))
				return
			case err != nil:
				cfg.onError(w, r, errors.Join(handler.ErrServiceUnavailable, err))
				return
			}

			ctx := WithMember(r.Context(), *member)
			ctx = rbac.SetRoleToContext(ctx, member.Role)
			ctx = limits.SetPlanIDToContext(ctx, acc.PlanID)
			ctx = feature.WithSubject(ctx, feature.Subject{AccountID: acc.ID.String(), PlanID: acc.PlanID})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
