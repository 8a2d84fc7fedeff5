package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/httpserver"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/ratelimiter"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/requestid"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/tenant"
	"github.com/pawa80/utm-link-crafter-sub002/svc/account"
)

type routes struct {
	log     *slog.Logger
	checks  map[string]httpserver.CheckFunc
	timeout time.Duration

	limiter  *ratelimiter.Bucket
	cache    tenant.Cache
	provider tenant.Provider
	members  account.MemberLoader

	account   http.Handler
	campaigns http.Handler
	links     http.Handler
	wizard    http.Handler
	vendor    http.Handler
}

func newRouter(rt routes) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware, middleware.RealIP, middleware.Recoverer)

	r.NotFound(handler.StatusHandler(handler.ErrNotFound))
	r.MethodNotAllowed(handler.StatusHandler(handler.ErrMethodNotAllowed))

	r.Get("/health/live", httpserver.Liveness())
	r.Get("/health/ready", httpserver.Readiness(rt.log, rt.timeout, rt.checks))

	errs := handler.NewErrorHandler[handler.Context](rt.log, handler.WithMappings(
		append(account.ErrorMappings(),
			handler.MapWithMessage(tenant.ErrInvalidIdentifier, handler.ErrBadRequest, "Invalid account identifier"),
			handler.MapWithMessage(tenant.ErrNoAccountInContext, handler.ErrBadRequest, "Missing "+tenant.DefaultHeader+" header"),
			handler.MapWithMessage(ratelimiter.ErrLimitExceeded, handler.ErrTooManyRequests, "Too many requests, slow down"))...,
	))
	onError := func(w http.ResponseWriter, r *http.Request, err error) {
		errs(handler.NewContext(w, r), err)
	}
	throttle := func(scope string, key ratelimiter.KeyFunc) func(http.Handler) http.Handler {
		if rt.limiter == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		prefix := func(*http.Request) string { return scope }
		return ratelimiter.Middleware(rt.limiter, ratelimiter.Composite(prefix, key), onError)
	}

	r.With(throttle("vendor", ratelimiter.ByIP)).Mount("/vendor", rt.vendor)

	r.Route("/api", func(r chi.Router) {
		r.Use(
			throttle("api", ratelimiter.Composite(ratelimiter.ByHeader(account.UserHeader), ratelimiter.ByIP)),
			tenant.Middleware(tenant.NewHeaderResolver(tenant.DefaultHeader), rt.provider,
				tenant.WithCache(rt.cache),
				tenant.WithErrorHandler(onError),
				tenant.WithLogger(rt.log),
			),
			tenant.RequireAccount(onError),
			account.Middleware(rt.members),
		)

		r.Mount("/account", rt.account)
		r.Mount("/campaigns", rt.campaigns)
		r.Mount("/links", rt.links)
		r.Mount("/wizard", rt.wizard)
	})

	return r
}
