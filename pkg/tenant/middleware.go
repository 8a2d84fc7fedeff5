package tenant

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/logger"
)

// Middleware resolves the request's account and stores it in the context.
func Middleware(resolver Resolver, provider Provider, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		errorHandler:  defaultErrorHandler,
		requireActive: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.cache == nil {
		cfg.cache = NewMemoryCache(DefaultCacheSize, DefaultCacheTTL)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log := cfg.logger.With(logger.Component("tenant"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			identifier, err := resolver.Resolve(r)
			if err != nil {
				cfg.errorHandler(w, r, errors.Join(ErrInvalidIdentifier, err))
				return
			}
			if identifier == "" {
				next.ServeHTTP(w, r)
				return
			}

			account, cached := cfg.cache.Get(r.Context(), identifier)
			if !cached {
				account, err = provider.GetByIdentifier(r.Context(), identifier)
				if err != nil {
					if !errors.Is(err, ErrAccountNotFound) && !errors.Is(err, ErrInvalidIdentifier) {
						log.ErrorContext(r.Context(), "account lookup failed",
							slog.String("identifier", identifier), logger.Error(err))
					}
					cfg.errorHandler(w, r, err)
					return
				}
				cfg.cache.Set(r.Context(), identifier, account)
			}

			if cfg.requireActive && !account.Active {
				cfg.errorHandler(w, r, ErrInactiveAccount)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
		})
	}
}

// RequireAccount rejects requests that reached it without an account.
func RequireAccount(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				errorHandler(w, r, ErrNoAccountInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
