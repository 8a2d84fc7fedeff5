package tenant

import (
	"errors"
	"log/slog"
	"net/http"
)

// ErrorHandler renders resolution failures.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type config struct {
	cache         Cache
	errorHandler  ErrorHandler
	skipPaths     []string
	requireActive bool
	logger        *slog.Logger
}

type Option func(*config)

// WithCache replaces the default MemoryCache.
func WithCache(cache Cache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) {
		c.errorHandler = handler
	}
}

// WithSkipPaths lists path prefixes served without account resolution.
func WithSkipPaths(paths ...string) Option {
	return func(c *config) {
		c.skipPaths = append(c.skipPaths, paths...)
	}
}

func WithRequireActive(require bool) Option {
	return func(c *config) {
		c.requireActive = require
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	switch {
	case errors.Is(err, ErrAccountNotFound):
		http.Error(w, "Account not found", http.StatusNotFound)
	case errors.Is(err, ErrInactiveAccount):
		http.Error(w, "Account is inactive", http.StatusForbidden)
	case errors.Is(err, ErrInvalidIdentifier):
		http.Error(w, "Invalid account identifier", http.StatusBadRequest)
	case errors.Is(err, ErrNoAccountInContext):
		http.Error(w, "Account required", http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
