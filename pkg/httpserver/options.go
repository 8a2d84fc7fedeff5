package httpserver

import (
	"io"
	"log/slog"
	"time"
)

// Option configures the Server.
type Option func(*options)

type options struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

func defaultOptions() *options {
	return &options{
		addr:            ":8080",
		readTimeout:     15 * time.Second,
		writeTimeout:    30 * time.Second,
		idleTimeout:     120 * time.Second,
		shutdownTimeout: 10 * time.Second,
	}
}

// WithAddr sets the listen address. Empty values are ignored.
func WithAddr(addr string) Option {
	return func(o *options) {
		if addr != "" {
			o.addr = addr
		}
	}
}

func positive(d time.Duration, dst *time.Duration) {
	if d > 0 {
		*dst = d
	}
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *options) { positive(d, &o.readTimeout) }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { positive(d, &o.writeTimeout) }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(o *options) { positive(d, &o.idleTimeout) }
}

// WithShutdownTimeout bounds how long in-flight requests may run after
// shutdown starts.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) { positive(d, &o.shutdownTimeout) }
}

// WithLogger sets the logger for lifecycle events. Logs are discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
