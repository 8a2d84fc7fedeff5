package handler

import (
	"errors"
	"log/slog"
	"maps"
	"net/http"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/binder"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/logger"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/requestid"
)

// ErrorInfo is the classified form of an error.
type ErrorInfo struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string][]string
	LogLevel   slog.Level
}

func (i ErrorInfo) detail() *ErrorDetail {
	return &ErrorDetail{Code: i.Code, Message: i.Message, Details: i.Details}
}

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

func logLevelFor(statusCode int) slog.Level {
	if isClientError(statusCode) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

func fromHTTPError(e HTTPError, message string) ErrorInfo {
	if message == "" {
		message = http.StatusText(e.Code)
	}
	return ErrorInfo{StatusCode: e.Code, Code: e.Key, Message: message}
}

var bindingErrors = []error{
	binder.ErrFailedToParseJSON,
	binder.ErrFailedToParseQuery,
	binder.ErrFailedToParsePath,
	binder.ErrMissingContentType,
}

// classifyError resolves err in this order: ValidationError, mappings,
// HTTPError, binder failures, then 500.
func classifyError(err error, mappings []ErrorMapping) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrInternalServerError.Key,
		Message:    "An error occurred processing your request",
	}

	var validationErr ValidationError
	var httpErr HTTPError
	switch {
	case errors.As(err, &validationErr):
		info = ErrorInfo{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       "validation_error",
			Message:    "Validation failed",
			Details:    maps.Clone(map[string][]string(validationErr)),
		}
	case mapped(err, mappings, &info):
	case errors.As(err, &httpErr):
		info = fromHTTPError(httpErr, "")
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		info = fromHTTPError(ErrUnsupportedMediaType, "")
	case isBindingError(err):
		info = fromHTTPError(ErrBadRequest, "Malformed request")
	}

	info.LogLevel = logLevelFor(info.StatusCode)
	return info
}

func mapped(err error, mappings []ErrorMapping, info *ErrorInfo) bool {
	for _, m := range mappings {
		if errors.Is(err, m.Target) {
			*info = fromHTTPError(m.To, m.Message)
			return true
		}
	}
	return false
}

func isBindingError(err error) bool {
	for _, target := range bindingErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type errorHandlerConfig struct {
	mappings []ErrorMapping
}

type ErrorHandlerOption func(*errorHandlerConfig)

// WithMappings registers domain error translations. The first match wins.
func WithMappings(mappings ...ErrorMapping) ErrorHandlerOption {
	return func(c *errorHandlerConfig) {
		c.mappings = append(c.mappings, mappings...)
	}
}

// NewErrorHandler logs err with request metadata and renders it as a JSON
// envelope. Server errors never leak err's text to the client.
func NewErrorHandler[C Context](log *slog.Logger, opts ...ErrorHandlerOption) ErrorHandler[C] {
	if log == nil {
		log = slog.Default()
	}
	cfg := &errorHandlerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(ctx C, err error) {
		r := ctx.Request()
		info := classifyError(err, cfg.mappings)

		log.LogAttrs(r.Context(), info.LogLevel, "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		resp := jsonResponse{status: info.StatusCode, body: JSONResponse{Error: info.detail()}}
		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response", logger.Error(renderErr))
		}
	}
}

// StatusHandler renders e for routes that have no handler, such as the
// router's NotFound and MethodNotAllowed.
func StatusHandler(e HTTPError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = JSONError(e).Render(w, r)
	}
}
