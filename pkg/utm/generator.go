package utm

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/sanitizer"
)

// Link is the result of a successful Build.
type Link struct {
	// URL is the complete tracking link.
	URL string `json:"full_url"`
	// Target is the normalised destination before tagging.
	Target string `json:"target_url"`
	// Params holds the sanitised values that were written.
	Params Params `json:"params"`
}

func (l Link) String() string {
	return l.URL
}

// Build produces the tracking link for p. The caller's Params are not modified.
func Build(p Params) (Link, error) {
	target, err := parseTarget(p.TargetURL)
	if err != nil {
		return Link{}, err
	}

	clean := p.Sanitized()
	clean.TargetURL = target.String()
	if err := clean.checkRequired(); err != nil {
		return Link{}, err
	}

	pairs := clean.pairs()
	setting := make(map[string]struct{}, len(pairs))
	for _, kv := range pairs {
		setting[kv.key] = struct{}{}
	}

	kept := filterQuery(target.RawQuery, func(key string) bool {
		_, ok := setting[strings.ToLower(key)]
		return ok
	})
	for _, kv := range pairs {
		kept = append(kept, url.QueryEscape(kv.key)+"="+url.QueryEscape(kv.value))
	}

	tagged := *target
	tagged.RawQuery = strings.Join(kept, "&")
	tagged.ForceQuery = false

	return Link{
		URL:    tagged.String(),
		Target: clean.TargetURL,
		Params: clean,
	}, nil
}

// parseTarget trims raw, assumes HTTPS when no scheme is given and rejects
// anything that is not an absolute http(s) URL with a host.
func parseTarget(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fieldError("target_url", ErrEmptyTarget)
	}
	if !sanitizer.HasHTTPScheme(raw) {
		if sanitizer.HasScheme(raw) {
			return nil, fieldError("target_url", ErrUnsupportedScheme)
		}
		raw = "https://" + raw
	}
	if len(raw) > sanitizer.MaxURLLength {
		return nil, fieldError("target_url", ErrInvalidTarget, errors.New(sanitizer.URLErrTooLong))
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fieldError("target_url", ErrInvalidTarget, err)
	}
	if u.Hostname() == "" {
		return nil, fieldError("target_url", ErrInvalidTarget)
	}
	return u, nil
}

// filterQuery splits a raw query into its pairs, keeping their original
// encoding and order, and drops every pair whose decoded key matches drop.
func filterQuery(rawQuery string, drop func(key string) bool) []string {
	if rawQuery == "" {
		return nil
	}
	parts := strings.Split(rawQuery, "&")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		key, _, _ := strings.Cut(part, "=")
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if drop(key) {
			continue
		}
		kept = append(kept, part)
	}
	return kept
}

// Generator is the logging front of Build.
type Generator struct {
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for rejected targets.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator creates a Generator. Without WithLogger it logs through
// slog.Default at call time.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}

// Generate returns the tracking link for p or "" when none can be built.
// An empty target is not reported. Malformed targets and missing parameters
// are logged at WARN level.
func (g *Generator) Generate(p Params) string {
	link, err := Build(p)
	if err != nil {
		if !errors.Is(err, ErrEmptyTarget) {
			g.log().LogAttrs(context.Background(), slog.LevelWarn, "utm link not generated",
				slog.String("target_url", p.TargetURL),
				slog.String("error", err.Error()),
			)
		}
		return ""
	}
	return link.URL
}

var defaultGenerator = NewGenerator()

// GenerateURL returns the tracking link for p, or "" when the target is empty,
// malformed or a required parameter is missing.
func GenerateURL(p Params) string {
	return defaultGenerator.Generate(p)
}
