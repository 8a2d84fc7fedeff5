package slug

import (
	"crypto/rand"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Option configures Make.
type Option func(*config)

type config struct {
	maxLength    int
	separator    string
	suffixLength int
}

// MaxLength caps the slug at n characters, suffix included. Zero means no cap.
func MaxLength(n int) Option {
	return func(c *config) { c.maxLength = max(n, 0) }
}

// Separator replaces the default "-".
func Separator(s string) Option {
	return func(c *config) {
		if s != "" {
			c.separator = s
		}
	}
}

// WithSuffix appends a random lower-case alphanumeric suffix of length n.
func WithSuffix(n int) Option {
	return func(c *config) { c.suffixLength = max(n, 0) }
}

var special = strings.NewReplacer(
	"ß", "ss", "æ", "ae", "Æ", "AE", "ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L", "đ", "d", "Đ", "D", "œ", "oe", "Œ", "OE",
)

// Make builds a lower-case slug from s.
func Make(s string, opts ...Option) string {
	cfg := &config{separator: "-"}
	for _, opt := range opts {
		opt(cfg)
	}

	s = fold(special.Replace(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingSep && b.Len() > 0 {
				b.WriteString(cfg.separator)
			}
			b.WriteRune(r)
			pendingSep = false
			continue
		}
		pendingSep = true
	}
	result := b.String()

	if cfg.suffixLength == 0 {
		return truncate(result, cfg.maxLength, cfg.separator)
	}

	suffix := randomSuffix(cfg.suffixLength)
	if cfg.maxLength > 0 {
		room := cfg.maxLength - len(suffix) - len(cfg.separator)
		if room <= 0 {
			return truncate(suffix, cfg.maxLength, cfg.separator)
		}
		result = truncate(result, room, cfg.separator)
	}
	if result == "" {
		return suffix
	}
	return result + cfg.separator + suffix
}

// fold strips combining marks after canonical decomposition: "é" -> "e".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// truncate cuts an ASCII slug to n bytes without leaving a trailing separator.
func truncate(s string, n int, sep string) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return strings.TrimRight(s[:n], sep)
}

func randomSuffix(n int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}
