package sanitizer

import (
	"errors"
	"net/url"
	"strings"
)

// MaxURLLength is the longest destination URL ValidateURL accepts.
const MaxURLLength = 2000

// ErrInvalidURL is wrapped by URLValidation.Err for every rejected URL.
var ErrInvalidURL = errors.New("sanitizer: invalid url")

// Messages reported in URLValidation.Error.
const (
	URLErrRequired = "URL is required"
	URLErrTooLong  = "URL is too long (max 2000 characters)"
	URLErrFormat   = "Invalid URL format"
	URLErrProtocol = "URL must use http or https protocol"
)

// URLValidation is the outcome of ValidateURL.
type URLValidation struct {
	Valid     bool   `json:"is_valid"`
	Sanitized string `json:"sanitized,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Err returns nil for a valid URL and ErrInvalidURL joined with the failure
// message otherwise.
func (v URLValidation) Err() error {
	if v.Valid {
		return nil
	}
	return errors.Join(ErrInvalidURL, errors.New(v.Error))
}

func invalidURL(msg string) URLValidation {
	return URLValidation{Error: msg}
}

// ValidateURL checks that s is an absolute http(s) URL of acceptable length.
// It never assumes a scheme: "example.com" is rejected as malformed.
func ValidateURL(s string) URLValidation {
	s = strings.TrimSpace(s)
	if s == "" {
		return invalidURL(URLErrRequired)
	}
	if len(s) > MaxURLLength {
		return invalidURL(URLErrTooLong)
	}

	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return invalidURL(URLErrFormat)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return invalidURL(URLErrProtocol)
	}

	if u.Hostname() == "" {
		return invalidURL(URLErrFormat)
	}

	return URLValidation{Valid: true, Sanitized: u.String()}
}

// HasHTTPScheme reports whether s starts with http:// or https:// (any case).
func HasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// HasScheme reports whether s starts with a scheme, hierarchical
// ("ftp://") or opaque ("mailto:", "javascript:"). A leading host:port such
// as "example.com:8080/path" is not a scheme.
func HasScheme(s string) bool {
	if schemePrefixRegex.MatchString(s) {
		return true
	}
	return opaqueSchemeRegex.MatchString(s) && !hostPortRegex.MatchString(s)
}

// EnsureScheme trims s and prefixes it with https:// unless it already carries
// an http(s) scheme. Empty input stays empty.
func EnsureScheme(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || HasHTTPScheme(s) {
		return s
	}
	return "https://" + s
}

// NormalizeURL assumes HTTPS when no scheme is given, lower-cases the host and
// drops a lone trailing slash so equal destinations compare equal.
// The input is returned unchanged when it cannot be parsed.
func NormalizeURL(rawURL string) string {
	rawURL = EnsureScheme(rawURL)
	if rawURL == "" {
		return ""
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	parsedURL.Host = strings.ToLower(parsedURL.Host)
	if parsedURL.Path == "/" {
		parsedURL.Path = ""
	}

	return parsedURL.String()
}

// ExtractDomain returns the lower-cased host name of rawURL without port,
// assuming HTTPS when no scheme is given. Returns "" when there is no host.
func ExtractDomain(rawURL string) string {
	rawURL = EnsureScheme(rawURL)
	if rawURL == "" {
		return ""
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return strings.ToLower(parsedURL.Hostname())
}
