package sanitizer

import "regexp"

// Pre-compiled regular expressions shared by the helpers.
var (
	// \s is ASCII only; \p{Z} adds NBSP, em space, ideographic space and friends.
	whitespaceRegex = regexp.MustCompile(`[\s\p{Z}]+`)

	// Markup and script vectors
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	scriptBlockRegex = regexp.MustCompile(`(?is)<(script|style)\b[^>]*>.*?</(script|style)\s*>`)
	jsProtocolRegex  = regexp.MustCompile(`(?i)javascript\s*:`)
	jsHandlerRegex   = regexp.MustCompile(`(?i)\bon\w+\s*=`)
	jsAttrRegex      = regexp.MustCompile(`(?i)\s*on\w+\s*=\s*("[^"]*"|'[^']*')`)

	// Campaign names: word characters, whitespace, hyphen, underscore, parentheses
	campaignNameDisallowedRegex = regexp.MustCompile(`[^\w\s\p{Z}\-()]`)

	// UTM values
	utmDisallowedRegex = regexp.MustCompile(`[^a-z0-9\-_]`)
	repeatedDashRegex  = regexp.MustCompile(`-{2,}`)

	// Scheme detection for URLs typed without one
	schemePrefixRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*://`)
	opaqueSchemeRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)
	hostPortRegex     = regexp.MustCompile(`^[^:/?#]+:\d+(?:[/?#]|$)`)
)
