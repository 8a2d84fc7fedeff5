// Package utm builds and reads UTM-tagged tracking links.
//
// A link is produced from a destination URL and a set of campaign parameters.
// Every parameter value is reduced with sanitizer.UTMParameter (lower-case,
// hyphenated, restricted to [a-z0-9-_]) before it is written to the query
// string, so the same input always yields the same link.
//
// # Building links
//
//	link, err := utm.Build(utm.Params{
//		TargetURL: "example.com/pricing?ref=nav",
//		Campaign:  "Spring 2024",
//		Source:    "Google",
//		Medium:    "CPC",
//	})
//	// link.URL == "https://example.com/pricing?ref=nav&utm_campaign=spring-2024&utm_source=google&utm_medium=cpc"
//
// A target without a scheme is treated as HTTPS. Any other explicit scheme is
// rejected with ErrUnsupportedScheme. Query pairs already present on the target
// are kept in their original order; pairs whose key is about to be written are
// replaced. Keys are appended in a fixed order: utm_campaign, utm_source,
// utm_medium, then utm_content, utm_term and utm_custom1..3 when non-empty.
//
// GenerateURL is the string-only form. It returns "" when no link can be built
// and logs a warning for malformed targets:
//
//	href := utm.GenerateURL(params) // "" on failure
//
// # Reading links
//
// Extract reads UTM values back from a tagged URL and Strip removes every
// utm_* key, which gives the canonical destination used for reporting.
//
// # Errors
//
// Build returns a *FieldError naming the offending field. It wraps one of
// ErrEmptyTarget, ErrInvalidTarget, ErrUnsupportedScheme or ErrMissingParameter
// and can be matched with errors.Is.
//
// All functions are pure and safe for concurrent use.
package utm
