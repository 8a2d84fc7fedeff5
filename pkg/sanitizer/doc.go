// Package sanitizer cleans user-supplied text before it is stored, rendered or
// embedded into a tracking URL.
//
// The helpers fall into three groups:
//
//   - Text – PlainText and CampaignName turn free-form input from forms into
//     safe display strings (markup and script vectors removed, length capped).
//
//   - UTM values – UTMParameter reduces any input to the constrained
//     lower-case, hyphenated alphabet used for utm_* query values.
//
//   - URLs – ValidateURL checks a destination URL and returns a URLValidation
//     result instead of an error, NormalizeURL and ExtractDomain help with
//     comparison and reporting.
//
// The smaller building blocks (Trim, MaxLength, StripHTML, RemoveJavaScriptEvents,
// …) are exported as well and can be chained with Apply and Compose:
//
//	clean := sanitizer.Compose(
//	    sanitizer.Trim,
//	    sanitizer.NormalizeWhitespace,
//	    sanitizer.ToLower,
//	)
//
//	safe := clean("  Mixed CASE   Input\n") // "mixed case input"
//
// # Usage
//
//	import "github.com/pawa80/utm-link-crafter-sub002/pkg/sanitizer"
//
//	sanitizer.UTMParameter("Summer Sale!!") // "summer-sale"
//
//	res := sanitizer.ValidateURL("ftp://example.com")
//	// res.Valid == false
//	// res.Error == "URL must use http or https protocol"
//
// # Error handling
//
// None of the helpers panics or returns an error for bad input. String helpers
// degrade to an empty string; ValidateURL reports failures through the
// URLValidation value, whose Err method wraps ErrInvalidURL.
//
// Every helper is a pure function over its arguments and is safe for
// concurrent use.
package sanitizer
