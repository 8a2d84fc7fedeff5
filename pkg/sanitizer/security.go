package sanitizer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy drops every element and attribute and skips the content of
// script, style and similar elements. bluemonday policies are safe for
// concurrent use once built.
var strictPolicy = bluemonday.StrictPolicy()

// StripScriptTags removes <script> and <style> blocks together with their content.
func StripScriptTags(s string) string {
	return scriptBlockRegex.ReplaceAllString(s, "")
}

// StripHTML removes all markup and returns plain text with entities decoded.
// Tags that only appear after decoding (e.g. "&lt;b&gt;") are removed as well.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	stripped := html.UnescapeString(strictPolicy.Sanitize(s))
	return htmlTagRegex.ReplaceAllString(stripped, "")
}

// RemoveJavaScriptEvents removes inline event handlers (onclick="…") and
// javascript: protocols. Dangling handler prefixes such as "onload=" are
// removed even when no quoted value follows.
func RemoveJavaScriptEvents(s string) string {
	result := jsAttrRegex.ReplaceAllString(s, "")
	result = jsHandlerRegex.ReplaceAllString(result, "")
	return jsProtocolRegex.ReplaceAllString(result, "")
}

// RemoveNullBytes removes NUL bytes that could truncate values in C-based systems.
func RemoveNullBytes(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
