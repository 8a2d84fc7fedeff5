package sanitizer

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Length limits applied by the text helpers.
const (
	DefaultPlainTextLength = 255
	MaxCampaignNameLength  = 100
	MaxUTMParameterLength  = 100
)

// PlainText makes free-form user input safe for storage and display: markup and
// script blocks are removed, javascript: and on*= handler patterns are dropped,
// control characters are stripped, the text is NFC-normalised, trimmed and cut
// to maxLength runes. A non-positive maxLength means DefaultPlainTextLength.
func PlainText(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = DefaultPlainTextLength
	}

	result := RemoveNullBytes(s)
	result = RemoveControlChars(result)
	result = StripScriptTags(result)
	result = StripHTML(result)
	result = RemoveJavaScriptEvents(result)
	result = norm.NFC.String(result)

	return strings.TrimSpace(MaxLength(strings.TrimSpace(result), maxLength))
}

// CampaignName sanitises a campaign display name. On top of PlainText it keeps
// only ASCII word characters, whitespace, hyphens, underscores and parentheses,
// collapses whitespace and caps the result at MaxCampaignNameLength runes.
func CampaignName(s string) string {
	result := PlainText(s, MaxCampaignNameLength)
	if result == "" {
		return ""
	}
	result = campaignNameDisallowedRegex.ReplaceAllString(result, "")
	result = NormalizeWhitespace(result)
	return strings.TrimSpace(MaxLength(result, MaxCampaignNameLength))
}

// utmPipeline lower-cases, hyphenates whitespace and drops everything outside
// the utm alphabet before dashes are collapsed and trimmed.
var utmPipeline = Compose(
	TrimToLower,
	HyphenateWhitespace,
	func(s string) string { return utmDisallowedRegex.ReplaceAllString(s, "") },
	collapseDashes,
)

// UTMParameter reduces s to the value format used for utm_* query parameters:
// lower-case, whitespace runs replaced with a single hyphen, anything outside
// [a-z0-9-_] removed, repeated hyphens collapsed, no leading or trailing
// hyphen, at most MaxUTMParameterLength characters.
//
//	UTMParameter("Summer Sale!!") // "summer-sale"
func UTMParameter(s string) string {
	if s == "" {
		return ""
	}
	result := utmPipeline(s)
	if len(result) > MaxUTMParameterLength {
		// Only ASCII is left at this point, byte slicing is safe.
		result = strings.Trim(result[:MaxUTMParameterLength], "-")
	}
	return result
}

func collapseDashes(s string) string {
	return strings.Trim(repeatedDashRegex.ReplaceAllString(s, "-"), "-")
}
