package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/sanitizer"
)

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		maxLength int
		expected  string
	}{
		{name: "strips script and markup", input: "<script>alert('x')</script>Hello <b>World</b>", maxLength: 100, expected: "Hello World"},
		{name: "strips event attribute element", input: `<img src=x onerror="alert(1)">Caption`, maxLength: 100, expected: "Caption"},
		{name: "removes javascript protocol", input: "javascript:alert(1)", maxLength: 100, expected: "alert(1)"},
		{name: "removes inline handler pattern", input: "Click onclick=steal()", maxLength: 100, expected: "Click steal()"},
		{name: "trims", input: "   hi  ", maxLength: 100, expected: "hi"},
		{name: "truncates", input: "abcdef", maxLength: 3, expected: "abc"},
		{name: "trims after truncation", input: "hello world", maxLength: 6, expected: "hello"},
		{name: "removes null and control bytes", input: "a\x00b\x07c", maxLength: 10, expected: "abc"},
		{name: "normalises to NFC", input: "Cafe\u0301", maxLength: 10, expected: "Caf\u00e9"},
		{name: "empty input", input: "", maxLength: 10, expected: ""},
		{name: "markup only", input: "<br/><hr>", maxLength: 10, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.PlainText(tt.input, tt.maxLength))
		})
	}

	t.Run("non-positive length uses default", func(t *testing.T) {
		t.Parallel()
		got := sanitizer.PlainText(strings.Repeat("a", 300), 0)
		assert.Len(t, got, sanitizer.DefaultPlainTextLength)
	})
}

func TestCampaignName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "drops punctuation", input: "Spring Sale 2024!", expected: "Spring Sale 2024"},
		{name: "keeps hyphen underscore parentheses", input: "<b>Q1</b> (EMEA) - launch_v2", expected: "Q1 (EMEA) - launch_v2"},
		{name: "collapses whitespace", input: "Black   Friday", expected: "Black Friday"},
		{name: "no-break space", input: "Spring\u00a0Sale", expected: "Spring Sale"},
		{name: "ideographic space", input: "Spring\u3000Sale", expected: "Spring Sale"},
		{name: "em space run", input: "Spring\u2003 \u2003Sale\u00a0", expected: "Spring Sale"},
		{name: "ascii word characters only", input: "Café Launch", expected: "Caf Launch"},
		{name: "nothing left", input: "!!!", expected: ""},
		{name: "empty", input: "", expected: ""},
		{name: "script removed", input: "<script>x()</script>Launch", expected: "Launch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.CampaignName(tt.input))
		})
	}

	t.Run("caps length", func(t *testing.T) {
		t.Parallel()
		got := sanitizer.CampaignName(strings.Repeat("a", 150))
		assert.Len(t, got, sanitizer.MaxCampaignNameLength)
	})
}

func TestUTMParameter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lower-cases and hyphenates", input: "Summer Sale!!", expected: "summer-sale"},
		{name: "keeps digits", input: "Spring 2024", expected: "spring-2024"},
		{name: "single word", input: "Google", expected: "google"},
		{name: "acronym", input: "CPC", expected: "cpc"},
		{name: "collapses and trims hyphens", input: "  --Email__Newsletter-- ", expected: "email__newsletter"},
		{name: "spaced hyphen", input: "a - b", expected: "a-b"},
		{name: "tabs and newlines", input: "paid\t\nsocial", expected: "paid-social"},
		{name: "no-break space", input: "Summer\u00a0Sale", expected: "summer-sale"},
		{name: "ideographic space", input: "Summer\u3000Sale", expected: "summer-sale"},
		{name: "mixed unicode spaces", input: "\u00a0Spring\u2003\u00a02024\u3000", expected: "spring-2024"},
		{name: "strips non ascii", input: "über cool", expected: "ber-cool"},
		{name: "strips query syntax", input: "a&b=c?d#e", expected: "abcde"},
		{name: "nothing left", input: "!!!", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.UTMParameter(tt.input))
		})
	}

	t.Run("truncates to limit", func(t *testing.T) {
		t.Parallel()
		got := sanitizer.UTMParameter(strings.Repeat("ab", 60))
		assert.Equal(t, strings.Repeat("ab", 50), got)
	})

	t.Run("no trailing hyphen after truncation", func(t *testing.T) {
		t.Parallel()
		got := sanitizer.UTMParameter(strings.Repeat("a", 99) + " b")
		assert.Equal(t, strings.Repeat("a", 99), got)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		for _, in := range []string{"Summer Sale!!", "  A -- B  ", "Q1 (EMEA)", "x_y z"} {
			once := sanitizer.UTMParameter(in)
			assert.Equal(t, once, sanitizer.UTMParameter(once), in)
		}
	})
}
