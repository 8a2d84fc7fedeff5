package sanitizer_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/sanitizer"
)

func TestValidateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		valid     bool
		sanitized string
		errMsg    string
	}{
		{name: "https url", input: "https://example.com/path?x=1", valid: true, sanitized: "https://example.com/path?x=1"},
		{name: "http url trimmed", input: "  http://example.com  ", valid: true, sanitized: "http://example.com"},
		{name: "upper-case scheme", input: "HTTPS://example.com", valid: true, sanitized: "https://example.com"},
		{name: "empty", input: "", errMsg: sanitizer.URLErrRequired},
		{name: "whitespace", input: "   ", errMsg: sanitizer.URLErrRequired},
		{name: "ftp scheme", input: "ftp://example.com", errMsg: sanitizer.URLErrProtocol},
		{name: "javascript scheme", input: "javascript:alert(1)", errMsg: sanitizer.URLErrProtocol},
		{name: "no scheme", input: "example.com", errMsg: sanitizer.URLErrFormat},
		{name: "free text", input: "not a url", errMsg: sanitizer.URLErrFormat},
		{name: "missing host", input: "https://", errMsg: sanitizer.URLErrFormat},
		{name: "space in host", input: "https://not a url", errMsg: sanitizer.URLErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := sanitizer.ValidateURL(tt.input)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.errMsg, got.Error)
			if tt.valid {
				assert.Equal(t, tt.sanitized, got.Sanitized)
				assert.NoError(t, got.Err())
			} else {
				assert.Empty(t, got.Sanitized)
				require.Error(t, got.Err())
				assert.True(t, errors.Is(got.Err(), sanitizer.ErrInvalidURL))
			}
		})
	}

	t.Run("too long", func(t *testing.T) {
		t.Parallel()
		got := sanitizer.ValidateURL("https://example.com/" + strings.Repeat("a", sanitizer.MaxURLLength))
		assert.False(t, got.Valid)
		assert.Equal(t, sanitizer.URLErrTooLong, got.Error)
	})
}

func TestEnsureScheme(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.com/path", sanitizer.EnsureScheme("example.com/path"))
	assert.Equal(t, "http://example.com", sanitizer.EnsureScheme(" http://example.com "))
	assert.Equal(t, "HTTPS://example.com", sanitizer.EnsureScheme("HTTPS://example.com"))
	assert.Equal(t, "", sanitizer.EnsureScheme("  "))
}

func TestHasScheme(t *testing.T) {
	t.Parallel()

	assert.True(t, sanitizer.HasScheme("ftp://example.com"))
	assert.True(t, sanitizer.HasScheme("https://example.com"))
	assert.True(t, sanitizer.HasScheme("mailto:a@b.com"))
	assert.True(t, sanitizer.HasScheme("javascript:alert(1)"))
	assert.True(t, sanitizer.HasScheme("tel:+15551234"))
	assert.False(t, sanitizer.HasScheme("example.com:8080/path"))
	assert.False(t, sanitizer.HasScheme("localhost:3000"))
	assert.False(t, sanitizer.HasScheme("example.com:443?x=1"))
	assert.False(t, sanitizer.HasScheme("example.com"))
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.com", sanitizer.NormalizeURL("Example.COM/"))
	assert.Equal(t, "https://example.com/a?b=1", sanitizer.NormalizeURL("https://EXAMPLE.com/a?b=1"))
	assert.Equal(t, "", sanitizer.NormalizeURL(""))
}

func TestExtractDomain(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "shop.example.com", sanitizer.ExtractDomain("https://Shop.Example.com:8443/x"))
	assert.Equal(t, "example.com", sanitizer.ExtractDomain("example.com/landing"))
	assert.Equal(t, "", sanitizer.ExtractDomain(""))
}
