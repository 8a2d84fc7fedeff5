package utm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/utm"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	got, err := utm.Extract("https://example.com/p?a=1&utm_source=google&utm_medium=cpc&utm_campaign=spring%20sale&utm_id=7#x")
	require.NoError(t, err)
	assert.Equal(t, utm.Params{
		TargetURL: "https://example.com/p?a=1#x",
		Campaign:  "spring sale",
		Source:    "google",
		Medium:    "cpc",
	}, got)
}

func TestExtractRoundTrip(t *testing.T) {
	t.Parallel()

	in := utm.Params{
		TargetURL: "example.com?foo=bar",
		Campaign:  "Spring 2024",
		Source:    "Google",
		Medium:    "CPC",
		Content:   "Hero Banner",
		Custom2:   "Variant B",
	}
	link, err := utm.Build(in)
	require.NoError(t, err)

	got, err := utm.Extract(link.URL)
	require.NoError(t, err)
	assert.Equal(t, link.Params, got)
	assert.Equal(t, "https://example.com?foo=bar", got.TargetURL)
}

func TestExtractErrors(t *testing.T) {
	t.Parallel()

	_, err := utm.Extract("")
	assert.ErrorIs(t, err, utm.ErrEmptyTarget)

	_, err = utm.Extract("ftp://example.com/?utm_source=x")
	assert.ErrorIs(t, err, utm.ErrUnsupportedScheme)
}

func TestStrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "removes tracking keys", input: "https://example.com/?utm_source=x&a=1&UTM_Medium=y", expected: "https://example.com/?a=1"},
		{name: "removes unknown tracking keys", input: "https://example.com/?utm_id=1&utm_source_platform=z", expected: "https://example.com/"},
		{name: "keeps fragment", input: "https://example.com/p?utm_term=t#top", expected: "https://example.com/p#top"},
		{name: "no query", input: "example.com/landing", expected: "https://example.com/landing"},
		{name: "keeps lookalike keys", input: "https://example.com/?utmost=1", expected: "https://example.com/?utmost=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := utm.Strip(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParamsHasCustom(t *testing.T) {
	t.Parallel()

	assert.False(t, utm.Params{Campaign: "c"}.HasCustom())
	assert.False(t, utm.Params{Custom1: "  "}.HasCustom())
	assert.True(t, utm.Params{Custom3: "x"}.HasCustom())
}
