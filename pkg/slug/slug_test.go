package slug_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		opts     []slug.Option
		expected string
	}{
		{name: "basic", input: "Spring Launch", expected: "spring-launch"},
		{name: "punctuation runs", input: "  Q1 -- (EMEA) launch!! ", expected: "q1-emea-launch"},
		{name: "accents", input: "Crème Brûlée Été", expected: "creme-brulee-ete"},
		{name: "special letters", input: "Straße Ærø Łódź", expected: "strasse-aero-lodz"},
		{name: "non latin dropped", input: "Привет sale", expected: "sale"},
		{name: "digits", input: "Black Friday 2024", expected: "black-friday-2024"},
		{name: "empty", input: "", expected: ""},
		{name: "only symbols", input: "!!!", expected: ""},
		{name: "custom separator", input: "Spring Launch", opts: []slug.Option{slug.Separator("_")}, expected: "spring_launch"},
		{name: "max length trims separator", input: "Spring Launch", opts: []slug.Option{slug.MaxLength(7)}, expected: "spring"},
		{name: "max length exact", input: "abc def", opts: []slug.Option{slug.MaxLength(3)}, expected: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, slug.Make(tt.input, tt.opts...))
		})
	}
}

func TestMakeWithSuffix(t *testing.T) {
	t.Parallel()

	got := slug.Make("Spring Launch", slug.WithSuffix(4))
	assert.Regexp(t, regexp.MustCompile(`^spring-launch-[a-z0-9]{4}$`), got)

	other := slug.Make("Spring Launch", slug.WithSuffix(8))
	assert.NotEqual(t, got, other)

	capped := slug.Make(strings.Repeat("word ", 20), slug.WithSuffix(4), slug.MaxLength(12))
	assert.LessOrEqual(t, len(capped), 12)
	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9-]+-[a-z0-9]{4}$`), capped)

	onlySuffix := slug.Make("!!!", slug.WithSuffix(6))
	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9]{6}$`), onlySuffix)
}
