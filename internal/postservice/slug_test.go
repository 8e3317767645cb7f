package postservice

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	testCases := []struct {
		name     string
		title    string
		expected string
	}{
		{name: "simple", title: "Hello, World!", expected: "hello-world"},
		{name: "mixed case", title: "My First Blog Post", expected: "my-first-blog-post"},
		{name: "punctuation stripped", title: "Go 1.22: What's New?", expected: "go-122-whats-new"},
		{name: "repeated whitespace", title: "a   b\t\tc", expected: "a-b-c"},
		{name: "existing hyphens collapsed", title: "already---hyphenated -- title", expected: "already-hyphenated-title"},
		{name: "leading and trailing trimmed", title: "  !title!  ", expected: "title"},
		{name: "only symbols", title: "!!!", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, generateSlug(tc.title))
		})
	}
}

func TestSlugSuffix(t *testing.T) {
	alnum := regexp.MustCompile(`^[a-z0-9]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		suffix, err := slugSuffix()
		assert.NoError(t, err)
		assert.Regexp(t, alnum, suffix)
		seen[suffix] = true
	}

	// 50 draws from a 36^8 space should never collide
	assert.Len(t, seen, 50)
}
