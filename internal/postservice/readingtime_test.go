package postservice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateReadingTime(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected int
	}{
		{name: "empty", content: "", expected: 1},
		{name: "only markup", content: "<p></p>", expected: 1},
		{name: "short text", content: "just a few words", expected: 1},
		{name: "exactly 200 words", content: strings.Repeat("word ", 200), expected: 1},
		{name: "201 words", content: strings.Repeat("word ", 201), expected: 2},
		{name: "250 words in markup", content: "<p>" + strings.Repeat("word ", 250) + "</p>", expected: 2},
		{name: "1000 words", content: strings.Repeat("word ", 1000), expected: 5},
		{name: "tags do not join words", content: "<h1>title</h1><p>body</p>", expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, calculateReadingTime(tc.content))
		})
	}
}
