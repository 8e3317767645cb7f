package postservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeContent(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no script tag",
			input: "Hello, World!",
			want:  "Hello, World!",
		},
		{
			name:  "script tag",
			input: "<script>alert('Hello, World!');</script>",
			want:  "",
		},
		{
			name:  "uppercase script tag",
			input: `before<SCRIPT SRC="evil.js"></SCRIPT>after`,
			want:  "beforeafter",
		},
		{
			name:  "other markup kept",
			input: "<p>Hello</p>",
			want:  "<p>Hello</p>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sanitizeContent(tc.input))
		})
	}
}
