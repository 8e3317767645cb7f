package postservice

import (
	"math"
	"regexp"
	"strings"
)

const wordsPerMinute = 200

var markupTagRX = regexp.MustCompile(`<[^>]+>`)

// calculateReadingTime estimates reading time in minutes at 200 words per
// minute. Markup tags are stripped before counting; the result is never
// below one minute.
func calculateReadingTime(content string) int {
	text := markupTagRX.ReplaceAllString(content, " ")
	words := len(strings.Fields(text))
	if words == 0 {
		return 1
	}

	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}
