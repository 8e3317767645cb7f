package postservice

import "regexp"

var scriptTagRX = regexp.MustCompile(`(?i)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

// sanitizeContent strips script tags from user-submitted markdown before it
// is stored.
func sanitizeContent(content string) string {
	return scriptTagRX.ReplaceAllString(content, "")
}
