package postservice

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

var (
	slugStripRX     = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRX     = regexp.MustCompile(`\s+`)
	slugHyphenRX    = regexp.MustCompile(`-+`)
	slugSuffixRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789")
)

// generateSlug derives a URL-safe identifier from a post title: lowercase,
// strip everything outside [a-z0-9 -], whitespace to hyphens, collapse
// repeated hyphens, trim leading/trailing hyphens.
func generateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = slugStripRX.ReplaceAllString(slug, "")
	slug = slugSpaceRX.ReplaceAllString(slug, "-")
	slug = slugHyphenRX.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// slugSuffix returns an 8-character random alphanumeric suffix appended on
// slug collision.
func slugSuffix() (string, error) {
	suffix := make([]rune, 8)
	max := big.NewInt(int64(len(slugSuffixRunes)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = slugSuffixRunes[n.Int64()]
	}
	return string(suffix), nil
}
