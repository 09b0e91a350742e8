// internal/normalize/text.go
package normalize

import (
	"regexp"
	"strings"
)

var (
	sizeTokenPattern = regexp.MustCompile(`\b\d+(?:\.\d+)?\s?(?:kg|g|ml|l)\b`)
	nonAlphanumeric  = regexp.MustCompile(`[^a-z0-9]`)
)

// NameKey canonicalizes a product name into a comparable key: lower-case,
// embedded size tokens ("200g", "2L") removed, everything except letters and
// digits stripped. Empty input yields an empty key.
func NameKey(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = sizeTokenPattern.ReplaceAllString(text, "")
	return nonAlphanumeric.ReplaceAllString(text, "")
}

// BrandKey canonicalizes a brand the same way but keeps size-like tokens:
// brands such as "7UP" or "V8" must not lose their digits. Spellings that
// differ only by apostrophes, hyphens or case collapse to the same key.
func BrandKey(brand string) string {
	if brand == "" {
		return ""
	}

	return nonAlphanumeric.ReplaceAllString(strings.ToLower(brand), "")
}
