// internal/normalize/category.go
package normalize

import "strings"

// Retailer taxonomies are mapped onto a small fixed vocabulary. Keys are
// matched as substrings of the lower-cased source category, so Coles'
// "Prepackaged Seafood" and Aldi's "seafood" both land on "seafood".
var categoryVocabulary = []struct {
	match      string
	normalized string
}{
	{"meat", "meat"},
	{"seafood", "seafood"},
	{"dairy", "dairy"},
	{"fruit", "produce"},
	{"vegetable", "produce"},
	{"produce", "produce"},
	{"bakery", "bakery"},
	{"frozen", "frozen"},
	{"pantry", "pantry"},
	{"beverage", "beverages"},
	{"snack", "snacks"},
	{"health", "health"},
}

// Category maps a retailer category onto the fixed vocabulary. Unrecognized
// categories pass through title-cased and unmapped.
func Category(category string) string {
	if category == "" {
		return ""
	}

	lower := strings.ToLower(category)
	for _, entry := range categoryVocabulary {
		if strings.Contains(lower, entry.match) {
			return entry.normalized
		}
	}

	return titleCase(category)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
