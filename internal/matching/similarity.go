// internal/matching/similarity.go
package matching

import (
	"sort"
	"strings"
)

// LevenshteinDistance computes the minimum number of single-rune insertions,
// deletions and substitutions turning s1 into s2.
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1 := len(r1)
	len2 := len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}

			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len1][len2]
}

// Ratio converts edit distance into a similarity in [0,1]. Two empty strings
// are identical, hence 1.0.
func Ratio(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	maxLen := len([]rune(s1))
	if l2 := len([]rune(s2)); l2 > maxLen {
		maxLen = l2
	}
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(LevenshteinDistance(s1, s2))/float64(maxLen)
}

// TokenSortRatio is a token-order-insensitive Ratio: both strings are split
// into whitespace tokens, sorted and rejoined before comparison, so
// "free range eggs" and "eggs free range" score 1.0.
func TokenSortRatio(s1, s2 string) float64 {
	return Ratio(sortTokens(s1), sortTokens(s2))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
