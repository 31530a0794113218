package cerrors

import (
	"github.com/hbollon/go-edlib"

	"github.com/emberlang/emberc/internal/token"
)

// SuggestKeyword returns the reserved keyword closest to got by
// Levenshtein distance, for "did you mean `class`?" style diagnostics
// when an identifier is one typo away from a reserved word. Returns ""
// if nothing within maxDistance matches.
func SuggestKeyword(got string, maxDistance int) string {
	best := ""
	bestDist := maxDistance + 1
	for _, word := range token.ReservedWords() {
		dist := edlib.LevenshteinDistance(got, word)
		if dist < bestDist {
			bestDist = dist
			best = word
		}
	}
	if bestDist > maxDistance {
		return ""
	}
	return best
}
