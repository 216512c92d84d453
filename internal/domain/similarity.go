package domain

import (
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// levenshtein is read-only after construction and safe for concurrent use.
var levenshtein = metrics.NewLevenshtein()

// NormalizeText lowercases, strips everything that is not alphanumeric or
// whitespace, and collapses whitespace runs to single spaces.
func NormalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Similarity returns a normalized edit-distance similarity in [0, 1] between
// the two strings after normalization. It is symmetric, and identical inputs
// (including two empty strings) score 1.
func Similarity(a, b string) float64 {
	return strutil.Similarity(NormalizeText(a), NormalizeText(b), levenshtein)
}
