// Package matching derives the identity keys used to deduplicate stores and
// products, and ranks near matches for review.
package matching

import (
	"slices"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds accents and case and collapses every run of
// non-alphanumeric characters into one space.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// StoreKey identifies a store by normalized name and postal code.
func StoreKey(name, postalCode string) string {
	return Normalize(name) + "|" + strings.TrimSpace(postalCode)
}

// ProductKey identifies a product by its normalized description.
func ProductKey(description string) string {
	return Normalize(description)
}

// Match is a ranked candidate; Index points into the candidates slice.
type Match struct {
	Index    int
	Value    string
	Distance int
}

// Rank orders candidates by Levenshtein distance to query on normalized
// forms. Ties keep input order.
func Rank(query string, candidates []string) []Match {
	q := []rune(Normalize(query))
	matches := lo.Map(candidates, func(c string, i int) Match {
		return Match{
			Index:    i,
			Value:    c,
			Distance: levenshtein.DistanceForStrings(q, []rune(Normalize(c)), levenshtein.DefaultOptions),
		}
	})
	slices.SortStableFunc(matches, func(a, b Match) int {
		return a.Distance - b.Distance
	})
	return matches
}
