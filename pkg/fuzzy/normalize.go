// Package fuzzy canonicalizes free-text exercise names and scores how well a
// typed query matches a candidate name.
package fuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases s, folds diacritics, drops everything that is not a
// letter, digit or whitespace, and collapses whitespace runs to one space.
// The result may be empty.
func Normalize(s string) string {
	folded, _, err := transform.String(diacriticFolder(), s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens returns the space-delimited tokens of the normalized form of s.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}

// diacriticFolder decomposes, strips combining marks, and recomposes.
// Transformers carry state, so each call gets its own chain.
func diacriticFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
