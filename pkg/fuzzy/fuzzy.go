package fuzzy

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// DefaultMinScore is the cut-off Sort applies when callers have no opinion.
const DefaultMinScore = 0.55

const (
	substringBase     = 0.82
	substringMaxBonus = 0.15
	acronymWeight     = 0.8
	acronymFloor      = 0.15
	tokenSubsetScore  = 0.78
	prefixMaxBoost    = 0.1

	// Only an exact normalized match may score 1.0.
	maxInexactScore = 0.99
)

// Match is a scored candidate.
type Match struct {
	Name  string
	Score float64
}

// Score rates candidate against query in [0,1]. The layers are tried in
// order: exact, substring, acronym prefix, token subset, and finally
// normalized edit distance.
func Score(query, candidate string) float64 {
	q := Normalize(query)
	c := Normalize(candidate)
	if q == "" || c == "" {
		return 0
	}

	// 1. Exact
	if q == c {
		return 1.0
	}

	qLen := utf8.RuneCountInString(q)
	cLen := utf8.RuneCountInString(c)

	// 2. Substring, earlier matches score higher
	if idx := strings.Index(c, q); idx >= 0 {
		pos := utf8.RuneCountInString(c[:idx])
		bonus := max(0, 1-float64(pos)/float64(cLen)) * substringMaxBonus
		return substringBase + bonus
	}

	// 3. Acronym ("bp" for "bench press")
	if acr := Acronym(c); acr != "" && strings.HasPrefix(acr, q) {
		tightness := float64(qLen) / float64(utf8.RuneCountInString(acr))
		return acronymWeight*tightness + acronymFloor
	}

	// 4. Every query token appears in the candidate
	if tokenSubset(q, c) {
		return tokenSubsetScore
	}

	// 5. Edit distance with a small shared-prefix boost
	dist := levenshtein.ComputeDistance(q, c)
	sim := 1 - float64(dist)/float64(max(qLen, cLen))
	boost := min(prefixMaxBoost, float64(commonPrefixLen(q, c))/float64(qLen)*prefixMaxBoost)
	return min(maxInexactScore, clamp01(sim+boost))
}

// Sort scores every candidate, drops those below minScore and orders the rest
// by score descending, then shorter name, then lexicographically. A limit of
// zero or less means no limit.
func Sort(query string, candidates []string, minScore float64, limit int) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		if s := Score(query, c); s >= minScore {
			matches = append(matches, Match{Name: c, Score: s})
		}
	}
	slices.SortFunc(matches, CompareMatches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// CompareMatches is the ordering Sort uses.
func CompareMatches(a, b Match) int {
	if a.Score != b.Score {
		return cmp.Compare(b.Score, a.Score)
	}
	if la, lb := utf8.RuneCountInString(a.Name), utf8.RuneCountInString(b.Name); la != lb {
		return cmp.Compare(la, lb)
	}
	return strings.Compare(a.Name, b.Name)
}

// Acronym returns the first rune of each token of the normalized form of s.
func Acronym(s string) string {
	var b strings.Builder
	for _, tok := range Tokens(s) {
		r, _ := utf8.DecodeRuneInString(tok)
		b.WriteRune(r)
	}
	return b.String()
}

func tokenSubset(q, c string) bool {
	have := make(map[string]struct{})
	for _, t := range strings.Fields(c) {
		have[t] = struct{}{}
	}
	want := strings.Fields(q)
	if len(want) == 0 {
		return false
	}
	for _, t := range want {
		if _, ok := have[t]; !ok {
			return false
		}
	}
	return true
}

func commonPrefixLen(a, b string) int {
	n := 0
	for a != "" && b != "" {
		ra, sa := utf8.DecodeRuneInString(a)
		rb, sb := utf8.DecodeRuneInString(b)
		if ra != rb {
			break
		}
		n++
		a, b = a[sa:], b[sb:]
	}
	return n
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
