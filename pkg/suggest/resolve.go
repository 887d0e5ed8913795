package suggest

import (
	"slices"

	"github.com/ripixel/liftlog/pkg/domain/exercise"
	"github.com/ripixel/liftlog/pkg/fuzzy"
)

// Resolution is a canonical exercise name matched from free text, e.g. a
// line of an imported workout.
type Resolution struct {
	Name    string
	Tag     exercise.MuscleTag
	Score   float64
	Matched string // the catalog name, alias or history name that scored
}

// Resolve fuzzy-matches text against catalog names, catalog aliases and
// logged exercise names. Each canonical name appears once with its best
// score. limit <= 0 returns every match at or above the minimum score.
func (e *Engine) Resolve(text string, limit int) []Resolution {
	if fuzzy.Normalize(text) == "" {
		return nil
	}

	best := make(map[string]Resolution)
	consider := func(canonical, candidate string, tag exercise.MuscleTag) {
		score := fuzzy.Score(text, candidate)
		if score < e.minScore {
			return
		}
		if cur, ok := best[canonical]; ok && cur.Score >= score {
			return
		}
		best[canonical] = Resolution{Name: canonical, Tag: tag, Score: score, Matched: candidate}
	}

	for _, entry := range e.catalog.Entries() {
		tag := e.fromEntry(entry).Tag
		consider(entry.Name, entry.Name, tag)
		for _, alias := range entry.Aliases {
			consider(entry.Name, alias, tag)
		}
	}
	for name, i := range e.latest {
		consider(name, name, e.classifier.TagFor(e.history[i]))
	}

	out := make([]Resolution, 0, len(best))
	for _, r := range best {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Resolution) int {
		return fuzzy.CompareMatches(
			fuzzy.Match{Name: a.Name, Score: a.Score},
			fuzzy.Match{Name: b.Name, Score: b.Score})
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
