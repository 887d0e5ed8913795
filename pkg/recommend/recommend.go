// Package recommend builds the day view's "today" list by layering
// same-day-last-week repeats, exercises neglected this week and transition
// predictions.
package recommend

import (
	"cmp"
	"log/slog"
	"slices"
	"time"

	"github.com/ripixel/liftlog/pkg/domain/exercise"
	"github.com/ripixel/liftlog/pkg/suggest"
)

const (
	SourceStarter         suggest.Source = "starter"
	SourceSameDayLastWeek suggest.Source = "same-day-last-week"
	SourceNeglected       suggest.Source = "neglected"
)

const (
	// DefaultLimit bounds the merged list.
	DefaultLimit = 8

	maxNeglected = 4
)

// StarterExercises is shown to users with no history.
var StarterExercises = []string{
	"Push-ups",
	"Squats",
	"Pull-ups",
	"Plank",
	"Bench Press",
	"Deadlift",
}

// Recommender composes today's list from an engine snapshot.
type Recommender struct {
	engine *suggest.Engine
	logger *slog.Logger
}

// New returns a recommender over engine. It reads the engine's history,
// clock, timezone and classifier.
func New(engine *suggest.Engine, logger *slog.Logger) *Recommender {
	if logger == nil {
		logger = engine.Logger()
	}
	return &Recommender{engine: engine, logger: logger.With("component", "recommend")}
}

// Recommend returns up to limit exercises, de-duplicated by name with the
// first strategy to produce a name winning. limit <= 0 means DefaultLimit.
func (r *Recommender) Recommend(limit int) []suggest.Suggestion {
	if limit <= 0 {
		limit = DefaultLimit
	}

	history := r.engine.History()
	if len(history) == 0 {
		return truncate(r.starter(), limit)
	}

	now := r.engine.Now()
	loc := r.engine.Location()

	lastWeek := r.sameDayLastWeek(history, now, loc)
	neglected := r.neglected(history, now, loc)
	predicted := r.engine.Suggest("")
	r.logger.Debug("Strategies evaluated",
		"same_day_last_week", len(lastWeek),
		"neglected", len(neglected),
		"predicted", len(predicted))

	var out []suggest.Suggestion
	seen := make(map[string]struct{})
	for _, group := range [][]suggest.Suggestion{lastWeek, neglected, predicted} {
		for _, s := range group {
			if _, dup := seen[s.Name]; dup {
				continue
			}
			seen[s.Name] = struct{}{}
			out = append(out, s)
		}
	}
	return truncate(out, limit)
}

func (r *Recommender) starter() []suggest.Suggestion {
	cl := r.engine.Classifier()
	out := make([]suggest.Suggestion, len(StarterExercises))
	for i, name := range StarterExercises {
		out[i] = suggest.Suggestion{Name: name, Tag: cl.Classify(name), Source: SourceStarter}
	}
	return out
}

// sameDayLastWeek returns the latest record per name logged on the calendar
// day seven days before now, newest first.
func (r *Recommender) sameDayLastWeek(history []exercise.Record, now time.Time, loc *time.Location) []suggest.Suggestion {
	target := exercise.DayOf(now.In(loc).AddDate(0, 0, -7), loc)

	latest := make(map[string]exercise.Record)
	for _, rec := range history {
		if exercise.DayOf(rec.Timestamp, loc) != target {
			continue
		}
		if cur, ok := latest[rec.Name]; !ok || rec.Timestamp.After(cur.Timestamp) {
			latest[rec.Name] = rec
		}
	}

	records := mapValues(latest)
	slices.SortFunc(records, func(a, b exercise.Record) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return r.wrap(records, SourceSameDayLastWeek)
}

// neglected returns the latest record of every name not logged since the
// start of the current Monday-based week, longest neglected first.
func (r *Recommender) neglected(history []exercise.Record, now time.Time, loc *time.Location) []suggest.Suggestion {
	weekStart := exercise.StartOfWeek(now, loc)

	thisWeek := make(map[string]struct{})
	latest := make(map[string]exercise.Record)
	for _, rec := range history {
		if !rec.Timestamp.Before(weekStart) {
			thisWeek[rec.Name] = struct{}{}
		}
		if cur, ok := latest[rec.Name]; !ok || rec.Timestamp.After(cur.Timestamp) {
			latest[rec.Name] = rec
		}
	}
	for name := range thisWeek {
		delete(latest, name)
	}

	records := mapValues(latest)
	slices.SortFunc(records, func(a, b exercise.Record) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return r.wrap(truncate(records, maxNeglected), SourceNeglected)
}

func (r *Recommender) wrap(records []exercise.Record, source suggest.Source) []suggest.Suggestion {
	cl := r.engine.Classifier()
	out := make([]suggest.Suggestion, len(records))
	for i := range records {
		rec := records[i]
		out[i] = suggest.Suggestion{Name: rec.Name, Tag: cl.TagFor(rec), Source: source, Record: &rec}
	}
	return out
}

func mapValues(m map[string]exercise.Record) []exercise.Record {
	out := make([]exercise.Record, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
