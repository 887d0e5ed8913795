// Package transition builds a first-order Markov chain over exercise names
// from same-day exercise sequences.
package transition

import (
	"cmp"
	"log/slog"
	"slices"
	"time"

	"github.com/ripixel/liftlog/pkg/domain/exercise"
)

// StartOfDay is the row key for "no exercise logged yet today".
const StartOfDay = ""

// FallbackSize is how many recent distinct names PredictNext returns when
// the model has no row for the requested key.
const FallbackSize = 10

// Table counts observed transitions: Table[prev][next].
type Table map[string]map[string]int

// Model is an immutable snapshot built from one history. Build a new one
// whenever the history changes.
type Model struct {
	counts Table
	probs  map[string]map[string]float64
	recent []string
	loc    *time.Location
}

type buildOptions struct {
	loc    *time.Location
	logger *slog.Logger
}

// Option configures Build.
type Option func(*buildOptions)

// WithLocation sets the timezone that defines calendar days. Defaults to
// time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *buildOptions) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithLogger sets the logger for build diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *buildOptions) { o.logger = l }
}

// Build groups history by calendar day, orders each day chronologically,
// and counts every consecutive pair with StartOfDay before the first
// exercise. Transitions never cross a day boundary. history may be in any
// order.
func Build(history []exercise.Record, opts ...Option) *Model {
	o := buildOptions{loc: time.Local, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	days := make(map[exercise.DayKey][]exercise.Record)
	for _, r := range history {
		if r.Name == StartOfDay {
			continue
		}
		key := exercise.DayOf(r.Timestamp, o.loc)
		days[key] = append(days[key], r)
	}

	counts := make(Table)
	for _, records := range days {
		slices.SortStableFunc(records, func(a, b exercise.Record) int {
			return a.Timestamp.Compare(b.Timestamp)
		})
		prev := StartOfDay
		for _, r := range records {
			row, ok := counts[prev]
			if !ok {
				row = make(map[string]int)
				counts[prev] = row
			}
			row[r.Name]++
			prev = r.Name
		}
	}

	m := &Model{
		counts: counts,
		probs:  probabilities(counts),
		recent: recentDistinct(history, FallbackSize),
		loc:    o.loc,
	}
	o.logger.Debug("Built transition model",
		"component", "transition",
		"records", len(history),
		"days", len(days),
		"rows", len(counts))
	return m
}

// probabilities normalises each row. Rows only exist once a transition
// was counted, so totals are never zero.
func probabilities(counts Table) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(counts))
	for prev, row := range counts {
		total := 0
		for _, n := range row {
			total += n
		}
		p := make(map[string]float64, len(row))
		for next, n := range row {
			p[next] = float64(n) / float64(total)
		}
		out[prev] = p
	}
	return out
}

// recentDistinct returns up to n distinct names, most recent first.
func recentDistinct(history []exercise.Record, n int) []string {
	sorted := slices.Clone(history)
	slices.SortStableFunc(sorted, func(a, b exercise.Record) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	var names []string
	seen := make(map[string]struct{})
	for _, r := range sorted {
		if len(names) == n {
			break
		}
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		names = append(names, r.Name)
	}
	return names
}

// Count returns how often next followed prev on the same day.
func (m *Model) Count(prev, next string) int {
	return m.counts[prev][next]
}

// Counts returns a copy of the transition table.
func (m *Model) Counts() Table {
	out := make(Table, len(m.counts))
	for prev, row := range m.counts {
		cp := make(map[string]int, len(row))
		for next, n := range row {
			cp[next] = n
		}
		out[prev] = cp
	}
	return out
}

// Row returns a copy of the probability row for prev, or nil when prev was
// never followed by anything.
func (m *Model) Row(prev string) map[string]float64 {
	row, ok := m.probs[prev]
	if !ok {
		return nil
	}
	cp := make(map[string]float64, len(row))
	for next, p := range row {
		cp[next] = p
	}
	return cp
}

// Probability returns P(next | prev), zero when unobserved.
func (m *Model) Probability(prev, next string) float64 {
	return m.probs[prev][next]
}

// Location is the timezone the model's calendar days are defined in.
func (m *Model) Location() *time.Location {
	return m.loc
}

// Ranked is a next-exercise candidate.
type Ranked struct {
	Name        string
	Probability float64
}

// Rank orders the row for prev by probability descending, breaking ties by
// name so equal probabilities always come out in the same order.
func (m *Model) Rank(prev string) []Ranked {
	row, ok := m.probs[prev]
	if !ok {
		return nil
	}
	out := make([]Ranked, 0, len(row))
	for name, p := range row {
		out = append(out, Ranked{Name: name, Probability: p})
	}
	slices.SortFunc(out, func(a, b Ranked) int {
		if a.Probability != b.Probability {
			return cmp.Compare(b.Probability, a.Probability)
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// PredictNext ranks likely next exercises after lastToday. Pass StartOfDay
// when nothing has been logged today. Without a row for the key it falls back
// to the most recent distinct names in the history.
func (m *Model) PredictNext(lastToday string) []string {
	ranked := m.Rank(lastToday)
	if ranked == nil {
		return slices.Clone(m.recent)
	}
	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Name
	}
	return names
}

// LastToday returns the key PredictNext should use: the name of the most
// recent record when it falls on now's calendar day, else StartOfDay.
func LastToday(history []exercise.Record, now time.Time, loc *time.Location) string {
	var latest *exercise.Record
	for i := range history {
		if latest == nil || history[i].Timestamp.After(latest.Timestamp) {
			latest = &history[i]
		}
	}
	if latest == nil || exercise.DayOf(latest.Timestamp, loc) != exercise.DayOf(now, loc) {
		return StartOfDay
	}
	return latest.Name
}

// RecentDistinct is the no-model fallback used before a Build completes.
func RecentDistinct(history []exercise.Record) []string {
	return recentDistinct(history, FallbackSize)
}
