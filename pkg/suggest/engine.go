// Package suggest answers "what did the user mean" and "what will they do
// next" over an immutable snapshot of exercise history and the stock catalog.
package suggest

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ripixel/liftlog/pkg/catalog"
	"github.com/ripixel/liftlog/pkg/classifier"
	"github.com/ripixel/liftlog/pkg/domain/exercise"
	"github.com/ripixel/liftlog/pkg/fuzzy"
	"github.com/ripixel/liftlog/pkg/transition"
)

// Source records which strategy produced a suggestion.
type Source string

const (
	SourceHistory   Source = "history"
	SourceCatalog   Source = "catalog"
	SourcePredicted Source = "predicted"
	SourceRecent    Source = "recent"
)

// Suggestion is what the UI renders. Record is the most recent logged
// instance when the suggestion comes from history, nil otherwise.
type Suggestion struct {
	Name   string
	Tag    exercise.MuscleTag
	Source Source
	Record *exercise.Record
}

// Engine is read-only after construction and safe for concurrent queries.
type Engine struct {
	history    []exercise.Record // most recent first
	latest     map[string]int    // exact name -> index of its most recent record
	catalog    *catalog.Catalog
	classifier *classifier.Classifier
	model      *transition.Model // nil until Build

	now      func() time.Time
	loc      *time.Location
	minScore float64
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the source of "now" used to decide what counts as today.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the timezone calendar days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithClassifier sets the classifier used for records and catalog entries
// without a tag.
func WithClassifier(c *classifier.Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithMinScore sets the cut-off for Resolve.
func WithMinScore(score float64) Option {
	return func(e *Engine) { e.minScore = score }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an engine with its transition model built.
func New(history []exercise.Record, cat *catalog.Catalog, opts ...Option) *Engine {
	return NewUnbuilt(history, cat, opts...).Build()
}

// NewUnbuilt returns an engine without a transition model. Predictions fall
// back to the most recent distinct history entries until Build is called.
func NewUnbuilt(history []exercise.Record, cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:  cat,
		now:      time.Now,
		loc:      time.Local,
		minScore: fuzzy.DefaultMinScore,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.classifier == nil {
		e.classifier = classifier.New()
	}
	if e.catalog == nil {
		e.catalog = catalog.New(nil)
	}
	e.logger = e.logger.With("component", "suggest")

	e.history = slices.Clone(history)
	slices.SortStableFunc(e.history, func(a, b exercise.Record) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	e.latest = make(map[string]int, len(e.history))
	for i, r := range e.history {
		if _, ok := e.latest[r.Name]; !ok {
			e.latest[r.Name] = i
		}
	}
	return e
}

// Build returns a copy of e with the transition model built over its
// history. e itself is unchanged.
func (e *Engine) Build() *Engine {
	built := *e
	built.model = transition.Build(e.history,
		transition.WithLocation(e.loc),
		transition.WithLogger(e.logger))
	return &built
}

// Built reports whether the transition model is available.
func (e *Engine) Built() bool {
	return e.model != nil
}

// Suggest returns candidates for the typed query.
//
// With an empty query it returns the stock catalog for a brand-new user and
// predicted next exercises otherwise. With text it returns matching history
// entries followed by matching catalog entries, or nothing when the only
// history match is exactly what was typed.
func (e *Engine) Suggest(query string) []Suggestion {
	q := fuzzy.Normalize(query)
	switch {
	case q == "" && len(e.history) == 0:
		return e.stock()
	case q == "":
		return e.predicted()
	default:
		return e.match(q)
	}
}

func (e *Engine) stock() []Suggestion {
	entries := e.catalog.Entries()
	out := make([]Suggestion, 0, len(entries))
	for _, entry := range entries {
		out = append(out, e.fromEntry(entry))
	}
	return out
}

func (e *Engine) predicted() []Suggestion {
	var (
		names  []string
		source = SourcePredicted
	)
	if e.model == nil {
		e.logger.Debug("Transition model not built, serving recent history")
		names = transition.RecentDistinct(e.history)
		source = SourceRecent
	} else {
		key := transition.LastToday(e.history, e.now(), e.loc)
		names = e.model.PredictNext(key)
		if e.model.Row(key) == nil {
			source = SourceRecent
		}
	}

	out := make([]Suggestion, 0, len(names))
	for _, name := range names {
		r, ok := e.MostRecent(name)
		if !ok {
			continue
		}
		out = append(out, Suggestion{Name: r.Name, Tag: e.classifier.TagFor(r), Source: source, Record: &r})
	}
	return out
}

func (e *Engine) match(q string) []Suggestion {
	var out []Suggestion
	seen := make(map[string]struct{})

	for i := range e.history {
		key := fuzzy.Normalize(e.history[i].Name)
		if !strings.Contains(key, q) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		r := e.history[i]
		out = append(out, Suggestion{Name: r.Name, Tag: e.classifier.TagFor(r), Source: SourceHistory, Record: &r})
	}

	// Typing the exact name of the one matching exercise needs no list.
	if len(out) == 1 && fuzzy.Normalize(out[0].Name) == q {
		return nil
	}

	for _, entry := range e.catalog.Entries() {
		key := fuzzy.Normalize(entry.Name)
		if !strings.Contains(key, q) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e.fromEntry(entry))
	}
	return out
}

func (e *Engine) fromEntry(entry catalog.Entry) Suggestion {
	tag := entry.Tag
	if !tag.IsSet() {
		tag = e.classifier.Classify(entry.Name)
	}
	return Suggestion{Name: entry.Name, Tag: tag, Source: SourceCatalog}
}

// MostRecent returns the latest record logged under exactly name.
func (e *Engine) MostRecent(name string) (exercise.Record, bool) {
	i, ok := e.latest[name]
	if !ok {
		return exercise.Record{}, false
	}
	return e.history[i], true
}

// History returns the snapshot, most recent first.
func (e *Engine) History() []exercise.Record {
	return slices.Clone(e.history)
}

func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }
func (e *Engine) Classifier() *classifier.Classifier { return e.classifier }
func (e *Engine) Model() *transition.Model { return e.model }
func (e *Engine) Now() time.Time { return e.now() }
func (e *Engine) Location() *time.Location { return e.loc }
func (e *Engine) Logger() *slog.Logger { return e.logger }
