// Package classifier assigns a muscle-group tag to a free-text exercise name
// using an override table first and ordered keyword rules second.
package classifier

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ripixel/liftlog/pkg/domain/exercise"
	"github.com/ripixel/liftlog/pkg/fuzzy"
)

// Classifier is safe for concurrent use; it is never mutated after New.
type Classifier struct {
	rules     []Rule
	overrides map[string]exercise.MuscleTag
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRules replaces DefaultRules.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) {
		c.rules = append([]Rule(nil), rules...)
	}
}

// WithOverrides adds name → tag entries that win over the rules. Names are
// compared in normalized form; untagged entries are ignored.
func WithOverrides(overrides map[string]exercise.MuscleTag) Option {
	return func(c *Classifier) {
		for name, tag := range overrides {
			if key := fuzzy.Normalize(name); key != "" && tag.IsSet() {
				c.overrides[key] = tag
			}
		}
	}
}

// New builds a classifier over DefaultRules.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		rules:     DefaultRules,
		overrides: make(map[string]exercise.MuscleTag),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify never fails: names no rule recognises are tagged Other.
func (c *Classifier) Classify(name string) exercise.MuscleTag {
	if tag, ok := c.Override(name); ok {
		return tag
	}
	if rule, ok := c.Explain(name); ok {
		return rule.Tag
	}
	return exercise.TagOther
}

// Override returns the override table entry for name, if any.
func (c *Classifier) Override(name string) (exercise.MuscleTag, bool) {
	tag, ok := c.overrides[fuzzy.Normalize(name)]
	return tag, ok
}

// Explain returns the first rule that matches name, ignoring overrides.
func (c *Classifier) Explain(name string) (Rule, bool) {
	tokens := strings.Fields(ExpandAbbreviations(fuzzy.Normalize(name)))
	if len(tokens) == 0 {
		return Rule{}, false
	}
	for _, r := range c.rules {
		if r.matchTokens(tokens) {
			return r, true
		}
	}
	return Rule{}, false
}

// Rules returns the rule list in evaluation order.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// TagFor returns the record's own tag, classifying the name when it has none.
func (c *Classifier) TagFor(r exercise.Record) exercise.MuscleTag {
	if r.Tag.IsSet() {
		return r.Tag
	}
	return c.Classify(r.Name)
}

// Assignment is a tag to write back onto an untagged record.
type Assignment struct {
	ID   uuid.UUID
	Name string
	Tag  exercise.MuscleTag
}

// Backfill lists a tag assignment for every record that has no tag yet.
func (c *Classifier) Backfill(records []exercise.Record) []Assignment {
	var out []Assignment
	for _, r := range records {
		if r.Tag.IsSet() {
			continue
		}
		out = append(out, Assignment{ID: r.ID, Name: r.Name, Tag: c.Classify(r.Name)})
	}
	return out
}
