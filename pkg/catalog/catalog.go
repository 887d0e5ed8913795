// Package catalog holds the stock list of known exercise names and loads it
// from its two- or three-column CSV resource.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	stderrors "errors"
	"io"
	"log/slog"
	"strings"

	"github.com/ripixel/liftlog/pkg/classifier"
	"github.com/ripixel/liftlog/pkg/domain/exercise"
	"github.com/ripixel/liftlog/pkg/errors"
	"github.com/ripixel/liftlog/pkg/fuzzy"
)

//go:embed data/strength_workout_names.csv
var stockCSV []byte

// Entry is one known exercise. Tag is unset when the resource row had none
// and the catalog has not been tagged yet.
type Entry struct {
	Name    string
	Tag     exercise.MuscleTag
	Aliases []string
}

// Catalog is immutable after construction.
type Catalog struct {
	entries []Entry
}

// New builds a catalog from entries, dropping blank and duplicate names.
func New(entries []Entry) *Catalog {
	c := &Catalog{}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		key := fuzzy.Normalize(e.Name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		e.Aliases = append([]string(nil), e.Aliases...)
		c.entries = append(c.entries, e)
	}
	return c
}

type parseOptions struct {
	logger *slog.Logger
}

// Option configures Parse.
type Option func(*parseOptions)

// WithLogger sets the logger used for skipped rows.
func WithLogger(l *slog.Logger) Option {
	return func(o *parseOptions) { o.logger = l }
}

// Parse reads a `name,tag[,aliases]` resource. The first line is a header
// and is discarded. Rows with no name, too many columns, or broken quoting
// are skipped. Unknown or empty tags are left unset.
func Parse(r io.Reader, opts ...Option) (*Catalog, error) {
	o := parseOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.With("component", "catalog")

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var (
		entries []Entry
		header  = true
		skipped int
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if stderrors.As(err, &parseErr) {
				skipped++
				continue
			}
			return nil, errors.Wrap(err, errors.CodeCatalogReadFailed, "failed to read catalog")
		}
		if header {
			header = false
			continue
		}

		entry, ok := parseRow(row)
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}

	if skipped > 0 {
		logger.Debug("Skipped malformed catalog rows", "skipped", skipped)
	}
	return New(entries), nil
}

func parseRow(row []string) (Entry, bool) {
	if len(row) == 0 || len(row) > 3 {
		return Entry{}, false
	}
	name := strings.TrimSpace(row[0])
	if name == "" {
		return Entry{}, false
	}
	entry := Entry{Name: name}
	if len(row) >= 2 {
		if tag, ok := exercise.ParseMuscleTag(row[1]); ok {
			entry.Tag = tag
		}
	}
	if len(row) == 3 {
		for _, alias := range strings.Split(row[2], ";") {
			if alias = strings.TrimSpace(alias); alias != "" {
				entry.Aliases = append(entry.Aliases, alias)
			}
		}
	}
	return entry, true
}

// Load parses the resource and tags every untagged entry. The resource's own
// tags are installed as classifier overrides ahead of the rules.
func Load(r io.Reader, opts ...Option) (*Catalog, *classifier.Classifier, error) {
	cat, err := Parse(r, opts...)
	if err != nil {
		return nil, nil, err
	}
	cl := classifier.New(classifier.WithOverrides(cat.Overrides()))
	return cat.Tagged(cl), cl, nil
}

// Stock returns the catalog bundled with the binary.
func Stock() (*Catalog, *classifier.Classifier) {
	cat, cl, err := Load(bytes.NewReader(stockCSV))
	if err != nil {
		// The embedded resource is read from memory and cannot fail to read.
		panic(err)
	}
	return cat, cl
}

// Tagged returns a copy with every unset tag filled in by cl.
func (c *Catalog) Tagged(cl *classifier.Classifier) *Catalog {
	out := &Catalog{entries: make([]Entry, len(c.entries))}
	for i, e := range c.entries {
		if !e.Tag.IsSet() {
			e.Tag = cl.Classify(e.Name)
		}
		out.entries[i] = e
	}
	return out
}

// Overrides returns the explicitly tagged entries as a name → tag table.
func (c *Catalog) Overrides() map[string]exercise.MuscleTag {
	out := make(map[string]exercise.MuscleTag)
	for _, e := range c.entries {
		if e.Tag.IsSet() {
			out[e.Name] = e.Tag
		}
	}
	return out
}

// Entries returns the entries in resource order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.entries...)
}

// Names returns the entry names in resource order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
