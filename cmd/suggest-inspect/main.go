package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ripixel/liftlog/pkg/bootstrap"
	"github.com/ripixel/liftlog/pkg/catalog"
	"github.com/ripixel/liftlog/pkg/classifier"
	"github.com/ripixel/liftlog/pkg/domain/exercise"
	"github.com/ripixel/liftlog/pkg/recommend"
	"github.com/ripixel/liftlog/pkg/suggest"
	"github.com/ripixel/liftlog/pkg/transition"
)

func main() {
	historyPath := flag.String("history", "", "Path to exercise history JSON (array of records)")
	catalogPath := flag.String("catalog", "", "Path to catalog CSV (defaults to the embedded catalog)")
	query := flag.String("query", "", "Typed query to suggest for")
	resolve := flag.String("resolve", "", "Free text to resolve to catalog names")
	nowFlag := flag.String("now", "", "Evaluate as of this RFC3339 time (defaults to now)")
	limit := flag.Int("limit", recommend.DefaultLimit, "Maximum rows to print")
	showModel := flag.Bool("model", false, "Print the transition row used for prediction")
	flag.Parse()

	logger := bootstrap.NewLogger("suggest-inspect", true)

	now := time.Now()
	if *nowFlag != "" {
		t, err := time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			fmt.Printf("Invalid -now: %v\n", err)
			os.Exit(1)
		}
		now = t
	}
	loc := now.Location()

	var history []exercise.Record
	if *historyPath != "" {
		data, err := os.ReadFile(*historyPath)
		if err != nil {
			fmt.Printf("Failed to read history: %v\n", err)
			os.Exit(1)
		}
		if err := json.Unmarshal(data, &history); err != nil {
			fmt.Printf("Failed to decode history: %v\n", err)
			os.Exit(1)
		}
	}

	var (
		cat *catalog.Catalog
		cl  *classifier.Classifier
	)
	if *catalogPath != "" {
		f, err := os.Open(*catalogPath)
		if err != nil {
			fmt.Printf("Failed to open catalog: %v\n", err)
			os.Exit(1)
		}
		cat, cl, err = catalog.Load(f, catalog.WithLogger(logger))
		f.Close()
		if err != nil {
			fmt.Printf("Failed to load catalog: %v\n", err)
			os.Exit(1)
		}
	} else {
		cat, cl = catalog.Stock()
	}

	engine := suggest.New(history, cat,
		suggest.WithClassifier(cl),
		suggest.WithLocation(loc),
		suggest.WithClock(func() time.Time { return now }),
		suggest.WithLogger(logger))

	fmt.Printf("History: %d records, Catalog: %d entries, Now: %s\n\n",
		len(history), cat.Len(), now.Format(time.RFC3339))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	defer w.Flush()

	switch {
	case *resolve != "":
		fmt.Fprintln(w, "Name\tTag\tScore\tMatched")
		fmt.Fprintln(w, "----\t---\t-----\t-------")
		for _, r := range engine.Resolve(*resolve, *limit) {
			fmt.Fprintf(w, "%s\t%s\t%.3f\t%s\n", r.Name, r.Tag, r.Score, r.Matched)
		}

	case *query != "":
		printSuggestions(w, truncate(engine.Suggest(*query), *limit))

	default:
		if *showModel && engine.Model() != nil {
			key := transition.LastToday(history, now, loc)
			label := key
			if key == transition.StartOfDay {
				label = "(start of day)"
			}
			fmt.Fprintf(w, "After %s\tProbability\n", label)
			for _, r := range engine.Model().Rank(key) {
				fmt.Fprintf(w, "%s\t%.3f\n", r.Name, r.Probability)
			}
			fmt.Fprintln(w)
		}
		printSuggestions(w, recommend.New(engine, logger).Recommend(*limit))
	}
}

func printSuggestions(w *tabwriter.Writer, suggestions []suggest.Suggestion) {
	fmt.Fprintln(w, "Name\tTag\tSource\tLast Logged\tMax Weight")
	fmt.Fprintln(w, "----\t---\t------\t-----------\t----------")
	for _, s := range suggestions {
		last, weight := "-", "-"
		if s.Record != nil {
			last = s.Record.Timestamp.Format("2006-01-02 15:04")
			if mw := s.Record.MaxWeight(); mw > 0 {
				weight = fmt.Sprintf("%.1f lbs", mw)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.Name, s.Tag, s.Source, last, weight)
	}
}

func truncate(s []suggest.Suggestion, n int) []suggest.Suggestion {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
