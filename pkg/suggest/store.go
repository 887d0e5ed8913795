package suggest

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/ripixel/liftlog/pkg/catalog"
	"github.com/ripixel/liftlog/pkg/domain/exercise"
	"github.com/ripixel/liftlog/pkg/errors"
)

// HistorySource loads a user's full exercise history.
type HistorySource interface {
	History(ctx context.Context) ([]exercise.Record, error)
}

// HistorySourceFunc adapts a function to HistorySource.
type HistorySourceFunc func(ctx context.Context) ([]exercise.Record, error)

func (f HistorySourceFunc) History(ctx context.Context) ([]exercise.Record, error) {
	return f(ctx)
}

// Store holds the engine the UI queries and replaces it when history
// changes. Readers never block: while a new transition model is being
// built, the store serves an engine over the new history that predicts
// from recent entries.
type Store struct {
	source  HistorySource
	catalog *catalog.Catalog
	opts    []Option
	logger  *slog.Logger

	current atomic.Pointer[Engine]
	writeMu sync.Mutex
	group   singleflight.Group
}

// NewStore returns a store serving an empty engine until the first Refresh.
func NewStore(source HistorySource, cat *catalog.Catalog, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		source:  source,
		catalog: cat,
		opts:    append(slices.Clone(opts), WithLogger(logger)),
		logger:  logger.With("component", "suggest-store"),
	}
	s.current.Store(NewUnbuilt(nil, cat, s.opts...))
	return s
}

// Engine returns the current snapshot.
func (s *Store) Engine() *Engine {
	return s.current.Load()
}

// Refresh reloads history from the source and rebuilds the model.
// Concurrent calls share one load.
func (s *Store) Refresh(ctx context.Context) error {
	_, err, shared := s.group.Do("refresh", func() (any, error) {
		history, err := s.source.History(ctx)
		if err != nil {
			return nil, errors.WrapRetryable(err, errors.CodeHistoryReadFailed, "failed to load exercise history")
		}
		s.install(history)
		return nil, nil
	})
	if shared {
		s.logger.Debug("Refresh coalesced with in-flight load")
	}
	return err
}

// Add appends newly logged records to the current history and rebuilds.
func (s *Store) Add(records ...exercise.Record) {
	if len(records) == 0 {
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.installLocked(append(s.Engine().History(), records...))
}

func (s *Store) install(history []exercise.Record) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.installLocked(history)
}

func (s *Store) installLocked(history []exercise.Record) {
	unbuilt := NewUnbuilt(history, s.catalog, s.opts...)
	s.current.Store(unbuilt)
	s.current.Store(unbuilt.Build())
	s.logger.Debug("Installed engine", "records", len(history))
}
