package bootstrap

import (
	"bytes"
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ripixel/liftlog/pkg/catalog"
	"github.com/ripixel/liftlog/pkg/classifier"
	"github.com/ripixel/liftlog/pkg/domain/exercise"
	"github.com/ripixel/liftlog/pkg/errors"
	"github.com/ripixel/liftlog/pkg/recommend"
	"github.com/ripixel/liftlog/pkg/suggest"
)

// Session is one user's suggestion state, backed by the history store.
type Session struct {
	UserID string
	Store  *suggest.Store

	svc    *Service
	logger *slog.Logger
}

// Open loads the catalog and the user's history concurrently and installs a
// built engine over them.
func (s *Service) Open(ctx context.Context, userID string) (*Session, error) {
	logger := s.logger().With("user_id", userID)

	var (
		cat     *catalog.Catalog
		cl      *classifier.Classifier
		history []exercise.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cat, cl, err = s.LoadCatalog(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.History.ListExercises(gctx, userID)
		if err != nil {
			return errors.WrapRetryable(err, errors.CodeHistoryReadFailed, "failed to load exercise history").
				WithMetadata("user_id", userID)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error("Session open failed", "error", err)
		return nil, err
	}

	source := suggest.HistorySourceFunc(func(ctx context.Context) ([]exercise.Record, error) {
		return s.History.ListExercises(ctx, userID)
	})
	store := suggest.NewStore(source, cat, logger,
		suggest.WithClassifier(cl),
		suggest.WithLocation(s.Config.Location),
		suggest.WithMinScore(s.Config.MinScore))
	store.Add(history...)

	logger.Info("Session opened", "records", len(history), "catalog_entries", cat.Len())
	return &Session{UserID: userID, Store: store, svc: s, logger: logger}, nil
}

// LoadCatalog reads the configured catalog resource, or the embedded one when
// no bucket is configured.
func (s *Service) LoadCatalog(ctx context.Context) (*catalog.Catalog, *classifier.Classifier, error) {
	if s.Config.CatalogBucket == "" || s.Blobs == nil {
		cat, cl := catalog.Stock()
		return cat, cl, nil
	}
	data, err := s.Blobs.Read(ctx, s.Config.CatalogBucket, s.Config.CatalogObject)
	if err != nil {
		return nil, nil, errors.WrapRetryable(err, errors.CodeCatalogReadFailed, "failed to fetch catalog").
			WithMetadata("bucket", s.Config.CatalogBucket).
			WithMetadata("object", s.Config.CatalogObject)
	}
	cat, cl, err := catalog.Load(bytes.NewReader(data), catalog.WithLogger(s.logger()))
	if err != nil {
		return nil, nil, err
	}
	if cat.Len() == 0 {
		return nil, nil, errors.ErrCatalogInvalid.
			WithMetadata("bucket", s.Config.CatalogBucket).
			WithMetadata("object", s.Config.CatalogObject)
	}
	return cat, cl, nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Suggest answers a typed query against the current snapshot.
func (ss *Session) Suggest(query string) []suggest.Suggestion {
	return ss.Store.Engine().Suggest(query)
}

// Resolve matches free text to canonical exercise names.
func (ss *Session) Resolve(text string, limit int) []suggest.Resolution {
	return ss.Store.Engine().Resolve(text, limit)
}

// Recommend returns today's list using the configured limit.
func (ss *Session) Recommend() []suggest.Suggestion {
	return recommend.New(ss.Store.Engine(), ss.logger).Recommend(ss.svc.Config.RecommendLimit)
}

// Log persists a newly logged exercise and rebuilds the snapshot with it.
// Untagged records are classified before they are written.
func (ss *Session) Log(ctx context.Context, record exercise.Record) error {
	if !record.Tag.IsSet() {
		record.Tag = ss.Store.Engine().Classifier().Classify(record.Name)
	}
	if err := ss.svc.History.AddExercise(ctx, ss.UserID, record); err != nil {
		return err
	}
	ss.Store.Add(record)
	return nil
}

// Backfill writes classified tags for every untagged record in the history
// and reloads the snapshot. It returns how many records were tagged.
func (ss *Session) Backfill(ctx context.Context) (int, error) {
	engine := ss.Store.Engine()
	assignments := engine.Classifier().Backfill(engine.History())
	for i, a := range assignments {
		if err := ss.svc.History.UpdateExerciseTag(ctx, ss.UserID, a.ID, a.Tag); err != nil {
			ss.logger.Warn("Tag backfill stopped", "applied", i, "pending", len(assignments)-i, "error", err)
			return i, err
		}
	}
	if len(assignments) == 0 {
		return 0, nil
	}
	ss.logger.Info("Backfilled exercise tags", "count", len(assignments))
	return len(assignments), ss.Store.Refresh(ctx)
}
