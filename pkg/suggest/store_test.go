package suggest

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripixel/liftlog/pkg/domain/exercise"
	"github.com/ripixel/liftlog/pkg/errors"
)

func staticSource(h []exercise.Record) HistorySource {
	return HistorySourceFunc(func(ctx context.Context) ([]exercise.Record, error) {
		return h, nil
	})
}

func TestStore_ServesEmptyEngineBeforeRefresh(t *testing.T) {
	s := NewStore(staticSource(nil), testCatalog(), nil)

	e := s.Engine()
	require.NotNil(t, e)
	assert.Empty(t, e.History())
	assert.Len(t, e.Suggest(""), 6)
}

func TestStore_Refresh(t *testing.T) {
	s := NewStore(staticSource(legDayHistory()), testCatalog(), nil,
		WithLocation(time.UTC),
		WithClock(func() time.Time { return at(3, 10, 0) }))

	require.NoError(t, s.Refresh(context.Background()))

	e := s.Engine()
	assert.True(t, e.Built())
	assert.Len(t, e.History(), 7)
	assert.Equal(t, []string{"Lunge"}, names(e.Suggest("")))
}

func TestStore_RefreshError(t *testing.T) {
	boom := stderrors.New("connection reset")
	s := NewStore(HistorySourceFunc(func(ctx context.Context) ([]exercise.Record, error) {
		return nil, boom
	}), testCatalog(), nil)
	before := s.Engine()

	err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, errors.ErrHistoryReadFailed)
	assert.True(t, errors.IsRetryable(err))
	assert.Same(t, before, s.Engine(), "failed refresh keeps the current engine")
}

func TestStore_EngineDoesNotBlockDuringRefresh(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	s := NewStore(HistorySourceFunc(func(ctx context.Context) ([]exercise.Record, error) {
		once.Do(func() { close(started) })
		<-release
		return legDayHistory(), nil
	}), testCatalog(), nil)
	before := s.Engine()

	const callers = 4
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Refresh(context.Background())
		}()
	}

	<-started
	assert.Same(t, before, s.Engine())
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.True(t, s.Engine().Built())
	assert.Len(t, s.Engine().History(), 7)
}

func TestStore_Add(t *testing.T) {
	s := NewStore(staticSource(legDayHistory()), testCatalog(), nil,
		WithLocation(time.UTC),
		WithClock(func() time.Time { return at(3, 10, 0) }))
	require.NoError(t, s.Refresh(context.Background()))

	s.Add()
	assert.Len(t, s.Engine().History(), 7)

	s.Add(rec("Lunge", at(3, 9, 30)), rec("Calf Raise", at(3, 9, 45)))
	e := s.Engine()
	require.True(t, e.Built())
	assert.Len(t, e.History(), 9)
	assert.Equal(t, "Calf Raise", e.History()[0].Name)

	// Calf Raise has never been followed by anything, so predictions fall
	// back to recent history.
	got := e.Suggest("")
	assert.Equal(t, []string{"Calf Raise", "Lunge", "Squat"}, names(got))
	assert.Equal(t, SourceRecent, got[0].Source)
}
