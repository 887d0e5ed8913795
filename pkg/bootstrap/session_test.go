package bootstrap

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripixel/liftlog/pkg/domain/exercise"
	"github.com/ripixel/liftlog/pkg/errors"
	"github.com/ripixel/liftlog/pkg/testing/mocks"
)

var errBoom = stderrors.New("boom")

func testConfig() *Config {
	return &Config{
		CatalogObject:  DefaultCatalogObject,
		Location:       time.UTC,
		RecommendLimit: 3,
		MinScore:       0.55,
	}
}

func TestOpen_EmbeddedCatalog(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	db := &mocks.MockHistoryStore{
		ListExercisesFunc: func(ctx context.Context, userID string) ([]exercise.Record, error) {
			assert.Equal(t, "user-1", userID)
			return []exercise.Record{exercise.NewRecord("Bench Press", exercise.TagChest, ts)}, nil
		},
	}
	svc := &Service{History: db, Config: testConfig()}

	session, err := svc.Open(context.Background(), "user-1")
	require.NoError(t, err)

	assert.True(t, session.Store.Engine().Built())
	assert.Empty(t, session.Suggest("Bench Press"), "exact single history match")
	assert.NotEmpty(t, session.Suggest("bench"))
	assert.LessOrEqual(t, len(session.Recommend()), 3)

	res := session.Resolve("ohp", 1)
	require.Len(t, res, 1)
	assert.Equal(t, "Overhead Press", res[0].Name)
}

func TestOpen_RemoteCatalog(t *testing.T) {
	cfg := testConfig()
	cfg.CatalogBucket = "catalog-bucket"

	blobs := &mocks.MockBlobStore{
		ReadFunc: func(ctx context.Context, bucket, object string) ([]byte, error) {
			assert.Equal(t, "catalog-bucket", bucket)
			assert.Equal(t, DefaultCatalogObject, object)
			return []byte("Name,Tag\nZercher Squat,Legs\nTRX Row,\n"), nil
		},
	}
	svc := &Service{History: &mocks.MockHistoryStore{}, Blobs: blobs, Config: cfg}

	session, err := svc.Open(context.Background(), "user-1")
	require.NoError(t, err)

	got := session.Suggest("")
	require.Len(t, got, 2)
	assert.Equal(t, "Zercher Squat", got[0].Name)
	assert.Equal(t, exercise.TagBack, got[1].Tag)
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name     string
		history  error
		blob     error
		blobData string
		wantCode errors.ErrorCode
	}{
		{name: "history read", history: errBoom, blobData: "Name,Tag\nSquat,Legs\n", wantCode: errors.CodeHistoryReadFailed},
		{name: "catalog read", blob: errBoom, wantCode: errors.CodeCatalogReadFailed},
		{name: "empty catalog", blobData: "Name,Tag\n", wantCode: errors.CodeCatalogInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.CatalogBucket = "bucket"
			svc := &Service{
				History: &mocks.MockHistoryStore{
					ListExercisesFunc: func(ctx context.Context, userID string) ([]exercise.Record, error) {
						return nil, tt.history
					},
				},
				Blobs: &mocks.MockBlobStore{
					ReadFunc: func(ctx context.Context, bucket, object string) ([]byte, error) {
						if tt.blob != nil {
							return nil, tt.blob
						}
						return []byte(tt.blobData), nil
					},
				},
				Config: cfg,
			}

			session, err := svc.Open(context.Background(), "user-1")
			require.Error(t, err)
			assert.Nil(t, session)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
		})
	}
}

func TestSession_Log(t *testing.T) {
	var (
		mu      sync.Mutex
		written []exercise.Record
	)
	db := &mocks.MockHistoryStore{
		AddExerciseFunc: func(ctx context.Context, userID string, record exercise.Record) error {
			mu.Lock()
			defer mu.Unlock()
			written = append(written, record)
			return nil
		},
	}
	svc := &Service{History: db, Config: testConfig()}
	session, err := svc.Open(context.Background(), "user-1")
	require.NoError(t, err)

	r := exercise.NewRecord("TRX Row", exercise.TagUnspecified, time.Now())
	require.NoError(t, session.Log(context.Background(), r))

	require.Len(t, written, 1)
	assert.Equal(t, exercise.TagBack, written[0].Tag)

	history := session.Store.Engine().History()
	require.Len(t, history, 1)
	assert.Equal(t, r.ID, history[0].ID)

	db.AddExerciseFunc = func(ctx context.Context, userID string, record exercise.Record) error { return errBoom }
	require.ErrorIs(t, session.Log(context.Background(), exercise.NewRecord("Plank", exercise.TagAbs, time.Now())), errBoom)
	assert.Len(t, session.Store.Engine().History(), 1, "failed writes are not added")
}

func TestSession_Backfill(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tagged := exercise.NewRecord("Bench Press", exercise.TagChest, ts)
	untagged := exercise.NewRecord("Incline Bench Press", exercise.TagUnspecified, ts.Add(time.Minute))
	unknown := exercise.NewRecord("Unknown Movement 42", exercise.TagUnspecified, ts.Add(2*time.Minute))

	applied := make(map[uuid.UUID]exercise.MuscleTag)
	db := &mocks.MockHistoryStore{
		ListExercisesFunc: func(ctx context.Context, userID string) ([]exercise.Record, error) {
			out := []exercise.Record{tagged, untagged, unknown}
			for i := range out {
				if tag, ok := applied[out[i].ID]; ok {
					out[i].Tag = tag
				}
			}
			return out, nil
		},
		UpdateExerciseTagFunc: func(ctx context.Context, userID string, id uuid.UUID, tag exercise.MuscleTag) error {
			applied[id] = tag
			return nil
		},
	}
	svc := &Service{History: db, Config: testConfig()}
	session, err := svc.Open(context.Background(), "user-1")
	require.NoError(t, err)

	n, err := session.Backfill(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, map[uuid.UUID]exercise.MuscleTag{
		untagged.ID: exercise.TagChest,
		unknown.ID:  exercise.TagOther,
	}, applied)

	for _, r := range session.Store.Engine().History() {
		assert.True(t, r.Tag.IsSet(), r.Name)
	}

	n, err = session.Backfill(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSession_BackfillStopsOnError(t *testing.T) {
	db := &mocks.MockHistoryStore{
		ListExercisesFunc: func(ctx context.Context, userID string) ([]exercise.Record, error) {
			return []exercise.Record{
				exercise.NewRecord("Squat", exercise.TagUnspecified, time.Now()),
				exercise.NewRecord("Lunge", exercise.TagUnspecified, time.Now()),
			}, nil
		},
		UpdateExerciseTagFunc: func(ctx context.Context, userID string, id uuid.UUID, tag exercise.MuscleTag) error {
			return errBoom
		},
	}
	svc := &Service{History: db, Config: testConfig()}
	session, err := svc.Open(context.Background(), "user-1")
	require.NoError(t, err)

	n, err := session.Backfill(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.Zero(t, n)
}
