package shared

import (
	"context"

	"github.com/google/uuid"

	"github.com/ripixel/liftlog/pkg/domain/exercise"
)

// --- Persistence Interfaces ---

// HistoryStore is the exercise log. Records are append-only; the tag is the
// only field that may change after logging.
type HistoryStore interface {
	// ListExercises returns the user's history, most recent first.
	ListExercises(ctx context.Context, userID string) ([]exercise.Record, error)
	AddExercise(ctx context.Context, userID string, record exercise.Record) error
	UpdateExerciseTag(ctx context.Context, userID string, id uuid.UUID, tag exercise.MuscleTag) error
}

// --- Storage Interfaces ---

type BlobStore interface {
	Read(ctx context.Context, bucket, object string) ([]byte, error)
}
