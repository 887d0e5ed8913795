package database

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/ripixel/liftlog/pkg/domain/exercise"
	"github.com/ripixel/liftlog/pkg/errors"
	storage "github.com/ripixel/liftlog/pkg/storage/firestore"
)

// FirestoreAdapter provides history operations using Firestore
type FirestoreAdapter struct {
	Client  *firestore.Client
	storage *storage.Client
}

func NewFirestoreAdapter(client *firestore.Client) *FirestoreAdapter {
	return &FirestoreAdapter{
		Client:  client,
		storage: storage.NewClient(client),
	}
}

// --- Exercises ---

func (a *FirestoreAdapter) ListExercises(ctx context.Context, userID string) ([]exercise.Record, error) {
	docs, err := a.storage.Exercises(userID).
		OrderBy("timestamp", firestore.Desc).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, errors.WrapRetryable(err, errors.CodeHistoryReadFailed, "failed to list exercises").
			WithMetadata("user_id", userID)
	}

	results := make([]exercise.Record, 0, len(docs))
	for _, d := range docs {
		results = append(results, storage.FirestoreToExercise(d.Ref.ID, d.Data()))
	}
	return results, nil
}

func (a *FirestoreAdapter) AddExercise(ctx context.Context, userID string, record exercise.Record) error {
	if record.ID == uuid.Nil {
		return errors.New(errors.CodeValidationError, "exercise record has no id")
	}
	if record.Name == "" {
		return errors.New(errors.CodeValidationError, "exercise record has no name")
	}
	// Keyed by record ID, so rewriting a record overwrites it
	_, err := a.storage.Exercises(userID).Doc(record.ID.String()).Set(ctx, storage.ExerciseToFirestore(record))
	if err != nil {
		return errors.WrapRetryable(err, errors.CodeHistoryWriteFailed, "failed to add exercise").
			WithMetadata("user_id", userID)
	}
	return nil
}

func (a *FirestoreAdapter) UpdateExerciseTag(ctx context.Context, userID string, id uuid.UUID, tag exercise.MuscleTag) error {
	_, err := a.storage.Exercises(userID).Doc(id.String()).Update(ctx, []firestore.Update{
		{Path: "tag", Value: string(tag)},
	})
	if err != nil {
		return errors.WrapRetryable(err, errors.CodeHistoryWriteFailed, "failed to update exercise tag").
			WithMetadata("user_id", userID).
			WithMetadata("exercise_id", id.String())
	}
	return nil
}
