package mocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ripixel/liftlog/pkg/domain/exercise"
)

// --- Mock History Store ---
type MockHistoryStore struct {
	ListExercisesFunc     func(ctx context.Context, userID string) ([]exercise.Record, error)
	AddExerciseFunc       func(ctx context.Context, userID string, record exercise.Record) error
	UpdateExerciseTagFunc func(ctx context.Context, userID string, id uuid.UUID, tag exercise.MuscleTag) error
}

func (m *MockHistoryStore) ListExercises(ctx context.Context, userID string) ([]exercise.Record, error) {
	if m.ListExercisesFunc != nil {
		return m.ListExercisesFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockHistoryStore) AddExercise(ctx context.Context, userID string, record exercise.Record) error {
	if m.AddExerciseFunc != nil {
		return m.AddExerciseFunc(ctx, userID, record)
	}
	return nil
}

func (m *MockHistoryStore) UpdateExerciseTag(ctx context.Context, userID string, id uuid.UUID, tag exercise.MuscleTag) error {
	if m.UpdateExerciseTagFunc != nil {
		return m.UpdateExerciseTagFunc(ctx, userID, id, tag)
	}
	return nil
}

// --- Mock Blob Store ---
type MockBlobStore struct {
	ReadFunc func(ctx context.Context, bucket, object string) ([]byte, error)
}

func (m *MockBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, bucket, object)
	}
	return nil, fmt.Errorf("object not found: gs://%s/%s", bucket, object)
}
