package firestore

import (
	"time"

	"github.com/google/uuid"

	"github.com/ripixel/liftlog/pkg/domain/exercise"
)

// Helper to safely get string from map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Helper to safely get time from map (handles time.Time from Firestore)
func getTime(m map[string]interface{}, key string) time.Time {
	if v, ok := m[key]; ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}

// Firestore returns integers as int64 and may hand back whole floats for
// values written by other clients.
func getFloat(m map[string]interface{}, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

func getInt(m map[string]interface{}, key string) (int, bool) {
	switch v := m[key].(type) {
	case int64:
		return int(v), true
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

func intPtrOrNil(m map[string]interface{}, key string) *int {
	if n, ok := getInt(m, key); ok {
		return &n
	}
	return nil
}

// --- Exercise Converters ---

func ExerciseToFirestore(r exercise.Record) map[string]interface{} {
	sets := make([]interface{}, 0, len(r.Sets))
	for _, s := range r.Sets {
		set := map[string]interface{}{
			"weight_in_lbs": s.WeightInLbs,
			"reps":          s.Reps,
		}
		if s.RestSeconds != nil {
			set["rest_seconds"] = *s.RestSeconds
		}
		if s.RPE != nil {
			set["rpe"] = *s.RPE
		}
		sets = append(sets, set)
	}

	return map[string]interface{}{
		"id":        r.ID.String(),
		"name":      r.Name,
		"tag":       string(r.Tag),
		"timestamp": r.Timestamp,
		"sets":      sets,
	}
}

// FirestoreToExercise converts a document's data. docID is used when the
// stored id field is missing or malformed.
func FirestoreToExercise(docID string, m map[string]interface{}) exercise.Record {
	r := exercise.Record{
		Name:      getString(m, "name"),
		Timestamp: getTime(m, "timestamp"),
	}

	if id, err := uuid.Parse(getString(m, "id")); err == nil {
		r.ID = id
	} else if id, err := uuid.Parse(docID); err == nil {
		r.ID = id
	}

	// Unknown tags are treated as untagged so the classifier can fill them.
	if tag, ok := exercise.ParseMuscleTag(getString(m, "tag")); ok {
		r.Tag = tag
	}

	if list, ok := m["sets"].([]interface{}); ok {
		for _, item := range list {
			sm, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			var s exercise.StrengthSet
			s.WeightInLbs, _ = getFloat(sm, "weight_in_lbs")
			s.Reps, _ = getInt(sm, "reps")
			s.RestSeconds = intPtrOrNil(sm, "rest_seconds")
			s.RPE = intPtrOrNil(sm, "rpe")
			r.Sets = append(r.Sets, s)
		}
	}
	return r
}
