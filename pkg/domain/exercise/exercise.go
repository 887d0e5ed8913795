package exercise

import (
	"time"

	"github.com/google/uuid"
)

// StrengthSet is one logged set of a strength exercise.
type StrengthSet struct {
	WeightInLbs float64 `json:"weight_in_lbs" firestore:"weight_in_lbs"`
	Reps        int     `json:"reps" firestore:"reps"`
	RestSeconds *int    `json:"rest_seconds,omitempty" firestore:"rest_seconds,omitempty"`
	RPE         *int    `json:"rpe,omitempty" firestore:"rpe,omitempty"`
}

// Record is a single logged exercise. Records are immutable once logged
// except for tag backfill.
type Record struct {
	ID        uuid.UUID     `json:"id" firestore:"id"`
	Name      string        `json:"name" firestore:"name"`
	Tag       MuscleTag     `json:"tag,omitempty" firestore:"tag,omitempty"`
	Timestamp time.Time     `json:"timestamp" firestore:"timestamp"`
	Sets      []StrengthSet `json:"sets,omitempty" firestore:"sets,omitempty"`
}

// NewRecord creates a record with a fresh ID.
func NewRecord(name string, tag MuscleTag, at time.Time, sets ...StrengthSet) Record {
	return Record{
		ID:        uuid.New(),
		Name:      name,
		Tag:       tag,
		Timestamp: at,
		Sets:      sets,
	}
}

// MaxWeight returns the heaviest set weight, or 0 when no sets were logged.
func (r Record) MaxWeight() float64 {
	var best float64
	for _, s := range r.Sets {
		best = max(best, s.WeightInLbs)
	}
	return best
}

// MaxReps returns the highest rep count across sets.
func (r Record) MaxReps() int {
	var best int
	for _, s := range r.Sets {
		best = max(best, s.Reps)
	}
	return best
}

// DayKey identifies the calendar day of t in loc.
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in loc (time.Local when loc is nil).
func DayOf(t time.Time, loc *time.Location) DayKey {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return DayKey{Year: y, Month: m, Day: d}
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// StartOfWeek returns midnight of the Monday on or before t in loc.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}
