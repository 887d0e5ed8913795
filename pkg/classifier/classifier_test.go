package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripixel/liftlog/pkg/domain/exercise"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  exercise.MuscleTag
	}{
		{"Incline Bench Press", exercise.TagChest},
		{"TRX Row", exercise.TagBack},
		{"TRX Push-up", exercise.TagChest},
		{"Unknown Movement 42", exercise.TagOther},
		{"Hanging Leg Raise", exercise.TagAbs},
		{"Crunches", exercise.TagAbs},
		{"Dips", exercise.TagChest},
		{"Overhead Press", exercise.TagShoulders},
		{"Face Pull", exercise.TagShoulders},
		{"Reverse Fly", exercise.TagShoulders},
		{"Hammer Curl", exercise.TagArms},
		{"Seated Leg Curl", exercise.TagLegs},
		{"Barbell Back Squat", exercise.TagLegs},
		{"Romanian Deadlift", exercise.TagLegs},
		{"Hip Thrust", exercise.TagGlutes},
		{"Glute Kickback", exercise.TagGlutes},
		{"Lat Pulldown", exercise.TagBack},
		{"Deadlift", exercise.TagBack},
		{"Pull-ups", exercise.TagBack},
		{"Power Clean", exercise.TagFullBody},
		{"Farmers Walk", exercise.TagFullBody},
		{"Rowing Machine", exercise.TagCardio},
		{"Treadmill Run", exercise.TagCardio},
		{"TRX", exercise.TagFullBody},
		{"Smith Machine", exercise.TagFullBody},
		{"", exercise.TagOther},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.input))
		})
	}
}

func TestClassify_Abbreviations(t *testing.T) {
	c := New()
	assert.Equal(t, exercise.TagShoulders, c.Classify("DB OHP"))
	assert.Equal(t, exercise.TagLegs, c.Classify("RDL"))
	assert.Equal(t, exercise.TagChest, c.Classify("Incl BP"))
	assert.Equal(t, exercise.TagFullBody, c.Classify("KB"))
}

func TestClassify_Stable(t *testing.T) {
	c := New()
	for _, name := range []string{"TRX Row", "Unknown Movement 42", "Bench Press"} {
		first := c.Classify(name)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, c.Classify(name))
		}
	}
}

func TestRuleOrder_SpecificBeforeGeneric(t *testing.T) {
	rules := New().Rules()

	indexOf := func(tag exercise.MuscleTag, name string) int {
		for i, r := range rules {
			if r.Name == name {
				require.Equal(t, tag, r.Tag)
				return i
			}
		}
		t.Fatalf("rule %q not found", name)
		return -1
	}

	back := indexOf(exercise.TagBack, "back")
	generic := indexOf(exercise.TagFullBody, "generic-equipment")

	// Both rules match, so only their order decides the outcome.
	assert.True(t, rules[back].Matches("TRX Row"))
	assert.True(t, rules[generic].Matches("TRX Row"))
	assert.Less(t, back, generic)

	rule, ok := New().Explain("TRX Row")
	require.True(t, ok)
	assert.Equal(t, "back", rule.Name)
}

func TestRuleOrder_ShadowedWhenReversed(t *testing.T) {
	reversed := []Rule{
		{Name: "generic", Tag: exercise.TagFullBody, Keywords: []string{"trx"}},
		{Name: "back", Tag: exercise.TagBack, Keywords: []string{"row"}},
	}
	c := New(WithRules(reversed))
	assert.Equal(t, exercise.TagFullBody, c.Classify("TRX Row"))
}

func TestOverrides(t *testing.T) {
	c := New(WithOverrides(map[string]exercise.MuscleTag{
		"Bench Press":  exercise.TagArms,
		"Mystery Move": exercise.TagCardio,
		"Ignored":      exercise.TagUnspecified,
	}))

	assert.Equal(t, exercise.TagArms, c.Classify("bench   PRESS"))
	assert.Equal(t, exercise.TagCardio, c.Classify("Mystery Move"))
	assert.Equal(t, exercise.TagOther, c.Classify("Ignored"))

	_, ok := c.Override("Ignored")
	assert.False(t, ok)
}

func TestContainsPhrase(t *testing.T) {
	tests := []struct {
		tokens []string
		phrase []string
		want   bool
	}{
		{[]string{"incline", "bench", "press"}, []string{"bench", "press"}, true},
		{[]string{"bench", "presses"}, []string{"bench", "press"}, true},
		{[]string{"benches", "press"}, []string{"bench", "press"}, false},
		{[]string{"rowing"}, []string{"row"}, false},
		{[]string{"rows"}, []string{"row"}, true},
		{[]string{"row"}, []string{"upright", "row"}, false},
		{[]string{"row"}, nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, containsPhrase(tt.tokens, tt.phrase), "%v in %v", tt.phrase, tt.tokens)
	}
}

func TestTagForAndBackfill(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tagged := exercise.NewRecord("Bench Press", exercise.TagArms, now)
	untagged := exercise.NewRecord("Goblet Squat", exercise.TagUnspecified, now)

	c := New()
	assert.Equal(t, exercise.TagArms, c.TagFor(tagged))
	assert.Equal(t, exercise.TagLegs, c.TagFor(untagged))

	got := c.Backfill([]exercise.Record{tagged, untagged})
	require.Len(t, got, 1)
	assert.Equal(t, Assignment{ID: untagged.ID, Name: "Goblet Squat", Tag: exercise.TagLegs}, got[0])
}
