package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lower case", input: "Bench Press", want: "bench press"},
		{name: "collapse whitespace", input: "  Bench \t  Press\n", want: "bench press"},
		{name: "strip punctuation", input: "Push-Up!!", want: "pushup"},
		{name: "diacritics", input: "Développé Couché", want: "developpe couche"},
		{name: "digits kept", input: "Movement #42", want: "movement 42"},
		{name: "only punctuation", input: "-- !! --", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Bench Press",
		"  Über   Ständer ",
		"Pull-Up (Weighted)",
		"RDL / Romanian Deadlift",
		"ÇÃÕ ñ",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"incline", "bench", "press"}, Tokens(" Incline  Bench Press "))
	assert.Empty(t, Tokens("   "))
}
