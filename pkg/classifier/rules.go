package classifier

import (
	"strings"

	"github.com/ripixel/liftlog/pkg/domain/exercise"
	"github.com/ripixel/liftlog/pkg/fuzzy"
)

// Rule assigns Tag to any name containing one of Keywords as a whole-word
// phrase. A trailing "s" or "es" on the last matched word is tolerated so
// "Dips" and "Crunches" match "dip" and "crunch".
type Rule struct {
	Name     string
	Tag      exercise.MuscleTag
	Keywords []string
}

// Matches reports whether the normalized, abbreviation-expanded form of
// name contains any of the rule's keywords.
func (r Rule) Matches(name string) bool {
	return r.matchTokens(strings.Fields(ExpandAbbreviations(fuzzy.Normalize(name))))
}

func (r Rule) matchTokens(tokens []string) bool {
	for _, kw := range r.Keywords {
		if containsPhrase(tokens, strings.Fields(fuzzy.Normalize(kw))) {
			return true
		}
	}
	return false
}

// DefaultRules is evaluated top to bottom and the first match wins. The
// narrow rules at the top exist because a broader group further down would
// otherwise claim those names ("Leg Curl" is not an arm exercise).
var DefaultRules = []Rule{
	// ============================================================================
	// NARROW OVERRIDES OF LATER GROUPS
	// ============================================================================
	{
		Name:     "shoulder-specific",
		Tag:      exercise.TagShoulders,
		Keywords: []string{"rear delt", "reverse fly", "reverse flye", "face pull", "handstand push up", "handstand pushup", "pike push up", "pike pushup"},
	},
	{
		Name:     "leg-curls",
		Tag:      exercise.TagLegs,
		Keywords: []string{"leg curl", "hamstring curl", "nordic curl", "lying curl machine"},
	},
	{
		Name:     "glute-kickbacks",
		Tag:      exercise.TagGlutes,
		Keywords: []string{"glute kickback", "donkey kick", "cable hip kickback"},
	},

	// ============================================================================
	// MUSCLE GROUPS
	// ============================================================================
	{
		Name: "abs",
		Tag:  exercise.TagAbs,
		Keywords: []string{
			"ab", "crunch", "sit up", "situp", "plank", "ab wheel", "rollout", "roll out",
			"leg raise", "knee raise", "russian twist", "hollow hold", "hollow body", "dead bug",
			"v up", "vup", "oblique", "pallof", "woodchop", "wood chop", "toes to bar",
			"toe to bar", "flutter kick", "side bend", "core",
		},
	},
	{
		Name: "chest",
		Tag:  exercise.TagChest,
		Keywords: []string{
			"bench press", "chest", "pec", "fly", "flye", "flies", "push up", "pushup",
			"press up", "pressup", "dip", "crossover", "incline press", "decline press",
			"floor press", "svend press", "pullover",
		},
	},
	{
		Name: "shoulders",
		Tag:  exercise.TagShoulders,
		Keywords: []string{
			"shoulder", "overhead press", "military press", "lateral raise", "side raise",
			"front raise", "upright row", "arnold press", "delt", "landmine press", "y raise",
		},
	},
	{
		Name: "arms",
		Tag:  exercise.TagArms,
		Keywords: []string{
			"curl", "bicep", "biceps", "tricep", "triceps", "skullcrusher", "skull crusher",
			"pushdown", "push down", "kickback", "french press", "preacher", "hammer",
			"wrist", "forearm", "close grip",
		},
	},
	{
		Name: "legs",
		Tag:  exercise.TagLegs,
		Keywords: []string{
			"squat", "lunge", "leg", "calf", "calves", "hamstring", "quad", "step up",
			"stepup", "romanian deadlift", "stiff leg deadlift", "pistol", "box jump",
			"wall sit", "adductor",
		},
	},
	{
		Name: "glutes",
		Tag:  exercise.TagGlutes,
		Keywords: []string{
			"glute", "hip thrust", "bridge", "abduction", "abductor", "fire hydrant",
			"clamshell", "hip extension",
		},
	},
	{
		Name: "back",
		Tag:  exercise.TagBack,
		Keywords: []string{
			"row", "pull up", "pullup", "chin up", "chinup", "pulldown", "pull down", "lat",
			"deadlift", "back extension", "hyperextension", "good morning", "shrug",
			"superman", "back", "rack pull",
		},
	},
	{
		Name: "full-body",
		Tag:  exercise.TagFullBody,
		Keywords: []string{
			"clean", "snatch", "jerk", "thruster", "burpee", "turkish get up", "get up",
			"getup", "man maker", "full body", "swing", "wall ball", "farmer carry",
			"farmers carry", "farmer walk", "farmers walk", "sled", "bear crawl",
		},
	},
	{
		Name: "cardio",
		Tag:  exercise.TagCardio,
		Keywords: []string{
			"run", "running", "jog", "jogging", "treadmill", "bike", "biking", "cycling",
			"cycle", "spin", "elliptical", "rowing", "rower", "erg", "ergometer", "stair",
			"stairmaster", "jump rope", "skipping", "jumping jack", "sprint", "walk",
			"walking", "swim", "swimming", "cardio", "hiit", "mountain climber",
			"battle rope", "hike",
		},
	},

	// ============================================================================
	// EQUIPMENT-ONLY NAMES
	// ============================================================================
	{
		Name:     "generic-equipment",
		Tag:      exercise.TagFullBody,
		Keywords: []string{"kettlebell", "trx", "smith", "smith machine", "suspension"},
	},
}

// Common gym abbreviations, expanded as whole tokens before rules run.
var abbreviations = map[string]string{
	"db":   "dumbbell",
	"bb":   "barbell",
	"kb":   "kettlebell",
	"sm":   "smith machine",
	"bw":   "bodyweight",
	"ez":   "ez bar",
	"ohp":  "overhead press",
	"bp":   "bench press",
	"rdl":  "romanian deadlift",
	"sldl": "stiff leg deadlift",
	"bss":  "bulgarian split squat",
	"hlr":  "hanging leg raise",
	"ghr":  "glute ham raise",
	"incl": "incline",
	"decl": "decline",
	"ext":  "extension",
}

// ExpandAbbreviations replaces known abbreviations in an already normalized
// name.
func ExpandAbbreviations(normalized string) string {
	words := strings.Fields(normalized)
	for i, word := range words {
		if expanded, ok := abbreviations[word]; ok {
			words[i] = expanded
		}
	}
	return strings.Join(words, " ")
}

func containsPhrase(tokens, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return false
	}
	for start := 0; start+len(phrase) <= len(tokens); start++ {
		matched := true
		for i, want := range phrase {
			got := tokens[start+i]
			last := i == len(phrase)-1
			if got != want && !(last && (got == want+"s" || got == want+"es")) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
