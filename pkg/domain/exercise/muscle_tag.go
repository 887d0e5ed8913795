package exercise

import "strings"

// MuscleTag is the muscle group an exercise is filed under. The zero value
// means the exercise has not been tagged yet.
type MuscleTag string

const (
	TagUnspecified MuscleTag = ""
	TagBack        MuscleTag = "Back"
	TagAbs         MuscleTag = "Abs"
	TagChest       MuscleTag = "Chest"
	TagLegs        MuscleTag = "Legs"
	TagShoulders   MuscleTag = "Shoulders"
	TagArms        MuscleTag = "Arms"
	TagGlutes      MuscleTag = "Glutes"
	TagFullBody    MuscleTag = "Full Body"
	TagCardio      MuscleTag = "Cardio"
	TagOther       MuscleTag = "Other"
)

// AllTags lists every assignable tag in display order.
var AllTags = []MuscleTag{
	TagBack, TagAbs, TagChest, TagLegs, TagShoulders,
	TagArms, TagGlutes, TagFullBody, TagCardio, TagOther,
}

func (t MuscleTag) String() string {
	if t == TagUnspecified {
		return "Untagged"
	}
	return string(t)
}

// IsSet reports whether the tag has been assigned.
func (t MuscleTag) IsSet() bool {
	return t != TagUnspecified
}

// friendlyTags holds aliases seen in exported catalogs and hand-edited CSVs.
var friendlyTags = map[string]MuscleTag{
	"core":         TagAbs,
	"abdominal":    TagAbs,
	"abdominals":   TagAbs,
	"pecs":         TagChest,
	"leg":          TagLegs,
	"quads":        TagLegs,
	"hamstrings":   TagLegs,
	"calves":       TagLegs,
	"shoulder":     TagShoulders,
	"delts":        TagShoulders,
	"arm":          TagArms,
	"biceps":       TagArms,
	"triceps":      TagArms,
	"glute":        TagGlutes,
	"full":         TagFullBody,
	"fullbody":     TagFullBody,
	"full_body":    TagFullBody,
	"compound":     TagFullBody,
	"conditioning": TagCardio,
}

// ParseMuscleTag parses a display name ("Full Body"), its compact form
// ("FullBody") or a friendly alias ("core"). Matching is case-insensitive.
func ParseMuscleTag(input string) (MuscleTag, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return TagUnspecified, false
	}
	for _, t := range AllTags {
		if strings.EqualFold(string(t), s) || strings.EqualFold(strings.ReplaceAll(string(t), " ", ""), s) {
			return t, true
		}
	}
	if t, ok := friendlyTags[strings.ToLower(s)]; ok {
		return t, true
	}
	return TagUnspecified, false
}
