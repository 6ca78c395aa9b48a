package program

import (
	"regexp"
	"slices"
	"strings"

	"github.com/myrjola/programsmith/internal/catalogue"
)

// EquipmentCapabilities says which implements the user can train with.
type EquipmentCapabilities struct {
	HasBarbell     bool `json:"hasBarbell"`
	HasCable       bool `json:"hasCable"`
	HasMachine     bool `json:"hasMachine"`
	BodyweightOnly bool `json:"bodyweightOnly"`
}

// Allows reports whether an exercise needing eq can be programmed. Dumbbells are assumed available unless the
// user trains with bodyweight only.
func (c EquipmentCapabilities) Allows(eq catalogue.Equipment) bool {
	switch eq {
	case catalogue.EquipmentBarbell:
		return c.HasBarbell
	case catalogue.EquipmentCable:
		return c.HasCable
	case catalogue.EquipmentMachine:
		return c.HasMachine
	case catalogue.EquipmentDumbbell:
		return !c.BodyweightOnly
	case catalogue.EquipmentBodyweight:
		return true
	}
	return false
}

// InjuryFamily is a body region with its own substitution rule.
type InjuryFamily string

const (
	InjuryShoulder InjuryFamily = "shoulder"
	InjuryBack     InjuryFamily = "back"
	InjuryKnee     InjuryFamily = "knee"
)

// InjurySubstitution excludes exercises that aggravate an injury and names the preferred replacements.
//
// Preferred exercises sharing a movement pattern with an excluded one replace it. Preferred exercises of any
// other pattern are accessories added to every day that trains the region.
type InjurySubstitution struct {
	Family               InjuryFamily `json:"family"`
	TriggerPattern       string       `json:"triggerPattern"`
	ExcludedExerciseIDs  []string     `json:"excludedExerciseIds"`
	PreferredExerciseIDs []string     `json:"preferredExerciseIds"`
	CoachingCue          string       `json:"coachingCue"`
}

// SessionCap is the number of exercises a session of the requested length fits.
type SessionCap struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DerivedConstraints are the hard rules computed from a profile for a single request.
type DerivedConstraints struct {
	ExperienceTier         ExperienceLevel       `json:"experienceTier"`
	Equipment              EquipmentCapabilities `json:"equipment"`
	InjurySubstitutions    []InjurySubstitution  `json:"injurySubstitutions"`
	MaxExercisesPerSession SessionCap            `json:"maxExercisesPerSession"`
}

// Excluded reports whether any injury rule forbids id.
func (c DerivedConstraints) Excluded(id string) bool {
	for _, s := range c.InjurySubstitutions {
		if slices.Contains(s.ExcludedExerciseIDs, id) {
			return true
		}
	}
	return false
}

// Allows reports whether entry is both available and not excluded.
func (c DerivedConstraints) Allows(entry catalogue.Entry) bool {
	return c.Equipment.Allows(entry.Equipment) && !c.Excluded(entry.ID)
}

// Preferred returns the preferred replacements across all injury rules for pattern, in rule order.
func (c DerivedConstraints) Preferred(pattern catalogue.Pattern) []string {
	var ids []string
	for _, s := range c.InjurySubstitutions {
		for _, id := range s.PreferredExerciseIDs {
			if e, ok := catalogue.Lookup(id); ok && e.Pattern == pattern {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// CoachingCue returns the cue of the injury rule that prefers id, or "".
func (c DerivedConstraints) CoachingCue(id string) string {
	for _, s := range c.InjurySubstitutions {
		if slices.Contains(s.PreferredExerciseIDs, id) {
			return s.CoachingCue
		}
	}
	return ""
}

// Derive computes the constraints of profile. It has no side effects and never fails.
func Derive(profile TrainingProfile) DerivedConstraints {
	return DerivedConstraints{
		ExperienceTier:         experienceTier(profile.TrainingAgeYears),
		Equipment:              equipmentCapabilities(profile.Equipment),
		InjurySubstitutions:    injurySubstitutions(profile.Injuries),
		MaxExercisesPerSession: sessionCap(profile.SessionDurationMinutes),
	}
}

func experienceTier(years float64) ExperienceLevel {
	switch {
	case years <= 0:
		return ExperienceBeginner
	case years <= 2: //nolint:mnd // two years of training.
		return ExperienceIntermediate
	default:
		return ExperienceAdvanced
	}
}

func sessionCap(minutes int) SessionCap {
	switch {
	case minutes <= 45: //nolint:mnd // minutes
		return SessionCap{Min: 4, Max: 5}
	case minutes <= 60: //nolint:mnd // minutes
		return SessionCap{Min: 5, Max: 6}
	case minutes <= 75: //nolint:mnd // minutes
		return SessionCap{Min: 6, Max: 7}
	default:
		return SessionCap{Min: 7, Max: 8}
	}
}

// Canonical equipment tags sent by current clients. Anything else goes through the keyword patterns below.
const (
	EquipmentTagFullGym    = "full-gym"
	EquipmentTagBarbell    = "barbell"
	EquipmentTagDumbbells  = "dumbbells"
	EquipmentTagCable      = "cable-machine"
	EquipmentTagMachines   = "machines"
	EquipmentTagBodyweight = "bodyweight"
)

type equipmentTag struct {
	barbell, cable, machine, bodyweight bool
}

//nolint:gochecknoglobals // read-only vocabulary.
var equipmentVocabulary = map[string]equipmentTag{
	EquipmentTagFullGym:    {barbell: true, cable: true, machine: true, bodyweight: false},
	EquipmentTagBarbell:    {barbell: true, cable: false, machine: false, bodyweight: false},
	EquipmentTagDumbbells:  {barbell: false, cable: false, machine: false, bodyweight: false},
	EquipmentTagCable:      {barbell: false, cable: true, machine: false, bodyweight: false},
	EquipmentTagMachines:   {barbell: false, cable: false, machine: true, bodyweight: false},
	EquipmentTagBodyweight: {barbell: false, cable: false, machine: false, bodyweight: true},
}

//nolint:gochecknoglobals // compiled once, read-only.
var (
	barbellPattern    = regexp.MustCompile(`(?i)barbell|full|gym`)
	cablePattern      = regexp.MustCompile(`(?i)cable|full|gym`)
	machinePattern    = regexp.MustCompile(`(?i)machine|full|gym`)
	bodyweightPattern = regexp.MustCompile(`(?i)body\s*weight|no equipment|calisthenics|^\s*none\s*$`)
)

func classifyEquipment(tag string) equipmentTag {
	if known, ok := equipmentVocabulary[strings.ToLower(strings.TrimSpace(tag))]; ok {
		return known
	}
	return equipmentTag{
		barbell:    barbellPattern.MatchString(tag),
		cable:      cablePattern.MatchString(tag),
		machine:    machinePattern.MatchString(tag),
		bodyweight: bodyweightPattern.MatchString(tag),
	}
}

func equipmentCapabilities(tags []string) EquipmentCapabilities {
	if len(tags) == 0 {
		return EquipmentCapabilities{HasBarbell: true, HasCable: true, HasMachine: true, BodyweightOnly: false}
	}
	var caps EquipmentCapabilities
	caps.BodyweightOnly = true
	for _, tag := range tags {
		c := classifyEquipment(tag)
		caps.HasBarbell = caps.HasBarbell || c.barbell
		caps.HasCable = caps.HasCable || c.cable
		caps.HasMachine = caps.HasMachine || c.machine
		caps.BodyweightOnly = caps.BodyweightOnly && c.bodyweight
	}
	if caps.BodyweightOnly {
		caps.HasBarbell, caps.HasCable, caps.HasMachine = false, false, false
	}
	return caps
}

type injuryRule struct {
	family    InjuryFamily
	canonical string
	pattern   *regexp.Regexp
	excluded  []string
	preferred []string
	cue       string
}

//nolint:gochecknoglobals // read-only rule table.
var injuryRules = []injuryRule{
	{
		family:    InjuryShoulder,
		canonical: "shoulder",
		pattern:   regexp.MustCompile(`shoulder|rotator|impingement|labrum|ac joint`),
		excluded:  append([]string{"barbell-bench-press"}, overheadExerciseIDs()...),
		preferred: []string{"dumbbell-shoulder-press", "dumbbell-bench-press", "face-pull"},
		cue:       "Neutral grip, press in the scapular plane and stop short of lockout. Stay in a pain-free range.",
	},
	{
		family:    InjuryBack,
		canonical: "lower-back",
		pattern:   regexp.MustCompile(`back|spine|spinal|disc|lumbar|sciatica`),
		excluded:  []string{"deadlift", "romanian-deadlift", "dumbbell-romanian-deadlift"},
		preferred: []string{"hip-thrust", "cable-pull-through", "glute-bridge"},
		cue:       "Brace and keep a neutral spine. End the hinge before the lower back rounds.",
	},
	{
		family:    InjuryKnee,
		canonical: "knee",
		pattern:   regexp.MustCompile(`knee|patell|acl|mcl|menisc`),
		excluded:  []string{"barbell-back-squat"},
		preferred: []string{"leg-press", "goblet-squat"},
		cue:       "Track the knees over the second toe and squat only to a pain-free depth.",
	},
}

func overheadExerciseIDs() []string {
	var ids []string
	for _, e := range catalogue.All() {
		if e.Overhead {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func injurySubstitutions(injuries []string) []InjurySubstitution {
	if len(injuries) == 0 {
		return nil
	}
	lowered := make([]string, 0, len(injuries))
	for _, injury := range injuries {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(injury)))
	}
	joined := strings.Join(lowered, " ")

	var subs []InjurySubstitution
	for _, rule := range injuryRules {
		if !slices.Contains(lowered, rule.canonical) && !rule.pattern.MatchString(joined) {
			continue
		}
		subs = append(subs, InjurySubstitution{
			Family:               rule.family,
			TriggerPattern:       rule.pattern.String(),
			ExcludedExerciseIDs:  slices.Clone(rule.excluded),
			PreferredExerciseIDs: slices.Clone(rule.preferred),
			CoachingCue:          rule.cue,
		})
	}
	return subs
}
