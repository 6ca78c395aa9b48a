// Package catalogue is the fixed registry of exercise identifiers that programs may reference.
//
// The same registry is rendered into the generation instruction, used by the validator for membership checks,
// and used by the synthesizer for selection, so the three can never drift apart.
package catalogue

import (
	"slices"
)

// Version identifies the catalogue revision. Bump it whenever an identifier is added or removed.
const Version = "2024.1"

// Group is the primary body region of an exercise.
type Group string

const (
	GroupChest        Group = "chest"
	GroupBack         Group = "back"
	GroupShoulders    Group = "shoulders"
	GroupQuads        Group = "quads"
	GroupPosterior    Group = "hamstrings-glutes"
	GroupCalves       Group = "calves"
	GroupArms         Group = "arms"
	GroupCore         Group = "core"
	GroupConditioning Group = "conditioning"
)

// Pattern is the movement pattern an exercise trains. Exercises sharing a pattern are interchangeable.
type Pattern string

const (
	PatternHorizontalPush Pattern = "horizontal-push"
	PatternVerticalPush   Pattern = "vertical-push"
	PatternChestFly       Pattern = "chest-fly"
	PatternLateralRaise   Pattern = "lateral-raise"
	PatternHorizontalPull Pattern = "horizontal-pull"
	PatternVerticalPull   Pattern = "vertical-pull"
	PatternRearDelt       Pattern = "rear-delt"
	PatternSquat          Pattern = "squat"
	PatternLunge          Pattern = "lunge"
	PatternHinge          Pattern = "hinge"
	PatternKneeExtension  Pattern = "knee-extension"
	PatternKneeFlexion    Pattern = "knee-flexion"
	PatternCalfRaise      Pattern = "calf-raise"
	PatternElbowFlexion   Pattern = "elbow-flexion"
	PatternElbowExtension Pattern = "elbow-extension"
	PatternCore           Pattern = "core"
	PatternConditioning   Pattern = "conditioning"
)

// Equipment is the implement an exercise requires.
type Equipment string

const (
	EquipmentBarbell    Equipment = "barbell"
	EquipmentDumbbell   Equipment = "dumbbell"
	EquipmentCable      Equipment = "cable"
	EquipmentMachine    Equipment = "machine"
	EquipmentBodyweight Equipment = "bodyweight"
)

// Entry is a single catalogue exercise.
type Entry struct {
	ID        string
	Name      string
	Group     Group
	Pattern   Pattern
	Equipment Equipment
	// Overhead marks movements that load the shoulder above the head.
	Overhead bool
}

//nolint:gochecknoglobals // read-only registry, never mutated after package initialisation.
var entries = []Entry{
	{ID: "barbell-bench-press", Name: "Barbell Bench Press", Group: GroupChest, Pattern: PatternHorizontalPush, Equipment: EquipmentBarbell},
	{ID: "dumbbell-bench-press", Name: "Dumbbell Bench Press", Group: GroupChest, Pattern: PatternHorizontalPush, Equipment: EquipmentDumbbell},
	{ID: "incline-dumbbell-press", Name: "Incline Dumbbell Press", Group: GroupChest, Pattern: PatternHorizontalPush, Equipment: EquipmentDumbbell},
	{ID: "push-up", Name: "Push-Up", Group: GroupChest, Pattern: PatternHorizontalPush, Equipment: EquipmentBodyweight},
	{ID: "cable-fly", Name: "Cable Fly", Group: GroupChest, Pattern: PatternChestFly, Equipment: EquipmentCable},
	{ID: "dumbbell-fly", Name: "Dumbbell Fly", Group: GroupChest, Pattern: PatternChestFly, Equipment: EquipmentDumbbell},

	{ID: "barbell-row", Name: "Barbell Row", Group: GroupBack, Pattern: PatternHorizontalPull, Equipment: EquipmentBarbell},
	{ID: "seated-cable-row", Name: "Seated Cable Row", Group: GroupBack, Pattern: PatternHorizontalPull, Equipment: EquipmentCable},
	{ID: "dumbbell-row", Name: "One-Arm Dumbbell Row", Group: GroupBack, Pattern: PatternHorizontalPull, Equipment: EquipmentDumbbell},
	{ID: "inverted-row", Name: "Inverted Row", Group: GroupBack, Pattern: PatternHorizontalPull, Equipment: EquipmentBodyweight},
	{ID: "lat-pulldown", Name: "Lat Pulldown", Group: GroupBack, Pattern: PatternVerticalPull, Equipment: EquipmentCable},
	{ID: "pull-up", Name: "Pull-Up", Group: GroupBack, Pattern: PatternVerticalPull, Equipment: EquipmentBodyweight},
	{ID: "face-pull", Name: "Face Pull", Group: GroupBack, Pattern: PatternRearDelt, Equipment: EquipmentCable},
	{ID: "rear-delt-fly", Name: "Rear Delt Fly", Group: GroupBack, Pattern: PatternRearDelt, Equipment: EquipmentDumbbell},
	{ID: "prone-y-raise", Name: "Prone Y Raise", Group: GroupBack, Pattern: PatternRearDelt, Equipment: EquipmentBodyweight},

	{ID: "overhead-press", Name: "Overhead Press", Group: GroupShoulders, Pattern: PatternVerticalPush, Equipment: EquipmentBarbell, Overhead: true},
	{ID: "dumbbell-shoulder-press", Name: "Dumbbell Shoulder Press", Group: GroupShoulders, Pattern: PatternVerticalPush, Equipment: EquipmentDumbbell},
	{ID: "pike-push-up", Name: "Pike Push-Up", Group: GroupShoulders, Pattern: PatternVerticalPush, Equipment: EquipmentBodyweight, Overhead: true},
	{ID: "cable-lateral-raise", Name: "Cable Lateral Raise", Group: GroupShoulders, Pattern: PatternLateralRaise, Equipment: EquipmentCable},
	{ID: "dumbbell-lateral-raise", Name: "Dumbbell Lateral Raise", Group: GroupShoulders, Pattern: PatternLateralRaise, Equipment: EquipmentDumbbell},

	{ID: "barbell-back-squat", Name: "Barbell Back Squat", Group: GroupQuads, Pattern: PatternSquat, Equipment: EquipmentBarbell},
	{ID: "leg-press", Name: "Leg Press", Group: GroupQuads, Pattern: PatternSquat, Equipment: EquipmentMachine},
	{ID: "goblet-squat", Name: "Goblet Squat", Group: GroupQuads, Pattern: PatternSquat, Equipment: EquipmentDumbbell},
	{ID: "bodyweight-squat", Name: "Bodyweight Squat", Group: GroupQuads, Pattern: PatternSquat, Equipment: EquipmentBodyweight},
	{ID: "bulgarian-split-squat", Name: "Bulgarian Split Squat", Group: GroupQuads, Pattern: PatternLunge, Equipment: EquipmentDumbbell},
	{ID: "walking-lunge", Name: "Walking Lunge", Group: GroupQuads, Pattern: PatternLunge, Equipment: EquipmentBodyweight},
	{ID: "leg-extension", Name: "Leg Extension", Group: GroupQuads, Pattern: PatternKneeExtension, Equipment: EquipmentMachine},

	{ID: "deadlift", Name: "Deadlift", Group: GroupPosterior, Pattern: PatternHinge, Equipment: EquipmentBarbell},
	{ID: "romanian-deadlift", Name: "Romanian Deadlift", Group: GroupPosterior, Pattern: PatternHinge, Equipment: EquipmentBarbell},
	{ID: "dumbbell-romanian-deadlift", Name: "Dumbbell Romanian Deadlift", Group: GroupPosterior, Pattern: PatternHinge, Equipment: EquipmentDumbbell},
	{ID: "hip-thrust", Name: "Barbell Hip Thrust", Group: GroupPosterior, Pattern: PatternHinge, Equipment: EquipmentBarbell},
	{ID: "cable-pull-through", Name: "Cable Pull-Through", Group: GroupPosterior, Pattern: PatternHinge, Equipment: EquipmentCable},
	{ID: "glute-bridge", Name: "Glute Bridge", Group: GroupPosterior, Pattern: PatternHinge, Equipment: EquipmentBodyweight},
	{ID: "leg-curl", Name: "Lying Leg Curl", Group: GroupPosterior, Pattern: PatternKneeFlexion, Equipment: EquipmentMachine},
	{ID: "slider-leg-curl", Name: "Slider Leg Curl", Group: GroupPosterior, Pattern: PatternKneeFlexion, Equipment: EquipmentBodyweight},

	{ID: "standing-calf-raise", Name: "Standing Calf Raise", Group: GroupCalves, Pattern: PatternCalfRaise, Equipment: EquipmentMachine},
	{ID: "bodyweight-calf-raise", Name: "Single-Leg Calf Raise", Group: GroupCalves, Pattern: PatternCalfRaise, Equipment: EquipmentBodyweight},

	{ID: "barbell-curl", Name: "Barbell Curl", Group: GroupArms, Pattern: PatternElbowFlexion, Equipment: EquipmentBarbell},
	{ID: "dumbbell-curl", Name: "Dumbbell Curl", Group: GroupArms, Pattern: PatternElbowFlexion, Equipment: EquipmentDumbbell},
	{ID: "triceps-pushdown", Name: "Triceps Pushdown", Group: GroupArms, Pattern: PatternElbowExtension, Equipment: EquipmentCable},
	{ID: "overhead-triceps-extension", Name: "Overhead Triceps Extension", Group: GroupArms, Pattern: PatternElbowExtension, Equipment: EquipmentDumbbell, Overhead: true},
	{ID: "bench-dip", Name: "Bench Dip", Group: GroupArms, Pattern: PatternElbowExtension, Equipment: EquipmentBodyweight},

	{ID: "cable-crunch", Name: "Cable Crunch", Group: GroupCore, Pattern: PatternCore, Equipment: EquipmentCable},
	{ID: "hanging-leg-raise", Name: "Hanging Leg Raise", Group: GroupCore, Pattern: PatternCore, Equipment: EquipmentBodyweight},
	{ID: "plank", Name: "Plank", Group: GroupCore, Pattern: PatternCore, Equipment: EquipmentBodyweight},
	{ID: "dead-bug", Name: "Dead Bug", Group: GroupCore, Pattern: PatternCore, Equipment: EquipmentBodyweight},

	{ID: "rowing-intervals", Name: "Rowing Intervals", Group: GroupConditioning, Pattern: PatternConditioning, Equipment: EquipmentMachine},
	{ID: "bike-intervals", Name: "Bike Intervals", Group: GroupConditioning, Pattern: PatternConditioning, Equipment: EquipmentMachine},
	{ID: "brisk-walk", Name: "Brisk Incline Walk", Group: GroupConditioning, Pattern: PatternConditioning, Equipment: EquipmentBodyweight},
}

//nolint:gochecknoglobals // read-only index over entries.
var byID = indexEntries(entries)

func indexEntries(es []Entry) map[string]Entry {
	m := make(map[string]Entry, len(es))
	for _, e := range es {
		if _, dup := m[e.ID]; dup {
			panic("catalogue: duplicate exercise id " + e.ID)
		}
		m[e.ID] = e
	}
	return m
}

// Contains reports whether id is a catalogue exercise.
func Contains(id string) bool {
	_, ok := byID[id]
	return ok
}

// Lookup returns the entry for id.
func Lookup(id string) (Entry, bool) {
	e, ok := byID[id]
	return e, ok
}

// All returns every entry in registry order. The returned slice is a copy.
func All() []Entry {
	return slices.Clone(entries)
}

// ByPattern returns the entries training pattern, in registry order.
func ByPattern(p Pattern) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Pattern == p {
			out = append(out, e)
		}
	}
	return out
}

// GroupedIDs is the identifier list of a single group.
type GroupedIDs struct {
	Group Group    `json:"group"`
	IDs   []string `json:"ids"`
}

// Grouped returns the identifiers grouped by body region, groups in order of first appearance.
func Grouped() []GroupedIDs {
	var out []GroupedIDs
	for _, e := range entries {
		i := slices.IndexFunc(out, func(g GroupedIDs) bool { return g.Group == e.Group })
		if i == -1 {
			out = append(out, GroupedIDs{Group: e.Group, IDs: nil})
			i = len(out) - 1
		}
		out[i].IDs = append(out[i].IDs, e.ID)
	}
	return out
}
