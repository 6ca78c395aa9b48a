package program

import (
	"github.com/myrjola/programsmith/internal/catalogue"
)

// slotRole ranks slots for trimming. Higher ranks are dropped first when a session exceeds its cap.
type slotRole int

const (
	roleCompound slotRole = iota
	rolePrehab
	rolePriority
	roleIsolation
)

// slot is one exercise position of a session template. Candidates are tried in order; the first one the
// constraints allow is used.
type slot struct {
	pattern    catalogue.Pattern
	role       slotRole
	candidates []string
}

// session is the structural template of one training day.
type session struct {
	label string
	kind  DayType
	slots []slot
	// extras fill the session up to the minimum exercise count.
	extras []slot
}

func compound(p catalogue.Pattern, ids ...string) slot {
	return slot{pattern: p, role: roleCompound, candidates: ids}
}

func isolation(p catalogue.Pattern, ids ...string) slot {
	return slot{pattern: p, role: roleIsolation, candidates: ids}
}

//nolint:gochecknoglobals // read-only slot shorthands.
var (
	benchSlot       = compound(catalogue.PatternHorizontalPush, "barbell-bench-press", "dumbbell-bench-press", "push-up")
	inclineSlot     = compound(catalogue.PatternHorizontalPush, "incline-dumbbell-press", "dumbbell-bench-press", "push-up")
	pressSlot       = compound(catalogue.PatternVerticalPush, "overhead-press", "dumbbell-shoulder-press", "pike-push-up")
	dbPressSlot     = compound(catalogue.PatternVerticalPush, "dumbbell-shoulder-press", "overhead-press", "pike-push-up")
	rowSlot         = compound(catalogue.PatternHorizontalPull, "barbell-row", "seated-cable-row", "dumbbell-row", "inverted-row")
	cableRowSlot    = compound(catalogue.PatternHorizontalPull, "seated-cable-row", "dumbbell-row", "inverted-row")
	pulldownSlot    = compound(catalogue.PatternVerticalPull, "lat-pulldown", "pull-up")
	pullUpSlot      = compound(catalogue.PatternVerticalPull, "pull-up", "lat-pulldown")
	squatSlot       = compound(catalogue.PatternSquat, "barbell-back-squat", "leg-press", "goblet-squat", "bodyweight-squat")
	legPressSlot    = compound(catalogue.PatternSquat, "leg-press", "goblet-squat", "bodyweight-squat")
	lungeSlot       = compound(catalogue.PatternLunge, "bulgarian-split-squat", "walking-lunge")
	rdlSlot         = compound(catalogue.PatternHinge, "romanian-deadlift", "dumbbell-romanian-deadlift", "cable-pull-through", "glute-bridge")
	deadliftSlot    = compound(catalogue.PatternHinge, "deadlift", "dumbbell-romanian-deadlift", "cable-pull-through", "glute-bridge")
	hipThrustSlot   = compound(catalogue.PatternHinge, "hip-thrust", "cable-pull-through", "glute-bridge")
	flySlot         = isolation(catalogue.PatternChestFly, "cable-fly", "dumbbell-fly")
	lateralSlot     = isolation(catalogue.PatternLateralRaise, "cable-lateral-raise", "dumbbell-lateral-raise")
	rearDeltSlot    = isolation(catalogue.PatternRearDelt, "face-pull", "rear-delt-fly", "prone-y-raise")
	curlSlot        = isolation(catalogue.PatternElbowFlexion, "barbell-curl", "dumbbell-curl")
	dbCurlSlot      = isolation(catalogue.PatternElbowFlexion, "dumbbell-curl", "barbell-curl")
	pushdownSlot    = isolation(catalogue.PatternElbowExtension, "triceps-pushdown", "overhead-triceps-extension", "bench-dip")
	extensionSlot   = isolation(catalogue.PatternElbowExtension, "overhead-triceps-extension", "triceps-pushdown", "bench-dip")
	legExtSlot      = isolation(catalogue.PatternKneeExtension, "leg-extension")
	legCurlSlot     = isolation(catalogue.PatternKneeFlexion, "leg-curl", "slider-leg-curl")
	calfSlot        = isolation(catalogue.PatternCalfRaise, "standing-calf-raise", "bodyweight-calf-raise")
	cableCoreSlot   = isolation(catalogue.PatternCore, "cable-crunch", "hanging-leg-raise", "plank")
	hangingCoreSlot = isolation(catalogue.PatternCore, "hanging-leg-raise", "dead-bug")
	plankSlot       = isolation(catalogue.PatternCore, "plank", "dead-bug")
)

// upperExtras and lowerExtras pad sessions whose isolation slots could not be resolved, typically for bodyweight-only
// users. Every extra has a bodyweight candidate.
//
//nolint:gochecknoglobals // read-only.
var (
	upperExtras = []slot{rearDeltSlot, plankSlot, pushdownSlot, inclineSlot, cableRowSlot}
	lowerExtras = []slot{calfSlot, hangingCoreSlot, legCurlSlot, lungeSlot, plankSlot}
	fullExtras  = []slot{rearDeltSlot, calfSlot, plankSlot, legCurlSlot, pushdownSlot, lungeSlot}
)

//nolint:gochecknoglobals // read-only session templates.
var (
	fullBodyA = session{
		label:  "Full Body A",
		kind:   DayFullBody,
		slots:  []slot{squatSlot, benchSlot, rowSlot, rdlSlot, lateralSlot, curlSlot, cableCoreSlot},
		extras: fullExtras,
	}
	fullBodyB = session{
		label:  "Full Body B",
		kind:   DayFullBody,
		slots:  []slot{deadliftSlot, pressSlot, pulldownSlot, lungeSlot, flySlot, pushdownSlot, hangingCoreSlot},
		extras: fullExtras,
	}
	fullBodyC = session{
		label:  "Full Body C",
		kind:   DayFullBody,
		slots:  []slot{legPressSlot, inclineSlot, cableRowSlot, hipThrustSlot, rearDeltSlot, dbCurlSlot, plankSlot},
		extras: fullExtras,
	}
	upperStrength = session{
		label:  "Upper Strength",
		kind:   DayUpper,
		slots:  []slot{benchSlot, rowSlot, pressSlot, pulldownSlot, curlSlot, pushdownSlot, rearDeltSlot, lateralSlot},
		extras: upperExtras,
	}
	upperVolume = session{
		label:  "Upper Volume",
		kind:   DayUpper,
		slots:  []slot{inclineSlot, pullUpSlot, cableRowSlot, lateralSlot, flySlot, dbCurlSlot, extensionSlot, rearDeltSlot},
		extras: upperExtras,
	}
	upperGeneral = session{
		label:  "Upper",
		kind:   DayUpper,
		slots:  []slot{benchSlot, pulldownSlot, dbPressSlot, cableRowSlot, lateralSlot, curlSlot, pushdownSlot, rearDeltSlot},
		extras: upperExtras,
	}
	upperArmsShoulders = session{
		label:  "Upper (Shoulders & Arms)",
		kind:   DayUpper,
		slots:  []slot{dbPressSlot, cableRowSlot, lateralSlot, rearDeltSlot, dbCurlSlot, extensionSlot, flySlot, curlSlot},
		extras: upperExtras,
	}
	lowerQuad = session{
		label:  "Lower (Quad Focus)",
		kind:   DayLower,
		slots:  []slot{squatSlot, lungeSlot, rdlSlot, legExtSlot, calfSlot, hangingCoreSlot, legCurlSlot},
		extras: lowerExtras,
	}
	lowerHip = session{
		label:  "Lower (Hip Focus)",
		kind:   DayLower,
		slots:  []slot{deadliftSlot, hipThrustSlot, legPressSlot, legCurlSlot, calfSlot, cableCoreSlot, lungeSlot},
		extras: lowerExtras,
	}
	lowerGeneral = session{
		label:  "Lower",
		kind:   DayLower,
		slots:  []slot{legPressSlot, hipThrustSlot, lungeSlot, legCurlSlot, calfSlot, plankSlot, legExtSlot},
		extras: lowerExtras,
	}
	pushA = session{
		label:  "Push",
		kind:   DayPush,
		slots:  []slot{benchSlot, pressSlot, inclineSlot, lateralSlot, flySlot, pushdownSlot, extensionSlot, plankSlot},
		extras: upperExtras,
	}
	pullA = session{
		label:  "Pull",
		kind:   DayPull,
		slots:  []slot{pullUpSlot, rowSlot, cableRowSlot, rearDeltSlot, curlSlot, dbCurlSlot, hangingCoreSlot},
		extras: upperExtras,
	}
	legsA = session{
		label:  "Legs",
		kind:   DayLegs,
		slots:  []slot{squatSlot, rdlSlot, lungeSlot, legCurlSlot, legExtSlot, calfSlot, cableCoreSlot},
		extras: lowerExtras,
	}
	pushB = session{
		label:  "Push B",
		kind:   DayPush,
		slots:  []slot{dbPressSlot, inclineSlot, benchSlot, lateralSlot, extensionSlot, flySlot, pushdownSlot, cableCoreSlot},
		extras: upperExtras,
	}
	pullB = session{
		label:  "Pull B",
		kind:   DayPull,
		slots:  []slot{rowSlot, pulldownSlot, cableRowSlot, rearDeltSlot, dbCurlSlot, curlSlot, plankSlot},
		extras: upperExtras,
	}
	legsB = session{
		label:  "Legs B",
		kind:   DayLegs,
		slots:  []slot{deadliftSlot, legPressSlot, hipThrustSlot, legExtSlot, legCurlSlot, calfSlot, hangingCoreSlot},
		extras: lowerExtras,
	}
)

// splitSessions is the weekly structure of each split in training order.
//
//nolint:gochecknoglobals // read-only.
var splitSessions = map[Split][]session{
	SplitFullBody:               {fullBodyA, fullBodyB, fullBodyC},
	SplitPushPullLegsUpper:      {pushA, pullA, legsA, upperGeneral},
	SplitUpperLower:             {upperStrength, lowerQuad, upperVolume, lowerHip},
	SplitUpperLowerEmphasis:     {upperStrength, lowerQuad, upperVolume, lowerHip, upperArmsShoulders},
	SplitPushPullLegsUpperLower: {pushA, pullA, legsA, upperGeneral, lowerGeneral},
	SplitPushPullLegsDouble:     {withLabel(pushA, "Push A"), withLabel(pullA, "Pull A"), withLabel(legsA, "Legs A"), pushB, pullB, legsB},
}

func withLabel(s session, label string) session {
	s.label = label
	return s
}

// SplitDays returns the label and type of each session of split in training order.
func SplitDays(s Split) []TrainingDay {
	sessions := splitSessions[s]
	days := make([]TrainingDay, 0, len(sessions))
	for _, sess := range sessions {
		days = append(days, TrainingDay{Label: sess.label, Type: sess.kind, Exercises: nil})
	}
	return days
}

// sessionsFor returns exactly n sessions for split, cycling the template when n exceeds its length.
func sessionsFor(s Split, n int) []session {
	template := splitSessions[s]
	if len(template) == 0 {
		template = splitSessions[SplitFullBody]
	}
	out := make([]session, 0, n)
	for i := range n {
		out = append(out, template[i%len(template)])
	}
	return out
}

// trainsGroup reports whether a day of type t trains muscle group g.
func trainsGroup(t DayType, g catalogue.Group) bool {
	switch t {
	case DayFullBody:
		return g != catalogue.GroupConditioning
	case DayUpper:
		return g == catalogue.GroupChest || g == catalogue.GroupBack || g == catalogue.GroupShoulders ||
			g == catalogue.GroupArms || g == catalogue.GroupCore
	case DayLower, DayLegs:
		return g == catalogue.GroupQuads || g == catalogue.GroupPosterior || g == catalogue.GroupCalves ||
			g == catalogue.GroupCore
	case DayPush:
		return g == catalogue.GroupChest || g == catalogue.GroupShoulders || g == catalogue.GroupArms
	case DayPull:
		return g == catalogue.GroupBack || g == catalogue.GroupArms
	case DayCardio:
		return g == catalogue.GroupConditioning
	case DayRest:
		return false
	}
	return false
}
