package program

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/myrjola/programsmith/internal/catalogue"
)

// FallbackDays clamps the requested days per week into the range the synthesized templates cover.
func FallbackDays(requested int) (int, *Deviation) {
	return clampDays(requested, MinDaysPerWeek, MaxFallbackDaysPerWeek,
		fmt.Sprintf("synthesized programs support %d to %d days per week", MinDaysPerWeek, MaxFallbackDaysPerWeek))
}

// Synthesize builds a complete periodized program from the catalogue, constraints and split. It never fails.
//
// The schedule has FallbackDays(profile.DaysPerWeek) days. Sessions follow the split template, cycling it when the
// split has fewer sessions than days and truncating it when it has more.
func Synthesize(profile TrainingProfile, constraints DerivedConstraints, split Split) GeneratedProgram {
	days, _ := FallbackDays(profile.DaysPerWeek)
	goal := primaryGoal(profile.Goals)

	schedule := make([]TrainingDay, 0, days)
	for _, sess := range sessionsFor(split, days) {
		schedule = append(schedule, buildDay(sess, goal, profile, constraints))
	}

	return GeneratedProgram{
		ID:                     uuid.NewString(),
		Name:                   fmt.Sprintf("%d-Day %s %s Program", days, splitTitle(split), goalTitle(goal)),
		Goal:                   goal,
		ExperienceLevel:        constraints.ExperienceTier,
		Description:            description(goal, constraints.ExperienceTier, days, split),
		TrainingPhilosophy:     philosophy(goal),
		WeeklyProgressionNotes: WeeklyProgressionNotes(),
		DaysPerWeek:            days,
		EstimatedDurationWeeks: ProgramWeeks,
		Schedule:               schedule,
		Tags:                   tags(goal, split, profile, constraints),
		IsCustom:               true,
		IsAIGenerated:          true,
		Provenance:             "",
	}
}

func primaryGoal(goals []Goal) Goal {
	for _, g := range goals {
		if g.Valid() {
			return g
		}
	}
	return GoalGeneralFitness
}

type pick struct {
	entry catalogue.Entry
	role  slotRole
}

//nolint:gochecknoglobals // read-only.
var cardioSlot = isolation(catalogue.PatternConditioning, "rowing-intervals", "bike-intervals", "brisk-walk")

func buildDay(sess session, goal Goal, profile TrainingProfile, c DerivedConstraints) TrainingDay {
	var picks []pick
	add := func(s slot) {
		if e, ok := resolve(s, c, picks); ok {
			picks = append(picks, pick{entry: e, role: s.role})
		}
	}
	// promote raises the role of an exercise already on the day instead of adding a duplicate.
	promote := func(match func(catalogue.Entry) bool, role slotRole) bool {
		for i := range picks {
			if match(picks[i].entry) {
				picks[i].role = min(picks[i].role, role)
				return true
			}
		}
		return false
	}

	for _, s := range sess.slots {
		add(s)
	}
	for _, s := range prehabSlots(sess.kind, c) {
		if !promote(func(e catalogue.Entry) bool { return e.ID == s.candidates[0] }, rolePrehab) {
			add(s)
		}
	}
	for _, s := range prioritySlots(sess.kind, profile.PriorityMuscles) {
		if !promote(func(e catalogue.Entry) bool { return e.Pattern == s.pattern }, rolePriority) {
			add(s)
		}
	}

	limit, floor := c.MaxExercisesPerSession.Max, c.MaxExercisesPerSession.Min
	if profile.IncludeCardio {
		limit--
		floor--
	}
	picks = trim(picks, limit)
	for _, s := range sess.extras {
		if len(picks) >= floor {
			break
		}
		add(s)
	}

	exercises := make([]ProgramExercise, 0, len(picks)+1)
	for _, p := range picks {
		exercises = append(exercises, ProgramExercise{
			ExerciseID: p.entry.ID,
			SetScheme:  prescribe(goal, p.role, p.entry),
			Notes:      exerciseNote(c.CoachingCue(p.entry.ID)),
			IsOptional: false,
		})
	}
	if profile.IncludeCardio {
		if e, ok := resolve(cardioSlot, c, picks); ok {
			exercises = append(exercises, ProgramExercise{
				ExerciseID: e.ID,
				SetScheme:  prescribe(goal, roleIsolation, e),
				Notes:      "Optional conditioning finisher at a steady, conversational pace. " + arcNote,
				IsOptional: true,
			})
		}
	}

	return TrainingDay{Label: sess.label, Type: sess.kind, Exercises: exercises}
}

// resolve picks the first candidate of s the constraints allow and the day does not already contain. When an injury
// rule excludes one of the candidates, its preferred replacements for the pattern are tried first. The slot is only
// left empty when no allowed exercise of its pattern remains in the catalogue.
func resolve(s slot, c DerivedConstraints, picked []pick) (catalogue.Entry, bool) {
	usable := func(e catalogue.Entry) bool {
		return c.Allows(e) && !slices.ContainsFunc(picked, func(p pick) bool { return p.entry.ID == e.ID })
	}
	candidates := s.candidates
	if slices.ContainsFunc(candidates, c.Excluded) {
		candidates = slices.Concat(c.Preferred(s.pattern), candidates)
	}
	for _, id := range candidates {
		if e, ok := catalogue.Lookup(id); ok && usable(e) {
			return e, true
		}
	}
	for _, e := range catalogue.ByPattern(s.pattern) {
		if usable(e) {
			return e, true
		}
	}
	return catalogue.Entry{}, false
}

// trim drops exercises until at most limit remain. The last exercise of the highest role is dropped first.
func trim(picks []pick, limit int) []pick {
	for len(picks) > max(limit, 0) {
		drop := len(picks) - 1
		for i := len(picks) - 1; i >= 0; i-- {
			if picks[i].role > picks[drop].role {
				drop = i
			}
		}
		picks = slices.Delete(picks, drop, drop+1)
	}
	return picks
}

// prehabSlots returns the injury accessories for a day. An accessory is a preferred exercise whose pattern no excluded
// exercise shares; it goes on days that train a group one of the excluded exercises belongs to.
func prehabSlots(kind DayType, c DerivedConstraints) []slot {
	var slots []slot
	for _, sub := range c.InjurySubstitutions {
		var patterns []catalogue.Pattern
		trains := false
		for _, id := range sub.ExcludedExerciseIDs {
			if e, ok := catalogue.Lookup(id); ok {
				patterns = append(patterns, e.Pattern)
				trains = trains || trainsGroup(kind, e.Group)
			}
		}
		if !trains {
			continue
		}
		for _, id := range sub.PreferredExerciseIDs {
			e, ok := catalogue.Lookup(id)
			if !ok || slices.Contains(patterns, e.Pattern) {
				continue
			}
			slots = append(slots, slot{pattern: e.Pattern, role: rolePrehab, candidates: []string{id}})
		}
	}
	return slots
}

type priorityMuscle struct {
	keywords []string
	slot     slot
}

//nolint:gochecknoglobals // read-only, ordered so matching is deterministic.
var priorityMuscles = []priorityMuscle{
	{keywords: []string{"chest", "pec"}, slot: flySlot},
	{keywords: []string{"rear delt"}, slot: rearDeltSlot},
	{keywords: []string{"shoulder", "delt"}, slot: lateralSlot},
	{keywords: []string{"lat", "back"}, slot: pullUpSlot},
	{keywords: []string{"bicep", "arm"}, slot: dbCurlSlot},
	{keywords: []string{"tricep"}, slot: pushdownSlot},
	{keywords: []string{"quad"}, slot: legExtSlot},
	{keywords: []string{"hamstring"}, slot: legCurlSlot},
	{keywords: []string{"glute"}, slot: hipThrustSlot},
	{keywords: []string{"calf", "calves"}, slot: calfSlot},
	{keywords: []string{"core", "abs", "abdominal"}, slot: cableCoreSlot},
}

// prioritySlots maps free-text priority muscles to extra slots for days that train them. Each muscle matches the first
// entry whose keyword it contains.
func prioritySlots(kind DayType, muscles []string) []slot {
	var slots []slot
	for _, muscle := range muscles {
		muscle = strings.ToLower(muscle)
		for _, pm := range priorityMuscles {
			if !slices.ContainsFunc(pm.keywords, func(k string) bool { return strings.Contains(muscle, k) }) {
				continue
			}
			if e, ok := catalogue.Lookup(pm.slot.candidates[0]); ok && trainsGroup(kind, e.Group) {
				s := pm.slot
				s.role = rolePriority
				slots = append(slots, s)
			}
			break
		}
	}
	return slots
}

func splitTitle(s Split) string {
	switch s {
	case SplitFullBody:
		return "Full Body"
	case SplitPushPullLegsUpper:
		return "Push/Pull/Legs + Upper"
	case SplitUpperLower:
		return "Upper/Lower"
	case SplitUpperLowerEmphasis:
		return "Upper/Lower Emphasis"
	case SplitPushPullLegsUpperLower:
		return "Push/Pull/Legs + Upper/Lower"
	case SplitPushPullLegsDouble:
		return "Push/Pull/Legs x2"
	}
	return string(s)
}

func goalTitle(g Goal) string {
	switch g {
	case GoalHypertrophy:
		return "Hypertrophy"
	case GoalFatLoss:
		return "Fat Loss"
	case GoalGeneralFitness:
		return "General Fitness"
	}
	return string(g)
}

func description(goal Goal, tier ExperienceLevel, days int, split Split) string {
	return fmt.Sprintf("An %d-week %s program for %s lifters training %d days per week: %s.",
		ProgramWeeks, strings.ToLower(goalTitle(goal)), tier, days, SplitDescription(split))
}

func philosophy(goal Goal) string {
	switch goal {
	case GoalHypertrophy:
		return "Moderate loads taken close to failure with enough weekly volume per muscle to grow. " +
			"Volume rises through the first block and intensity through the second, with a deload in between."
	case GoalFatLoss:
		return "Keep lifting heavy enough to hold on to muscle while short rest periods and optional conditioning " +
			"raise energy expenditure. Progress loads slowly and prioritise recovery."
	case GoalGeneralFitness:
		return "Train every movement pattern each week and build strength with a simple linear progression. " +
			"Consistency beats intensity."
	}
	return ""
}

func tags(goal Goal, split Split, profile TrainingProfile, c DerivedConstraints) []string {
	t := []string{string(goal), string(c.ExperienceTier), string(split), "periodized", "8-week"}
	if c.Equipment.BodyweightOnly {
		t = append(t, "bodyweight")
	}
	if profile.IncludeCardio {
		t = append(t, "cardio")
	}
	if len(c.InjurySubstitutions) > 0 {
		t = append(t, "injury-aware")
	}
	return t
}
