package program

import (
	"fmt"

	"github.com/myrjola/programsmith/internal/catalogue"
)

// ProgramWeeks is the length of every program.
const ProgramWeeks = 8

// week is one step of the linear periodization arc.
type week struct {
	phase string
	sets  string
	rpe   string
	note  string
}

//nolint:gochecknoglobals // read-only.
var arc = [ProgramWeeks]week{
	{phase: "Accumulation", sets: "3", rpe: "6", note: "Learn the movements and leave about four reps in reserve."},
	{phase: "Accumulation", sets: "3-4", rpe: "7", note: "Add a set to the main lifts where recovery allows."},
	{phase: "Accumulation", sets: "4", rpe: "8", note: "Highest volume of the first block."},
	{phase: "Deload", sets: "2", rpe: "6", note: "Reduce loads by about 20%. This week is not optional."},
	{phase: "Intensification", sets: "4", rpe: "7", note: "Use heavier loads than in week 3."},
	{phase: "Intensification", sets: "4-5", rpe: "8", note: "Keep rest periods honest as loads climb."},
	{phase: "Intensification", sets: "5", rpe: "9", note: "Peak week. Stop every set one rep short of failure."},
	{
		phase: "Test or deload",
		sets:  "2-3",
		rpe:   "6-9",
		note:  "Test a rep max on the main lifts or repeat the week 4 deload before the next cycle.",
	},
}

// WeeklyProgressionNotes returns the program-level arc, one entry per week.
func WeeklyProgressionNotes() []string {
	notes := make([]string, 0, ProgramWeeks)
	for i, w := range arc {
		notes = append(notes, fmt.Sprintf("Week %d - %s: %s sets at RPE %s. %s", i+1, w.phase, w.sets, w.rpe, w.note))
	}
	return notes
}

// arcNote is the per-exercise summary of the arc.
const arcNote = "Weeks 1-3 accumulate (3 to 4 sets, RPE 6 to 8). " +
	"Week 4 deloads (2 sets, about 20% lighter, RPE 6). " +
	"Weeks 5-7 intensify (4 to 5 sets, RPE 7 to 9). " +
	"Week 8: test or deload again."

// exerciseNote combines the arc with an injury cue when one applies.
func exerciseNote(cue string) string {
	if cue == "" {
		return arcNote
	}
	return cue + " " + arcNote
}

// Week-one targets. The arc in the exercise notes describes how they progress.
const (
	weekOneSets       = 3
	weekOneRPE        = 6
	prehabSets        = 2
	conditioningSets  = 1
	compoundRest      = 120
	isolationRest     = 60
	fatLossRestFactor = 2
)

// prescribe returns the week-one scheme of an exercise.
func prescribe(goal Goal, role slotRole, entry catalogue.Entry) SetScheme {
	if entry.Pattern == catalogue.PatternConditioning {
		return SetScheme{Sets: conditioningSets, Reps: conditioningReps(goal), RestSeconds: 0, TargetRPE: 0}
	}

	scheme := SetScheme{Sets: weekOneSets, Reps: "", RestSeconds: isolationRest, TargetRPE: weekOneRPE}
	switch role {
	case roleCompound:
		scheme.RestSeconds = compoundRest
		scheme.Reps = compoundReps(goal)
	case rolePrehab:
		scheme.Sets = prehabSets
		scheme.Reps = "15-20"
	case rolePriority, roleIsolation:
		scheme.Reps = isolationReps(goal)
	}
	if entry.ID == "plank" {
		scheme.Reps = "30-45s"
	}
	if goal == GoalFatLoss {
		scheme.RestSeconds /= fatLossRestFactor
	}
	return scheme
}

func compoundReps(goal Goal) string {
	switch goal {
	case GoalHypertrophy:
		return "8-10"
	case GoalFatLoss:
		return "10-12"
	case GoalGeneralFitness:
		return "6-10"
	}
	return "8-10"
}

func isolationReps(goal Goal) string {
	switch goal {
	case GoalHypertrophy:
		return "10-15"
	case GoalFatLoss:
		return "12-15"
	case GoalGeneralFitness:
		return "10-12"
	}
	return "10-15"
}

func conditioningReps(goal Goal) string {
	if goal == GoalFatLoss {
		return "15-20 min"
	}
	return "10-12 min"
}
