package program

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/myrjola/programsmith/internal/catalogue"
)

const systemInstruction = `You are a strength and conditioning coach who writes structured training programs.
Answer with exactly one JSON object and nothing else. Do not wrap it in markdown.
Only use exercise ids from the catalogue you are given. Programs that reference any other id are discarded.`

// Instruction is the request sent to the external generator.
type Instruction struct {
	System string
	User   string
}

// BuildInstruction renders the generation request for profile. The exercise list comes from the same catalogue the
// validator checks against.
func BuildInstruction(id string, profile TrainingProfile, constraints DerivedConstraints, split Split) Instruction {
	var b strings.Builder

	fmt.Fprintf(&b, "Write an %d-week training program for this profile.\n\n", ProgramWeeks)

	b.WriteString("## Profile\n")
	fmt.Fprintf(&b, "- Goals in priority order: %s\n", joinGoals(profile.Goals))
	fmt.Fprintf(&b, "- Training age: %.1f years (%s)\n", profile.TrainingAgeYears, constraints.ExperienceTier)
	fmt.Fprintf(&b, "- Days per week: %d\n", profile.DaysPerWeek)
	fmt.Fprintf(&b, "- Session length: %d minutes, %d to %d exercises per session\n",
		profile.SessionDurationMinutes, constraints.MaxExercisesPerSession.Min, constraints.MaxExercisesPerSession.Max)
	if len(profile.PriorityMuscles) > 0 {
		fmt.Fprintf(&b, "- Priority muscles: %s\n", strings.Join(profile.PriorityMuscles, ", "))
	}
	if profile.IncludeCardio {
		b.WriteString("- End every training day with an optional conditioning finisher (isOptional: true)\n")
	}

	b.WriteString("\n## Equipment\n")
	eq := constraints.Equipment
	if eq.BodyweightOnly {
		b.WriteString("- Bodyweight only. Use only bodyweight exercises.\n")
	} else {
		fmt.Fprintf(&b, "- Barbell: %s\n- Cable: %s\n- Machines: %s\n- Dumbbells: yes\n",
			yesNo(eq.HasBarbell), yesNo(eq.HasCable), yesNo(eq.HasMachine))
	}

	if len(constraints.InjurySubstitutions) > 0 {
		b.WriteString("\n## Injuries\n")
		for _, s := range constraints.InjurySubstitutions {
			fmt.Fprintf(&b, "- %s: never use %s. Prefer %s. Cue: %s\n", s.Family,
				strings.Join(s.ExcludedExerciseIDs, ", "), strings.Join(s.PreferredExerciseIDs, ", "), s.CoachingCue)
		}
	}

	b.WriteString("\n## Weekly split\n")
	rotation := SplitDays(split)
	labels := make([]string, 0, len(rotation))
	for _, day := range rotation {
		labels = append(labels, day.Label)
	}
	fmt.Fprintf(&b, "Use the %s split: %s. One rotation is %d sessions: %s.\n",
		split, SplitDescription(split), len(rotation), strings.Join(labels, ", "))
	b.WriteString("Split rules by days per week, first match wins:\n")
	for _, rule := range splitTable {
		style := "any style"
		if rule.style != "" {
			style = "style " + string(rule.style)
		}
		fmt.Fprintf(&b, "- %d to %d days, %s: %s\n", rule.minDays, rule.maxDays, style, rule.split)
	}
	days := max(profile.DaysPerWeek, 0)
	fmt.Fprintf(&b, "Schedule these %d sessions in order. The split repeats when the week is longer than it:\n", days)
	for i, sess := range sessionsFor(split, days) {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, sess.label, sess.kind)
	}

	b.WriteString("\n## Periodization\n")
	for _, note := range WeeklyProgressionNotes() {
		fmt.Fprintf(&b, "- %s\n", note)
	}
	b.WriteString("Weekly pulling volume should be at least as high as pushing volume.\n")

	b.WriteString("\n## Exercise catalogue\n")
	fmt.Fprintf(&b, "Version %s. Use these ids verbatim.\n", catalogue.Version)
	for _, g := range catalogue.Grouped() {
		fmt.Fprintf(&b, "- %s: %s\n", g.Group, strings.Join(g.IDs, ", "))
	}

	b.WriteString("\n## Output\n")
	fmt.Fprintf(&b, "Return a JSON object shaped like this example. Use id %q, daysPerWeek %d and exactly %d schedule "+
		"entries. weeklyProgressionNotes has exactly %d entries. targetRpe is between 6 and 10.\n",
		id, profile.DaysPerWeek, profile.DaysPerWeek, ProgramWeeks)
	b.Write(exampleOutput(id, profile.DaysPerWeek))
	b.WriteString("\n")

	return Instruction{System: systemInstruction, User: b.String()}
}

func exampleOutput(id string, days int) []byte {
	example := GeneratedProgram{
		ID:                     id,
		Name:                   "string",
		Goal:                   GoalHypertrophy,
		ExperienceLevel:        ExperienceBeginner,
		Description:            "string",
		TrainingPhilosophy:     "string",
		WeeklyProgressionNotes: []string{"Week 1 - ..."},
		DaysPerWeek:            days,
		EstimatedDurationWeeks: ProgramWeeks,
		Schedule: []TrainingDay{{
			Label: "Day 1",
			Type:  DayFullBody,
			Exercises: []ProgramExercise{{
				ExerciseID: "goblet-squat",
				SetScheme:  SetScheme{Sets: 3, Reps: "8-10", RestSeconds: 90, TargetRPE: 7}, //nolint:mnd // example values.
				Notes:      "string",
				IsOptional: false,
			}},
		}},
		Tags:          []string{"string"},
		IsCustom:      true,
		IsAIGenerated: true,
		Provenance:    "",
	}
	out, err := json.MarshalIndent(example, "", "  ")
	if err != nil {
		panic(err)
	}
	return out
}

func joinGoals(goals []Goal) string {
	parts := make([]string, 0, len(goals))
	for _, g := range goals {
		parts = append(parts, string(g))
	}
	return strings.Join(parts, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
