// Package program turns a training profile into a validated multi-week training program.
//
// A program is requested from an external generator first. The candidate is trusted only if it passes
// [Validate]; otherwise [Synthesize] builds one deterministically from the exercise catalogue.
package program

// Goal is the primary training goal.
type Goal string

const (
	GoalHypertrophy    Goal = "hypertrophy"
	GoalFatLoss        Goal = "fat-loss"
	GoalGeneralFitness Goal = "general-fitness"
)

// Valid reports whether g is a known goal.
func (g Goal) Valid() bool {
	switch g {
	case GoalHypertrophy, GoalFatLoss, GoalGeneralFitness:
		return true
	}
	return false
}

// Style is the user's preferred split style.
type Style string

const (
	StyleAny          Style = "any"
	StylePushPullLegs Style = "push-pull-legs"
	StyleUpperLower   Style = "upper-lower"
	StyleFullBody     Style = "full-body"
)

// ExperienceLevel is the training experience tier.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// Valid reports whether l is a known experience level.
func (l ExperienceLevel) Valid() bool {
	switch l {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	}
	return false
}

// DayType is the focus of a training day.
type DayType string

const (
	DayFullBody DayType = "full-body"
	DayUpper    DayType = "upper"
	DayLower    DayType = "lower"
	DayPush     DayType = "push"
	DayPull     DayType = "pull"
	DayLegs     DayType = "legs"
	DayCardio   DayType = "cardio"
	DayRest     DayType = "rest"
)

// Valid reports whether t is a known day type.
func (t DayType) Valid() bool {
	switch t {
	case DayFullBody, DayUpper, DayLower, DayPush, DayPull, DayLegs, DayCardio, DayRest:
		return true
	}
	return false
}

// Provenance tells which path produced a returned program.
type Provenance string

const (
	ProvenanceExternal Provenance = "external"
	ProvenanceFallback Provenance = "fallback"
)

// TrainingProfile is the onboarding output a program is built for. It is never mutated.
type TrainingProfile struct {
	Goals                  []Goal   `json:"goals"                  yaml:"goals"`
	TrainingAgeYears       float64  `json:"trainingAgeYears"       yaml:"trainingAgeYears"`
	DaysPerWeek            int      `json:"daysPerWeek"            yaml:"daysPerWeek"`
	SessionDurationMinutes int      `json:"sessionDurationMinutes" yaml:"sessionDurationMinutes"`
	Equipment              []string `json:"equipment"              yaml:"equipment"`
	Injuries               []string `json:"injuries"               yaml:"injuries"`
	PriorityMuscles        []string `json:"priorityMuscles,omitempty" yaml:"priorityMuscles,omitempty"`
	ProgramStyle           Style    `json:"programStyle,omitempty"    yaml:"programStyle,omitempty"`
	IncludeCardio          bool     `json:"includeCardio"          yaml:"includeCardio"`
}

// SetScheme is the week-one prescription of an exercise.
type SetScheme struct {
	Sets int `json:"sets"`
	// Reps is a count, a range such as "8-10", or a duration such as "30-45s".
	Reps        string `json:"reps"`
	RestSeconds int    `json:"restSeconds"`
	// TargetRPE allows half steps such as 7.5 and is omitted when zero.
	TargetRPE float64 `json:"targetRpe,omitempty"`
}

// ProgramExercise is an exercise placed on a training day.
type ProgramExercise struct {
	ExerciseID string `json:"exerciseId"`
	SetScheme
	Notes      string `json:"notes,omitempty"`
	IsOptional bool   `json:"isOptional,omitempty"`
}

// TrainingDay is one session of the weekly schedule.
type TrainingDay struct {
	Label     string            `json:"label"`
	Type      DayType           `json:"type"`
	Exercises []ProgramExercise `json:"exercises"`
}

// GeneratedProgram is the program handed back to the caller.
type GeneratedProgram struct {
	ID                     string          `json:"id"`
	Name                   string          `json:"name"`
	Goal                   Goal            `json:"goal"`
	ExperienceLevel        ExperienceLevel `json:"experienceLevel"`
	Description            string          `json:"description"`
	TrainingPhilosophy     string          `json:"trainingPhilosophy,omitempty"`
	WeeklyProgressionNotes []string        `json:"weeklyProgressionNotes,omitempty"`
	DaysPerWeek            int             `json:"daysPerWeek"`
	EstimatedDurationWeeks int             `json:"estimatedDurationWeeks"`
	Schedule               []TrainingDay   `json:"schedule"`
	Tags                   []string        `json:"tags"`
	IsCustom               bool            `json:"isCustom"`
	IsAIGenerated          bool            `json:"isAiGenerated"`
	Provenance             Provenance      `json:"provenance,omitempty"`
}

// Deviation records an input value that was adjusted before use.
type Deviation struct {
	Field     string `json:"field"`
	Requested int    `json:"requested"`
	Applied   int    `json:"applied"`
	Reason    string `json:"reason"`
}
