package program

import (
	"fmt"
	"strings"

	"github.com/myrjola/programsmith/internal/catalogue"
)

// Violation is a single reason a candidate program was rejected.
type Violation struct {
	// Path locates the offending field, for example "schedule[1].exercises[0].exerciseId".
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// ValidationResult is the verdict on a candidate. A result without violations is ok.
type ValidationResult struct {
	Violations []Violation `json:"violations,omitempty"`
}

// OK reports whether the candidate passed every check.
func (r ValidationResult) OK() bool {
	return len(r.Violations) == 0
}

// String joins the violations into a single line.
func (r ValidationResult) String() string {
	parts := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "; ")
}

// RPE bounds for a target RPE that is present.
const (
	minTargetRPE = 6
	maxTargetRPE = 10
)

// Validate checks candidate against the catalogue and profile. It is pure and reports every violation it finds; any
// violation rejects the whole candidate.
//
// Volume balance and periodization notes are requested from the generator but not checked here.
func Validate(candidate GeneratedProgram, profile TrainingProfile) ValidationResult {
	var r ValidationResult
	fail := func(path, format string, args ...any) {
		r.Violations = append(r.Violations, Violation{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(candidate.ID) == "" {
		fail("id", "must not be empty")
	}
	if !candidate.Goal.Valid() {
		fail("goal", "unknown goal %q", candidate.Goal)
	}
	if !candidate.ExperienceLevel.Valid() {
		fail("experienceLevel", "unknown experience level %q", candidate.ExperienceLevel)
	}
	if candidate.EstimatedDurationWeeks != ProgramWeeks {
		fail("estimatedDurationWeeks", "got %d, programs run %d weeks", candidate.EstimatedDurationWeeks, ProgramWeeks)
	}
	if candidate.DaysPerWeek != profile.DaysPerWeek {
		fail("daysPerWeek", "got %d, profile requested %d", candidate.DaysPerWeek, profile.DaysPerWeek)
	}
	if len(candidate.Schedule) == 0 {
		fail("schedule", "must not be empty")
		return r
	}
	if len(candidate.Schedule) != candidate.DaysPerWeek {
		fail("schedule", "has %d days, daysPerWeek is %d", len(candidate.Schedule), candidate.DaysPerWeek)
	}

	for i, day := range candidate.Schedule {
		dayPath := fmt.Sprintf("schedule[%d]", i)
		if !day.Type.Valid() {
			fail(dayPath+".type", "unknown day type %q", day.Type)
		}
		if len(day.Exercises) == 0 && day.Type != DayRest {
			fail(dayPath+".exercises", "only rest days may be empty")
		}
		for j, ex := range day.Exercises {
			exPath := fmt.Sprintf("%s.exercises[%d]", dayPath, j)
			if !catalogue.Contains(ex.ExerciseID) {
				fail(exPath+".exerciseId", "%q is not in the exercise catalogue", ex.ExerciseID)
			}
			if ex.Sets <= 0 {
				fail(exPath+".sets", "must be positive, got %d", ex.Sets)
			}
			if ex.RestSeconds < 0 {
				fail(exPath+".restSeconds", "must not be negative, got %d", ex.RestSeconds)
			}
			if ex.TargetRPE != 0 && (ex.TargetRPE < minTargetRPE || ex.TargetRPE > maxTargetRPE) {
				fail(exPath+".targetRpe", "must be between %d and %d, got %g", minTargetRPE, maxTargetRPE, ex.TargetRPE)
			}
		}
	}
	return r
}
