package program_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/programsmith/internal/program"
)

func TestDerive_Equipment(t *testing.T) {
	tests := []struct {
		name      string
		equipment []string
		want      program.EquipmentCapabilities
	}{
		{
			name:      "empty means full gym",
			equipment: nil,
			want:      program.EquipmentCapabilities{HasBarbell: true, HasCable: true, HasMachine: true, BodyweightOnly: false},
		},
		{
			name:      "bodyweight only free text",
			equipment: []string{"bodyweight only"},
			want:      program.EquipmentCapabilities{HasBarbell: false, HasCable: false, HasMachine: false, BodyweightOnly: true},
		},
		{
			name:      "canonical bodyweight tag",
			equipment: []string{"bodyweight"},
			want:      program.EquipmentCapabilities{HasBarbell: false, HasCable: false, HasMachine: false, BodyweightOnly: true},
		},
		{
			name:      "commercial gym free text",
			equipment: []string{"Commercial GYM membership"},
			want:      program.EquipmentCapabilities{HasBarbell: true, HasCable: true, HasMachine: true, BodyweightOnly: false},
		},
		{
			name:      "dumbbells and bodyweight is not bodyweight only",
			equipment: []string{"dumbbells", "bodyweight"},
			want:      program.EquipmentCapabilities{HasBarbell: false, HasCable: false, HasMachine: false, BodyweightOnly: false},
		},
		{
			name:      "home barbell and cable",
			equipment: []string{"Barbell and rack", "cable station"},
			want:      program.EquipmentCapabilities{HasBarbell: true, HasCable: true, HasMachine: false, BodyweightOnly: false},
		},
		{
			name:      "canonical tags",
			equipment: []string{program.EquipmentTagCable, program.EquipmentTagMachines},
			want:      program.EquipmentCapabilities{HasBarbell: false, HasCable: true, HasMachine: true, BodyweightOnly: false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := program.Derive(program.TrainingProfile{Equipment: tt.equipment}).Equipment
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Derive() equipment mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDerive_ExperienceTier(t *testing.T) {
	tests := []struct {
		years float64
		want  program.ExperienceLevel
	}{
		{0, program.ExperienceBeginner},
		{0.5, program.ExperienceIntermediate},
		{2, program.ExperienceIntermediate},
		{2.5, program.ExperienceAdvanced},
		{10, program.ExperienceAdvanced},
	}
	for _, tt := range tests {
		if got := program.Derive(program.TrainingProfile{TrainingAgeYears: tt.years}).ExperienceTier; got != tt.want {
			t.Errorf("years %v: got %s, want %s", tt.years, got, tt.want)
		}
	}
}

func TestDerive_SessionCap(t *testing.T) {
	tests := []struct {
		minutes int
		want    program.SessionCap
	}{
		{30, program.SessionCap{Min: 4, Max: 5}},
		{45, program.SessionCap{Min: 4, Max: 5}},
		{46, program.SessionCap{Min: 5, Max: 6}},
		{60, program.SessionCap{Min: 5, Max: 6}},
		{75, program.SessionCap{Min: 6, Max: 7}},
		{90, program.SessionCap{Min: 7, Max: 8}},
	}
	for _, tt := range tests {
		got := program.Derive(program.TrainingProfile{SessionDurationMinutes: tt.minutes}).MaxExercisesPerSession
		if got != tt.want {
			t.Errorf("%d minutes: got %+v, want %+v", tt.minutes, got, tt.want)
		}
	}
}

func TestDerive_Injuries(t *testing.T) {
	families := func(c program.DerivedConstraints) []program.InjuryFamily {
		var fs []program.InjuryFamily
		for _, s := range c.InjurySubstitutions {
			fs = append(fs, s.Family)
		}
		return fs
	}

	tests := []struct {
		name     string
		injuries []string
		want     []program.InjuryFamily
	}{
		{name: "none", injuries: nil, want: nil},
		{name: "unrelated", injuries: []string{"sprained wrist"}, want: nil},
		{name: "shoulder impingement", injuries: []string{"shoulder impingement"}, want: []program.InjuryFamily{program.InjuryShoulder}},
		{name: "canonical back tag", injuries: []string{"lower-back"}, want: []program.InjuryFamily{program.InjuryBack}},
		{name: "disc herniation", injuries: []string{"L5 Disc herniation"}, want: []program.InjuryFamily{program.InjuryBack}},
		{name: "patellar tendinopathy", injuries: []string{"Patellar tendinopathy"}, want: []program.InjuryFamily{program.InjuryKnee}},
		{
			name:     "all families are additive",
			injuries: []string{"knee pain", "rotator cuff", "sciatica"},
			want:     []program.InjuryFamily{program.InjuryShoulder, program.InjuryBack, program.InjuryKnee},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := families(program.Derive(program.TrainingProfile{Injuries: tt.injuries}))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("families mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDerive_ShoulderExcludesOverhead(t *testing.T) {
	c := program.Derive(program.TrainingProfile{Injuries: []string{"shoulder impingement"}})
	for _, id := range []string{"overhead-press", "pike-push-up", "overhead-triceps-extension", "barbell-bench-press"} {
		if !c.Excluded(id) {
			t.Errorf("expected %s to be excluded", id)
		}
	}
	if c.Excluded("dumbbell-shoulder-press") {
		t.Error("dumbbell-shoulder-press is the replacement and must not be excluded")
	}
	if got := c.CoachingCue("face-pull"); got == "" {
		t.Error("expected a coaching cue on the face-pull accessory")
	}
}

func TestDerive_NoSharedTargetsAcrossFamilies(t *testing.T) {
	c := program.Derive(program.TrainingProfile{Injuries: []string{"shoulder", "lower back", "knee"}})
	seen := map[string]program.InjuryFamily{}
	for _, s := range c.InjurySubstitutions {
		for _, id := range slices.Concat(s.ExcludedExerciseIDs, s.PreferredExerciseIDs) {
			if other, ok := seen[id]; ok && other != s.Family {
				t.Errorf("%s is targeted by both %s and %s", id, other, s.Family)
			}
			seen[id] = s.Family
		}
	}
}

func TestDerive_DoesNotMutateProfile(t *testing.T) {
	profile := program.TrainingProfile{
		Goals:     []program.Goal{program.GoalHypertrophy},
		Equipment: []string{" Barbell "},
		Injuries:  []string{"Knee"},
	}
	c := program.Derive(profile)
	c.InjurySubstitutions[0].ExcludedExerciseIDs[0] = "mutated"
	if profile.Equipment[0] != " Barbell " || profile.Injuries[0] != "Knee" {
		t.Errorf("profile was mutated: %+v", profile)
	}
	if again := program.Derive(profile); again.InjurySubstitutions[0].ExcludedExerciseIDs[0] == "mutated" {
		t.Error("rule table leaked through the derived constraints")
	}
}
