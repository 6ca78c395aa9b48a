package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/myrjola/programsmith/internal/program"
	"github.com/myrjola/programsmith/internal/testhelpers"
)

const profilesYAML = `profiles:
  - name: beginner-bodyweight
    goals: [general-fitness]
    trainingAgeYears: 0
    daysPerWeek: 3
    sessionDurationMinutes: 45
    equipment: [bodyweight only]
    injuries: []
  - name: advanced-eight-days
    goals: [hypertrophy, fat-loss]
    trainingAgeYears: 6
    daysPerWeek: 8
    sessionDurationMinutes: 75
    equipment: [barbell, dumbbells, cable machine]
    injuries: [shoulder impingement]
    includeCardio: true
`

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write profiles: %v", err)
	}
	return path
}

func decodeLines(t *testing.T, out *bytes.Buffer) []line {
	t.Helper()
	var lines []line
	scanner := bufio.NewScanner(out)
	scanner.Buffer(nil, 1<<20)
	for scanner.Scan() {
		var l line
		if err := json.Unmarshal(scanner.Bytes(), &l); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		lines = append(lines, l)
	}
	return lines
}

func Test_run(t *testing.T) {
	path := writeProfiles(t, profilesYAML)
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	var out bytes.Buffer
	if err := run(t.Context(), logger, []string{"-profiles", path}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := decodeLines(t, &out)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	if lines[0].Name != "beginner-bodyweight" || lines[1].Name != "advanced-eight-days" {
		t.Errorf("lines out of order: %s, %s", lines[0].Name, lines[1].Name)
	}
	if got := lines[0].Program.DaysPerWeek; got != 3 {
		t.Errorf("got %d days, want 3", got)
	}
	if got := lines[1].Program.DaysPerWeek; got != program.MaxFallbackDaysPerWeek {
		t.Errorf("got %d days, want %d", got, program.MaxFallbackDaysPerWeek)
	}
	if len(lines[1].Deviations) != 1 || lines[1].Deviations[0].Requested != 8 {
		t.Errorf("expected a daysPerWeek deviation, got %v", lines[1].Deviations)
	}
	for _, l := range lines {
		if l.Program.Provenance != program.ProvenanceFallback {
			t.Errorf("%s: got provenance %q", l.Name, l.Program.Provenance)
		}
	}
}

func Test_run_daysOverride(t *testing.T) {
	path := writeProfiles(t, profilesYAML)
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	var out bytes.Buffer
	if err := run(t.Context(), logger, []string{"-profiles", path, "-days-override", "2"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, l := range decodeLines(t, &out) {
		if l.Program.DaysPerWeek != 2 || len(l.Program.Schedule) != 2 {
			t.Errorf("%s: got %d days", l.Name, l.Program.DaysPerWeek)
		}
	}
}

func Test_run_errors(t *testing.T) {
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing flag", args: nil},
		{name: "missing file", args: []string{"-profiles", filepath.Join(t.TempDir(), "missing.yaml")}},
		{name: "no profiles", args: []string{"-profiles", writeProfiles(t, "profiles: []\n")}},
		{name: "invalid goal", args: []string{"-profiles", writeProfiles(t, "profiles:\n  - name: x\n    goals: [strength]\n")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(t.Context(), logger, tt.args, &out); err == nil {
				t.Error("expected an error")
			}
			if out.Len() != 0 {
				t.Errorf("expected no output, got %s", out.String())
			}
		})
	}
}
