package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/myrjola/programsmith/internal/catalogue"
	"github.com/myrjola/programsmith/internal/e2etest"
	"github.com/myrjola/programsmith/internal/program"
	"github.com/myrjola/programsmith/internal/testhelpers"
)

func testProfile() program.TrainingProfile {
	return program.TrainingProfile{
		Goals:                  []program.Goal{program.GoalHypertrophy},
		TrainingAgeYears:       2,
		DaysPerWeek:            4,
		SessionDurationMinutes: 60,
		Equipment:              []string{"barbell", "dumbbells", "cable machine", "bench"},
		Injuries:               []string{},
		PriorityMuscles:        nil,
		ProgramStyle:           "",
		IncludeCardio:          false,
	}
}

// newFakeGenerator serves chat completions whose content is produced by respond.
func newFakeGenerator(t *testing.T, respond func() string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 0,
			"model":   "gpt-4o",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": respond()},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

// validCandidate answers with a program that passes validation for profile.
func validCandidate(t *testing.T, profile program.TrainingProfile) func() string {
	t.Helper()
	return func() string {
		split, _ := program.SelectSplit(profile.DaysPerWeek, profile.ProgramStyle)
		p := program.Synthesize(profile, program.Derive(profile), split)
		p.ID = uuid.NewString()
		p.Name = "Generated Upper Lower"
		b, err := json.Marshal(p)
		if err != nil {
			t.Errorf("marshal candidate: %v", err)
		}
		return "```json\n" + string(b) + "\n```"
	}
}

func lookupEnvWith(generatorURL string, overrides ...string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		for i := 0; i+1 < len(overrides); i += 2 {
			if overrides[i] == key {
				return overrides[i+1], true
			}
		}
		switch key {
		case "PROGRAMSMITH_SQLITE_URL":
			return ":memory:", true
		case "PROGRAMSMITH_ADDR":
			return "localhost:0", true
		case "PROGRAMSMITH_GENERATION_TIMEOUT":
			return "2s", true
		case "OPENAI_API_KEY":
			if generatorURL == "" {
				return "", false
			}
			return "test-key", true
		case "OPENAI_BASE_URL":
			return generatorURL + "/", generatorURL != ""
		default:
			return "", false
		}
	}
}

func startServer(t *testing.T, generatorURL string, overrides ...string) *e2etest.Server {
	t.Helper()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), lookupEnvWith(generatorURL, overrides...), run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	return server
}

func Test_application_programs(t *testing.T) {
	ctx := t.Context()
	profile := testProfile()
	generator, calls := newFakeGenerator(t, validCandidate(t, profile))
	server := startServer(t, generator.URL)
	client := server.Client()

	var generated programResponse
	t.Run("Generate", func(t *testing.T) {
		if err := client.PostJSONDecode(ctx, "/api/programs", profile, &generated); err != nil {
			t.Fatalf("Failed to generate program: %v", err)
		}
		if calls.Load() != 1 {
			t.Errorf("Expected one generator call, got %d", calls.Load())
		}
		if generated.Program.Name != "Generated Upper Lower" {
			t.Errorf("Expected the generated candidate, got %q", generated.Program.Name)
		}
		if generated.Program.Provenance != program.ProvenanceExternal || !generated.Program.IsAIGenerated {
			t.Errorf("Unexpected provenance %q", generated.Program.Provenance)
		}
		if len(generated.Deviations) != 0 {
			t.Errorf("Expected no deviations, got %v", generated.Deviations)
		}
	})

	t.Run("Get", func(t *testing.T) {
		var stored programResponse
		if err := client.GetJSON(ctx, "/api/programs/"+generated.Program.ID, &stored); err != nil {
			t.Fatalf("Failed to get program: %v", err)
		}
		if diff := cmp.Diff(generated.Program, stored.Program); diff != "" {
			t.Errorf("Stored program mismatch (-want +got):\n%s", diff)
		}

		var count int
		row := server.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM programs WHERE provenance = 'external'")
		if err := row.Scan(&count); err != nil {
			t.Fatalf("Failed to count programs: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected one stored program, got %d", count)
		}
	})

	t.Run("Summary", func(t *testing.T) {
		resp, err := client.Get(ctx, "/api/programs/"+generated.Program.ID+"/summary")
		if err != nil {
			t.Fatalf("Failed to get summary: %v", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("Failed to read summary: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("Expected HTML, got %s", ct)
		}
		for _, want := range []string{"<title>Generated Upper Lower</title>", "<table>", "Week 1"} {
			if !strings.Contains(string(body), want) {
				t.Errorf("Summary does not contain %q", want)
			}
		}
	})

	t.Run("Unknown program", func(t *testing.T) {
		var statusErr *e2etest.StatusError
		err := client.GetJSON(ctx, "/api/programs/missing", &programResponse{})
		if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404, got %v", err)
		}
	})
}

func Test_application_programs_fallback(t *testing.T) {
	ctx := t.Context()
	generator, _ := newFakeGenerator(t, func() string { return "Sorry, I can't build programs today." })
	client := startServer(t, generator.URL).Client()

	profile := testProfile()
	profile.DaysPerWeek = 9
	profile.Injuries = []string{"lower back"}

	var got programResponse
	if err := client.PostJSONDecode(ctx, "/api/programs", profile, &got); err != nil {
		t.Fatalf("Failed to generate program: %v", err)
	}
	if got.Program.Provenance != program.ProvenanceFallback || got.Program.IsAIGenerated {
		t.Errorf("Expected a fallback program, got provenance %q", got.Program.Provenance)
	}
	if got.Program.DaysPerWeek != program.MaxFallbackDaysPerWeek || len(got.Program.Schedule) != got.Program.DaysPerWeek {
		t.Errorf("Expected %d days, got %d", program.MaxFallbackDaysPerWeek, got.Program.DaysPerWeek)
	}
	want := []program.Deviation{{Field: "daysPerWeek", Requested: 9, Applied: program.MaxFallbackDaysPerWeek}}
	if diff := cmp.Diff(want, got.Deviations, cmpopts.IgnoreFields(program.Deviation{}, "Reason")); diff != "" {
		t.Errorf("Deviations mismatch (-want +got):\n%s", diff)
	}
}

func Test_application_programs_timeoutCapturesTrace(t *testing.T) {
	ctx := t.Context()
	release := make(chan struct{})
	generator, _ := newFakeGenerator(t, func() string {
		<-release
		return ""
	})
	// Runs before the generator closes, which waits for the blocked handler.
	t.Cleanup(func() { close(release) })
	tracesDir := t.TempDir()
	client := startServer(t, generator.URL,
		"PROGRAMSMITH_GENERATION_TIMEOUT", "200ms",
		"PROGRAMSMITH_TRACES_DIRECTORY", tracesDir,
	).Client()

	var got programResponse
	if err := client.PostJSONDecode(ctx, "/api/programs", testProfile(), &got); err != nil {
		t.Fatalf("Failed to generate program: %v", err)
	}
	if got.Program.Provenance != program.ProvenanceFallback {
		t.Errorf("Expected a fallback program, got provenance %q", got.Program.Provenance)
	}
	entries, err := os.ReadDir(tracesDir)
	if err != nil {
		t.Fatalf("Failed to read traces directory: %v", err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "generation-timeout-") {
		t.Errorf("Expected one generation timeout trace, got %v", entries)
	}
}

func Test_application_programs_errors(t *testing.T) {
	ctx := t.Context()
	client := startServer(t, "").Client()

	noGoals := testProfile()
	noGoals.Goals = nil

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{name: "not an object", body: "four days of hypertrophy", wantStatus: http.StatusBadRequest},
		{name: "no goals", body: noGoals, wantStatus: http.StatusBadRequest},
		{name: "generation not configured", body: testProfile(), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var statusErr *e2etest.StatusError
			err := client.PostJSONDecode(ctx, "/api/programs", tt.body, &programResponse{})
			if !errors.As(err, &statusErr) {
				t.Fatalf("Expected a status error, got %v", err)
			}
			if statusErr.StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, statusErr.StatusCode, statusErr.Body)
			}
		})
	}
}

func Test_application_catalogue(t *testing.T) {
	client := startServer(t, "").Client()

	var got catalogueResponse
	if err := client.GetJSON(t.Context(), "/api/catalogue", &got); err != nil {
		t.Fatalf("Failed to get catalogue: %v", err)
	}
	if got.Version != catalogue.Version {
		t.Errorf("Expected version %s, got %s", catalogue.Version, got.Version)
	}
	var ids []string
	for _, g := range got.Groups {
		ids = append(ids, g.IDs...)
	}
	if want := len(catalogue.All()); len(ids) != want {
		t.Errorf("Expected %d identifiers, got %d", want, len(ids))
	}
}
