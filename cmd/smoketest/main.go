package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/myrjola/programsmith/internal/catalogue"
	"github.com/myrjola/programsmith/internal/e2etest"
	"github.com/myrjola/programsmith/internal/logging"
	"github.com/myrjola/programsmith/internal/program"
	"github.com/myrjola/programsmith/internal/testhelpers"
)

type programResponse struct {
	Program    program.GeneratedProgram `json:"program"`
	Deviations []program.Deviation      `json:"deviations"`
}

// TestGenerate generates a program, reads it back and checks that it only uses catalogue exercises.
func TestGenerate(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	var catalogueResp struct {
		Version string `json:"version"`
	}
	if err := client.GetJSON(ctx, "/api/catalogue", &catalogueResp); err != nil {
		return fmt.Errorf("get catalogue: %w", err)
	}
	if catalogueResp.Version != catalogue.Version {
		return fmt.Errorf("server catalogue %s differs from client catalogue %s", catalogueResp.Version, catalogue.Version)
	}

	profile := program.TrainingProfile{
		Goals:                  []program.Goal{program.GoalHypertrophy},
		TrainingAgeYears:       1,
		DaysPerWeek:            3,
		SessionDurationMinutes: 60,
		Equipment:              []string{"barbell", "dumbbells"},
		Injuries:               []string{},
		PriorityMuscles:        nil,
		ProgramStyle:           "",
		IncludeCardio:          false,
	}
	var generated programResponse
	if err := client.PostJSONDecode(ctx, "/api/programs", profile, &generated); err != nil {
		return fmt.Errorf("generate program: %w", err)
	}
	if verdict := program.Validate(generated.Program, profile); !verdict.OK() {
		return fmt.Errorf("invalid program: %s", verdict.String())
	}

	var stored programResponse
	if err := client.GetJSON(ctx, "/api/programs/"+generated.Program.ID, &stored); err != nil {
		return fmt.Errorf("get program: %w", err)
	}
	if stored.Program.ID != generated.Program.ID {
		return fmt.Errorf("got program %s, want %s", stored.Program.ID, generated.Program.ID)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := e2etest.NewClient(url)
	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if err := TestGenerate(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing generation", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
