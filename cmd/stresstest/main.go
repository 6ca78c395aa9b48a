package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/myrjola/programsmith/internal/e2etest"
	"github.com/myrjola/programsmith/internal/logging"
	"github.com/myrjola/programsmith/internal/program"
	"github.com/myrjola/programsmith/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	requestTimeout          = time.Minute
	numRequests             = 40
	maxConcurrentOperations = 8
	successRateThreshold    = 95.0
	expectedArgsCount       = 2
	percentageMultiplier    = 100
)

type programResponse struct {
	Program program.GeneratedProgram `json:"program"`
}

// profileFor returns a different profile for each request so that the load covers every split and injury rule.
func profileFor(i int) program.TrainingProfile {
	goals := []program.Goal{program.GoalHypertrophy, program.GoalFatLoss, program.GoalGeneralFitness}
	equipment := [][]string{{"barbell", "dumbbells", "cable machine"}, {"dumbbells"}, {"bodyweight only"}}
	injuries := [][]string{{}, {"shoulder impingement"}, {"knee pain"}, {"lower back"}}
	return program.TrainingProfile{
		Goals:                  []program.Goal{goals[i%len(goals)]},
		TrainingAgeYears:       float64(i % 6), //nolint:mnd // spread over every experience tier.
		DaysPerWeek:            program.MinDaysPerWeek + i%6, //nolint:mnd // 2 to 7 days.
		SessionDurationMinutes: 30 + 15*(i%4), //nolint:mnd // 30 to 75 minutes.
		Equipment:              equipment[i%len(equipment)],
		Injuries:               injuries[i%len(injuries)],
		PriorityMuscles:        nil,
		ProgramStyle:           "",
		IncludeCardio:          i%2 == 0,
	}
}

// RunLoadTest generates programs concurrently and reports the success rate and latency percentiles.
func RunLoadTest(ctx context.Context, client *e2etest.Client, logger *slog.Logger) error {
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting load test", slog.Int("num_requests", numRequests))

	var (
		successCount, failureCount, fallbackCount atomic.Int64
		latenciesMu                               sync.Mutex
		latencies                                 = make([]time.Duration, 0, numRequests)
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)

	for i := range numRequests {
		g.Go(func() error {
			requestCtx, cancel := context.WithTimeout(ctx, requestTimeout)
			defer cancel()

			profile := profileFor(i)
			start := time.Now()
			var resp programResponse
			if err := client.PostJSONDecode(requestCtx, "/api/programs", profile, &resp); err != nil {
				failureCount.Add(1)
				// Individual failures are counted, not propagated, so that the other requests keep running.
				logger.LogAttrs(requestCtx, slog.LevelWarn, "Request failed",
					slog.Int("request", i), slog.Any("error", err))
				return nil
			}
			elapsed := time.Since(start)

			// Fallback programs may clamp the requested days.
			applied := profile
			applied.DaysPerWeek = resp.Program.DaysPerWeek
			if verdict := program.Validate(resp.Program, applied); !verdict.OK() {
				failureCount.Add(1)
				logger.LogAttrs(requestCtx, slog.LevelWarn, "Invalid program returned",
					slog.Int("request", i), slog.String("violations", verdict.String()))
				return nil
			}
			if resp.Program.Provenance == program.ProvenanceFallback {
				fallbackCount.Add(1)
			}
			successCount.Add(1)
			latenciesMu.Lock()
			latencies = append(latencies, elapsed)
			latenciesMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}

	successRate := float64(successCount.Load()) / float64(numRequests) * percentageMultiplier
	attrs := []slog.Attr{
		slog.Int64("successful", successCount.Load()),
		slog.Int64("failed", failureCount.Load()),
		slog.Int64("fallback", fallbackCount.Load()),
		slog.Float64("success_rate", successRate),
	}
	if len(latencies) > 0 {
		slices.Sort(latencies)
		attrs = append(attrs,
			slog.Duration("p50", latencies[len(latencies)/2]),
			slog.Duration("p95", latencies[len(latencies)*95/100]), //nolint:mnd // 95th percentile.
			slog.Duration("max", latencies[len(latencies)-1]))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed", attrs...)

	if successRate < successRateThreshold {
		return fmt.Errorf("load test failed: success rate %.1f%% below threshold", successRate)
	}

	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
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

	if err := RunLoadTest(ctx, client, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed successfully 🙌",
		slog.Duration("total_duration", time.Since(start)))
}
