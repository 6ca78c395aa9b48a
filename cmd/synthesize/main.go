// Command synthesize builds fallback programs for every profile in a YAML or JSON file and prints them as JSON lines.
//
//	synthesize -profiles profiles.yaml [-days-override N] [-concurrency N]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/myrjola/programsmith/internal/errors"
	"github.com/myrjola/programsmith/internal/logging"
	"github.com/myrjola/programsmith/internal/program"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

type namedProfile struct {
	Name                    string `yaml:"name"`
	program.TrainingProfile `yaml:",inline"`
}

type profileFile struct {
	Profiles []namedProfile `yaml:"profiles"`
}

type line struct {
	Name       string                   `json:"name"`
	Program    program.GeneratedProgram `json:"program"`
	Deviations []program.Deviation      `json:"deviations,omitempty"`
}

func loadProfiles(path string) ([]namedProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read profiles", slog.String("path", path))
	}
	var f profileFile
	if err = yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse profiles", slog.String("path", path))
	}
	if len(f.Profiles) == 0 {
		return nil, errors.New("no profiles", slog.String("path", path))
	}
	return f.Profiles, nil
}

func run(ctx context.Context, logger *slog.Logger, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("synthesize", flag.ContinueOnError)
	var (
		profilesPath = fs.String("profiles", "", "path to a YAML or JSON file with a top-level profiles list")
		daysOverride = fs.Int("days-override", 0, "replace daysPerWeek of every profile when positive")
		concurrency  = fs.Int("concurrency", runtime.GOMAXPROCS(0), "number of programs synthesized in parallel")
	)
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "parse flags")
	}
	if *profilesPath == "" {
		return errors.New("-profiles is required")
	}

	profiles, err := loadProfiles(*profilesPath)
	if err != nil {
		return err
	}

	svc := program.NewService(nil, nil, logger, 0)
	lines := make([]line, len(profiles))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, *concurrency))
	for i, p := range profiles {
		g.Go(func() error {
			profile := p.TrainingProfile
			if *daysOverride > 0 {
				profile.DaysPerWeek = *daysOverride
			}
			result, synthErr := svc.SynthesizeFallback(logging.WithAttrs(ctx, slog.String("profile", p.Name)), profile)
			if synthErr != nil {
				return errors.Wrap(synthErr, "synthesize", slog.Int("index", i), slog.String("profile", p.Name))
			}
			lines[i] = line{Name: p.Name, Program: result.Program, Deviations: result.Deviations}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return err //nolint:wrapcheck // already annotated.
	}

	encoder := json.NewEncoder(stdout)
	for _, l := range lines {
		if err = encoder.Encode(l); err != nil {
			return errors.Wrap(err, "write program")
		}
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "synthesized programs", slog.Int("count", len(lines)))
	return nil
}

func main() {
	ctx := context.Background()
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelInfo,
		ReplaceAttr: nil,
	})))
	if err := run(ctx, logger, os.Args[1:], os.Stdout); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure synthesizing programs", errors.SlogError(err))
		os.Exit(1)
	}
}
