package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/myrjola/programsmith/internal/ai"
	"github.com/myrjola/programsmith/internal/envstruct"
	"github.com/myrjola/programsmith/internal/errors"
	"github.com/myrjola/programsmith/internal/flightrecorder"
	"github.com/myrjola/programsmith/internal/logging"
	"github.com/myrjola/programsmith/internal/program"
	"github.com/myrjola/programsmith/internal/sqlite"
)

type application struct {
	logger         *slog.Logger
	programService *program.Service
	// handlerTimeout bounds a whole request. It stays above the generation timeout so that a fallback program can
	// still be written after the generator gives up.
	handlerTimeout time.Duration
	// flightRecorder is nil unless a traces directory is configured.
	flightRecorder *flightrecorder.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"PROGRAMSMITH_ADDR" envDefault:"localhost:8081"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"PROGRAMSMITH_SQLITE_URL" envDefault:"./programsmith.sqlite3"`
	// OpenAIAPIKey authenticates against the generation service. Without it every generation request fails with a
	// configuration error.
	OpenAIAPIKey string `env:"OPENAI_API_KEY" envDefault:""`
	// OpenAIBaseURL points the client at an OpenAI compatible endpoint.
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:""`
	Model         string `env:"PROGRAMSMITH_MODEL" envDefault:"gpt-4o"`
	// GenerationTimeout bounds the single external generation attempt.
	GenerationTimeout time.Duration `env:"PROGRAMSMITH_GENERATION_TIMEOUT" envDefault:"25s"`
	// TracesDirectory enables the flight recorder. A trace is written there when a generation times out.
	TracesDirectory string `env:"PROGRAMSMITH_TRACES_DIRECTORY" envDefault:""`
}

// responseHeadroom is the time left for synthesis and writing the response after the generator times out.
const responseHeadroom = 5 * time.Second

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close db", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	// A missing key is not fatal. The service answers generation requests with a configuration error while the
	// catalogue and stored programs stay available.
	var completer ai.Completer
	client, err := ai.Shared(ai.Config{APIKey: cfg.OpenAIAPIKey, BaseURL: cfg.OpenAIBaseURL, Model: cfg.Model}, logger)
	switch {
	case errors.Is(err, ai.ErrMissingCredentials):
		logger.LogAttrs(ctx, slog.LevelWarn, "generation disabled", errors.SlogError(err))
	case err != nil:
		return errors.Wrap(err, "new ai client")
	default:
		completer = client
	}
	defer ai.Teardown()

	timeout := cfg.GenerationTimeout
	if timeout <= 0 {
		timeout = program.DefaultGenerationTimeout
	}
	var recorder *flightrecorder.Service
	if cfg.TracesDirectory != "" {
		if recorder, err = flightrecorder.New(flightrecorder.Config{
			Logger:          logger,
			MinAge:          timeout + responseHeadroom,
			MaxBytes:        0,
			Cooldown:        0,
			TracesDirectory: cfg.TracesDirectory,
		}); err != nil {
			return errors.Wrap(err, "new flight recorder")
		}
		if err = recorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer recorder.Stop(ctx)
	}

	app := application{
		logger:         logger,
		programService: program.NewService(db, completer, logger, timeout),
		handlerTimeout: timeout + responseHeadroom,
		flightRecorder: recorder,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
