// Package flightrecorder keeps a rolling execution trace in memory and writes it to disk when generation stalls.
package flightrecorder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"sync/atomic"
	"time"

	"github.com/myrjola/programsmith/internal/errors"
)

const (
	defaultMinAge   = time.Minute
	defaultMaxBytes = 32 << 20
	defaultCooldown = 30 * time.Minute
)

// Service manages the flight recorder. Only one may be started per process.
type Service struct {
	logger          *slog.Logger
	flightRecorder  *trace.FlightRecorder
	tracesDirectory string
	cooldown        time.Duration
	lastCapture     atomic.Int64 // unix nanoseconds
}

// Config configures the flight recorder service. Zero values select the defaults.
type Config struct {
	Logger *slog.Logger
	// MinAge is the minimum age of trace events kept in the buffer.
	MinAge   time.Duration
	MaxBytes uint64
	// Cooldown is the minimum time between two captures.
	Cooldown        time.Duration
	TracesDirectory string
}

// New creates a flight recorder service writing traces to cfg.TracesDirectory, which is created when missing.
func New(cfg Config) (*Service, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.TracesDirectory == "" {
		return nil, errors.New("traces directory is required")
	}

	if stat, err := os.Stat(cfg.TracesDirectory); err != nil {
		if err = os.MkdirAll(cfg.TracesDirectory, 0o750); err != nil { //nolint:mnd // owner and group.
			return nil, errors.Wrap(err, "create traces directory")
		}
	} else if !stat.IsDir() {
		return nil, errors.New("traces path is not a directory", slog.String("path", cfg.TracesDirectory))
	}

	minAge := cfg.MinAge
	if minAge == 0 {
		minAge = defaultMinAge
	}
	maxBytes := cfg.MaxBytes
	if maxBytes == 0 {
		maxBytes = defaultMaxBytes
	}
	cooldown := cfg.Cooldown
	if cooldown == 0 {
		cooldown = defaultCooldown
	}

	return &Service{
		logger:          cfg.Logger,
		flightRecorder:  trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: minAge, MaxBytes: maxBytes}),
		tracesDirectory: cfg.TracesDirectory,
		cooldown:        cooldown,
		lastCapture:     atomic.Int64{},
	}, nil
}

// Start begins flight recording.
func (s *Service) Start(ctx context.Context) error {
	if err := s.flightRecorder.Start(); err != nil {
		return errors.Wrap(err, "start flight recorder")
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder started",
		slog.String("directory", s.tracesDirectory), slog.Duration("cooldown", s.cooldown))
	return nil
}

// Stop ends flight recording.
func (s *Service) Stop(ctx context.Context) {
	s.flightRecorder.Stop()
	s.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder stopped")
}

// Capture writes the buffered trace to <reason>-<timestamp>.trace unless a capture happened within the cooldown.
// Failures are logged. Capture returns the written path or "".
func (s *Service) Capture(ctx context.Context, reason string) string {
	now := time.Now()
	last := s.lastCapture.Load()
	if last != 0 && now.Sub(time.Unix(0, last)) < s.cooldown {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "skipping trace capture due to cooldown",
			slog.Time("last_capture", time.Unix(0, last)))
		return ""
	}
	if !s.lastCapture.CompareAndSwap(last, now.UnixNano()) {
		return ""
	}

	fPath := filepath.Join(s.tracesDirectory, fmt.Sprintf("%s-%s.trace", reason, now.UTC().Format("20060102-150405")))
	file, err := os.Create(fPath)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to create trace file",
			errors.SlogError(errors.Wrap(err, "create", slog.String("file", fPath))))
		return ""
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "failed to close trace file",
				errors.SlogError(errors.Wrap(closeErr, "close", slog.String("file", fPath))))
		}
	}()

	bytesWritten, err := s.flightRecorder.WriteTo(file)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to write trace",
			errors.SlogError(errors.Wrap(err, "write", slog.String("file", fPath))))
		return ""
	}

	s.logger.LogAttrs(ctx, slog.LevelWarn, "captured trace",
		slog.String("reason", reason), slog.String("file", fPath), slog.Int64("bytes", bytesWritten))
	return fPath
}
