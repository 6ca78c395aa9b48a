package flightrecorder_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/myrjola/programsmith/internal/flightrecorder"
	"github.com/myrjola/programsmith/internal/testhelpers"
)

func newService(t *testing.T, dir string, cooldown time.Duration) *flightrecorder.Service {
	t.Helper()
	service, err := flightrecorder.New(flightrecorder.Config{
		Logger:          testhelpers.NewLogger(testhelpers.NewWriter(t)),
		MinAge:          0,
		MaxBytes:        0,
		Cooldown:        cooldown,
		TracesDirectory: dir,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err = service.Start(t.Context()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { service.Stop(t.Context()) })
	return service
}

func TestService_Capture(t *testing.T) {
	traceDir := filepath.Join(t.TempDir(), "traces")
	service := newService(t, traceDir, 0)

	path := service.Capture(t.Context(), "generation-timeout")
	if path == "" {
		t.Fatal("expected a trace file")
	}

	entries, err := os.ReadDir(traceDir)
	if err != nil {
		t.Fatalf("failed to read trace directory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one trace file, got %d", len(entries))
	}
	filename := entries[0].Name()
	if !strings.HasPrefix(filename, "generation-timeout-") || !strings.HasSuffix(filename, ".trace") {
		t.Errorf("unexpected filename %s", filename)
	}
	if info, _ := entries[0].Info(); info.Size() == 0 {
		t.Error("expected a non-empty trace")
	}
}

func TestService_CooldownPreventsCapture(t *testing.T) {
	traceDir := t.TempDir()
	service := newService(t, traceDir, time.Hour)

	if service.Capture(t.Context(), "first") == "" {
		t.Fatal("expected the first capture to succeed")
	}
	if path := service.Capture(t.Context(), "second"); path != "" {
		t.Errorf("expected cooldown to prevent capture, got %s", path)
	}

	entries, err := os.ReadDir(traceDir)
	if err != nil {
		t.Fatalf("failed to read trace directory: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected one trace file, got %d", len(entries))
	}
}

func TestNew_Errors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	tests := []struct {
		name string
		cfg  flightrecorder.Config
	}{
		{name: "no logger", cfg: flightrecorder.Config{TracesDirectory: t.TempDir()}},             //nolint:exhaustruct // test
		{name: "no directory", cfg: flightrecorder.Config{Logger: logger}},                         //nolint:exhaustruct // test
		{name: "not a directory", cfg: flightrecorder.Config{Logger: logger, TracesDirectory: file}}, //nolint:exhaustruct // test
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := flightrecorder.New(tt.cfg); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
