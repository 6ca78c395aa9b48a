package e2etest_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/myrjola/programsmith/internal/e2etest"
	"github.com/myrjola/programsmith/internal/testhelpers"
)

// recordingTB collects cleanups and reported errors so that teardown can be inspected.
type recordingTB struct {
	testing.TB
	cleanups []func()
	errs     []string
}

func (r *recordingTB) Cleanup(f func()) {
	r.cleanups = append(r.cleanups, f)
}

func (r *recordingTB) Errorf(format string, args ...any) {
	r.errs = append(r.errs, fmt.Sprintf(format, args...))
}

func (r *recordingTB) finish() {
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		r.cleanups[i]()
	}
}

func noEnv(string) (string, bool) { return "", false }

// healthyApp serves /api/healthy until ctx is done and then returns stopErr.
func healthyApp(stopErr error) e2etest.RunFunc {
	return func(ctx context.Context, logger *slog.Logger, _ func(string) (string, bool)) error {
		var lc net.ListenConfig
		listener, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
		if err != nil {
			return err
		}
		mux := http.NewServeMux()
		mux.HandleFunc("GET /api/healthy", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		srv := &http.Server{Handler: mux, ReadHeaderTimeout: time.Second} //nolint:exhaustruct // test server.
		logger.LogAttrs(ctx, slog.LevelInfo, "opened database", slog.String(e2etest.LogDsnKey, "file::memory:"))
		logger.LogAttrs(ctx, slog.LevelInfo, "starting server", slog.String(e2etest.LogAddrKey, listener.Addr().String()))
		// Logged twice on purpose: later values must not block the logger.
		logger.LogAttrs(ctx, slog.LevelInfo, "still listening", slog.String(e2etest.LogAddrKey, listener.Addr().String()))
		go func() {
			<-ctx.Done()
			_ = srv.Close()
		}()
		if err = srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return stopErr
	}
}

func TestStartServer(t *testing.T) {
	tb := &recordingTB{TB: t, cleanups: nil, errs: nil}
	server, err := e2etest.StartServer(tb, testhelpers.NewWriter(t), noEnv, healthyApp(nil))
	if err != nil {
		tb.finish()
		t.Fatalf("StartServer: %v", err)
	}

	resp, err := server.Client().Get(t.Context(), "/api/healthy")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("got status %d, want 200", resp.StatusCode)
	}
	if !strings.HasPrefix(server.URL(), "http://127.0.0.1:") {
		t.Errorf("unexpected URL %s", server.URL())
	}

	tb.finish()
	if len(tb.errs) != 0 {
		t.Errorf("clean shutdown reported errors: %v", tb.errs)
	}
	if err = server.DB().PingContext(t.Context()); err == nil {
		t.Error("expected the database handle to be closed after shutdown")
	}
}

func TestStartServer_reportsShutdownError(t *testing.T) {
	tb := &recordingTB{TB: t, cleanups: nil, errs: nil}
	if _, err := e2etest.StartServer(tb, testhelpers.NewWriter(t), noEnv, healthyApp(errors.New("flush failed"))); err != nil {
		tb.finish()
		t.Fatalf("StartServer: %v", err)
	}

	tb.finish()
	if len(tb.errs) != 1 || !strings.Contains(tb.errs[0], "flush failed") {
		t.Errorf("expected the shutdown error to be reported, got %v", tb.errs)
	}
}

func TestStartServer_applicationFails(t *testing.T) {
	tb := &recordingTB{TB: t, cleanups: nil, errs: nil}
	failing := func(context.Context, *slog.Logger, func(string) (string, bool)) error {
		return errors.New("populate config: missing PROGRAMSMITH_ADDR")
	}

	_, err := e2etest.StartServer(tb, testhelpers.NewWriter(t), noEnv, failing)
	tb.finish()
	if err == nil || !strings.Contains(err.Error(), "missing PROGRAMSMITH_ADDR") {
		t.Errorf("expected the startup error, got %v", err)
	}
}
