package e2etest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/myrjola/programsmith/internal/logging"
)

// LogAddrKey is the log attribute carrying the address the application listens on.
const LogAddrKey = "addr"

// LogDsnKey is the log attribute carrying the read-write SQLite DSN.
const LogDsnKey = "sqlDsn"

// RunFunc has the signature of a command's run function.
type RunFunc func(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error

// Server is an application started in-process for a test. It is stopped when the test finishes, and failures while
// stopping are reported to the test.
type Server struct {
	t      testing.TB
	url    string
	client *Client
	db     *sql.DB
	stop   context.CancelCauseFunc
	done   chan struct{}
	// runErr is written before done is closed.
	runErr error
}

// StartServer runs the application in the background and returns once it answers on /api/healthy.
//
// The application must log LogAddrKey and LogDsnKey while starting. Its logs go to logSink, usually a
// testhelpers.NewWriter. lookupEnv replaces [os.LookupEnv].
func StartServer(t testing.TB, logSink io.Writer, lookupEnv func(string) (string, bool), run RunFunc) (*Server, error) {
	t.Helper()
	found := newAnnouncements()
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: found.replaceAttr,
	})))

	ctx, stop := context.WithCancelCause(t.Context())
	s := &Server{t: t, url: "", client: nil, db: nil, stop: stop, done: make(chan struct{}), runErr: nil}
	t.Cleanup(s.shutdown)
	go func() {
		defer close(s.done)
		s.runErr = run(ctx, logger, lookupEnv)
		stop(s.runErr)
	}()

	addr, dsn, err := found.wait(ctx)
	if err != nil {
		return nil, err
	}
	s.url = "http://" + addr
	s.client = NewClient(s.url)
	if err = s.client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return nil, fmt.Errorf("wait for ready: %w", err)
	}
	if s.db, err = sql.Open("sqlite3", dsn); err != nil {
		return nil, fmt.Errorf("open database %s: %w", dsn, err)
	}
	return s, nil
}

// Client talks to the API of the running application.
func (s *Server) Client() *Client {
	return s.client
}

func (s *Server) URL() string {
	return s.url
}

// DB is a separate connection to the application's database for assertions on stored rows.
func (s *Server) DB() *sql.DB {
	return s.db
}

func (s *Server) shutdown() {
	s.stop(nil)
	<-s.done
	if s.runErr != nil && !errors.Is(s.runErr, context.Canceled) {
		s.t.Errorf("application stopped with error: %v", s.runErr)
	}
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		s.t.Errorf("close database: %v", err)
	}
}

// announcements picks the listen address and DSN out of the startup logs.
type announcements struct {
	addr chan string
	dsn  chan string
}

func newAnnouncements() announcements {
	return announcements{addr: make(chan string, 1), dsn: make(chan string, 1)}
}

func (a announcements) replaceAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case LogAddrKey:
		keepFirst(a.addr, attr.Value.String())
	case LogDsnKey:
		keepFirst(a.dsn, attr.Value.String())
	}
	return attr
}

func (a announcements) wait(ctx context.Context) (string, string, error) {
	var addr, dsn string
	for addr == "" || dsn == "" {
		select {
		case <-ctx.Done():
			return "", "", fmt.Errorf("application stopped before it was listening: %w", context.Cause(ctx))
		case addr = <-a.addr:
		case dsn = <-a.dsn:
		}
	}
	return addr, dsn, nil
}

// keepFirst sends v unless an earlier value is still waiting, so a repeated log line never blocks the logger.
func keepFirst(ch chan<- string, v string) {
	select {
	case ch <- v:
	default:
	}
}
