// Package testhelpers holds logging utilities shared by tests.
package testhelpers

import (
	"io"
	"strings"
	"sync/atomic"
	"testing"
)

// Writer forwards writes to t.Log so that logs only show up for failing tests.
type Writer struct {
	t    testing.TB
	done atomic.Bool
}

// NewWriter creates a Writer bound to t. Writes after the test has finished are dropped instead of reaching
// t.Log, which would panic.
func NewWriter(t testing.TB) io.Writer {
	w := &Writer{t: t}
	t.Cleanup(func() {
		w.done.Store(true)
	})
	return w
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	if w.done.Load() {
		return len(p), nil
	}
	if output := strings.TrimSuffix(string(p), "\n"); output != "" {
		w.t.Log(output)
	}
	return len(p), nil
}
