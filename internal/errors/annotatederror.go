// Package errors provides errors annotated with a message, structured log attributes, and the source location
// where they were created.
//
// Annotated errors are logged with [SlogError] so that the attributes collected along the wrap chain end up in
// the log record instead of being formatted into the error string.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
)

// Re-exports so that callers need only one errors import.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

type annotatedError struct {
	msg    string
	err    error
	attrs  []slog.Attr
	source string
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// NewSentinel creates a comparable error without source information. Use it for package-level error values.
func NewSentinel(msg string) error {
	return errors.New(msg) //nolint:err113 // this is the sentinel constructor.
}

// New creates an error annotated with the caller's source location and attrs.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, err: nil, attrs: attrs, source: callerSource(2)} //nolint:mnd // caller of New.
}

// Wrap wraps err with msg, attrs, and the caller's source location.
//
// Wrapping a nil error yields an error carrying only msg.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, err: err, attrs: attrs, source: callerSource(2)} //nolint:mnd // caller of Wrap.
}

// DecoratePanic converts a value recovered from a panic into an error pointing at the panicking code.
// It must be called directly from the deferred function that recovered.
func DecoratePanic(excp any) error {
	if excp == nil {
		return nil
	}
	return &annotatedError{
		msg:    fmt.Sprintf("panic: %v", excp),
		err:    nil,
		attrs:  nil,
		source: panicSource(),
	}
}

// SlogError renders err as a slog group attribute named "error" with the message, the innermost source location,
// and all annotations collected from the wrap chain.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}

	var (
		annotations []any
		source      string
	)
	for e := err; e != nil; e = errors.Unwrap(e) {
		var ae *annotatedError
		if !errors.As(e, &ae) {
			break
		}
		for _, a := range ae.attrs {
			annotations = append(annotations, a)
		}
		source = ae.source
		e = ae
	}

	attrs := []any{slog.String("message", err.Error())}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	return slog.Group("error", attrs...)
}

func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return file + ":" + strconv.Itoa(line)
}

// panicSource finds the first frame below runtime.gopanic, which is the code that panicked.
func panicSource() string {
	const maxDepth = 32
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(3, pcs) //nolint:mnd // skip Callers, panicSource, and DecoratePanic.
	frames := runtime.CallersFrames(pcs[:n])
	seenPanic := false
	for {
		frame, more := frames.Next()
		if seenPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			return frame.File + ":" + strconv.Itoa(frame.Line)
		}
		if frame.Function == "runtime.gopanic" {
			seenPanic = true
		}
		if !more {
			return ""
		}
	}
}
