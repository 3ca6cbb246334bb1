// Package errors wraps the standard library errors package with errors that carry
// slog annotations and the source location where they were wrapped.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
)

// Re-exported from the standard library so that callers only need one errors import.
var (
	Is     = stderrors.Is
	As     = stderrors.As
	Unwrap = stderrors.Unwrap
	Join   = stderrors.Join
	New    = stderrors.New
)

type sentinelError struct {
	msg string
}

func (e *sentinelError) Error() string {
	return e.msg
}

// NewSentinel creates a comparable error without stack information, meant for package level error variables.
func NewSentinel(msg string) error {
	return &sentinelError{msg: msg}
}

type annotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
	pc    uintptr
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

// Wrap annotates err with a message and slog attributes. The caller's source location is recorded.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	var pcs [1]uintptr
	// Skip runtime.Callers and Wrap.
	runtime.Callers(2, pcs[:]) //nolint:mnd // see above.
	return &annotatedError{
		msg:   msg,
		err:   err,
		attrs: attrs,
		pc:    pcs[0],
	}
}

// DecoratePanic converts a recovered panic value into an error pointing to the line that panicked.
func DecoratePanic(excp any) error {
	if excp == nil {
		return nil
	}
	const maxDepth = 32
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var (
		pc         uintptr
		afterPanic bool
	)
	for {
		frame, more := frames.Next()
		if afterPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			pc = frame.PC
			break
		}
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		}
		if !more {
			break
		}
	}

	var cause error
	if err, ok := excp.(error); ok {
		cause = err
	} else {
		cause = NewSentinel(fmt.Sprint(excp))
	}
	return &annotatedError{
		msg:   "panic",
		err:   cause,
		attrs: nil,
		pc:    pc,
	}
}

// SlogError turns err into a slog attribute group with its message, collected annotations and source location.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Any("error", nil)
	}

	var (
		annotations []any
		source      string
	)
	walk(err, func(ae *annotatedError) {
		for _, attr := range ae.attrs {
			annotations = append(annotations, attr)
		}
		if ae.pc != 0 {
			// The innermost annotation is closest to the root cause so it wins.
			source = formatSource(ae.pc)
		}
	})

	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Group("error", attrs...)
}

// walk visits every annotated error in the tree rooted at err, outermost first.
func walk(err error, visit func(*annotatedError)) {
	if err == nil {
		return
	}
	if ae, ok := err.(*annotatedError); ok { //nolint:errorlint // we walk the tree manually.
		visit(ae)
	}
	switch x := err.(type) { //nolint:errorlint // we walk the tree manually.
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			walk(inner, visit)
		}
	case interface{ Unwrap() error }:
		walk(x.Unwrap(), visit)
	}
}

func formatSource(pc uintptr) string {
	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	if frame.File == "" {
		return ""
	}
	file := frame.File
	if idx := strings.LastIndex(file, "/"); idx >= 0 {
		file = file[idx+1:]
	}
	return file + ":" + strconv.Itoa(frame.Line)
}
