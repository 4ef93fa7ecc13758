// Package errors annotates errors with structured log attributes and the source location where they were created.
//
// It re-exports the helpers of the standard errors package so that callers only need one import.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
)

// annotatedError carries a message, an optional cause, slog annotations and the creation site.
type annotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
	file  string
	line  int
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

// NewSentinel creates an error without a stack location. Use it for package level error values compared with [Is].
func NewSentinel(msg string) error {
	return stderrors.New(msg) //nolint:err113 // sentinel constructor
}

// New creates an error annotated with attrs and the caller's source location.
func New(msg string, attrs ...slog.Attr) error {
	return newAnnotated(msg, nil, attrs, 2) //nolint:mnd // skip New and newAnnotated
}

// Wrap annotates err with a message, attrs and the caller's source location.
//
// Wrapping a nil error yields an error containing only msg.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return newAnnotated(msg, err, attrs, 2) //nolint:mnd // skip Wrap and newAnnotated
}

func newAnnotated(msg string, err error, attrs []slog.Attr, skip int) *annotatedError {
	_, file, line, _ := runtime.Caller(skip)
	return &annotatedError{
		msg:   msg,
		err:   err,
		attrs: attrs,
		file:  file,
		line:  line,
	}
}

// DecoratePanic converts a recovered panic value into an error pointing at the panicking line.
// It returns nil when v is nil.
func DecoratePanic(v any) error {
	if v == nil {
		return nil
	}

	var cause error
	msg := fmt.Sprintf("panic: %v", v)
	if err, ok := v.(error); ok {
		cause = err
		msg = "panic"
	}

	ae := newAnnotated(msg, cause, nil, 2) //nolint:mnd // skip DecoratePanic and newAnnotated
	pcs := make([]uintptr, 32)             //nolint:mnd // deep enough to reach the panic site
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.Function == "runtime.gopanic" {
			if next, _ := frames.Next(); next.File != "" {
				ae.file = next.File
				ae.line = next.Line
			}
			break
		}
		if !more {
			break
		}
	}
	return ae
}

// SlogError turns err into a slog group "error" holding the message, the merged annotations of every wrapped
// annotated error, and the source location of the innermost one.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	var (
		annotations []any
		source      string
	)
	for e := err; e != nil; {
		ae, ok := e.(*annotatedError)
		if !ok {
			e = stderrors.Unwrap(e)
			continue
		}
		for _, attr := range ae.attrs {
			annotations = append(annotations, attr)
		}
		if ae.file != "" {
			source = ae.file + ":" + strconv.Itoa(ae.line)
		}
		e = ae.err
	}

	args := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		args = append(args, slog.Group("annotations", annotations...))
	}
	if source != "" {
		args = append(args, slog.String("source", source))
	}
	return slog.Group("error", args...)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target, and if one is found, sets target to that error value.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
