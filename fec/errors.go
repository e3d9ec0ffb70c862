package fec

import (
	"errors"
	"fmt"
)

// Kind categorizes a channel coding failure.
type Kind string

const (
	KindUnsupportedFactor    Kind = "unsupported_factor"    // factor invalid for the chosen coder
	KindUnsupportedParameter Kind = "unsupported_parameter" // no code or method for the parameter
	KindHeaderCorrupt        Kind = "header_corrupt"        // frame too short or header fields unusable
	KindTruncatedTail        Kind = "truncated_tail"        // payload shorter than the header promises
)

// Error is the error type returned by every coder in this module.
// Two errors are equal under errors.Is when their kinds match.
type Error struct {
	Kind   Kind
	Op     string
	Detail string
}

// Sentinels for errors.Is.
var (
	ErrUnsupportedFactor    = &Error{Kind: KindUnsupportedFactor}
	ErrUnsupportedParameter = &Error{Kind: KindUnsupportedParameter}
	ErrHeaderCorrupt        = &Error{Kind: KindHeaderCorrupt}
	ErrTruncatedTail        = &Error{Kind: KindTruncatedTail}
)

func (e *Error) Error() string {
	msg := "fec: "
	if e.Op != "" {
		msg += e.Op + ": "
	}
	msg += string(e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, if err wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
