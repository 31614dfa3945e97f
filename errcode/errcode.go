package errcode

import "errors"

// Code is a stable, operator-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Rejected commands (no state change).
	InvalidArgument Code = "invalid_argument"
	MissingArgument Code = "missing_argument"
	OutOfRange      Code = "out_of_range"
	UnknownCommand  Code = "unknown_command"

	// Accepted but flagged.
	UnsupportedValue Code = "unsupported_value"

	// Persistence.
	StorageFailure Code = "storage_failure"
	InvalidPage    Code = "invalid_page"

	// Explicit exit command.
	Terminated Code = "terminated"

	Error Code = "error" // generic fallback
)

// E wraps a Code with the operation, a short message and an optional cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += " (" + e.Err.Error() + ")"
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// New returns an *E without a cause.
func New(c Code, op, msg string) error { return &E{C: c, Op: op, Msg: msg} }

// Wrap returns an *E carrying err as its cause. A nil err yields nil.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error chain, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Error
}

// Is reports whether err carries code c.
func Is(err error, c Code) bool { return err != nil && Of(err) == c }

// Rejected reports whether err rejects a command without any state change.
func Rejected(err error) bool {
	switch Of(err) {
	case InvalidArgument, MissingArgument, OutOfRange, UnknownCommand:
		return true
	}
	return false
}
