// Package errors defines the error taxonomy shared by the resolver, the sync
// engine and the hook installer. Every error carries enough context (raw
// input, project, path, cause) to be logged as a single actionable line.
package errors

import (
	stderrors "errors"
	"fmt"
)

// OperationError is a failed step such as "git clone" or "open repository".
// Target names what the step acted on, when known.
type OperationError struct {
	Op     string
	Target string
	Err    error
}

func (e *OperationError) Error() string {
	msg := e.Op
	if e.Target != "" {
		msg += " " + e.Target
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// New creates an OperationError for op failing with err.
func New(op string, err error) *OperationError {
	return &OperationError{Op: op, Err: err}
}

// On sets the target of the failed step and returns e.
func (e *OperationError) On(target string) *OperationError {
	e.Target = target
	return e
}

// Is matches an OperationError with the same Op. A target without a Target
// matches any target.
func (e *OperationError) Is(target error) bool {
	t, ok := target.(*OperationError)
	if !ok {
		return false
	}
	return e.Op == t.Op && (t.Target == "" || t.Target == e.Target)
}

// Errorf is shorthand for New(op, fmt.Errorf(format, args...)).
func Errorf(op, format string, args ...any) *OperationError {
	return New(op, fmt.Errorf(format, args...))
}

// Is and As forward to the standard library so callers need a single import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }
