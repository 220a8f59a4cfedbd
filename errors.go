package main

import (
	"errors"
	"fmt"

	"github.com/ttsiodras/MiniForth/internal/arena"
)

// Error kinds from the engine's error-propagation discipline. Built-ins and
// the parser return (or wrap) these rather than panicking; only genuine
// arena exhaustion reaches Engine.halt.
var (
	ErrEmptyStack             = errors.New("nothing on the stack")
	ErrTypeMismatch           = errors.New("value is not a variable or constant")
	ErrDivisionByZero         = errors.New("division by zero")
	ErrUnknownWord            = errors.New("unknown word")
	ErrUnterminatedDefinition = errors.New("unterminated definition")
	ErrWrongMode              = errors.New("not in compiling mode")
	ErrOutOfMemory            = arena.ErrOutOfMemory
	ErrOutOfVariableSlots     = errors.New("out of variable slots")
	ErrMissingControlFrame    = errors.New("missing control frame")
)

// kindError carries a user-visible message while unwrapping to one of the
// error kinds above, so callers match with errors.Is against the kind and
// users see the message alone (not prefixed by the kind's own text).
type kindError struct {
	kind error
	msg  string
}

func (e kindError) Error() string { return e.msg }
func (e kindError) Unwrap() error { return e.kind }

func kindErrorf(kind error, format string, args ...interface{}) error {
	return kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// tokenError wraps an error with the offending token, per the "[x] <message>:
// <token>" user-visible convention.
type tokenError struct {
	err   error
	token string
}

func (e tokenError) Error() string {
	if e.token == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%v: %v", e.err, e.token)
}

func (e tokenError) Unwrap() error { return e.err }

func withToken(err error, token string) error {
	if err == nil {
		return nil
	}
	return tokenError{err: err, token: token}
}

// haltError marks a fatal condition that should abort the whole process,
// mirroring gothird's core.Core.halt / haltError.
type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}

func (err haltError) Unwrap() error { return err.error }
