// Package panicerr converts a recovered panic into a plain error, adapted
// from gothird's internal/panicerr for a single-threaded caller (the
// engine never runs f in its own goroutine — see spec.md's concurrency
// model, which rules out concurrent access entirely).
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

type panicError struct {
	name  string
	e     interface{}
	stack []byte
}

func (pe panicError) Error() string { return fmt.Sprint(pe) }

func (pe panicError) Format(f fmt.State, c rune) {
	if pe.name == "" {
		fmt.Fprintf(f, "paniced: %v", pe.e)
	} else {
		fmt.Fprintf(f, "%v paniced: %v", pe.name, pe.e)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

func (pe panicError) Unwrap() error {
	err, _ := pe.e.(error)
	return err
}

// IsPanic reports whether err wraps a recovered panic.
func IsPanic(err error) bool {
	var pe panicError
	return errors.As(err, &pe)
}

// PanicStack returns the stack trace captured when err's panic was
// recovered, or "" if err doesn't wrap one.
func PanicStack(err error) string {
	var pe panicError
	if errors.As(err, &pe) {
		return string(pe.stack)
	}
	return ""
}

// Recover runs f and converts any panic into a non-nil error return,
// tagging it with name for diagnostics.
func Recover(name string, f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{name: name, e: r, stack: debug.Stack()}
		}
	}()
	return f()
}
