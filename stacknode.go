package main

import "fmt"

// ValueKind discriminates the two StackNode shapes the data stack holds.
type ValueKind int

const (
	// ValLit is a plain runtime integer.
	ValLit ValueKind = iota
	// ValRef is an unresolved reference to a dictionary entry, e.g. the
	// name of a variable pushed so a later @ or ! can resolve it.
	ValRef
)

// Value is the tagged runtime value living on the data stack (component F,
// "StackNode" in the spec).
type Value struct {
	Kind ValueKind
	Int  int
	Ref  *Entry
}

func litValue(n int) Value    { return Value{Kind: ValLit, Int: n} }
func refValue(e *Entry) Value { return Value{Kind: ValRef, Ref: e} }

func (v Value) isLit() bool { return v.Kind == ValLit }
func (v Value) isRef() bool { return v.Kind == ValRef }

func (v Value) String() string {
	switch v.Kind {
	case ValLit:
		return fmt.Sprintf("%d", v.Int)
	case ValRef:
		if v.Ref != nil {
			return v.Ref.Name
		}
		return "<nil-ref>"
	default:
		return "<?>"
	}
}
