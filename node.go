package main

import (
	"fmt"
	"strings"

	"github.com/ttsiodras/MiniForth/internal/arena"
)

// NodeKind discriminates the CompiledNode variants (component E).
type NodeKind int

const (
	// NodeUnknown is the zero NodeKind. The compiler never produces it
	// (tokens inside a ." ... " string literal are buffered, not turned into
	// nodes), and Execute rejects it.
	NodeUnknown NodeKind = iota
	NodeLiteral
	NodeString
	NodeConstant
	NodeVariable
	NodeCFunc
	NodeWord
)

// BuiltinFunc is a native operation. It receives the engine and the PC it
// was dispatched at, and returns the iterator execution should continue
// from: the same pc means "advance one", any other cell means "jump there".
type BuiltinFunc func(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error)

// Node is the compiled IR atom (the spec's "CompiledNode"): created by the
// compiler in response to one tokenized word, appended to the body of the
// dictionary entry currently being defined, and destroyed only by a whole
// engine Reset.
type Node struct {
	Kind NodeKind

	Int  int    // Literal value; Constant's frozen value.
	Str  string // String literal text; CFunc's name (matched by isControlWord).
	Slot int    // Variable's memory slot index.

	Entry *Entry      // Constant/Variable/Word back-reference.
	Fn    BuiltinFunc // CFunc's native implementation.
}

func makeLiteral(n int) Node { return Node{Kind: NodeLiteral, Int: n} }
func makeString(s string) Node { return Node{Kind: NodeString, Str: s} }
func makeConstant(e *Entry, value int) Node {
	return Node{Kind: NodeConstant, Entry: e, Int: value}
}
func makeVariable(e *Entry, slot int) Node {
	return Node{Kind: NodeVariable, Entry: e, Slot: slot}
}
func makeCFunc(name string, fn BuiltinFunc) Node {
	return Node{Kind: NodeCFunc, Str: name, Fn: fn}
}
func makeWord(e *Entry) Node { return Node{Kind: NodeWord, Entry: e} }

// isControlWord reports whether this node is the built-in named name. The
// execution loop uses it to recognise IF, ELSE and THEN while a branch is
// being skipped: a depth-zero ELSE or THEN still executes so the if-state
// stack stays balanced, while nested ones inside a dead branch are counted
// and skipped.
func (n Node) isControlWord(name string) bool {
	return n.Kind == NodeCFunc && strings.EqualFold(n.Str, name)
}

// Execute dispatches this node. On success it returns the iterator the
// execution loop should continue from (see BuiltinFunc); on failure the
// phrase aborts entirely.
func (n Node) Execute(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	switch n.Kind {
	case NodeLiteral:
		if err := e.dataPush(litValue(n.Int)); err != nil {
			return nil, err
		}
		return pc, nil

	case NodeString:
		e.print(n.Str)
		return pc, nil

	case NodeConstant:
		if err := e.dataPush(litValue(n.Int)); err != nil {
			return nil, err
		}
		return pc, nil

	case NodeVariable:
		if err := e.dataPush(refValue(n.Entry)); err != nil {
			return nil, err
		}
		return pc, nil

	case NodeCFunc:
		return n.Fn(e, pc)

	case NodeWord:
		if err := e.runFullPhrase(n.Entry.Body); err != nil {
			return nil, err
		}
		return pc, nil

	default:
		return nil, fmt.Errorf("cannot execute node of kind %v", n.Kind)
	}
}
