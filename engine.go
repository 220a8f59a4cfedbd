package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ttsiodras/MiniForth/internal/arena"
	"github.com/ttsiodras/MiniForth/internal/flushio"
)

// Engine is the process-wide state S: the arena, dictionary, data stack,
// control-state stacks, variable memory, and the parser/compiler's small
// state machine. There is exactly one Engine per REPL; nothing here is
// safe for concurrent use (see spec.md §5) and nothing is created by
// package-level init — Reset is the only entry point that seeds state, so
// construction order never matters.
type Engine struct {
	pool *arena.Pool

	nodeFree  *arena.FreeList[Node]
	entryFree *arena.FreeList[*Entry]
	valueFree *arena.FreeList[Value]
	loopFree  *arena.FreeList[LoopFrame]
	ifFree    *arena.FreeList[IfFrame]

	dict       *Dictionary
	data       *arena.List[Value]
	loopStates *arena.List[LoopFrame]
	ifStates   *arena.List[IfFrame]

	memory   []int
	memCap   int
	nextSlot int

	compiling      bool
	defEntry       *Entry
	awaitingVar    bool
	awaitingConst  bool
	awaitingString bool
	stringBuf      strings.Builder

	dotWidth int

	rawMemoryAccess bool

	builtins     map[string]BuiltinFunc
	builtinNames []string

	out   flushio.WriteFlusher
	logfn func(mess string, args ...interface{})
}

// New constructs an Engine and runs Reset once to seed it.
func New(opts ...EngineOption) *Engine {
	e := &Engine{}
	defaultEngineOptions.apply(e)
	EngineOptions(opts...).apply(e)
	if e.pool == nil {
		e.pool = arena.NewPool(0)
	}
	if e.memCap == 0 {
		e.memCap = 1024
	}
	e.nodeFree = arena.NewFreeList[Node](e.pool)
	e.entryFree = arena.NewFreeList[*Entry](e.pool)
	e.valueFree = arena.NewFreeList[Value](e.pool)
	e.loopFree = arena.NewFreeList[LoopFrame](e.pool)
	e.ifFree = arena.NewFreeList[IfFrame](e.pool)
	e.memory = make([]int, e.memCap)
	e.Reset()
	return e
}

// Reset reinitializes every piece of process-wide state and reseeds the
// dictionary with the built-in operations (component J). It is the only
// place state is ever seeded, and produces a state bitwise-equal to
// just-after-boot.
func (e *Engine) Reset() {
	e.pool.Clear()

	e.dict = newDictionary(e.entryFree)
	e.data = arena.NewList(e.valueFree)
	e.loopStates = arena.NewList(e.loopFree)
	e.ifStates = arena.NewList(e.ifFree)

	for i := range e.memory {
		e.memory[i] = 0
	}
	e.nextSlot = 0

	e.compiling = false
	e.defEntry = nil
	e.awaitingVar = false
	e.awaitingConst = false
	e.awaitingString = false
	e.stringBuf.Reset()
	e.dotWidth = 0

	e.seedBuiltins()
	e.logf("#", "reset: dictionary reseeded with %v built-ins", len(builtinTable))
}

func (e *Engine) logf(mark, mess string, args ...interface{}) {
	if e.logfn == nil {
		return
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	e.logfn("%v %v", mark, mess)
}

func (e *Engine) print(s string) {
	if e.out == nil {
		return
	}
	io.WriteString(e.out, s)
}

// Flush flushes the engine's output sink, if one is configured. A REPL
// driver calls this once per input line so interactive output is visible
// before the next blocking read; in-memory test buffers no-op here.
func (e *Engine) Flush() {
	if e.out == nil {
		return
	}
	e.out.Flush()
}

// halt reports a fatal, unrecoverable condition (arena exhaustion) by
// panicking, mirroring gothird's Core.halt. It is recovered exactly once,
// at the REPL boundary.
func (e *Engine) halt(err error) {
	e.logf("#", "halt error: %v", err)
	panic(haltError{err})
}

func (e *Engine) dataPush(v Value) error {
	if _, err := e.data.PushBack(v); err != nil {
		e.halt(err)
	}
	return nil
}

func (e *Engine) dataPop() (Value, error) {
	v, ok := e.data.PopFront()
	if !ok {
		return Value{}, ErrEmptyStack
	}
	return v, nil
}

// allocSlot reserves the next free variable memory slot.
func (e *Engine) allocSlot() (int, error) {
	if e.nextSlot >= len(e.memory) {
		return 0, ErrOutOfVariableSlots
	}
	slot := e.nextSlot
	e.nextSlot++
	return slot, nil
}
