package main

import (
	"fmt"
	"strings"

	"github.com/ttsiodras/MiniForth/internal/arena"
)

// Built-in error messages are adopted verbatim from the MiniForth original
// where spec.md leaves exact wording open (see SPEC_FULL.md's
// "Supplemented Features").
var (
	errArithmeticOperands = kindErrorf(ErrTypeMismatch, "Arithmetic operations:\n\t'+' '-' '*' '/' '*/'\n...need arguments that evaluate to a number.")
	errNothingOnStack     = kindErrorf(ErrEmptyStack, "Nothing on the stack...")
	errDivisionByZero     = kindErrorf(ErrDivisionByZero, "Division by zero...")
	errAtNeedsVariable    = kindErrorf(ErrTypeMismatch, "@ needs a variable on the stack")
	errBangNeedsBoth      = kindErrorf(ErrTypeMismatch, "! needs a variable and a value on the stack")
	errBangValue          = kindErrorf(ErrEmptyStack, "Failed to evaluate value for !...")
)

func rawAccessDisabled(op string) error {
	return kindErrorf(ErrTypeMismatch, "%s needs a variable on the stack (raw memory access is disabled)", op)
}

// evaluateTop pops the data stack top; a LIT resolves immediately, a REF is
// resolved by running its entry's body and trying again, looping (rather
// than recursing, see SPEC_FULL.md) until a LIT bubbles up or the stack
// runs dry. A REF to a variable never resolves to a number by itself
// (running its body just pushes the same REF again; the value is only
// reachable through @), so that case fails immediately with the caller's
// error, restoring the popped REF.
func (e *Engine) evaluateTop(onEmpty error) (int, error) {
	v, err := e.dataPop()
	if err != nil {
		return 0, onEmpty
	}
	for {
		if v.isLit() {
			return v.Int, nil
		}
		if v.Ref == nil {
			return 0, onEmpty
		}
		if head := v.Ref.Body.Begin(); head != nil && head.Value.Kind == NodeVariable {
			_ = e.dataPush(v)
			return 0, onEmpty
		}
		if err := e.runFullPhrase(v.Ref.Body); err != nil {
			return 0, err
		}
		next, err := e.dataPop()
		if err != nil {
			return 0, onEmpty
		}
		v = next
	}
}

// arithOperands pops the top two operands (evaluating REFs), restoring the
// first on a second-pop failure so the stack's prior prefix survives.
func (e *Engine) arithOperands() (a, b int, err error) {
	a, err = e.evaluateTop(errArithmeticOperands)
	if err != nil {
		return 0, 0, err
	}
	b, err = e.evaluateTop(errArithmeticOperands)
	if err != nil {
		_ = e.dataPush(litValue(a))
		return 0, 0, err
	}
	return a, b, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func opAdd(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	a, b, err := e.arithOperands()
	if err != nil {
		return nil, err
	}
	_ = e.dataPush(litValue(b + a))
	return pc, nil
}

func opSub(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	a, b, err := e.arithOperands()
	if err != nil {
		return nil, err
	}
	_ = e.dataPush(litValue(b - a))
	return pc, nil
}

func opMul(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	a, b, err := e.arithOperands()
	if err != nil {
		return nil, err
	}
	_ = e.dataPush(litValue(b * a))
	return pc, nil
}

func opDiv(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	a, b, err := e.arithOperands()
	if err != nil {
		return nil, err
	}
	if a == 0 {
		_ = e.dataPush(litValue(b))
		return nil, errDivisionByZero
	}
	_ = e.dataPush(litValue(b / a))
	return pc, nil
}

func opMod(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	a, b, err := e.arithOperands()
	if err != nil {
		return nil, err
	}
	if a == 0 {
		_ = e.dataPush(litValue(b))
		return nil, errDivisionByZero
	}
	_ = e.dataPush(litValue(b % a))
	return pc, nil
}

// opMulDiv implements "*/": pops c, b, a (top first) and pushes (a*b)/c
// using a widened int64 intermediate.
func opMulDiv(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	c, err := e.evaluateTop(errArithmeticOperands)
	if err != nil {
		return nil, err
	}
	b, err := e.evaluateTop(errArithmeticOperands)
	if err != nil {
		_ = e.dataPush(litValue(c))
		return nil, err
	}
	a, err := e.evaluateTop(errArithmeticOperands)
	if err != nil {
		_ = e.dataPush(litValue(b))
		_ = e.dataPush(litValue(c))
		return nil, err
	}
	if c == 0 {
		_ = e.dataPush(litValue(a))
		_ = e.dataPush(litValue(b))
		_ = e.dataPush(litValue(c))
		return nil, errDivisionByZero
	}
	result := int(int64(a) * int64(b) / int64(c))
	_ = e.dataPush(litValue(result))
	return pc, nil
}

func opEq(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	a, b, err := e.arithOperands()
	if err != nil {
		return nil, err
	}
	_ = e.dataPush(litValue(boolInt(b == a)))
	return pc, nil
}

func opGt(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	a, b, err := e.arithOperands()
	if err != nil {
		return nil, err
	}
	_ = e.dataPush(litValue(boolInt(b > a)))
	return pc, nil
}

func opLt(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	a, b, err := e.arithOperands()
	if err != nil {
		return nil, err
	}
	_ = e.dataPush(litValue(boolInt(b < a)))
	return pc, nil
}

// opDot pops and prints a value with a conventional leading separator
// space; if dot_width was set by a preceding U.R, pads to that width and
// resets it.
func opDot(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	v, err := e.evaluateTop(errNothingOnStack)
	if err != nil {
		return nil, err
	}
	digits := fmt.Sprintf("%d", v)
	pad := e.dotWidth - len(digits)
	if pad < 0 {
		pad = 0
	}
	e.print(" " + strings.Repeat(" ", pad) + digits)
	e.dotWidth = 0
	return pc, nil
}

func opCR(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	e.print("\n")
	return pc, nil
}

// opURWidth implements "U.R": it pops a non-negative width and stores it
// for the next "." rather than formatting anything itself.
func opURWidth(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	v, err := e.evaluateTop(errNothingOnStack)
	if err != nil {
		return nil, err
	}
	if v < 0 {
		return nil, kindErrorf(ErrTypeMismatch, "U.R width must be non-negative")
	}
	e.dotWidth = v
	return pc, nil
}

// opSwap exchanges the top two stack elements, restoring the first pop on
// failure.
func opSwap(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	a, err := e.dataPop()
	if err != nil {
		return nil, errNothingOnStack
	}
	b, err := e.dataPop()
	if err != nil {
		_ = e.dataPush(a)
		return nil, errNothingOnStack
	}
	_ = e.dataPush(a)
	_ = e.dataPush(b)
	return pc, nil
}

// opRot rotates the top three so the former top lands at position three
// (the deepest of the three), restoring partial pops on failure.
func opRot(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	a, err := e.dataPop()
	if err != nil {
		return nil, errNothingOnStack
	}
	b, err := e.dataPop()
	if err != nil {
		_ = e.dataPush(a)
		return nil, errNothingOnStack
	}
	c, err := e.dataPop()
	if err != nil {
		_ = e.dataPush(b)
		_ = e.dataPush(a)
		return nil, errNothingOnStack
	}
	_ = e.dataPush(a)
	_ = e.dataPush(c)
	_ = e.dataPush(b)
	return pc, nil
}

func opDup(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	v, err := e.dataPop()
	if err != nil {
		return nil, errNothingOnStack
	}
	_ = e.dataPush(v)
	_ = e.dataPush(v)
	return pc, nil
}

func opDrop(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	if _, err := e.dataPop(); err != nil {
		return nil, errNothingOnStack
	}
	return pc, nil
}

// opDotS prints the stack bottom to top without permanently mutating it,
// followed by the arena's allocation stats.
func opDotS(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	vals := e.data.Slice() // head (top) .. tail (bottom)
	for i, j := 0, len(vals)-1; i < j; i, j = i+1, j-1 {
		vals[i], vals[j] = vals[j], vals[i]
	}

	var sb strings.Builder
	sb.WriteString("[ ")
	for _, v := range vals {
		sb.WriteString(v.String())
		sb.WriteString(" ")
	}
	sb.WriteString("] ")

	stats := e.pool.Stats()
	fmt.Fprintf(&sb, "(arena offset=%d free=%d)", stats.Offset, stats.FreeBytes)
	e.print(sb.String())
	return pc, nil
}

// opAt implements "@". A REF resolves through its entry's first body node,
// which must be VARIABLE or CONSTANT. A LIT is only honored as a raw
// address when the engine's raw-memory-access capability is enabled.
func opAt(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	v, err := e.dataPop()
	if err != nil {
		return nil, errAtNeedsVariable
	}

	if v.isLit() {
		if !e.rawMemoryAccess {
			_ = e.dataPush(v)
			return nil, rawAccessDisabled("@")
		}
		if v.Int < 0 || v.Int >= len(e.memory) {
			return nil, kindErrorf(ErrTypeMismatch, "@ address out of range")
		}
		_ = e.dataPush(litValue(e.memory[v.Int]))
		return pc, nil
	}

	head, ok := variableOrConstant(v.Ref)
	if !ok {
		_ = e.dataPush(v)
		return nil, errAtNeedsVariable
	}
	if head.Kind == NodeVariable {
		_ = e.dataPush(litValue(e.memory[head.Slot]))
	} else {
		_ = e.dataPush(litValue(head.Int))
	}
	return pc, nil
}

// opBang implements "!": the top of stack names the target (a VARIABLE REF,
// or a raw address when enabled), and the value underneath it is stored.
func opBang(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	target, err := e.dataPop()
	if err != nil {
		return nil, errBangNeedsBoth
	}

	if target.isLit() {
		if !e.rawMemoryAccess {
			_ = e.dataPush(target)
			return nil, rawAccessDisabled("!")
		}
		val, err := e.evaluateTop(errBangValue)
		if err != nil {
			_ = e.dataPush(target)
			return nil, err
		}
		if target.Int < 0 || target.Int >= len(e.memory) {
			return nil, kindErrorf(ErrTypeMismatch, "! address out of range")
		}
		e.memory[target.Int] = val
		return pc, nil
	}

	head, ok := variableOrConstant(target.Ref)
	if !ok || head.Kind != NodeVariable {
		_ = e.dataPush(target)
		return nil, errBangNeedsBoth
	}
	val, err := e.evaluateTop(errBangValue)
	if err != nil {
		_ = e.dataPush(target)
		return nil, err
	}
	e.memory[head.Slot] = val
	return pc, nil
}

func variableOrConstant(entry *Entry) (Node, bool) {
	if entry == nil || entry.Body.Empty() {
		return Node{}, false
	}
	head := entry.Body.Begin().Value
	if head.Kind != NodeVariable && head.Kind != NodeConstant {
		return Node{}, false
	}
	return head, true
}

// opDo implements "DO": pops begin (top) then end, and pushes a loop frame
// whose first-body PC is the cell right after DO.
func opDo(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	begin, err := e.evaluateTop(errNothingOnStack)
	if err != nil {
		return nil, err
	}
	end, err := e.evaluateTop(errNothingOnStack)
	if err != nil {
		_ = e.dataPush(litValue(begin))
		return nil, err
	}
	frame := LoopFrame{Begin: begin, End: end, Current: begin, FirstBodyPC: pc.Next()}
	if _, err := e.loopStates.PushBack(frame); err != nil {
		e.halt(err)
	}
	return pc, nil
}

// opLoop implements "LOOP": advances the innermost frame's counter, either
// popping the frame and falling through, or jumping back to the frame's
// first body cell.
func opLoop(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	frame := e.loopStates.Begin()
	if frame == nil {
		return nil, kindErrorf(ErrMissingControlFrame, "LOOP without DO")
	}
	frame.Value.Current++
	if frame.Value.Current >= frame.Value.End {
		e.loopStates.PopFront()
		return pc, nil
	}
	return frame.Value.FirstBodyPC, nil
}

func opI(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	frame := e.loopStates.Begin()
	if frame == nil {
		return nil, kindErrorf(ErrMissingControlFrame, "I outside of DO...LOOP")
	}
	_ = e.dataPush(litValue(frame.Value.Current))
	return pc, nil
}

func opJ(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	frame := e.loopStates.Begin()
	if frame == nil || frame.Next() == nil {
		return nil, kindErrorf(ErrMissingControlFrame, "J outside of a nested DO...LOOP")
	}
	_ = e.dataPush(litValue(frame.Next().Value.Current))
	return pc, nil
}

func opIf(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	v, err := e.evaluateTop(errNothingOnStack)
	if err != nil {
		return nil, err
	}
	frame := IfFrame{WasTrue: v != 0, InsideBody: true}
	if _, err := e.ifStates.PushBack(frame); err != nil {
		e.halt(err)
	}
	return pc, nil
}

func opElse(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	top := e.ifStates.Begin()
	if top == nil {
		return nil, kindErrorf(ErrMissingControlFrame, "ELSE without IF")
	}
	top.Value.InsideBody = false
	return pc, nil
}

func opThen(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	if _, ok := e.ifStates.PopFront(); !ok {
		return nil, kindErrorf(ErrMissingControlFrame, "THEN without IF")
	}
	return pc, nil
}

func opWords(e *Engine, pc *arena.Cell[Node]) (*arena.Cell[Node], error) {
	var sb strings.Builder
	for _, name := range e.builtinNames {
		sb.WriteString(name)
		sb.WriteString(" ")
	}
	for _, name := range e.dict.Names() {
		sb.WriteString(name)
		sb.WriteString(" ")
	}
	sb.WriteString("\n")
	e.print(sb.String())
	return pc, nil
}

type builtinDef struct {
	name string
	fn   BuiltinFunc
}

var builtinTable = []builtinDef{
	{"+", opAdd}, {"-", opSub}, {"*", opMul}, {"/", opDiv}, {"MOD", opMod},
	{"*/", opMulDiv}, {"=", opEq}, {">", opGt}, {"<", opLt},
	{".", opDot}, {"CR", opCR}, {"U.R", opURWidth},
	{"SWAP", opSwap}, {"ROT", opRot}, {"DUP", opDup}, {"DROP", opDrop},
	{".S", opDotS}, {"@", opAt}, {"!", opBang},
	{"DO", opDo}, {"LOOP", opLoop}, {"I", opI}, {"J", opJ},
	{"IF", opIf}, {"ELSE", opElse}, {"THEN", opThen},
	{"WORDS", opWords},
}

// seedBuiltins (re)populates the built-in lookup table and dictionary
// entries. Each built-in is a one-node dictionary body, the same shape the
// MiniForth original's constructor gives its c_ops table.
func (e *Engine) seedBuiltins() {
	e.builtins = make(map[string]BuiltinFunc, len(builtinTable))
	e.builtinNames = e.builtinNames[:0]

	for _, def := range builtinTable {
		e.builtins[strings.ToUpper(def.name)] = def.fn
		e.builtinNames = append(e.builtinNames, def.name)

		body := arena.NewList(e.nodeFree)
		if _, err := body.PushBack(makeCFunc(def.name, def.fn)); err != nil {
			e.halt(err)
		}
		if _, err := e.dict.Define(def.name, body); err != nil {
			e.halt(err)
		}
	}
}

func (e *Engine) lookupBuiltin(name string) (BuiltinFunc, bool) {
	fn, ok := e.builtins[strings.ToUpper(name)]
	return fn, ok
}
