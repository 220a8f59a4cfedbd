package main

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ttsiodras/MiniForth/internal/arena"
)

// isNumber parses a token as a literal integer, honoring the "$" hex and
// "%" binary prefixes (component I). Decimal is the default; an original
// MiniForth only had "$" hex, "%" binary is a supplemented feature (see
// SPEC_FULL.md) carried over from the rest of the pack's numeric-literal
// conventions.
func isNumber(word string) (int, bool) {
	if word == "" {
		return 0, false
	}
	base := 10
	digits := word
	switch word[0] {
	case '$':
		base = 16
		digits = word[1:]
	case '%':
		base = 2
		digits = word[1:]
	}
	if digits == "" {
		return 0, false
	}
	val, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, false
	}
	return int(val), true
}

// isStringOpener reports whether tok starts a ." ... " string literal.
func isStringOpener(tok string) bool { return tok == `."` }

// closeQuote reports whether tok closes an open string literal, and
// returns the text that should still be appended from tok (everything up
// to, but excluding, the terminating quote).
func closeQuote(tok string) (text string, closed bool) {
	if strings.HasSuffix(tok, `"`) {
		return strings.TrimSuffix(tok, `"`), true
	}
	return tok, false
}

// ParseLine tokenizes and processes one input line, driving the parser's
// small state machine (component I): defining words, variables, constants
// and string literals, or interpreting a phrase directly.
func (e *Engine) ParseLine(line string) error {
	tokens := strings.Fields(line)
	for _, tok := range tokens {
		if tok == `\` {
			break
		}
		if err := e.parseToken(tok); err != nil {
			if errors.Is(err, ErrOutOfMemory) {
				e.halt(err)
			}
			return withToken(err, tok)
		}
	}
	return e.checkUnterminated()
}

// checkUnterminated mirrors Forth::parse_line's end-of-line checks. Per
// spec.md §7, "all awaiting_* flags persist" across this check: an
// unfinished variable/constant/string definition reports an error for this
// line but carries its awaiting_* flag into the next parse_line call, the
// same way original_source/src/miniforth.cpp:438-442 reports the error
// without ever clearing definingVariable/definingConstant/definingString
// on that path. An open colon-definition (not an awaiting_* flag) is
// likewise allowed to continue on the next line.
func (e *Engine) checkUnterminated() error {
	switch {
	case e.awaitingVar:
		return kindErrorf(ErrUnterminatedDefinition, "You didn't finish defining the variable...")
	case e.awaitingConst:
		return kindErrorf(ErrUnterminatedDefinition, "You didn't finish defining the constant...")
	case e.awaitingString:
		return kindErrorf(ErrUnterminatedDefinition, "You didn't finish defining the string! Enter the missing quote.")
	case e.compiling:
		e.print("You didn't finish defining the word! Don't forget the ending ';'\n")
		return nil
	default:
		return nil
	}
}

// parseToken dispatches one token per spec.md §4.I's numbered steps: the
// standalone ":"/";" tokens (steps 2-3) are checked before "currently
// defining, capture the name" (step 4), matching
// original_source/src/miniforth.cpp:358-361's own ordering — so a
// pathological ": ; ..." closes a nameless definition at the ";" instead
// of swallowing ";" as the word's literal name.
func (e *Engine) parseToken(tok string) error {
	e.logf(">", "token %q compiling=%v", tok, e.compiling)
	switch {
	case tok == ":":
		if e.compiling {
			return kindErrorf(ErrWrongMode, "Already in compiling mode...")
		}
		e.compiling = true
		return nil
	case tok == ";":
		return e.endDefinition()
	case e.compiling && e.defEntry == nil:
		return e.beginDefinition(tok)
	case e.compiling:
		return e.compileWord(tok)
	default:
		return e.interpretWord(tok)
	}
}

func (e *Engine) beginDefinition(tok string) error {
	body := arena.NewList(e.nodeFree)
	entry, err := e.dict.Define(e.pool.Intern(tok), body)
	if err != nil {
		return err
	}
	e.defEntry = entry
	return nil
}

func (e *Engine) endDefinition() error {
	if !e.compiling {
		return kindErrorf(ErrWrongMode, "Not in compiling mode...")
	}
	e.compiling = false
	defEntry := e.defEntry
	e.defEntry = nil
	switch {
	case e.awaitingVar:
		return kindErrorf(ErrUnterminatedDefinition, "You didn't finish defining the variable...")
	case e.awaitingConst:
		return kindErrorf(ErrUnterminatedDefinition, "You didn't finish defining the constant...")
	case e.awaitingString:
		e.awaitingString = false
		return kindErrorf(ErrUnterminatedDefinition, "You didn't finish defining the string! Enter the missing quote.")
	}
	if defEntry != nil {
		defEntry.Body.Reverse()
	}
	return nil
}

// compileWord implements Forth::compile_word: it turns one token into a
// compiled Node appended to the word currently being defined.
func (e *Engine) compileWord(tok string) error {
	if !e.awaitingString && isStringOpener(tok) {
		e.awaitingString = true
		e.stringBuf.Reset()
		return nil
	}
	if e.awaitingString {
		text, closed := closeQuote(tok)
		if e.stringBuf.Len() > 0 && text != "" {
			e.stringBuf.WriteByte(' ')
		}
		e.stringBuf.WriteString(text)
		if closed {
			e.awaitingString = false
			_, err := e.defEntry.Body.PushBack(makeString(e.pool.Intern(e.stringBuf.String())))
			return err
		}
		return nil
	}

	if n, ok := isNumber(tok); ok {
		_, err := e.defEntry.Body.PushBack(makeLiteral(n))
		return err
	}

	entry := e.dict.Lookup(tok)
	if entry == nil {
		return kindErrorf(ErrUnknownWord, "Unknown word")
	}
	_, err := e.defEntry.Body.PushBack(compiledNodeFor(entry))
	return err
}

// compiledNodeFor inlines a built-in's single CFunc node directly into the
// word being compiled, rather than wrapping it in a NodeWord indirection.
// This matters beyond a small dispatch saving: DO/LOOP/I/J need the
// enclosing body's own program counter to set up and follow backward
// jumps, and IF/ELSE/THEN need to appear as NodeCFunc so the execution
// loop's isControlWord check can exempt them from IF-skip logic. A
// NodeWord wrapping a nested one-node body would hide both behind an
// unrelated PC and an unrelated Kind. User-defined, multi-node words still
// go through makeWord, which is exactly the indirection they need.
func compiledNodeFor(entry *Entry) Node {
	if head := entry.Body.Begin(); head != nil && head.Next() == nil && head.Value.Kind == NodeCFunc {
		return head.Value
	}
	return makeWord(entry)
}

// interpretWord implements Forth::interpret: execution of one token
// outside of a colon-definition. The bare token "reset" (step 8 of
// spec.md §4.I's dispatch, also listed among the reserved tokens in §6)
// reinitializes the whole engine via Engine.Reset rather than naming a
// built-in or dictionary word.
func (e *Engine) interpretWord(tok string) error {
	switch {
	case !e.awaitingVar && !e.awaitingConst && !e.awaitingString && strings.EqualFold(tok, "variable"):
		if e.data.Empty() {
			return kindErrorf(ErrEmptyStack, "You forgot to initialise the variable...")
		}
		e.awaitingVar = true
		return nil

	case !e.awaitingVar && !e.awaitingConst && !e.awaitingString && strings.EqualFold(tok, "constant"):
		if e.data.Empty() {
			return kindErrorf(ErrEmptyStack, "You forgot to initialise the constant...")
		}
		e.awaitingConst = true
		return nil

	case e.awaitingVar:
		return e.finishVariable(tok)

	case e.awaitingConst:
		return e.finishConstant(tok)

	case !e.awaitingString && isStringOpener(tok):
		e.awaitingString = true
		e.stringBuf.Reset()
		return nil

	case e.awaitingString:
		text, closed := closeQuote(tok)
		if e.stringBuf.Len() > 0 && text != "" {
			e.stringBuf.WriteByte(' ')
		}
		e.stringBuf.WriteString(text)
		if closed {
			e.awaitingString = false
			e.print(e.stringBuf.String())
		}
		return nil

	case strings.EqualFold(tok, "reset"):
		e.Reset()
		return nil

	default:
		if n, ok := isNumber(tok); ok {
			return e.dataPush(litValue(n))
		}
		entry := e.dict.Lookup(tok)
		if entry == nil {
			return kindErrorf(ErrUnknownWord, "No such symbol found")
		}
		if isControlFlowOnly(entry) {
			return kindErrorf(ErrWrongMode, "%s only makes sense inside a word definition", entry.Name)
		}
		return e.runFullPhrase(entry.Body)
	}
}

// isControlFlowOnly reports whether entry is one of the control-flow
// built-ins, which rely on the enclosing compiled body's own program
// counter (backward jumps for LOOP, IF-skip exemption for ELSE/THEN) and
// so cannot be driven meaningfully from the top-level interpreter, which
// has no compiled body of its own to jump within.
func isControlFlowOnly(entry *Entry) bool {
	switch strings.ToUpper(entry.Name) {
	case "DO", "LOOP", "I", "J", "IF", "ELSE", "THEN":
		return true
	default:
		return false
	}
}

func (e *Engine) finishVariable(name string) error {
	e.awaitingVar = false
	value, err := e.evaluateTop(kindErrorf(ErrEmptyStack, "Failure computing variable initial value..."))
	if err != nil {
		return err
	}
	slot, err := e.allocSlot()
	if err != nil {
		return err
	}
	body := arena.NewList(e.nodeFree)
	entry, err := e.dict.Define(e.pool.Intern(name), body)
	if err != nil {
		return err
	}
	if _, err := body.PushBack(makeVariable(entry, slot)); err != nil {
		return err
	}
	e.memory[slot] = value
	return nil
}

func (e *Engine) finishConstant(name string) error {
	e.awaitingConst = false
	value, err := e.evaluateTop(kindErrorf(ErrEmptyStack, "Failure computing constant..."))
	if err != nil {
		return err
	}
	body := arena.NewList(e.nodeFree)
	entry, err := e.dict.Define(e.pool.Intern(name), body)
	if err != nil {
		return err
	}
	if _, err := body.PushBack(makeConstant(entry, value)); err != nil {
		return err
	}
	return nil
}
