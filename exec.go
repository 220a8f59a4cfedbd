package main

import "github.com/ttsiodras/MiniForth/internal/arena"

// LoopFrame is one DO...LOOP activation (component "control-state stacks").
type LoopFrame struct {
	Begin       int
	End         int
	Current     int
	FirstBodyPC *arena.Cell[Node]
}

// IfFrame is one IF...[ELSE]...THEN activation. Per the spec's REDESIGN
// FLAGS, InsideBody is carried per-frame rather than as a single global
// flag shared across nesting levels, which is what the original source's
// inside_if_body design got wrong for nested constructs.
//
// SkipDepth counts IF/THEN nesting encountered while this frame's own
// branch is being skipped: a nested IF inside a dead branch never
// evaluates its condition or pushes its own frame (there may be nothing
// valid on the stack to pop), so the execution loop just counts it and
// swallows its ELSE/THEN as plain dead tokens until the matching THEN
// brings SkipDepth back to zero.
type IfFrame struct {
	WasTrue    bool
	InsideBody bool
	SkipDepth  int
}

func (f IfFrame) skip() bool {
	return (f.InsideBody && !f.WasTrue) || (!f.InsideBody && f.WasTrue)
}

// runFullPhrase walks body's cells from begin to end, honoring IF/ELSE
// skip state and LOOP/jump-driven PC changes (component H).
func (e *Engine) runFullPhrase(body *arena.List[Node]) error {
	pc := body.Begin()
	for pc != body.End() {
		node := pc.Value

		if top := e.ifStates.Begin(); top != nil && top.Value.skip() {
			switch {
			case node.isControlWord("IF"):
				top.Value.SkipDepth++
				pc = pc.Next()
				continue
			case node.isControlWord("THEN") && top.Value.SkipDepth > 0:
				top.Value.SkipDepth--
				pc = pc.Next()
				continue
			case node.isControlWord("ELSE") && top.Value.SkipDepth > 0:
				pc = pc.Next()
				continue
			case node.isControlWord("THEN"), node.isControlWord("ELSE"):
				// Depth zero: this one closes/toggles our own frame, so
				// fall through to a real dispatch below.
			default:
				pc = pc.Next()
				continue
			}
		}

		next, err := node.Execute(e, pc)
		if err != nil {
			return err
		}
		if next == pc {
			pc = pc.Next()
		} else {
			pc = next
		}
	}
	return nil
}
