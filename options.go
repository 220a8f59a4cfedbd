package main

import (
	"io"

	"github.com/ttsiodras/MiniForth/internal/arena"
	"github.com/ttsiodras/MiniForth/internal/flushio"
)

// EngineOption configures an Engine at construction time, the same
// functional-options shape gothird's api.go/options.go use for its VM.
type EngineOption interface {
	apply(e *Engine)
}

type engineOptionFunc func(e *Engine)

func (f engineOptionFunc) apply(e *Engine) { f(e) }

// EngineOptions folds a slice of options into a single one, applied in
// order; later options win over earlier ones when they touch the same
// field.
func EngineOptions(opts ...EngineOption) EngineOption {
	return engineOptionFunc(func(e *Engine) {
		for _, opt := range opts {
			opt.apply(e)
		}
	})
}

var defaultEngineOptions = EngineOptions(
	WithArenaSize(0),
	WithMemoryCells(1024),
	WithOutput(nil),
)

// WithArenaSize bounds the arena's allocation budget in bytes. Zero (the
// default) means unbounded, matching arena.NewPool's own convention.
func WithArenaSize(bytes int) EngineOption {
	return engineOptionFunc(func(e *Engine) {
		e.pool = arena.NewPool(bytes)
	})
}

// WithMemoryCells sets the number of raw integer cells backing VARIABLE
// storage.
func WithMemoryCells(cells int) EngineOption {
	return engineOptionFunc(func(e *Engine) {
		e.memCap = cells
	})
}

// WithOutput directs "." "CR" "WORDS" etc. output to w. A nil w (the
// default) discards output, which is what tests generally want. w is
// wrapped in a flushio.WriteFlusher so a real file or os.Stdout gets
// buffered and flushed once per REPL line, while an in-memory test buffer
// is written through directly.
func WithOutput(w io.Writer) EngineOption {
	return engineOptionFunc(func(e *Engine) {
		if w == nil {
			e.out = nil
			return
		}
		e.out = flushio.NewWriteFlusher(w)
	})
}

// WithTee adds an additional output sink alongside whatever WithOutput
// already configured, e.g. mirroring a session to a trace file. With no
// output configured yet, w becomes the only sink; a WithOutput applied
// after WithTee replaces the whole sink, tee included.
func WithTee(w io.Writer) EngineOption {
	return engineOptionFunc(func(e *Engine) {
		extra := flushio.NewWriteFlusher(w)
		if e.out == nil {
			e.out = extra
			return
		}
		e.out = flushio.WriteFlushers(e.out, extra)
	})
}

// WithLogf installs a printf-shaped logging sink, grounded on gothird's
// internal/logio.Logger usage in main.go. A nil logfn (the default)
// disables logging entirely.
func WithLogf(logfn func(mess string, args ...interface{})) EngineOption {
	return engineOptionFunc(func(e *Engine) {
		e.logfn = logfn
	})
}

// WithRawMemoryAccess enables the @/! raw-integer-address mode. It is
// disabled by default; see SPEC_FULL.md's REDESIGN FLAGS.
func WithRawMemoryAccess(enabled bool) EngineOption {
	return engineOptionFunc(func(e *Engine) {
		e.rawMemoryAccess = enabled
	})
}
