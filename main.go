// Command MiniForth runs a small, memory-bounded Forth-family interpreter:
// a line-oriented REPL that compiles colon-definitions, variables and
// constants into an arena-backed dictionary and executes them against a
// single data stack. Any files named on the command line are loaded as
// source before the interpreter drops into interactive stdin.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ttsiodras/MiniForth/internal/fileinput"
	"github.com/ttsiodras/MiniForth/internal/logio"
	"github.com/ttsiodras/MiniForth/internal/panicerr"
)

func main() {
	var (
		arenaSize int
		memCells  int
		trace     bool
		dump      bool
		rawMem    bool
	)
	flag.IntVar(&arenaSize, "arena-size", 0, "bound the interpreter's arena allocator in bytes (0 = unbounded)")
	flag.IntVar(&memCells, "mem-cells", 1024, "number of integer cells backing VARIABLE storage")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.BoolVar(&dump, "dump", false, "print an arena/dictionary dump after each line")
	flag.BoolVar(&rawMem, "raw-memory-access", false, "allow @/! to address raw memory cells by integer")
	flag.Parse()

	log := logio.New(os.Stderr)
	defer os.Exit(log.ExitCode())

	opts := []EngineOption{
		WithArenaSize(arenaSize),
		WithMemoryCells(memCells),
		WithOutput(os.Stdout),
		WithRawMemoryAccess(rawMem),
	}
	if trace {
		opts = append(opts, WithLogf(log.Leveledf("TRACE")))
	}
	e := New(opts...)

	input, err := loadSources(flag.Args())
	if err != nil {
		log.ErrorIf(err)
		return
	}
	input.Push(namedStdin{os.Stdin})

	if err := repl(e, input, dump); err != nil {
		log.ErrorIf(err)
	}
}

// namedStdin overrides os.Stdin's own Name() (which reports a platform path
// like "/dev/stdin") so fileinput reports interactive lines under a plain
// "<stdin>" tag, distinguishing them from a loaded source file's lines.
type namedStdin struct{ io.Reader }

func (namedStdin) Name() string { return "<stdin>" }

// loadSources opens every named file in order, queuing them ahead of
// whatever interactive source the caller pushes afterward.
func loadSources(paths []string) (*fileinput.Input, error) {
	var readers []io.Reader
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		readers = append(readers, f)
	}
	return fileinput.NewInput(readers...), nil
}

// repl drives the read-eval-print loop: one ParseLine call per input line,
// reporting " OK" on success or "[x] <message>" on failure, matching
// MiniForth's line-oriented interactive convention. Lines loaded from a
// named source file are prefixed with their file:line location; lines read
// interactively are not.
func repl(e *Engine, input *fileinput.Input, dump bool) error {
	for {
		line, loc, err := input.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		reportErr := panicerr.Recover("parse-line", func() error {
			return e.ParseLine(line)
		})

		prefix := ""
		if loc.Name != "" && loc.Name != "<stdin>" {
			prefix = loc.String() + ": "
		}

		switch {
		case reportErr == nil:
			e.print(" OK\n")
		case panicerr.IsPanic(reportErr):
			var halt haltError
			if errors.As(reportErr, &halt) {
				// Genuine engine halt (arena exhaustion): report and die.
				e.print(fmt.Sprintf("%s[x] %v\n", prefix, halt.error))
				e.Flush()
				return halt.error
			}
			e.print(fmt.Sprintf("%s[x] %v\n", prefix, reportErr))
		default:
			e.print(fmt.Sprintf("%s[x] %v\n", prefix, reportErr))
		}

		if dump {
			dumpState(e)
		}
		e.Flush()
	}
}

func dumpState(e *Engine) {
	stats := e.pool.Stats()
	e.print(fmt.Sprintf("; arena offset=%d free=%d\n", stats.Offset, stats.FreeBytes))
	e.print(fmt.Sprintf("; words: %v\n", e.dict.Names()))
}
