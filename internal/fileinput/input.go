// Package fileinput sequences one or more source readers (a loaded Forth
// source file, then an interactive stdin) behind a single line-at-a-time
// interface, tracking which reader and line number produced the text so the
// engine can annotate a failure with "name:line:" the way a real file loader
// would.
package fileinput

import (
	"fmt"
	"io"

	"github.com/ttsiodras/MiniForth/internal/runeio"
)

// Location names a line within a named input stream.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }

// Input reads lines sequentially out of a queue of readers: every reader is
// drained to EOF before the next one starts, and each line handed back is
// tagged with the Location it came from.
type Input struct {
	rr    io.RuneReader
	queue []io.Reader
	name  string
	line  int
}

// NewInput queues readers in order; the first is read from first.
func NewInput(readers ...io.Reader) *Input {
	return &Input{queue: readers}
}

// Push appends another reader to the back of the queue, letting a caller add
// the interactive stdin source only after any source files are queued up.
func (in *Input) Push(r io.Reader) {
	in.queue = append(in.queue, r)
}

// ReadLine returns the next line (without its terminating newline) and the
// Location it was read from. err is io.EOF once every queued reader is
// exhausted.
func (in *Input) ReadLine() (string, Location, error) {
	if in.rr == nil && !in.advance() {
		return "", Location{}, io.EOF
	}

	var line []rune
	for {
		r, _, err := in.rr.ReadRune()
		if err == io.EOF {
			loc := Location{in.name, in.line}
			in.rr = nil
			if len(line) == 0 {
				return in.ReadLine()
			}
			return string(line), loc, nil
		}
		if err != nil {
			return "", Location{}, err
		}
		if r == '\n' {
			loc := Location{in.name, in.line}
			in.line++
			return string(line), loc, nil
		}
		line = append(line, r)
	}
}

func (in *Input) advance() bool {
	in.rr = nil
	for len(in.queue) > 0 {
		r := in.queue[0]
		in.queue = in.queue[1:]
		in.rr = runeio.NewReader(r)
		in.name = nameOf(r)
		in.line = 1
		return true
	}
	return false
}

func nameOf(r io.Reader) string {
	if named, ok := r.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "<stdin>"
}
