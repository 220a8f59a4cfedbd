// Package runeio adapts an arbitrary io.Reader into one that can also read
// a single rune at a time, which is what a token-at-a-time Forth reader
// needs when pulling source out of a loaded file instead of a pre-split
// line.
package runeio

import (
	"bufio"
	"io"
)

// Reader is an io.Reader that also supports reading one rune at a time.
type Reader interface {
	io.Reader
	io.RuneReader
}

// NewReader returns a Reader view of r. If r already implements Reader it is
// returned unchanged; otherwise it is wrapped in a bufio.Reader. A Name()
// string method on r, if present, is preserved on the result so a caller can
// still recover a display name for error messages.
func NewReader(r io.Reader) Reader {
	if impl, ok := r.(Reader); ok {
		return impl
	}
	rr := runeReader{r, bufio.NewReader(r)}
	if named, ok := r.(interface{ Name() string }); ok {
		return namedReader{rr, named.Name()}
	}
	return rr
}

type runeReader struct {
	io.Reader
	io.RuneReader
}

type namedReader struct {
	Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }
