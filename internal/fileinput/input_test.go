package fileinput

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type named struct {
	io.Reader
	name string
}

func (n named) Name() string { return n.name }

func TestReadLineTracksLocationAcrossSources(t *testing.T) {
	in := NewInput(named{strings.NewReader("DUP *\n;\n"), "a.fs"})
	in.Push(named{strings.NewReader("5 SQUARE .\n"), "b.fs"})

	line, loc, err := in.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "DUP *", line)
	require.Equal(t, Location{"a.fs", 1}, loc)

	line, loc, err = in.ReadLine()
	require.NoError(t, err)
	require.Equal(t, ";", line)
	require.Equal(t, Location{"a.fs", 2}, loc)

	line, loc, err = in.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "5 SQUARE .", line)
	require.Equal(t, Location{"b.fs", 1}, loc)

	_, _, err = in.ReadLine()
	require.ErrorIs(t, err, io.EOF)
}

func TestReadLineHandlesMissingTrailingNewline(t *testing.T) {
	in := NewInput(named{strings.NewReader("3 4 +"), "a.fs"})

	line, loc, err := in.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "3 4 +", line)
	require.Equal(t, Location{"a.fs", 1}, loc)

	_, _, err = in.ReadLine()
	require.ErrorIs(t, err, io.EOF)
}

func TestReadLineOnEmptyInputIsImmediateEOF(t *testing.T) {
	in := NewInput()
	_, _, err := in.ReadLine()
	require.ErrorIs(t, err, io.EOF)
}

func TestPushAfterConstructionQueuesAtTheEnd(t *testing.T) {
	in := NewInput(named{strings.NewReader("FIRST\n"), "a.fs"})
	in.Push(named{strings.NewReader("SECOND\n"), "b.fs"})

	line, _, err := in.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "FIRST", line)

	line, _, err = in.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "SECOND", line)
}
