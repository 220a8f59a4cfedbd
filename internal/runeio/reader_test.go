package runeio

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewReaderWrapsAPlainReaderWithRuneSupport(t *testing.T) {
	// strings.Reader already reads runes; hide that behind a plain io.Reader
	// so NewReader has to wrap it.
	r := NewReader(struct{ io.Reader }{strings.NewReader("hi")})

	first, _, err := r.ReadRune()
	require.NoError(t, err)
	require.Equal(t, 'h', first)

	second, _, err := r.ReadRune()
	require.NoError(t, err)
	require.Equal(t, 'i', second)
}

func TestNewReaderReturnsAlreadyCapableReaderUnchanged(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("x"))
	require.Same(t, br, NewReader(br))
}

type namedReaderStub struct{ *strings.Reader }

func (namedReaderStub) Name() string { return "stub" }

func TestNewReaderPreservesName(t *testing.T) {
	r := NewReader(namedReaderStub{strings.NewReader("y")})
	named, ok := r.(interface{ Name() string })
	require.True(t, ok)
	require.Equal(t, "stub", named.Name())
}
