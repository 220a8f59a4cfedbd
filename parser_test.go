package main

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsNumberDecimalHexBinary(t *testing.T) {
	cases := []struct {
		tok    string
		want   int
		wantOK bool
	}{
		{"0", 0, true},
		{"42", 42, true},
		{"-7", -7, true},
		{"$FF", 255, true},
		{"$ff", 255, true},
		{"%1010", 10, true},
		{"", 0, false},
		{"$", 0, false},
		{"%", 0, false},
		{"DUP", 0, false},
		{"12abc", 0, false},
	}
	for _, tc := range cases {
		n, ok := isNumber(tc.tok)
		require.Equal(t, tc.wantOK, ok, "token %q", tc.tok)
		if tc.wantOK {
			require.Equal(t, tc.want, n, "token %q", tc.tok)
		}
	}
}

func TestNumberRoundTripsThroughPrint(t *testing.T) {
	for _, n := range []int{0, 1, -1, 42, -999, 123456} {
		var out bytes.Buffer
		e := newTestEngine(&out)
		require.NoError(t, e.ParseLine(strconv.Itoa(n)+" ."))
		require.Equal(t, " "+strconv.Itoa(n), out.String())
	}
}

func TestColonRequiresSemicolonToClose(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	require.NoError(t, e.ParseLine(": A"))
	require.True(t, e.compiling, "must still be compiling after an unterminated definition line")
	require.NoError(t, e.ParseLine("1 + ;"))
	require.False(t, e.compiling)
}

func TestSemicolonOutsideDefinitionIsAnError(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	err := e.ParseLine(";")
	require.ErrorIs(t, err, ErrWrongMode)
}

func TestMultiWordStringLiteral(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	require.NoError(t, e.ParseLine(`: GREET ." hello there " ;`))
	require.NoError(t, e.ParseLine("GREET"))
	require.Equal(t, "hello there", out.String())
}

func TestBackslashLineCommentIgnoresRest(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	require.NoError(t, e.ParseLine(`3 4 + . \ this is ignored DROP DROP DROP`))
	require.Equal(t, " 7", out.String())
}

func TestResetTokenReinitializesEngine(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	require.NoError(t, e.ParseLine("42 variable X"))
	require.NoError(t, e.ParseLine(": FOO 1 . ;"))
	require.NoError(t, e.ParseLine("1 2 +"))

	require.NoError(t, e.ParseLine("reset"))

	require.Nil(t, e.dict.Lookup("X"), "user words must not survive the reset token")
	require.Nil(t, e.dict.Lookup("FOO"), "user words must not survive the reset token")
	require.NotNil(t, e.dict.Lookup("DUP"), "built-ins must be reseeded")
	require.True(t, e.data.Empty(), "the data stack must be cleared")

	// case-insensitive, per spec.md §4.I step 8 / §6's reserved tokens.
	require.NoError(t, e.ParseLine("RESET"))
}

func TestAwaitingFlagsPersistAcrossLineBoundaryOnUnterminatedError(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	err := e.ParseLine("42 variable")
	require.ErrorIs(t, err, ErrUnterminatedDefinition)
	require.True(t, e.awaitingVar, "awaiting_var must persist past the erroring line")

	// the next line's token names the variable, exactly as if "variable"
	// and its name had been typed on the same line.
	require.NoError(t, e.ParseLine("X"))
	require.NoError(t, e.ParseLine("X @ ."))
	require.Equal(t, " 42", out.String())
}

func TestLoneSemicolonAfterColonClosesNamelessDefinition(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	// ";" right after ":" must close the (nameless) definition per
	// spec.md §4.I steps 2-3, not be captured as the new word's name.
	require.NoError(t, e.ParseLine(": ;"))
	require.False(t, e.compiling)
	require.Nil(t, e.dict.Lookup(";"))
}
