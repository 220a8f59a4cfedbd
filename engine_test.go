package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// runLines feeds each line through ParseLine, returning one "OK" or
// "[x] <message>" report per line, a bare form of the REPL's own framing
// (see repl in main.go) without its spacing, newlines or location prefix and
// without going through os.Stdin/os.Stdout. Whatever the program itself
// prints goes to the engine's own output buffer, not into the reports.
func runLines(t *testing.T, e *Engine, lines ...string) []string {
	t.Helper()
	var reports []string
	for _, line := range lines {
		err := e.ParseLine(line)
		if err != nil {
			reports = append(reports, "[x] "+err.Error())
		} else {
			reports = append(reports, "OK")
		}
	}
	return reports
}

func newTestEngine(out *bytes.Buffer) *Engine {
	return New(WithOutput(out), WithArenaSize(0), WithMemoryCells(64))
}

func TestScenarioArithmeticAndPrint(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	reports := runLines(t, e, "3 4 + .")
	require.Equal(t, []string{"OK"}, reports)
	require.Equal(t, " 7", out.String())
}

func TestScenarioDivisionByZero(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	err := e.ParseLine("10 0 /")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrDivisionByZero)
	require.Empty(t, out.String())
}

func TestScenarioColonDefinitionAndReuse(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	reports := runLines(t, e, ": SQUARE DUP * ;", "5 SQUARE .")
	require.Equal(t, []string{"OK", "OK"}, reports)
	require.Equal(t, " 25", out.String())
}

func TestScenarioVariableDefineStoreFetch(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	reports := runLines(t, e,
		"42 variable X",
		"X @ .",
		"100 X !",
		"X @ .",
	)
	require.Equal(t, []string{"OK", "OK", "OK", "OK"}, reports)
	require.Equal(t, " 42 100", out.String())
}

func TestScenarioDoLoopWithI(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	reports := runLines(t, e, ": COUNT 5 0 DO I . LOOP ; COUNT")
	require.Equal(t, []string{"OK"}, reports)
	require.Equal(t, " 0 1 2 3 4", out.String())
}

func TestScenarioNestedIfElseThen(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	reports := runLines(t, e,
		": SIGN DUP 0 > IF DROP 1 ELSE 0 < IF -1 ELSE 0 THEN THEN ;",
		"7 SIGN .",
		"-3 SIGN .",
		"0 SIGN .",
	)
	require.Equal(t, []string{"OK", "OK", "OK", "OK"}, reports)
	require.Equal(t, " 1 -1 0", out.String())
}

func TestScenarioHexAndBinaryLiterals(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	reports := runLines(t, e, `$FF . %1010 . 255 .`)
	require.Equal(t, []string{"OK"}, reports)
	require.Equal(t, " 255 10 255", out.String())
}

func TestScenarioUnterminatedDefinitionSurvivesLineBoundary(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	reports := runLines(t, e,
		": ADD3 1 +",
		";",
		"4 ADD3 .",
	)
	require.Equal(t, []string{"OK", "OK", "OK"}, reports, "an open colon-definition must not fail its line")
	require.Contains(t, out.String(), "You didn't finish defining the word", "line 1 must warn about the open definition")
	require.True(t, strings.HasSuffix(out.String(), " 5"), "the definition must still close and run: %q", out.String())
}

func TestResetProducesBootEquivalentState(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	require.NoError(t, e.ParseLine("42 variable X"))
	require.NoError(t, e.ParseLine(": FOO 5 0 DO I LOOP ;"))
	require.NoError(t, e.ParseLine("FOO"))
	require.NoError(t, e.ParseLine("1 2 +"))

	e.Reset()

	require.Nil(t, e.dict.Lookup("X"), "user words must not survive Reset")
	require.Nil(t, e.dict.Lookup("FOO"), "user words must not survive Reset")
	require.NotNil(t, e.dict.Lookup("DUP"), "built-ins must be reseeded by Reset")
	require.True(t, e.data.Empty())
	require.True(t, e.loopStates.Empty())
	require.True(t, e.ifStates.Empty())
	for _, cell := range e.memory {
		require.Equal(t, 0, cell)
	}
}

func TestNewestDefinitionShadowsOlder(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	require.NoError(t, e.ParseLine(": GREET 1 . ;"))
	require.NoError(t, e.ParseLine("GREET"))
	require.Equal(t, " 1", out.String())
	out.Reset()

	require.NoError(t, e.ParseLine(": GREET 2 . ;"))
	require.NoError(t, e.ParseLine("GREET"))
	require.Equal(t, " 2", out.String())
}

func TestBodyOrderMatchesInterpretedOrder(t *testing.T) {
	var compiledOut, interpretedOut bytes.Buffer

	compiled := newTestEngine(&compiledOut)
	require.NoError(t, compiled.ParseLine(": PHRASE 1 2 + 3 * . ;"))
	require.NoError(t, compiled.ParseLine("PHRASE"))

	interpreted := newTestEngine(&interpretedOut)
	require.NoError(t, interpreted.ParseLine("1 2 + 3 * ."))

	require.Equal(t, interpretedOut.String(), compiledOut.String())
}

func TestStringLiteralPrints(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	require.NoError(t, e.ParseLine(`." hello world "`))
	require.Equal(t, "hello world", out.String())
}

func TestStackPrefixRestoredOnFailedRot(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	require.NoError(t, e.ParseLine("9"))
	require.Error(t, e.ParseLine("ROT"), "ROT needs three operands")

	require.NoError(t, e.ParseLine("."))
	require.Equal(t, " 9", out.String())
}

func TestRawMemoryAccessDisabledByDefault(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	err := e.ParseLine("0 @")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestRawMemoryAccessWhenEnabled(t *testing.T) {
	var out bytes.Buffer
	e := New(WithOutput(&out), WithMemoryCells(16), WithRawMemoryAccess(true))

	require.NoError(t, e.ParseLine("7 0 !"))
	require.NoError(t, e.ParseLine("0 @ ."))
	require.Equal(t, " 7", out.String())
}
