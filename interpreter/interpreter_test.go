package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arlindohall.com/glox/compiler"
	"arlindohall.com/glox/debug"
	"arlindohall.com/glox/glerror"
	"arlindohall.com/glox/telemetry"
	"arlindohall.com/glox/value"
)

const program = `
local t = {}
local i = 1
while i <= 5 do
  t[i] = "item" .. i
  i = i + 1
end

local s = ""
i = 1
while t[i] ~= nil do
  s = s .. t[i] .. ";"
  i = i + 1
end

print s
if s == "item1;item2;item3;item4;item5;" then print "ok" else print "bad" end
print 10 / 4
print not nil
print {x = 1}.x

local x = "outer"
do
  local x = "inner"
  print x
end
print x

print nil or "default"
print false and 1
print 1 and 2

global config = {name = "glox", [1] = "first"}
config.name = config.name .. "!"
print config.name
print config[1]
print config.missing
`

const programOutput = `item1;item2;item3;item4;item5;
ok
2.5
true
1
inner
outer
default
false
2
glox!
first
nil
`

type session struct {
	*Interpreter
	stdout bytes.Buffer
	diag   bytes.Buffer
}

func newSession(flags debug.Flags) *session {
	s := &session{}
	s.Interpreter = New(Options{
		Flags:       flags,
		Stdout:      &s.stdout,
		Diagnostics: &s.diag,
	})

	return s
}

func runWithoutError(t *testing.T, text string) value.Value {
	t.Helper()

	val, err := newSession(debug.Flags{}).InterpretString(text, compiler.ReplMode)
	require.NoError(t, err)

	return val
}

func TestSingleExpression(t *testing.T) {
	assert.Equal(t, value.Number(10), runWithoutError(t, "1 + 2 + 3 + 4"))
}

func TestArithmeticOperations(t *testing.T) {
	assert.Equal(t, value.Number(-1), runWithoutError(t, "-1 * 2 + -3 + 4"))
	assert.Equal(t, value.Number(0), runWithoutError(t, "-1 * -1 * -1 * -1 * -1 + 1"))
	assert.Equal(t, value.Number(7), runWithoutError(t, "1 + 2 * 3"))
	assert.Equal(t, value.Number(9), runWithoutError(t, "(1 + 2) * 3"))
}

func TestComparisons(t *testing.T) {
	assert.Equal(t, value.Boolean(true), runWithoutError(t, "1 < 2"))
	assert.Equal(t, value.Boolean(true), runWithoutError(t, "2 <= 2"))
	assert.Equal(t, value.Boolean(false), runWithoutError(t, "1 >= 2"))
	assert.Equal(t, value.Boolean(true), runWithoutError(t, `"abc" < "abd"`))
	assert.Equal(t, value.Boolean(true), runWithoutError(t, `1 ~= "1"`))
}

func TestAssertStatement(t *testing.T) {
	runWithoutError(t, "assert true")
	runWithoutError(t, "assert !false")
	runWithoutError(t, "assert not nil")
}

func TestProgramOutput(t *testing.T) {
	s := newSession(debug.Flags{})

	_, err := s.InterpretString(program, compiler.RunFileMode)
	require.NoError(t, err)

	assert.Equal(t, programOutput, s.stdout.String())
	assert.Empty(t, s.diag.String())
}

func TestGlobalsPersistAcrossCalls(t *testing.T) {
	s := newSession(debug.Flags{})

	_, err := s.InterpretString("global counter = 1", compiler.ReplMode)
	require.NoError(t, err)

	val, err := s.InterpretString("counter = counter + 1", compiler.ReplMode)
	require.NoError(t, err)

	assert.Equal(t, value.Number(2), val)
	assert.Equal(t, value.Number(2), s.Global("counter"))
	assert.Equal(t, value.Nil{}, s.Global("undefined"))
}

func TestRuntimeErrors(t *testing.T) {
	cases := []struct {
		text    string
		message string
		line    int
	}{
		{"print 1\nprint 1 + nil", "attempt to perform arithmetic on a nil value", 2},
		{"assert 1 == 2", "assertion failed!", 1},
		{"local n = 1\nprint n.field", "attempt to index a non-table value", 2},
		{"local t = {}\nt[nil] = 1", "table index is nil", 2},
		{"print 1 < \"2\"", "attempt to compare number with string", 1},
		{"print {} .. \"x\"", "attempt to concatenate a table value", 1},
		{"print -\"x\"", "attempt to perform arithmetic on a string value", 1},
	}

	for _, c := range cases {
		_, err := newSession(debug.Flags{}).InterpretString(c.text, compiler.RunFileMode)
		require.Error(t, err, c.text)

		var runtimeErr glerror.RuntimeError
		require.ErrorAs(t, err, &runtimeErr, c.text)
		assert.Equal(t, c.message, runtimeErr.Message, c.text)
		assert.Equal(t, c.line, runtimeErr.Line, c.text)
	}
}

func TestRuntimeErrorDoesNotPoisonNextRun(t *testing.T) {
	s := newSession(debug.Flags{})

	_, err := s.InterpretString("print 1 + {}", compiler.ReplMode)
	require.Error(t, err)

	val, err := s.InterpretString("2 * 3", compiler.ReplMode)
	require.NoError(t, err)
	assert.Equal(t, value.Number(6), val)
}

func allFlagCombinations() []debug.Flags {
	var combos []debug.Flags

	all := debug.All()
	for mask := 0; mask < 1<<len(all); mask++ {
		var fs debug.Flags
		for i, f := range all {
			fs = fs.With(f, mask&(1<<i) != 0)
		}

		combos = append(combos, fs)
	}

	return combos
}

func TestFlagsNeverChangeProgramOutput(t *testing.T) {
	for _, flags := range allFlagCombinations() {
		s := newSession(flags)

		_, err := s.InterpretString(program, compiler.RunFileMode)
		require.NoError(t, err, flags.String())

		assert.Equal(t, programOutput, s.stdout.String(), flags.String())
	}
}

func TestOnlyTraceExecution(t *testing.T) {
	s := newSession(debug.Resolve(debug.LocalLayer, debug.Layer{Define: []debug.Flag{debug.TraceExecution}}))

	_, err := s.InterpretString(program, compiler.RunFileMode)
	require.NoError(t, err)

	diag := s.diag.String()
	assert.Contains(t, diag, "========== <script> ==========")
	assert.Contains(t, diag, "OpPrint")
	assert.NotContains(t, diag, "---------- <script> ----------")
	assert.NotContains(t, diag, "gc:")
	assert.Zero(t, s.Heap().Collections())
}

func TestTraceFormat(t *testing.T) {
	s := newSession(debug.Flags{}.With(debug.TraceExecution, true))

	_, err := s.InterpretString("print 1", compiler.RunFileMode)
	require.NoError(t, err)

	assert.Equal(t, "1\n", s.stdout.String())
	assert.Equal(t,
		"========== <script> ==========\n"+
			"     |\n"+
			"0000 | OpConstant       0    '1'\n"+
			"     | [ 1 ]\n"+
			"0002 | OpPrint         \n"+
			"     |\n"+
			"0003 | OpNil           \n"+
			"     | [ nil ]\n"+
			"0004 | OpReturn        \n",
		s.diag.String(),
	)
}

func TestPrintCodeOnly(t *testing.T) {
	s := newSession(debug.Flags{}.With(debug.PrintCode, true))

	_, err := s.InterpretString("print 1", compiler.RunFileMode)
	require.NoError(t, err)

	diag := s.diag.String()
	assert.True(t, strings.HasPrefix(diag, "---------- <script> ----------\n"))
	assert.NotContains(t, diag, "=========")
	assert.NotContains(t, diag, "     |")
}

func TestStressGC(t *testing.T) {
	s := newSession(debug.Flags{}.With(debug.StressGC, true))

	_, err := s.InterpretString(program, compiler.RunFileMode)
	require.NoError(t, err)

	assert.Equal(t, programOutput, s.stdout.String())
	assert.Empty(t, s.diag.String())
	assert.Greater(t, s.Heap().Collections(), 20)

	s.Heap().Collect()

	config, ok := s.Global("config").(*value.Table)
	require.True(t, ok)
	assert.Equal(t, "glox!", config.Get(s.Heap().NewString("name")).String())
	assert.Equal(t, "first", config.Get(value.Number(1)).String())
}

func TestLogGC(t *testing.T) {
	s := newSession(debug.Flags{}.With(debug.LogGC, true))

	_, err := s.InterpretString(`print "a" .. "b"`, compiler.RunFileMode)
	require.NoError(t, err)

	assert.Equal(t, "ab\n", s.stdout.String())
	assert.Contains(t, s.diag.String(), "gc: allocate: type=string")
	assert.Zero(t, s.Heap().Collections())
}

func TestRepl(t *testing.T) {
	s := newSession(debug.Flags{})

	var out bytes.Buffer

	input := strings.NewReader("global x = 20\nx + 1\nprint )\nx * 2\n")
	require.NoError(t, s.Repl(input, &out))

	assert.Equal(t, "> > 21\n> > 40\n> \n", out.String())
	assert.Contains(t, s.diag.String(), "Compile error [line=1]")
}

func TestLogGCAsJSON(t *testing.T) {
	var stdout, diag bytes.Buffer

	in := New(Options{
		Flags:         debug.Flags{}.With(debug.LogGC, true),
		Stdout:        &stdout,
		Diagnostics:   &diag,
		JSONLogFormat: true,
	})

	_, err := in.InterpretString(`print "a" .. "b"`, compiler.RunFileMode)
	require.NoError(t, err)

	assert.Equal(t, "ab\n", stdout.String())
	assert.Contains(t, diag.String(), `"@message":"allocate"`)
	assert.Contains(t, diag.String(), `"@module":"gc"`)
	assert.NotContains(t, diag.String(), "gc: allocate:")
}

func TestMetricsReportCollectionsAndInstructions(t *testing.T) {
	tel, err := telemetry.New()
	require.NoError(t, err)

	var stdout bytes.Buffer

	in := New(Options{
		Flags:       debug.Flags{}.With(debug.StressGC, true),
		Stdout:      &stdout,
		Diagnostics: &bytes.Buffer{},
		Metrics:     tel.Metrics,
	})

	_, err = in.InterpretString(program, compiler.RunFileMode)
	require.NoError(t, err)

	assert.Equal(t, programOutput, stdout.String())
	assert.Equal(t, float64(in.Heap().Collections()), tel.Counter("gc", "collections"))
	assert.Greater(t, tel.Counter("vm", "instructions"), float64(100))
}
