package repl

import (
	"bytes"
	"testing"

	"github.com/brownplt/BlockLang-sub000/ray/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestSession(t *testing.T) (*Session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	in, err := raylib.New()
	require.NoError(t, err)
	var out, errOut bytes.Buffer
	return NewSession(in, &out, &errOut, nil), &out, &errOut
}

func TestSession(t *testing.T) {
	s, out, errOut := newTestSession(t)

	s.Line("(define (sq x) (* x x))")
	s.Line("(sq 4) (sq 5)")
	assert.Equal(t, "16\n25\n", out.String())
	assert.Empty(t, errOut.String())

	out.Reset()
	s.Line("(undefined 1)")
	assert.Empty(t, out.String())
	assert.Equal(t, "unbound identifier: undefined\n", errOut.String())
}

func TestSessionContinuation(t *testing.T) {
	s, out, _ := newTestSession(t)

	s.Line("(+ 1")
	assert.True(t, s.Pending())
	assert.Empty(t, out.String())
	s.Line("   2)")
	assert.False(t, s.Pending())
	assert.Equal(t, "3\n", out.String())

	s.Line("(list")
	require.True(t, s.Pending())
	s.Reset()
	assert.False(t, s.Pending())
}

func TestSessionStop(t *testing.T) {
	s, out, errOut := newTestSession(t)

	s.Line("(define (loop) (loop))")
	s.Line("(loop) 1")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "function call limit exceeded")

	// A stop requested between lines does not abort the next line.
	s.in.Stop()
	s.Line("2")
	assert.Equal(t, "2\n", out.String())
}

func TestSessionCommands(t *testing.T) {
	s, out, errOut := newTestSession(t)

	s.Line("(define answer 42)")
	s.Line(":names")
	assert.Equal(t, "answer\n", out.String())

	out.Reset()
	s.Line(":limit 5")
	assert.Equal(t, "5\n", out.String())
	assert.Equal(t, 5, s.in.FunctionCallLimit())

	s.Line(":limit zero")
	assert.Contains(t, errOut.String(), "invalid function call limit")

	s.Line(":bogus")
	assert.Contains(t, errOut.String(), "unknown command :bogus")

	assert.False(t, s.Done())
	s.Line(":quit")
	assert.True(t, s.Done())
}

func TestSessionLogging(t *testing.T) {
	in, err := raylib.New()
	require.NoError(t, err)
	core, logs := observer.New(zap.DebugLevel)
	var out, errOut bytes.Buffer
	s := NewSession(in, &out, &errOut, zap.New(core))

	s.Line("(car 1)")
	require.Equal(t, 1, logs.FilterMessage("statement failed").Len())
}

func TestComplete(t *testing.T) {
	names := []string{"string-append", "string-length", "string?", "sqr"}
	line := []rune("(string-a")
	suffixes, n := complete(names, line, len(line))
	assert.Equal(t, 8, n)
	assert.Equal(t, [][]rune{[]rune("ppend")}, suffixes)

	line = []rune("(f (s")
	suffixes, n = complete(names, line, len(line))
	assert.Equal(t, 1, n)
	assert.Len(t, suffixes, 4)

	suffixes, n = complete(names, []rune("(sqr"), 4)
	assert.Equal(t, 3, n)
	assert.Empty(t, suffixes)
}
