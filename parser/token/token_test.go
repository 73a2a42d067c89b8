package token

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationString(t *testing.T) {
	var loc *Location
	assert.Equal(t, "<unknown>", loc.String())
	assert.Equal(t, "f.ray[7]", (&Location{File: "f.ray", Pos: 7}).String())
	assert.Equal(t, "f.ray:2", (&Location{File: "f.ray", Line: 2}).String())
	assert.Equal(t, "f.ray:2:5", (&Location{File: "f.ray", Line: 2, Col: 5}).String())
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "symbol", SYMBOL.String())
	assert.Equal(t, "(", PAREN_L.String())
	assert.Equal(t, "invalid", Type(200).String())
	assert.Equal(t, PAREN_R, PAREN_L.Closer())
	assert.Equal(t, BRACE_R, BRACE_L.Closer())
	assert.Equal(t, INVALID, SYMBOL.Closer())

	assert.Equal(t, "end of input", (&Token{Type: EOF}).String())
	assert.Equal(t, `symbol "abc"`, (&Token{Type: SYMBOL, Text: "abc"}).String())
}

func TestScanner(t *testing.T) {
	s := NewScanner("test", strings.NewReader("aé\nb"))

	r, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, 'a', r)
	require.NoError(t, s.ScanRune())
	require.NoError(t, s.ScanRune())
	assert.Equal(t, 'é', s.Rune())
	tok := s.EmitToken(SYMBOL)
	assert.Equal(t, "aé", tok.Text)
	assert.Equal(t, "test:1:1", tok.Source.String())
	assert.Equal(t, "test:1:3", s.Loc().String())

	require.NoError(t, s.ScanRune())
	s.Ignore()
	require.NoError(t, s.ScanRune())
	tok = s.EmitToken(SYMBOL)
	assert.Equal(t, "b", tok.Text)
	assert.Equal(t, "test:2:1", tok.Source.String())
	assert.Equal(t, 4, tok.Source.Pos)

	_, ok = s.Peek()
	assert.False(t, ok)
	assert.Equal(t, io.EOF, s.ScanRune())
	assert.Equal(t, "", s.Text())
}

func TestScannerInvalidUTF8(t *testing.T) {
	s := NewScanner("test", strings.NewReader("\xff"))
	_, ok := s.Peek()
	assert.False(t, ok)
	err := s.ScanRune()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid utf-8 sequence")
}
