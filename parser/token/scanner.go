package token

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from a byte stream (io.Reader).
// The stream is read in full the first time a rune is requested.
type Scanner struct {
	file string
	r    io.Reader
	src  []byte
	read bool
	err  error

	start     int // offset of the first byte in the current token
	startLine int
	startCol  int

	pos  int // offset of c
	next int // offset of the rune following c
	line int // line of the rune at next
	col  int // column of the rune at next
	c    Rune
}

// NewScanner initializes and returns a new Scanner.
func NewScanner(file string, r io.Reader) *Scanner {
	return &Scanner{
		file:      file,
		r:         r,
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
	}
}

func (s *Scanner) fill() error {
	if !s.read {
		s.read = true
		s.src, s.err = io.ReadAll(s.r)
	}
	return s.err
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
	s.startLine = s.line
	s.startCol = s.col
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	if s.start >= s.next {
		return ""
	}
	return string(s.src[s.start:s.next])
}

// Rune returns the current unicode rune that is being scanned.  The rune
// returned by Rune is the last rune in a token returned by EmitToken.
func (s *Scanner) Rune() rune {
	return s.c.C
}

// Peek returns the next rune to be scanned, if there are any.  If an invalid
// utf-8 sequence or EOF prevents futher runes from being scanned Peek returns
// a false second value.
func (s *Scanner) Peek() (rune, bool) {
	if s.fill() != nil || s.next >= len(s.src) {
		return 0, false
	}
	r := decode(s.src[s.next:])
	if r.IsRuneError() {
		return utf8.RuneError, false
	}
	return r.C, true
}

// ScanRune attempts to scan a utf-8 rune from the input for inclusion in the
// current token.  At the end of input ScanRune returns io.EOF.
func (s *Scanner) ScanRune() error {
	err := s.fill()
	if err != nil {
		return err
	}
	if s.next >= len(s.src) {
		return io.EOF
	}
	r := decode(s.src[s.next:])
	if r.IsRuneError() {
		return fmt.Errorf("%v: invalid utf-8 sequence in source text starting with byte %q", s.Loc(), s.src[s.next])
	}
	s.c = r
	s.pos = s.next
	s.next += r.N
	if r.C == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return nil
}

// LocStart returns a Location referencing the beginning of the current token,
// just beyond the end of the previous token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Pos:  s.start,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// Loc returns a Location referencing the position following the current
// token.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Pos:  s.next,
		Line: s.line,
		Col:  s.col,
	}
}

func decode(b []byte) Rune {
	c, n := utf8.DecodeRune(b)
	return Rune{c, n}
}

// Rune contains a rune that read by Scanner during peeking operations.
type Rune struct {
	C rune
	N int
}

// IsRuneError returns true if Rune represents an invalid utf-8 sequence read
// by utf8.DecodeRune.
func (r Rune) IsRuneError() bool {
	return r.C == utf8.RuneError && r.N == 1
}
