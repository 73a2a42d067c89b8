package lexer

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/brownplt/BlockLang-sub000/parser/token"
)

const delimiters = "()[]\";'"

var (
	intPattern   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	ratioPattern = regexp.MustCompile(`^[+-]?[0-9]+/[0-9]+$`)
	floatPattern = regexp.MustCompile(`^[+-]?([0-9]+\.[0-9]*|\.[0-9]+|[0-9]+)([eE][+-]?[0-9]+)?$`)
)

type Lexer struct {
	scanner *token.Scanner
	ch      rune // current unicode rune

	readErr error
}

func New(s *token.Scanner) *Lexer {
	lex := &Lexer{
		scanner: s,
	}
	return lex
}

func (lex *Lexer) NextToken() *token.Token {
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	lex.readErr = lex.skipWhitespace()
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	lex.readChar()
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	switch lex.ch {
	case '(':
		return lex.scanner.EmitToken(token.PAREN_L)
	case ')':
		return lex.scanner.EmitToken(token.PAREN_R)
	case '[':
		return lex.scanner.EmitToken(token.BRACE_L)
	case ']':
		return lex.scanner.EmitToken(token.BRACE_R)
	case '\'':
		return lex.scanner.EmitToken(token.QUOTE)
	case ';':
		for {
			r, ok := lex.scanner.Peek()
			if !ok || r == '\n' {
				break
			}
			if err := lex.readChar(); err != nil {
				return lex.emitError(err, false)
			}
		}
		return lex.scanner.EmitToken(token.COMMENT)
	case '#':
		return lex.readHash()
	case '"':
		return lex.readString()
	default:
		if err := lex.readWord(); err != nil {
			return lex.emitError(err, false)
		}
		return lex.classifyWord()
	}
}

// readHash scans the literals introduced by '#': booleans, characters and
// keywords.
func (lex *Lexer) readHash() *token.Token {
	r, ok := lex.scanner.Peek()
	if !ok {
		return lex.errorf("unexpected end of input after #")
	}
	switch r {
	case 't', 'f':
		if err := lex.readWord(); err != nil {
			return lex.emitError(err, false)
		}
		switch lex.scanner.Text() {
		case "#t", "#f", "#true", "#false":
			return lex.scanner.EmitToken(token.BOOL)
		}
		return lex.errorf("invalid boolean literal %s", lex.scanner.Text())
	case '\\':
		lex.readChar()
		if err := lex.readChar(); err != nil {
			return lex.emitError(err, false)
		}
		if unicode.IsLetter(lex.ch) {
			if err := lex.readWord(); err != nil {
				return lex.emitError(err, false)
			}
		}
		return lex.scanner.EmitToken(token.CHAR)
	case ':':
		lex.readChar()
		if !isWord(lex.peekRune()) {
			return lex.errorf("keyword without a name")
		}
		if err := lex.readWord(); err != nil {
			return lex.emitError(err, false)
		}
		return lex.scanner.EmitToken(token.KEYWORD)
	default:
		lex.readChar()
		return lex.errorf("invalid meta character %q", lex.ch)
	}
}

func (lex *Lexer) readString() *token.Token {
	for {
		r, ok := lex.scanner.Peek()
		if !ok {
			return lex.errorf("unterminated string literal")
		}
		if err := lex.readChar(); err != nil {
			return lex.emitError(err, false)
		}
		switch r {
		case '"':
			return lex.scanner.EmitToken(token.STRING)
		case '\n':
			return lex.errorf("unterminated string literal")
		case '\\':
			// Wait until parsing to check the escaped character
			if err := lex.readChar(); err != nil {
				return lex.emitError(err, false)
			}
		}
	}
}

// classifyWord emits the word scanned so far as a number, a dot or a symbol.
func (lex *Lexer) classifyWord() *token.Token {
	text := lex.scanner.Text()
	switch {
	case text == ".":
		return lex.scanner.EmitToken(token.DOT)
	case intPattern.MatchString(text):
		return lex.scanner.EmitToken(token.INT)
	case ratioPattern.MatchString(text):
		return lex.scanner.EmitToken(token.RATIO)
	case floatPattern.MatchString(text):
		return lex.scanner.EmitToken(token.FLOAT)
	case isDigit(rune(text[0])):
		return lex.errorf("invalid number literal: %s", text)
	default:
		return lex.scanner.EmitToken(token.SYMBOL)
	}
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitError(err error, expectEOF bool) *token.Token {
	if err == io.EOF {
		if expectEOF {
			return lex.emit(token.EOF, "")
		}
		return lex.emit(token.ERROR, "unexpected EOF")
	}
	return lex.emit(token.ERROR, err.Error())
}

func (lex *Lexer) errorf(format string, v ...interface{}) *token.Token {
	return lex.emitError(fmt.Errorf(format, v...), false)
}

// readWord consumes runes up to the next delimiter or space.
func (lex *Lexer) readWord() error {
	for isWord(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return err
		}
	}
	return nil
}

func (lex *Lexer) skipWhitespace() error {
	for unicode.IsSpace(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return err
		}
	}
	lex.scanner.Ignore()
	return nil
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func (lex *Lexer) readChar() error {
	lex.readErr = lex.scanner.ScanRune()
	if lex.readErr != nil {
		return lex.readErr
	}
	lex.ch = lex.scanner.Rune()
	return nil
}

func isWord(c rune) bool {
	return c != 0 && !unicode.IsSpace(c) && !strings.ContainsRune(delimiters, c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
