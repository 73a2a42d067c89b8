package rdparser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brownplt/BlockLang-sub000/parser/lexer"
	"github.com/brownplt/BlockLang-sub000/parser/token"
)

// Error is a syntax error.
type Error struct {
	Source *token.Location
	Msg    string
	// Incomplete is true when the input ended inside an unclosed list.  More
	// input may complete the program.
	Incomplete bool
}

func (err *Error) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Msg)
}

// Parser is a recursive descent parser for s-expression data.
type Parser struct {
	lex  *lexer.Lexer
	curr *token.Token
	peek *token.Token
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	p := &Parser{
		lex: lexer.New(scanner),
	}
	// Setup the peek token so the parser is in the proper state when the first
	// parse function is called.
	p.ReadToken()
	return p
}

// Read parses all data from r.
func Read(name string, r io.Reader) ([]*Datum, error) {
	return New(token.NewScanner(name, r)).ParseProgram()
}

// ParseProgram parses data until the end of input.
func (p *Parser) ParseProgram() ([]*Datum, error) {
	var data []*Datum
	for {
		p.skipComments()
		if p.expect(token.EOF) {
			break
		}
		d, err := p.ParseDatum()
		if err != nil {
			return nil, err
		}
		data = append(data, d)
	}
	return data, nil
}

// ParseDatum parses a single datum.
func (p *Parser) ParseDatum() (*Datum, error) {
	p.skipComments()
	switch p.PeekType() {
	case token.INT, token.RATIO, token.FLOAT:
		p.ReadToken()
		return p.atom(DatumNumber, p.Token().Text), nil
	case token.STRING:
		return p.ParseLiteralString()
	case token.CHAR:
		p.ReadToken()
		return p.atom(DatumChar, strings.TrimPrefix(p.Token().Text, `#\`)), nil
	case token.BOOL:
		p.ReadToken()
		return p.atom(DatumBool, p.Token().Text), nil
	case token.KEYWORD:
		p.ReadToken()
		return p.atom(DatumKeyword, strings.TrimPrefix(p.Token().Text, "#:")), nil
	case token.SYMBOL:
		p.ReadToken()
		return p.atom(DatumSymbol, p.Token().Text), nil
	case token.DOT:
		p.ReadToken()
		return p.atom(DatumDot, "."), nil
	case token.QUOTE:
		return p.ParseQuote()
	case token.PAREN_L, token.BRACE_L:
		return p.ParseList()
	case token.EOF:
		p.ReadToken()
		return nil, p.incomplete("unexpected end of input")
	case token.ERROR, token.INVALID:
		p.ReadToken()
		return nil, p.errorf("%s", p.Token().Text)
	default:
		p.ReadToken()
		return nil, p.errorf("unexpected %s", p.Token().Type)
	}
}

func (p *Parser) ParseLiteralString() (*Datum, error) {
	if !p.expect(token.STRING) {
		return nil, p.errorf("invalid string literal: %v", p.PeekType())
	}
	text := p.Token().Text
	s, err := strconv.Unquote(text)
	if err != nil {
		return nil, p.errorf("invalid string literal: %v", text)
	}
	return p.atom(DatumString, s), nil
}

func (p *Parser) ParseQuote() (*Datum, error) {
	if !p.expect(token.QUOTE) {
		return nil, p.errorf("invalid quote: %v", p.PeekType())
	}
	source := p.Token().Source
	d, err := p.ParseDatum()
	if err != nil {
		return nil, err
	}
	return &Datum{Type: DatumQuote, Cells: []*Datum{d}, Source: source}, nil
}

// ParseList parses a list delimited by ( ) or [ ].
func (p *Parser) ParseList() (*Datum, error) {
	if !p.expect(token.PAREN_L, token.BRACE_L) {
		return nil, p.errorf("invalid list: %v", p.PeekType())
	}
	open := p.Token()
	lis := &Datum{Type: DatumList, Brace: open.Type == token.BRACE_L, Source: open.Source}
	for {
		p.skipComments()
		if p.expect(token.EOF) {
			return nil, p.incomplete(fmt.Sprintf("unmatched %s opened at %s", open.Text, open.Source))
		}
		if p.expect(token.PAREN_R, token.BRACE_R) {
			if p.Token().Type != open.Type.Closer() {
				return nil, p.errorf("%s closed by %s", open.Text, p.Token().Text)
			}
			return lis, nil
		}
		d, err := p.ParseDatum()
		if err != nil {
			return nil, err
		}
		lis.Cells = append(lis.Cells, d)
	}
}

func (p *Parser) ReadToken() *token.Token {
	p.curr = p.peek
	p.peek = p.lex.NextToken()
	return p.curr
}

func (p *Parser) Token() *token.Token {
	return p.curr
}

func (p *Parser) Peek() *token.Token {
	return p.peek
}

func (p *Parser) PeekType() token.Type {
	return p.peek.Type
}

func (p *Parser) atom(typ DatumType, text string) *Datum {
	return &Datum{Type: typ, Text: text, Source: p.Token().Source}
}

func (p *Parser) skipComments() {
	for p.expect(token.COMMENT) {
	}
}

func (p *Parser) expect(typ ...token.Type) bool {
	peekType := p.peek.Type
	for _, typ := range typ {
		if typ == peekType {
			p.ReadToken()
			return true
		}
	}
	return false
}

func (p *Parser) errorf(format string, v ...interface{}) error {
	return &Error{Source: p.Token().Source, Msg: fmt.Sprintf(format, v...)}
}

func (p *Parser) incomplete(msg string) error {
	return &Error{Source: p.Token().Source, Msg: msg, Incomplete: true}
}
