/*
Package parser reads ray programs from text.

	program   := <statement>*
	statement := '(' 'define' <symbol> <expr> ')'
	           | '(' 'define' '(' <symbol> <params> ')' <expr> ')'
	           | <expr>
	expr      := <number> | <string> | <char> | <boolean> | <symbol>
	           | "'" <datum>
	           | '(' ('lambda' | 'λ') <spec> <expr> ')'
	           | '(' 'if' <expr> <expr> <expr> ')'
	           | '(' 'cond' ('[' <expr> <expr> ']')* ('[' 'else' <expr> ']')? ')'
	           | '(' ('and' | 'or') <expr>* ')'
	           | '(' <expr> (<expr> | <keyword> <expr>)* ')'
	spec      := <symbol> | '(' <params> ')'
	params    := (<symbol> | <keyword> <symbol>)* ('.' <symbol>)?
	keyword   := '#:' <name>
	char      := '#\' <rune> | '#\space' | '#\newline' | '#\tab' | ...
	boolean   := '#t' | '#f' | '#true' | '#false' | 'true' | 'false'

Square brackets may be used wherever parentheses are.
*/
package parser

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/brownplt/BlockLang-sub000/parser/rdparser"
	"github.com/brownplt/BlockLang-sub000/parser/token"
	"github.com/brownplt/BlockLang-sub000/ray"
	"github.com/brownplt/BlockLang-sub000/ray/build"
)

// Error is a syntax error.
type Error = rdparser.Error

// Statement is a top-level form: a definition or an expression to evaluate.
type Statement struct {
	// Name is the name defined by the statement.  Name is empty for
	// expressions.
	Name   string
	Expr   ray.Expr
	Source *token.Location
}

// IsDefinition returns true if s binds a name.
func (s *Statement) IsDefinition() bool {
	return s.Name != ""
}

var charNames = map[string]rune{
	"space":    ' ',
	"newline":  '\n',
	"linefeed": '\n',
	"tab":      '\t',
	"return":   '\r',
	"nul":      0,
	"null":     0,
	"delete":   '\x7f',
}

var specialForms = map[string]bool{
	"lambda": true,
	"λ":      true,
	"if":     true,
	"cond":   true,
	"and":    true,
	"or":     true,
	"define": true,
	"quote":  true,
	"else":   true,
}

// Parse reads the statements of a program from r.  name is used in error
// locations.
func Parse(name string, r io.Reader) ([]*Statement, error) {
	data, err := rdparser.Read(name, r)
	if err != nil {
		return nil, err
	}
	stmts := make([]*Statement, len(data))
	for i, d := range data {
		stmts[i], err = ParseStatement(d)
		if err != nil {
			return nil, err
		}
	}
	return stmts, nil
}

// ParseString reads the statements of a program from src.
func ParseString(name string, src string) ([]*Statement, error) {
	return Parse(name, strings.NewReader(src))
}

// ParseExpr reads a single expression from src.
func ParseExpr(src string) (ray.Expr, error) {
	data, err := rdparser.Read("expr", strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	if len(data) != 1 {
		return nil, fmt.Errorf("expected one expression but found %d", len(data))
	}
	return ParseExpression(data[0])
}

func errorf(d *rdparser.Datum, format string, v ...interface{}) error {
	return &Error{Source: d.Source, Msg: fmt.Sprintf(format, v...)}
}

// ParseStatement converts a datum into a definition or an expression.
func ParseStatement(d *rdparser.Datum) (*Statement, error) {
	if d.Type != rdparser.DatumList || len(d.Cells) == 0 || !d.Cells[0].IsSymbol("define") {
		expr, err := ParseExpression(d)
		if err != nil {
			return nil, err
		}
		return &Statement{Expr: expr, Source: d.Source}, nil
	}
	if len(d.Cells) != 3 {
		return nil, errorf(d, "define: expected a name and one expression")
	}
	target, body := d.Cells[1], d.Cells[2]
	switch target.Type {
	case rdparser.DatumSymbol:
		if err := checkName(target); err != nil {
			return nil, err
		}
		expr, err := ParseExpression(body)
		if err != nil {
			return nil, err
		}
		return &Statement{Name: target.Text, Expr: expr, Source: d.Source}, nil
	case rdparser.DatumList:
		if len(target.Cells) == 0 || target.Cells[0].Type != rdparser.DatumSymbol {
			return nil, errorf(target, "define: expected a function name")
		}
		if err := checkName(target.Cells[0]); err != nil {
			return nil, err
		}
		params := &rdparser.Datum{Type: rdparser.DatumList, Cells: target.Cells[1:], Source: target.Source}
		spec, err := parseSpec(params)
		if err != nil {
			return nil, err
		}
		expr, err := ParseExpression(body)
		if err != nil {
			return nil, err
		}
		return &Statement{Name: target.Cells[0].Text, Expr: build.Fn(spec, expr), Source: d.Source}, nil
	default:
		return nil, errorf(target, "define: cannot define %s", target)
	}
}

// ParseExpression converts a datum into an expression.
func ParseExpression(d *rdparser.Datum) (ray.Expr, error) {
	switch d.Type {
	case rdparser.DatumNumber, rdparser.DatumString, rdparser.DatumChar, rdparser.DatumBool:
		return parseLiteral(d)
	case rdparser.DatumSymbol:
		switch d.Text {
		case "true":
			return build.Bool(true), nil
		case "false":
			return build.Bool(false), nil
		}
		if specialForms[d.Text] {
			return nil, errorf(d, "%s: bad syntax", d.Text)
		}
		return build.Name(d.Text), nil
	case rdparser.DatumQuote:
		return parseQuoted(d.Cells[0])
	case rdparser.DatumList:
		return parseForm(d)
	case rdparser.DatumKeyword:
		return nil, errorf(d, "keyword #:%s is not allowed here", d.Text)
	case rdparser.DatumDot:
		return nil, errorf(d, "illegal use of .")
	default:
		return nil, errorf(d, "unexpected %s", d.Type)
	}
}

func parseLiteral(d *rdparser.Datum) (ray.Expr, error) {
	switch d.Type {
	case rdparser.DatumNumber:
		n, err := ray.ParseNumber(d.Text)
		if err != nil {
			return nil, errorf(d, "%v", err)
		}
		return build.Num(n), nil
	case rdparser.DatumString:
		return build.Str(d.Text), nil
	case rdparser.DatumChar:
		if c, ok := charNames[d.Text]; ok {
			return build.Char(c), nil
		}
		if utf8.RuneCountInString(d.Text) != 1 {
			return nil, errorf(d, `invalid character literal #\%s`, d.Text)
		}
		c, _ := utf8.DecodeRuneInString(d.Text)
		return build.Char(c), nil
	case rdparser.DatumBool:
		return build.Bool(d.Text == "#t" || d.Text == "#true"), nil
	default:
		return nil, errorf(d, "%s is not a literal", d)
	}
}

// parseQuoted converts quoted data.  Only literals and lists of literals can
// be quoted.
func parseQuoted(d *rdparser.Datum) (ray.Expr, error) {
	switch d.Type {
	case rdparser.DatumList:
		cells := d.Cells
		var tail ray.Expr = build.Empty()
		if n := len(cells); n >= 3 && cells[n-2].Type == rdparser.DatumDot {
			var err error
			tail, err = parseQuoted(cells[n-1])
			if err != nil {
				return nil, err
			}
			cells = cells[:n-2]
			if len(cells) == 0 {
				return nil, errorf(d, "illegal use of .")
			}
		}
		for i := len(cells) - 1; i >= 0; i-- {
			car, err := parseQuoted(cells[i])
			if err != nil {
				return nil, err
			}
			tail = build.Pair(car, tail)
		}
		return tail, nil
	case rdparser.DatumSymbol:
		switch d.Text {
		case "true", "false":
			return parseLiteral(&rdparser.Datum{Type: rdparser.DatumBool, Text: "#" + d.Text, Source: d.Source})
		}
		return nil, errorf(d, "quoted symbols are not supported: '%s", d.Text)
	case rdparser.DatumDot:
		return nil, errorf(d, "illegal use of .")
	case rdparser.DatumQuote, rdparser.DatumKeyword:
		return nil, errorf(d, "cannot quote %s", d)
	default:
		return parseLiteral(d)
	}
}

func parseForm(d *rdparser.Datum) (ray.Expr, error) {
	if len(d.Cells) == 0 {
		return nil, errorf(d, "missing procedure expression")
	}
	head := d.Cells[0]
	if head.Type == rdparser.DatumSymbol {
		switch head.Text {
		case "lambda", "λ":
			return parseLambda(d)
		case "if":
			return parseIf(d)
		case "cond":
			return parseCond(d)
		case "and", "or":
			args, err := parseExpressions(d.Cells[1:])
			if err != nil {
				return nil, err
			}
			if head.Text == "and" {
				return build.And(args...), nil
			}
			return build.Or(args...), nil
		case "quote":
			if len(d.Cells) != 2 {
				return nil, errorf(d, "quote: expected one datum")
			}
			return parseQuoted(d.Cells[1])
		case "define":
			return nil, errorf(d, "define: not allowed in an expression context")
		case "else":
			return nil, errorf(d, "else: not allowed outside of cond")
		}
	}
	fn, err := ParseExpression(head)
	if err != nil {
		return nil, err
	}
	args, err := parseArguments(d.Cells[1:])
	if err != nil {
		return nil, err
	}
	return build.App(fn, args), nil
}

func parseExpressions(data []*rdparser.Datum) ([]ray.Expr, error) {
	exprs := make([]ray.Expr, 0, len(data))
	for _, d := range data {
		expr, err := ParseExpression(d)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func parseArguments(data []*rdparser.Datum) (*ray.ArgumentsExpr, error) {
	var positional []ray.Expr
	keyword := make(map[string]ray.Expr)
	for i := 0; i < len(data); i++ {
		d := data[i]
		if d.Type != rdparser.DatumKeyword {
			expr, err := ParseExpression(d)
			if err != nil {
				return nil, err
			}
			positional = append(positional, expr)
			continue
		}
		if i+1 >= len(data) || data[i+1].Type == rdparser.DatumKeyword {
			return nil, errorf(d, "missing argument for keyword #:%s", d.Text)
		}
		if _, dup := keyword[d.Text]; dup {
			return nil, errorf(d, "duplicate keyword #:%s", d.Text)
		}
		expr, err := ParseExpression(data[i+1])
		if err != nil {
			return nil, err
		}
		keyword[d.Text] = expr
		i++
	}
	return build.Args(positional, keyword), nil
}

func parseLambda(d *rdparser.Datum) (ray.Expr, error) {
	if len(d.Cells) != 3 {
		return nil, errorf(d, "%s: expected a parameter list and one body expression", d.Cells[0].Text)
	}
	spec, err := parseSpec(d.Cells[1])
	if err != nil {
		return nil, err
	}
	body, err := ParseExpression(d.Cells[2])
	if err != nil {
		return nil, err
	}
	return build.Fn(spec, body), nil
}

func parseSpec(d *rdparser.Datum) (*ray.ArgumentSpecExpr, error) {
	if d.Type == rdparser.DatumSymbol {
		if err := checkName(d); err != nil {
			return nil, err
		}
		return build.RestSpec(d.Text), nil
	}
	if d.Type != rdparser.DatumList {
		return nil, errorf(d, "expected a parameter list but found %s", d)
	}
	var positional []string
	keyword := make(map[string]string)
	rest := ""
	seen := make(map[string]bool)
	param := func(p *rdparser.Datum) error {
		if p.Type != rdparser.DatumSymbol {
			return errorf(p, "expected a parameter name but found %s", p)
		}
		if err := checkName(p); err != nil {
			return err
		}
		if seen[p.Text] {
			return errorf(p, "duplicate parameter %s", p.Text)
		}
		seen[p.Text] = true
		return nil
	}
	cells := d.Cells
	for i := 0; i < len(cells); i++ {
		c := cells[i]
		switch c.Type {
		case rdparser.DatumKeyword:
			if i+1 >= len(cells) {
				return nil, errorf(c, "missing parameter for keyword #:%s", c.Text)
			}
			if _, dup := keyword[c.Text]; dup {
				return nil, errorf(c, "duplicate keyword #:%s", c.Text)
			}
			if err := param(cells[i+1]); err != nil {
				return nil, err
			}
			keyword[c.Text] = cells[i+1].Text
			i++
		case rdparser.DatumDot:
			if i+2 != len(cells) {
				return nil, errorf(c, "illegal use of .")
			}
			if err := param(cells[i+1]); err != nil {
				return nil, err
			}
			rest = cells[i+1].Text
			i++
		default:
			if err := param(c); err != nil {
				return nil, err
			}
			positional = append(positional, c.Text)
		}
	}
	return build.Spec(positional, keyword, rest), nil
}

func parseIf(d *rdparser.Datum) (ray.Expr, error) {
	if len(d.Cells) != 4 {
		return nil, errorf(d, "if: expected a test, a then branch and an else branch")
	}
	args, err := parseExpressions(d.Cells[1:])
	if err != nil {
		return nil, err
	}
	return build.If(args[0], args[1], args[2]), nil
}

func parseCond(d *rdparser.Datum) (ray.Expr, error) {
	var clauses []ray.CondClause
	clauseData := d.Cells[1:]
	if len(clauseData) == 0 {
		return nil, errorf(d, "cond: expected at least one clause")
	}
	for i, c := range clauseData {
		if c.Type != rdparser.DatumList || len(c.Cells) != 2 {
			return nil, errorf(c, "cond: expected a clause with a test and one body expression")
		}
		body, err := ParseExpression(c.Cells[1])
		if err != nil {
			return nil, err
		}
		if c.Cells[0].IsSymbol("else") {
			if i != len(clauseData)-1 {
				return nil, errorf(c, "cond: else clause must be last")
			}
			return build.CondElse(body, clauses...), nil
		}
		test, err := ParseExpression(c.Cells[0])
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, build.Clause(test, body))
	}
	return build.Cond(clauses...), nil
}

func checkName(d *rdparser.Datum) error {
	switch {
	case specialForms[d.Text]:
		return errorf(d, "%s is a reserved word", d.Text)
	case d.Text == "true" || d.Text == "false":
		return errorf(d, "cannot bind %s", d.Text)
	}
	return nil
}
