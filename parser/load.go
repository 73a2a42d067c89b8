package parser

import (
	"fmt"
	"io"

	"github.com/brownplt/BlockLang-sub000/parser/token"
	"github.com/brownplt/BlockLang-sub000/ray"
)

// Exec evaluates stmt with in.  A definition is bound at the top level and
// returns a nil value.
func Exec(in *ray.Interpreter, stmt *Statement) (ray.Value, error) {
	if stmt.IsDefinition() {
		return nil, in.Bind(stmt.Name, stmt.Expr)
	}
	return in.Eval(stmt.Expr)
}

// Load parses the program in r and executes its statements in order.  fn,
// when not nil, receives each executed statement and its value.  Load stops
// at the first error, which is annotated with the statement's location.
func Load(in *ray.Interpreter, name string, r io.Reader, fn func(*Statement, ray.Value)) error {
	stmts, err := Parse(name, r)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		v, err := Exec(in, stmt)
		if err != nil {
			return &LoadError{Source: stmt.Source, Err: err}
		}
		if fn != nil {
			fn(stmt, v)
		}
	}
	return nil
}

// LoadError is an evaluation error raised while loading a program.
type LoadError struct {
	Source *token.Location
	Err    error
}

func (err *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", err.Source, err.Err)
}

func (err *LoadError) Unwrap() error {
	return err.Err
}
