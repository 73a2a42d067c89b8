// Package build provides constructors for ray expressions.  Block tree
// walkers and the reader assemble programs with these functions rather than
// with struct literals.
package build

import (
	"github.com/samber/mo"

	"github.com/brownplt/BlockLang-sub000/ray"
)

// Num returns a number literal.
func Num(n ray.Number) *ray.NumExpr {
	return &ray.NumExpr{N: n}
}

// Int returns an exact integer literal.
func Int(x int64) *ray.NumExpr {
	return Num(ray.Int(x))
}

// Float returns an inexact number literal.
func Float(x float64) *ray.NumExpr {
	return Num(ray.Float(x))
}

// Str returns a string literal.
func Str(s string) *ray.StrExpr {
	return &ray.StrExpr{S: s}
}

// Char returns a character literal.
func Char(c rune) *ray.CharExpr {
	return &ray.CharExpr{C: c}
}

// Bool returns a boolean literal.
func Bool(b bool) *ray.BoolExpr {
	return &ray.BoolExpr{B: b}
}

// Pair returns an expression that evaluates to a pair of the values of car
// and cdr.
func Pair(car, cdr ray.Expr) *ray.PairExpr {
	return &ray.PairExpr{Car: car, Cdr: cdr}
}

// Empty returns the empty list literal.
func Empty() *ray.EmptyExpr {
	return &ray.EmptyExpr{}
}

// List returns an expression that evaluates to a proper list of the values of
// es.
func List(es ...ray.Expr) ray.Expr {
	var lis ray.Expr = Empty()
	for i := len(es) - 1; i >= 0; i-- {
		lis = Pair(es[i], lis)
	}
	return lis
}

// Name returns a reference to the identifier name.
func Name(name string) *ray.NameExpr {
	return &ray.NameExpr{Name: name}
}

// If returns a conditional that evaluates then when pred is true and els
// otherwise.
func If(pred, then, els ray.Expr) *ray.IfExpr {
	return &ray.IfExpr{Pred: pred, Then: then, Else: els}
}

// Clause returns a cond clause.
func Clause(test, body ray.Expr) ray.CondClause {
	return ray.CondClause{Test: test, Body: body}
}

// Cond returns a cond expression without an else clause.
func Cond(clauses ...ray.CondClause) *ray.CondExpr {
	return &ray.CondExpr{Clauses: clauses}
}

// CondElse returns a cond expression which evaluates els when no clause
// test succeeds.
func CondElse(els ray.Expr, clauses ...ray.CondClause) *ray.CondExpr {
	return &ray.CondExpr{Clauses: clauses, Else: mo.Some(els)}
}

// And returns a short-circuiting conjunction.
func And(args ...ray.Expr) *ray.AndExpr {
	return &ray.AndExpr{Args: args}
}

// Or returns a short-circuiting disjunction.
func Or(args ...ray.Expr) *ray.OrExpr {
	return &ray.OrExpr{Args: args}
}

// App returns the application of fn to args.  A nil args applies fn to no
// arguments.
func App(fn ray.Expr, args *ray.ArgumentsExpr) *ray.AppExpr {
	if args == nil {
		args = PositionalArgs()
	}
	return &ray.AppExpr{Fn: fn, Args: args}
}

// Call applies fn to positional arguments.
func Call(fn ray.Expr, args ...ray.Expr) *ray.AppExpr {
	return App(fn, PositionalArgs(args...))
}

// CallName applies the function bound to name to positional arguments.
func CallName(name string, args ...ray.Expr) *ray.AppExpr {
	return Call(Name(name), args...)
}

// PositionalArgs returns an argument list without keyword arguments.
func PositionalArgs(args ...ray.Expr) *ray.ArgumentsExpr {
	return &ray.ArgumentsExpr{Positional: args, Keyword: map[string]ray.Expr{}}
}

// Args returns an argument list with positional and keyword arguments.
func Args(positional []ray.Expr, keyword map[string]ray.Expr) *ray.ArgumentsExpr {
	if keyword == nil {
		keyword = map[string]ray.Expr{}
	}
	return &ray.ArgumentsExpr{Positional: positional, Keyword: keyword}
}

// Fn returns a lambda expression.
func Fn(spec *ray.ArgumentSpecExpr, body ray.Expr) *ray.LambdaExpr {
	return &ray.LambdaExpr{Spec: spec, Body: body}
}

// Prim returns an expression evaluating to a primitive function named name.
func Prim(name string, spec *ray.ArgumentSpecExpr, fn ray.PrimitiveFunc) *ray.PrimitiveExpr {
	return &ray.PrimitiveExpr{Spec: spec, Fn: fn, Name: name}
}

// Spec returns a parameter list.  keyword maps keyword names to parameter
// names.  An empty rest declares no rest parameter.
func Spec(positional []string, keyword map[string]string, rest string) *ray.ArgumentSpecExpr {
	if keyword == nil {
		keyword = map[string]string{}
	}
	spec := &ray.ArgumentSpecExpr{Positional: positional, Keyword: keyword}
	if rest != "" {
		spec.Rest = mo.Some(rest)
	}
	return spec
}

// PSpec returns a parameter list of positional parameters.
func PSpec(names ...string) *ray.ArgumentSpecExpr {
	return Spec(names, nil, "")
}

// KwSpec returns a parameter list of keyword parameters.
func KwSpec(keyword map[string]string) *ray.ArgumentSpecExpr {
	return Spec(nil, keyword, "")
}

// RestSpec returns a parameter list with only a rest parameter.
func RestSpec(rest string) *ray.ArgumentSpecExpr {
	return Spec(nil, nil, rest)
}
