// Package raylib is the builtin library of the ray language.
package raylib

import (
	"fmt"

	"github.com/brownplt/BlockLang-sub000/ray"
	"github.com/brownplt/BlockLang-sub000/ray/build"
)

// Builtin is a named expression installed into an Interpreter's builtin
// namespace.
type Builtin struct {
	Name string
	Expr ray.Expr
}

type primitive struct {
	name string
	spec *ray.ArgumentSpecExpr
	fn   ray.PrimitiveFunc
}

var langPrimitives = []*primitive{
	{"boolean?", build.PSpec("x"), isKind(ray.KindBoolean)},
	{"pair?", build.PSpec("x"), isKind(ray.KindPair)},
	{"number?", build.PSpec("x"), isKind(ray.KindNum)},
	{"string?", build.PSpec("x"), isKind(ray.KindStr)},
	{"char?", build.PSpec("x"), isKind(ray.KindChar)},
	{"empty?", build.PSpec("x"), isKind(ray.KindEmpty)},
	{"procedure?", build.PSpec("x"), builtinProcedureP},
	{"integer?", build.PSpec("x"), builtinIntegerP},
	{"not", build.PSpec("x"), builtinNot},
	{"equal?", build.PSpec("a", "b"), builtinEqual},
	{"cons", build.PSpec("head", "tail"), builtinCons},
	{"car", build.PSpec("lis"), builtinCar},
	{"cdr", build.PSpec("lis"), builtinCdr},
	{"first", build.PSpec("lis"), builtinCar},
	{"rest", build.PSpec("lis"), builtinCdr},
	{"list", build.RestSpec("args"), builtinList},
	{"length", build.PSpec("lis"), builtinLength},
	{"+", build.RestSpec("x"), builtinAdd},
	{"*", build.RestSpec("x"), builtinMul},
	{"-", build.Spec([]string{"x"}, nil, "rest"), builtinSub},
	{"/", build.Spec([]string{"x"}, nil, "rest"), builtinDiv},
	{">", build.PSpec("a", "b"), numericComparison(func(c int) bool { return c > 0 })},
	{"<", build.PSpec("a", "b"), numericComparison(func(c int) bool { return c < 0 })},
	{">=", build.PSpec("a", "b"), numericComparison(func(c int) bool { return c >= 0 })},
	{"<=", build.PSpec("a", "b"), numericComparison(func(c int) bool { return c <= 0 })},
	{"=", build.PSpec("a", "b"), numericComparison(func(c int) bool { return c == 0 })},
	{"quotient", build.PSpec("a", "b"), numericBinop(ray.Number.Quotient)},
	{"remainder", build.PSpec("a", "b"), numericBinop(ray.Number.Remainder)},
	{"modulo", build.PSpec("a", "b"), numericBinop(ray.Number.Modulo)},
	{"max", build.Spec([]string{"x"}, nil, "rest"), numericExtreme(1)},
	{"min", build.Spec([]string{"x"}, nil, "rest"), numericExtreme(-1)},
	{"abs", build.PSpec("x"), numericUnary(ray.Number.Abs)},
	{"magnitude", build.PSpec("x"), numericUnary(ray.Number.Abs)},
	{"sgn", build.PSpec("x"), numericUnary(sgn)},
	{"sqr", build.PSpec("x"), numericUnary(func(x ray.Number) ray.Number { return x.Mul(x) })},
	{"ceiling", build.PSpec("x"), numericUnary(ray.Number.Ceiling)},
	{"floor", build.PSpec("x"), numericUnary(ray.Number.Floor)},
	{"round", build.PSpec("x"), numericUnary(ray.Number.Round)},
	{"truncate", build.PSpec("x"), numericUnary(ray.Number.Truncate)},
	{"numerator", build.PSpec("x"), numericUnary(ray.Number.Numerator)},
	{"denominator", build.PSpec("x"), numericUnary(ray.Number.Denominator)},
	{"sqrt", build.PSpec("x"), builtinSqrt},
	{"exp", build.PSpec("x"), builtinExp},
	{"log", build.PSpec("x"), builtinLog},
	{"make-string", build.PSpec("k", "c"), builtinMakeString},
	{"string", build.RestSpec("chars"), builtinString},
	{"string-length", build.PSpec("str"), builtinStringLength},
	{"string-ref", build.PSpec("str", "k"), builtinStringRef},
	{"string-append", build.RestSpec("strs"), builtinStringAppend},
	{"substring", build.PSpec("str", "start", "end"), builtinSubstring},
	{"string=?", build.PSpec("a", "b"), stringComparison(func(c int) bool { return c == 0 })},
	{"string<?", build.PSpec("a", "b"), stringComparison(func(c int) bool { return c < 0 })},
	{"string>?", build.PSpec("a", "b"), stringComparison(func(c int) bool { return c > 0 })},
	{"string<=?", build.PSpec("a", "b"), stringComparison(func(c int) bool { return c <= 0 })},
	{"string>=?", build.PSpec("a", "b"), stringComparison(func(c int) bool { return c >= 0 })},
}

// Builtins returns the library in the order it is installed.  Functions
// written in ray follow the primitives they call.
func Builtins() []Builtin {
	lib := make([]Builtin, 0, len(langPrimitives)+4)
	lib = append(lib, Builtin{"empty", build.Empty()})
	for _, p := range langPrimitives {
		lib = append(lib, Builtin{p.name, build.Prim(p.name, p.spec, p.fn)})
	}
	return append(lib, langFunctions()...)
}

// langFunctions are library functions defined as ray expressions.
func langFunctions() []Builtin {
	x := build.Name("x")
	f := build.Name("f")
	ls := build.Name("ls")
	return []Builtin{
		{"list?", build.Fn(build.PSpec("x"),
			build.Or(
				build.CallName("empty?", x),
				build.And(
					build.CallName("pair?", x),
					build.CallName("list?", build.CallName("cdr", x)))))},
		{"map", build.Fn(build.PSpec("f", "ls"),
			build.If(build.CallName("empty?", ls),
				build.Empty(),
				build.CallName("cons",
					build.Call(f, build.CallName("car", ls)),
					build.CallName("map", f, build.CallName("cdr", ls)))))},
	}
}

// Load installs the library into the builtin namespace of in.
func Load(in *ray.Interpreter) error {
	for _, b := range Builtins() {
		err := in.BindBuiltin(b.Name, b.Expr)
		if err != nil {
			return fmt.Errorf("builtin %s: %w", b.Name, err)
		}
	}
	return nil
}

// New returns an Interpreter with the library loaded.
func New(config ...ray.Config) (*ray.Interpreter, error) {
	in, err := ray.New(config...)
	if err != nil {
		return nil, err
	}
	err = Load(in)
	if err != nil {
		return nil, err
	}
	return in, nil
}
