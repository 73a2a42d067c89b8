package ray

import "github.com/samber/mo"

// Kind is the tag of a Node.  Every Node variant has exactly one Kind.
type Kind uint

// Possible Kind values
const (
	KindInvalid Kind = iota

	// Expressions
	KindPairExpr
	KindEmptyExpr
	KindBoolExpr
	KindNumExpr
	KindStrExpr
	KindCharExpr
	KindPrimitiveExpr
	KindLambdaExpr
	KindNameExpr
	KindIfExpr
	KindCondExpr
	KindAndExpr
	KindOrExpr
	KindAppExpr
	KindArgumentsExpr
	KindArgumentSpecExpr

	// Values
	KindPair
	KindEmpty
	KindBoolean
	KindNum
	KindStr
	KindChar
	KindPrimitive
	KindClosure
	KindArgumentSpec
	KindArguments

	numKinds
)

var kindStrings = [numKinds]string{
	KindInvalid:          "INVALID",
	KindPairExpr:         "pair-expr",
	KindEmptyExpr:        "empty-expr",
	KindBoolExpr:         "boolean-expr",
	KindNumExpr:          "number-expr",
	KindStrExpr:          "string-expr",
	KindCharExpr:         "char-expr",
	KindPrimitiveExpr:    "primitive-expr",
	KindLambdaExpr:       "lambda",
	KindNameExpr:         "name",
	KindIfExpr:           "if",
	KindCondExpr:         "cond",
	KindAndExpr:          "and",
	KindOrExpr:           "or",
	KindAppExpr:          "app",
	KindArgumentsExpr:    "arguments-expr",
	KindArgumentSpecExpr: "argument-spec-expr",
	KindPair:             "pair",
	KindEmpty:            "empty",
	KindBoolean:          "boolean",
	KindNum:              "number",
	KindStr:              "string",
	KindChar:             "char",
	KindPrimitive:        "primitive",
	KindClosure:          "closure",
	KindArgumentSpec:     "argument-spec",
	KindArguments:        "arguments",
}

func (k Kind) String() string {
	if k >= numKinds {
		return kindStrings[KindInvalid]
	}
	return kindStrings[k]
}

// IsExpr returns true if k tags a syntax node.
func (k Kind) IsExpr() bool {
	return KindPairExpr <= k && k <= KindArgumentSpecExpr
}

// IsValue returns true if k tags a runtime value.
func (k Kind) IsValue() bool {
	return KindPair <= k && k <= KindArguments
}

// Node is either an Expr or a Value.  The set of implementations is closed.
type Node interface {
	Kind() Kind
	node()
}

// Expr is a syntax node.  Exprs are evaluated by an Interpreter to produce
// Values and are never modified after construction.
type Expr interface {
	Node
	expr()
}

// Value is the result of evaluating an Expr.  A Value is never evaluated
// again.
type Value interface {
	Node
	value()
}

// PrimitiveFunc implements a Primitive.  It receives the positional arguments
// named in the primitive's spec followed by any overflow arguments collected
// for the rest parameter.
type PrimitiveFunc func(args []Value, rest []Value) (Value, error)

// CondClause is a single test/body pair in a CondExpr.
type CondClause struct {
	Test Expr
	Body Expr
}

type (
	// PairExpr constructs a Pair from two expressions.
	PairExpr struct {
		Car Expr
		Cdr Expr
	}
	// EmptyExpr evaluates to the empty list.
	EmptyExpr struct{}
	BoolExpr  struct{ B bool }
	NumExpr   struct{ N Number }
	StrExpr   struct{ S string }
	CharExpr  struct{ C rune }
	// PrimitiveExpr evaluates to a Primitive wrapping a host function.
	PrimitiveExpr struct {
		Spec *ArgumentSpecExpr
		Fn   PrimitiveFunc
		Name string
	}
	// LambdaExpr evaluates to a Closure over the active environment.
	LambdaExpr struct {
		Spec *ArgumentSpecExpr
		Body Expr
	}
	NameExpr struct{ Name string }
	IfExpr   struct {
		Pred Expr
		Then Expr
		Else Expr
	}
	// CondExpr evaluates the body of the first clause whose test is not
	// Boolean false, falling back to Else when it is present.
	CondExpr struct {
		Clauses []CondClause
		Else    mo.Option[Expr]
	}
	AndExpr struct{ Args []Expr }
	OrExpr  struct{ Args []Expr }
	AppExpr struct {
		Fn   Expr
		Args *ArgumentsExpr
	}
	// ArgumentsExpr is the unevaluated argument list of an application.
	// Keyword maps keyword names to argument expressions.
	ArgumentsExpr struct {
		Positional []Expr
		Keyword    map[string]Expr
	}
	// ArgumentSpecExpr declares the parameters of a function.  Keyword maps
	// keyword names to the parameter names they bind.
	ArgumentSpecExpr struct {
		Positional []string
		Keyword    map[string]string
		Rest       mo.Option[string]
	}
)

type (
	Pair struct {
		Car Value
		Cdr Value
	}
	Empty   struct{}
	Boolean struct{ B bool }
	Num     struct{ N Number }
	Str     struct{ S string }
	Char    struct{ C rune }
	// Primitive is a function implemented by the host.
	Primitive struct {
		Spec *ArgumentSpec
		Fn   PrimitiveFunc
		Name string
	}
	// Closure pairs a parameter spec and an unevaluated body with the
	// environment that was active when the closure was created.  Name is set
	// when the closure is bound to a top-level or builtin name.
	Closure struct {
		Spec *ArgumentSpec
		Body Expr
		Env  *Environment
		Name string
	}
	ArgumentSpec struct {
		Positional []string
		Keyword    map[string]string
		Rest       mo.Option[string]
	}
	// Arguments are the evaluated arguments of a call.
	Arguments struct {
		Positional []Value
		Keyword    map[string]Value
	}
)

func (*PairExpr) Kind() Kind         { return KindPairExpr }
func (*EmptyExpr) Kind() Kind        { return KindEmptyExpr }
func (*BoolExpr) Kind() Kind         { return KindBoolExpr }
func (*NumExpr) Kind() Kind          { return KindNumExpr }
func (*StrExpr) Kind() Kind          { return KindStrExpr }
func (*CharExpr) Kind() Kind         { return KindCharExpr }
func (*PrimitiveExpr) Kind() Kind    { return KindPrimitiveExpr }
func (*LambdaExpr) Kind() Kind       { return KindLambdaExpr }
func (*NameExpr) Kind() Kind         { return KindNameExpr }
func (*IfExpr) Kind() Kind           { return KindIfExpr }
func (*CondExpr) Kind() Kind         { return KindCondExpr }
func (*AndExpr) Kind() Kind          { return KindAndExpr }
func (*OrExpr) Kind() Kind           { return KindOrExpr }
func (*AppExpr) Kind() Kind          { return KindAppExpr }
func (*ArgumentsExpr) Kind() Kind    { return KindArgumentsExpr }
func (*ArgumentSpecExpr) Kind() Kind { return KindArgumentSpecExpr }

func (*Pair) Kind() Kind         { return KindPair }
func (*Empty) Kind() Kind        { return KindEmpty }
func (*Boolean) Kind() Kind      { return KindBoolean }
func (*Num) Kind() Kind          { return KindNum }
func (*Str) Kind() Kind          { return KindStr }
func (*Char) Kind() Kind         { return KindChar }
func (*Primitive) Kind() Kind    { return KindPrimitive }
func (*Closure) Kind() Kind      { return KindClosure }
func (*ArgumentSpec) Kind() Kind { return KindArgumentSpec }
func (*Arguments) Kind() Kind    { return KindArguments }

func (*PairExpr) node()         {}
func (*EmptyExpr) node()        {}
func (*BoolExpr) node()         {}
func (*NumExpr) node()          {}
func (*StrExpr) node()          {}
func (*CharExpr) node()         {}
func (*PrimitiveExpr) node()    {}
func (*LambdaExpr) node()       {}
func (*NameExpr) node()         {}
func (*IfExpr) node()           {}
func (*CondExpr) node()         {}
func (*AndExpr) node()          {}
func (*OrExpr) node()           {}
func (*AppExpr) node()          {}
func (*ArgumentsExpr) node()    {}
func (*ArgumentSpecExpr) node() {}

func (*Pair) node()         {}
func (*Empty) node()        {}
func (*Boolean) node()      {}
func (*Num) node()          {}
func (*Str) node()          {}
func (*Char) node()         {}
func (*Primitive) node()    {}
func (*Closure) node()      {}
func (*ArgumentSpec) node() {}
func (*Arguments) node()    {}

func (*PairExpr) expr()         {}
func (*EmptyExpr) expr()        {}
func (*BoolExpr) expr()         {}
func (*NumExpr) expr()          {}
func (*StrExpr) expr()          {}
func (*CharExpr) expr()         {}
func (*PrimitiveExpr) expr()    {}
func (*LambdaExpr) expr()       {}
func (*NameExpr) expr()         {}
func (*IfExpr) expr()           {}
func (*CondExpr) expr()         {}
func (*AndExpr) expr()          {}
func (*OrExpr) expr()           {}
func (*AppExpr) expr()          {}
func (*ArgumentsExpr) expr()    {}
func (*ArgumentSpecExpr) expr() {}

func (*Pair) value()         {}
func (*Empty) value()        {}
func (*Boolean) value()      {}
func (*Num) value()          {}
func (*Str) value()          {}
func (*Char) value()         {}
func (*Primitive) value()    {}
func (*Closure) value()      {}
func (*ArgumentSpec) value() {}
func (*Arguments) value()    {}

// True and False are the Boolean values.  They are never mutated.
var (
	True  = &Boolean{B: true}
	False = &Boolean{B: false}
)

// Bool returns the Boolean value for b.
func Bool(b bool) *Boolean {
	if b {
		return True
	}
	return False
}

// IsFalse returns true if v is the Boolean false.  It is the only value
// treated as false by cond, and, or and not.
func IsFalse(v Value) bool {
	b, ok := v.(*Boolean)
	return ok && !b.B
}

// IsTrue returns true if v is the Boolean true.  If selects its then branch
// only for true.
func IsTrue(v Value) bool {
	b, ok := v.(*Boolean)
	return ok && b.B
}

// List returns a proper list containing vs.
func List(vs ...Value) Value {
	var lis Value = &Empty{}
	for i := len(vs) - 1; i >= 0; i-- {
		lis = &Pair{Car: vs[i], Cdr: lis}
	}
	return lis
}

// ListSlice returns the elements of a proper list.  If v is not a proper list
// ListSlice returns false.
func ListSlice(v Value) ([]Value, bool) {
	var vs []Value
	for {
		switch x := v.(type) {
		case *Empty:
			return vs, true
		case *Pair:
			vs = append(vs, x.Car)
			v = x.Cdr
		default:
			return nil, false
		}
	}
}
