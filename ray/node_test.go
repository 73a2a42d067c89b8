package ray_test

import (
	"math"
	"strings"
	"testing"

	"github.com/brownplt/BlockLang-sub000/ray"
	"github.com/brownplt/BlockLang-sub000/ray/build"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplay(t *testing.T) {
	prim := build.Prim("p", build.PSpec("a"), nil)
	tests := []struct {
		node    ray.Node
		display string
	}{
		{build.Int(-3), "-3"},
		{build.Num(ray.Ratio(2, 6)), "1/3"},
		{build.Float(2), "2.0"},
		{build.Float(math.Inf(-1)), "-inf.0"},
		{build.Str("say \"hi\"\n"), `"say \"hi\"\n"`},
		{build.Char('x'), `#\x`},
		{build.Char(' '), `#\space`},
		{build.Char('\t'), `#\tab`},
		{build.Bool(false), "false"},
		{ray.True, "true"},
		{build.Empty(), "()"},
		{&ray.Empty{}, "()"},
		{build.List(build.Int(1), build.Int(2), build.Int(3)), "(1 2 3)"},
		{build.Pair(build.Int(1), build.Pair(build.Int(2), build.Int(3))), "(1 2 . 3)"},
		{ray.List(ray.List(), ray.True), "(() true)"},
		{build.Name("foo"), "foo"},
		{build.Fn(build.RestSpec("xs"), build.Name("xs")), "(lambda xs xs)"},
		{build.Fn(build.PSpec(), build.Int(1)), "(lambda () 1)"},
		{prim, "(primitive (a) ...)"},
		{build.If(build.Name("p"), build.Int(1), build.Int(2)), "(if p 1 2)"},
		{build.CondElse(build.Int(0), build.Clause(build.Name("a"), build.Int(1))), "(cond [a 1] [else 0])"},
		{build.And(build.Name("a"), build.Name("b")), "(and a b)"},
		{build.Or(), "(or)"},
		{build.CallName("f"), "(f)"},
		{build.App(build.Name("f"), build.Args([]ray.Expr{build.Int(1)}, map[string]ray.Expr{"z": build.Int(2), "a": build.Int(3)})), "(f 1 #:a 3 #:z 2)"},
		{&ray.Arguments{Positional: []ray.Value{ray.True}, Keyword: map[string]ray.Value{"k": ray.False}}, "true #:k false"},
		{build.Spec([]string{"a", "b"}, map[string]string{"key": "k"}, "rest"), "(a b #:key k . rest)"},
	}
	for _, test := range tests {
		assert.Equal(t, test.display, ray.Display(test.node))
	}
}

func TestFormat(t *testing.T) {
	var buf strings.Builder
	n, err := ray.Format(&buf, build.List(build.Int(10), build.Str("x")))
	require.NoError(t, err)
	assert.Equal(t, `(10 "x")`, buf.String())
	assert.Equal(t, len(`(10 "x")`), n)
}

func TestEqual(t *testing.T) {
	lam := func() ray.Expr {
		return build.Fn(build.Spec([]string{"a"}, map[string]string{"k": "v"}, "r"),
			build.CondElse(build.Int(1), build.Clause(build.Name("a"), build.CallName("f", build.Name("v")))))
	}
	equal := [][2]ray.Node{
		{build.Int(1), build.Int(1)},
		{build.Int(1), build.Float(1)},
		{&ray.Num{N: ray.Ratio(1, 2)}, &ray.Num{N: ray.Float(0.5)}},
		{build.Str("a"), build.Str("a")},
		{build.Char('a'), build.Char('a')},
		{ray.True, ray.Bool(true)},
		{build.Empty(), build.Empty()},
		{ray.List(ray.True, &ray.Str{S: "s"}), ray.List(ray.True, &ray.Str{S: "s"})},
		{lam(), lam()},
		{build.And(build.Name("a")), build.And(build.Name("a"))},
		{build.Spec(nil, nil, "r"), build.RestSpec("r")},
	}
	for _, pair := range equal {
		assert.True(t, ray.Equal(pair[0], pair[1]), "%s = %s", ray.Display(pair[0]), ray.Display(pair[1]))
	}

	prim := build.Prim("p", build.PSpec(), nil)
	closure := &ray.Closure{Spec: &ray.ArgumentSpec{}, Body: build.Int(1), Env: ray.NewEnvironment()}
	unequal := [][2]ray.Node{
		{build.Int(1), build.Int(2)},
		{build.Int(1), &ray.Num{N: ray.Int(1)}},
		{build.Str("a"), build.Char('a')},
		{ray.True, ray.False},
		{build.Empty(), &ray.Empty{}},
		{ray.List(ray.True), ray.List(ray.True, ray.True)},
		{build.And(build.Name("a")), build.Or(build.Name("a"))},
		{build.Spec([]string{"a"}, nil, ""), build.Spec([]string{"b"}, nil, "")},
		{build.KwSpec(map[string]string{"k": "a"}), build.KwSpec(map[string]string{"k": "b"})},
		{build.Cond(build.Clause(build.Name("a"), build.Int(1))), build.CondElse(build.Int(1), build.Clause(build.Name("a"), build.Int(1)))},
		{
			&ray.ArgumentSpecExpr{Keyword: map[string]string{}, Rest: mo.Some("")},
			build.PSpec(),
		},
		{
			&ray.ArgumentSpec{Keyword: map[string]string{}, Rest: mo.Some("")},
			&ray.ArgumentSpec{Keyword: map[string]string{}},
		},
		{prim, prim},
		{closure, closure},
		{nil, build.Int(1)},
	}
	for _, pair := range unequal {
		assert.False(t, ray.Equal(pair[0], pair[1]), "%v != %v", pair[0], pair[1])
	}
}

func TestClone(t *testing.T) {
	orig := build.List(build.Int(1), build.Str("two"), build.Fn(build.PSpec("x"), build.Name("x")))
	cp := ray.CloneExpr(orig)
	assert.True(t, ray.Equal(orig, cp))
	assert.NotSame(t, orig, cp)
	orig.(*ray.PairExpr).Car = build.Int(100)
	assert.Equal(t, "(1 \"two\" (lambda (x) x))", ray.Display(cp))

	cond := build.CondElse(build.Name("e"), build.Clause(build.Name("t"), build.Name("b")))
	ccp := ray.Clone(cond).(*ray.CondExpr)
	assert.True(t, ray.Equal(cond, ccp))
	e1, _ := cond.Else.Get()
	e2, _ := ccp.Else.Get()
	assert.NotSame(t, e1, e2)

	args := &ray.Arguments{Positional: []ray.Value{ray.List(ray.True)}, Keyword: map[string]ray.Value{"k": &ray.Str{S: "v"}}}
	acp := ray.CloneValue(args).(*ray.Arguments)
	assert.True(t, ray.Equal(args, acp))
	acp.Keyword["k"] = &ray.Str{S: "changed"}
	assert.Equal(t, "v", args.Keyword["k"].(*ray.Str).S)

	env := ray.NewEnvironment()
	env.Extend("a", ray.True)
	f := &ray.Closure{Spec: &ray.ArgumentSpec{}, Body: build.Name("a"), Env: env, Name: "f"}
	fcp := ray.CloneValue(f).(*ray.Closure)
	assert.Equal(t, "f", fcp.Name)
	fcp.Env.Extend("b", ray.False)
	_, ok := env.Lookup("b")
	assert.False(t, ok)
	v, ok := fcp.Env.Lookup("a")
	assert.True(t, ok)
	assert.Same(t, ray.True, v)
}

func TestListSlice(t *testing.T) {
	vs, ok := ray.ListSlice(ray.List(ray.True, ray.False))
	require.True(t, ok)
	assert.Len(t, vs, 2)
	_, ok = ray.ListSlice(&ray.Pair{Car: ray.True, Cdr: ray.False})
	assert.False(t, ok)
	vs, ok = ray.ListSlice(&ray.Empty{})
	assert.True(t, ok)
	assert.Empty(t, vs)
}

func TestKind(t *testing.T) {
	assert.True(t, ray.KindLambdaExpr.IsExpr())
	assert.False(t, ray.KindLambdaExpr.IsValue())
	assert.True(t, ray.KindClosure.IsValue())
	assert.Equal(t, "closure", ray.KindClosure.String())
	assert.Equal(t, "INVALID", ray.Kind(1000).String())
}
