package ray_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/brownplt/BlockLang-sub000/ray"
	"github.com/brownplt/BlockLang-sub000/ray/build"
	"github.com/brownplt/BlockLang-sub000/ray/raylib"
	"github.com/raulk/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newInterpreter(t *testing.T, config ...ray.Config) *ray.Interpreter {
	t.Helper()
	in, err := raylib.New(config...)
	require.NoError(t, err)
	return in
}

func evalString(t *testing.T, in *ray.Interpreter, expr ray.Expr) string {
	t.Helper()
	v, err := in.Eval(expr)
	require.NoError(t, err)
	return ray.Display(v)
}

func requireKind(t *testing.T, kind ray.ErrorKind, err error) *ray.EvalError {
	t.Helper()
	require.Error(t, err)
	var evalErr *ray.EvalError
	require.True(t, errors.As(err, &evalErr), "not an EvalError: %v", err)
	require.Equal(t, kind, evalErr.Kind, "%v", err)
	return evalErr
}

func requireStopped(t *testing.T, reason ray.StopReason, err error) *ray.StoppedError {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ray.ErrStopped))
	var stopped *ray.StoppedError
	require.True(t, errors.As(err, &stopped), "not a StoppedError: %v", err)
	require.Equal(t, reason, stopped.Reason)
	return stopped
}

var (
	x  = build.Name("x")
	id = build.Fn(build.PSpec("x"), x)
)

// countdown binds (count n) which recurses until n is zero.
func countdown(t *testing.T, in *ray.Interpreter) {
	t.Helper()
	n := build.Name("n")
	err := in.Bind("count", build.Fn(build.PSpec("n"),
		build.If(build.CallName("=", n, build.Int(0)),
			build.Str("done"),
			build.CallName("count", build.CallName("-", n, build.Int(1))))))
	require.NoError(t, err)
}

func TestEvalBasics(t *testing.T) {
	in := newInterpreter(t)
	assert.Equal(t, "9", evalString(t, in, build.Call(id, build.Int(9))))
	assert.Equal(t, "8", evalString(t, in, build.If(build.Bool(true), build.Int(8), build.Int(9))))
	assert.Equal(t, "9", evalString(t, in, build.If(build.Bool(false), build.Int(8), build.Int(9))))
	// Only true selects the then branch.
	assert.Equal(t, "9", evalString(t, in, build.If(build.Empty(), build.Int(8), build.Int(9))))
	assert.Equal(t, "9", evalString(t, in, build.If(build.Int(0), build.Int(8), build.Int(9))))
	assert.Equal(t, "9", evalString(t, in, build.If(build.Str("yes"), build.Int(8), build.Int(9))))
	assert.Equal(t, "(1 . 2)", evalString(t, in, build.Pair(build.Int(1), build.Int(2))))
	assert.Equal(t, "(lambda (x) x)", evalString(t, in, id))
	assert.Equal(t, "(x #:k y . z)", evalString(t, in, build.Spec([]string{"x"}, map[string]string{"k": "y"}, "z")))
}

func TestAndOr(t *testing.T) {
	in := newInterpreter(t)
	unbound := build.Name("unbound")
	tests := []struct {
		expr   ray.Expr
		result string
	}{
		{build.And(), "true"},
		{build.And(build.Int(1)), "1"},
		{build.And(build.Int(1), build.Str("s")), `"s"`},
		{build.And(build.Bool(false), unbound), "false"},
		{build.Or(), "false"},
		{build.Or(build.Int(1)), "1"},
		{build.Or(build.Bool(false), build.Int(2)), "2"},
		{build.Or(build.Int(3), unbound), "3"},
	}
	for _, test := range tests {
		assert.Equal(t, test.result, evalString(t, in, test.expr), ray.Display(test.expr))
	}
	_, err := in.Eval(build.And(build.Int(1), unbound))
	requireKind(t, ray.UnboundIdentifier, err)
}

func TestCond(t *testing.T) {
	in := newInterpreter(t)
	f, tr := build.Bool(false), build.Bool(true)
	assert.Equal(t, "2", evalString(t, in, build.Cond(build.Clause(f, build.Int(1)), build.Clause(tr, build.Int(2)))))
	assert.Equal(t, "3", evalString(t, in, build.CondElse(build.Int(3), build.Clause(f, build.Int(1)))))
	assert.Equal(t, "4", evalString(t, in, build.CondElse(build.Int(4))))

	_, err := in.Eval(build.Cond(build.Clause(f, build.Int(1))))
	requireKind(t, ray.NoMatchingClause, err)
	_, err = in.Eval(build.Cond())
	requireKind(t, ray.MalformedExpr, err)
}

func TestApplication(t *testing.T) {
	in := newInterpreter(t)

	// Keyword arguments bind parameters by keyword.
	sub := build.Fn(build.KwSpec(map[string]string{"from": "a", "take": "b"}),
		build.CallName("-", build.Name("a"), build.Name("b")))
	expr := build.App(sub, build.Args(nil, map[string]ray.Expr{"take": build.Int(3), "from": build.Int(10)}))
	assert.Equal(t, "7", evalString(t, in, expr))

	// Rest parameters collect the remaining positional arguments.
	rest := build.Fn(build.Spec([]string{"a"}, nil, "more"), build.Name("more"))
	assert.Equal(t, "(2 3)", evalString(t, in, build.Call(rest, build.Int(1), build.Int(2), build.Int(3))))
	assert.Equal(t, "()", evalString(t, in, build.Call(rest, build.Int(1))))

	_, err := in.Eval(build.Call(id))
	requireKind(t, ray.ArityOrKeywordMismatch, err)
	_, err = in.Eval(build.App(id, build.Args([]ray.Expr{build.Int(1)}, map[string]ray.Expr{"k": build.Int(2)})))
	requireKind(t, ray.ArityOrKeywordMismatch, err)

	// The shape of the call is checked before any argument is evaluated.
	_, err = in.Eval(build.Call(id, build.Name("nope"), build.Name("nope")))
	requireKind(t, ray.ArityOrKeywordMismatch, err)

	_, err = in.Eval(build.Call(build.Int(1)))
	requireKind(t, ray.NotCallable, err)

	_, err = in.Eval(build.Name("nope"))
	evalErr := requireKind(t, ray.UnboundIdentifier, err)
	assert.Equal(t, "nope", evalErr.Name)
	assert.True(t, errors.Is(err, ray.ErrUnboundIdentifier))
}

func TestArgumentsEvaluatedInCallerEnv(t *testing.T) {
	in := newInterpreter(t)
	require.NoError(t, in.Bind("x", build.Int(1)))
	// ((lambda (x) ((lambda (y) y) x)) 2) sees the inner x.
	inner := build.Fn(build.PSpec("y"), build.Name("y"))
	outer := build.Fn(build.PSpec("x"), build.Call(inner, x))
	assert.Equal(t, "2", evalString(t, in, build.Call(outer, build.Int(2))))
	// The argument frame is gone once the call returns.
	assert.Equal(t, "1", evalString(t, in, x))
	assert.Equal(t, 1, in.Env().Depth())
}

func TestClosuresCaptureEnvironment(t *testing.T) {
	in := newInterpreter(t)
	n := build.Name("n")
	require.NoError(t, in.Bind("adder", build.Fn(build.PSpec("n"),
		build.Fn(build.PSpec("x"), build.CallName("+", x, n)))))
	require.NoError(t, in.Bind("add2", build.CallName("adder", build.Int(2))))
	assert.Equal(t, "7", evalString(t, in, build.CallName("add2", build.Int(5))))
	assert.Equal(t, "15", evalString(t, in, build.Call(build.CallName("adder", build.Int(10)), build.Int(5))))

	v, ok := in.Lookup("add2")
	require.True(t, ok)
	f, ok := v.(*ray.Closure)
	require.True(t, ok)
	assert.Equal(t, "add2", f.Name)
	self, ok := f.Env.Lookup("add2")
	assert.True(t, ok)
	assert.Same(t, f, self)
}

func TestBindSelfReference(t *testing.T) {
	in := newInterpreter(t)
	countdown(t, in)
	v, ok := in.Lookup("count")
	require.True(t, ok)
	f := v.(*ray.Closure)
	self, ok := f.Env.Lookup("count")
	require.True(t, ok)
	assert.Same(t, f, self)
	assert.Equal(t, `"done"`, evalString(t, in, build.CallName("count", build.Int(10))))
}

func TestBindErrors(t *testing.T) {
	in := newInterpreter(t)

	// (define maker (lambda (f) (lambda (x) f)))
	require.NoError(t, in.Bind("maker", build.Fn(build.PSpec("f"), build.Fn(build.PSpec("x"), build.Name("f")))))
	err := in.Bind("f", build.CallName("maker", build.Int(1)))
	requireKind(t, ray.RecursiveBindingConflict, err)
	_, ok := in.Lookup("f")
	assert.False(t, ok)
	require.NoError(t, in.Bind("g", build.CallName("maker", build.Int(1))))

	err = in.BindBuiltin("car", build.Int(1))
	requireKind(t, ray.DuplicateBuiltin, err)
	assert.True(t, errors.Is(err, ray.ErrDuplicateBuiltin))
	require.NoError(t, in.BindBuiltin("answer", build.Int(42)))
	assert.True(t, in.IsBuiltin("answer"))
	requireKind(t, ray.DuplicateBuiltin, in.BindBuiltin("answer", build.Int(43)))

	// Top-level bindings shadow builtins and may be redefined.
	require.NoError(t, in.Bind("answer", build.Int(1)))
	require.NoError(t, in.Bind("answer", build.Int(2)))
	assert.Equal(t, "2", evalString(t, in, build.Name("answer")))

	requireKind(t, ray.MalformedExpr, in.Bind("", build.Int(1)))
	requireKind(t, ray.UnboundIdentifier, in.Bind("y", build.Name("y")))
}

func TestPrimitives(t *testing.T) {
	in := newInterpreter(t)
	var gotArgs, gotRest []ray.Value
	prim := build.Prim("spread", build.Spec([]string{"a"}, nil, "r"), func(args, rest []ray.Value) (ray.Value, error) {
		gotArgs, gotRest = args, rest
		return ray.True, nil
	})
	require.NoError(t, in.BindBuiltin("spread", prim))
	assert.Equal(t, "true", evalString(t, in, build.CallName("spread", build.Int(1), build.Int(2), build.Int(3))))
	assert.Len(t, gotArgs, 1)
	assert.Len(t, gotRest, 2)
	assert.Equal(t, "(primitive (a . r) ...)", evalString(t, in, build.Name("spread")))

	_, err := in.Eval(build.App(build.Name("spread"), build.Args([]ray.Expr{build.Int(1)}, map[string]ray.Expr{"k": build.Int(1)})))
	requireKind(t, ray.KeywordArgsUnsupportedInPrimitive, err)

	_, err = in.Eval(build.Prim("bad", build.KwSpec(map[string]string{"k": "v"}), func(args, rest []ray.Value) (ray.Value, error) {
		return ray.True, nil
	}))
	requireKind(t, ray.KeywordArgsUnsupportedInPrimitive, err)

	boom := errors.New("boom")
	require.NoError(t, in.BindBuiltin("fail", build.Prim("fail", build.PSpec(), func(args, rest []ray.Value) (ray.Value, error) {
		return nil, boom
	})))
	_, err = in.Eval(build.CallName("fail"))
	requireKind(t, ray.PrimitiveFailure, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 0, in.Stack.Height())
}

func TestEvalNotAnExpression(t *testing.T) {
	in := newInterpreter(t)
	_, err := in.Eval(ray.True)
	requireKind(t, ray.NotAnExpression, err)
	_, err = in.Eval(nil)
	requireKind(t, ray.NotAnExpression, err)
}

func TestRecursionGuard(t *testing.T) {
	in := newInterpreter(t)
	// (define (loop n) (loop n))
	require.NoError(t, in.Bind("loop", build.Fn(build.PSpec("n"), build.CallName("loop", build.Name("n")))))
	_, err := in.Eval(build.CallName("loop", build.Int(1)))
	stopped := requireStopped(t, ray.StopRecursionLimit, err)
	assert.Equal(t, "loop", stopped.Function)
	assert.Equal(t, "evaluation stopped in loop: function call limit exceeded", err.Error())
	assert.Equal(t, ray.DefaultFunctionCallLimit+1, stopped.Stack.Height())

	// The interpreter is reset and usable again.
	assert.False(t, in.Stopping())
	assert.Equal(t, 0, in.Stack.Height())
	assert.Equal(t, 1, in.Env().Depth())
	assert.Equal(t, "3", evalString(t, in, build.CallName("+", build.Int(1), build.Int(2))))
}

func TestFunctionCallLimit(t *testing.T) {
	in := newInterpreter(t)
	countdown(t, in)
	in.SetFunctionCallLimit(5)
	assert.Equal(t, 5, in.FunctionCallLimit())
	in.SetFunctionCallLimit(0)
	assert.Equal(t, 5, in.FunctionCallLimit())

	// (count 4) enters count five times.
	assert.Equal(t, `"done"`, evalString(t, in, build.CallName("count", build.Int(4))))
	_, err := in.Eval(build.CallName("count", build.Int(5)))
	requireStopped(t, ray.StopRecursionLimit, err)

	// Alternating between closures never trips the limit.
	n := build.Name("n")
	isZero := build.CallName("=", n, build.Int(0))
	dec := build.CallName("-", n, build.Int(1))
	require.NoError(t, in.Bind("even?", build.Fn(build.PSpec("n"), build.If(isZero, build.Bool(true), build.CallName("odd?", dec)))))
	require.NoError(t, in.Bind("odd?", build.Fn(build.PSpec("n"), build.If(isZero, build.Bool(false), build.CallName("even?", dec)))))
	assert.Equal(t, "true", evalString(t, in, build.CallName("even?", build.Int(50))))

	_, err = ray.New(ray.WithFunctionCallLimit(0))
	assert.Error(t, err)
}

func TestStackHeight(t *testing.T) {
	in := newInterpreter(t, ray.WithMaximumStackHeight(20))
	n := build.Name("n")
	isZero := build.CallName("=", n, build.Int(0))
	dec := build.CallName("-", n, build.Int(1))
	require.NoError(t, in.Bind("even?", build.Fn(build.PSpec("n"), build.If(isZero, build.Bool(true), build.CallName("odd?", dec)))))
	require.NoError(t, in.Bind("odd?", build.Fn(build.PSpec("n"), build.If(isZero, build.Bool(false), build.CallName("even?", dec)))))

	assert.Equal(t, "false", evalString(t, in, build.CallName("even?", build.Int(9))))
	_, err := in.Eval(build.CallName("even?", build.Int(100)))
	stopped := requireStopped(t, ray.StopStackHeight, err)
	assert.Equal(t, 20, stopped.Stack.Height())
	assert.Equal(t, 0, in.Stack.Height())

	_, err = ray.New(ray.WithMaximumStackHeight(-1))
	assert.Error(t, err)
}

func TestSetStop(t *testing.T) {
	in := newInterpreter(t)
	assert.False(t, in.SetStop(true))
	assert.True(t, in.Stopping())
	assert.True(t, in.SetStop(false))
	assert.Equal(t, "1", evalString(t, in, build.Int(1)))

	// A stop requested while idle aborts the next evaluation only.
	in.Stop()
	_, err := in.Eval(build.Int(1))
	requireStopped(t, ray.StopRequested, err)
	assert.Equal(t, "1", evalString(t, in, build.Int(1)))

	// A stop requested by the host during evaluation takes effect at the
	// next step.
	require.NoError(t, in.BindBuiltin("halt!", build.Prim("halt!", build.PSpec(), func(args, rest []ray.Value) (ray.Value, error) {
		in.Stop()
		return ray.True, nil
	})))
	reached := false
	require.NoError(t, in.BindBuiltin("reached!", build.Prim("reached!", build.PSpec(), func(args, rest []ray.Value) (ray.Value, error) {
		reached = true
		return ray.True, nil
	})))
	_, err = in.Eval(build.And(build.CallName("halt!"), build.CallName("reached!")))
	requireStopped(t, ray.StopRequested, err)
	assert.False(t, reached)
	assert.False(t, in.Stopping())
}

func TestGetAllBoundIdentifiers(t *testing.T) {
	in, err := ray.New()
	require.NoError(t, err)
	assert.Empty(t, in.GetAllBoundIdentifiers())
	require.NoError(t, in.BindBuiltin("b", build.Int(1)))
	require.NoError(t, in.Bind("a", build.Int(1)))
	require.NoError(t, in.Bind("b", build.Int(2)))
	require.NoError(t, in.Bind("a", build.Int(3)))
	assert.Equal(t, []string{"a", "b"}, in.GetAllBoundIdentifiers())

	in = newInterpreter(t)
	names := in.GetAllBoundIdentifiers()
	assert.Contains(t, names, "map")
	assert.Contains(t, names, "string-append")
	assert.IsIncreasing(t, names)
}

func TestApply(t *testing.T) {
	in := newInterpreter(t)
	f, err := in.Eval(id)
	require.NoError(t, err)
	v, err := in.Apply(f, &ray.Arguments{Positional: []ray.Value{ray.False}})
	require.NoError(t, err)
	assert.Equal(t, ray.False, v)

	_, err = in.Apply(ray.True, &ray.Arguments{})
	requireKind(t, ray.NotCallable, err)
	_, err = in.Apply(f, &ray.Arguments{})
	requireKind(t, ray.ArityOrKeywordMismatch, err)
}

func TestApplyStopped(t *testing.T) {
	in := newInterpreter(t)
	countdown(t, in)
	count, ok := in.Lookup("count")
	require.True(t, ok)

	_, err := in.Apply(count, &ray.Arguments{Positional: []ray.Value{&ray.Num{N: ray.Int(500)}}})
	stopped := requireStopped(t, ray.StopRecursionLimit, err)
	assert.Equal(t, "count", stopped.Function)
	assert.False(t, in.Stopping())
	assert.Equal(t, 0, in.Stack.Height())

	// The next run starts clean.
	assert.Equal(t, "1", evalString(t, in, build.Int(1)))
	v, err := in.Apply(count, &ray.Arguments{Positional: []ray.Value{&ray.Num{N: ray.Int(3)}}})
	require.NoError(t, err)
	assert.Equal(t, `"done"`, ray.Display(v))
}

func TestArgumentFramePoppedOnError(t *testing.T) {
	in := newInterpreter(t)
	require.NoError(t, in.Bind("f", build.Fn(build.PSpec("x"), build.Name("missing"))))
	fv, ok := in.Lookup("f")
	require.True(t, ok)
	f := fv.(*ray.Closure)
	depth := f.Env.Depth()

	_, err := in.Eval(build.CallName("f", build.Int(1)))
	requireKind(t, ray.UnboundIdentifier, err)
	assert.Equal(t, depth, f.Env.Depth())
	_, bound := f.Env.Lookup("x")
	assert.False(t, bound)

	_, err = in.Apply(f, &ray.Arguments{Positional: []ray.Value{ray.True}})
	requireKind(t, ray.UnboundIdentifier, err)
	assert.Equal(t, depth, f.Env.Depth())
	assert.Equal(t, 0, in.Stack.Height())
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	in := newInterpreter(t, ray.WithLogger(zap.New(core)), ray.WithFunctionCallLimit(3))
	countdown(t, in)
	assert.Equal(t, 1, logs.FilterMessage("bound top-level identifier").FilterField(zap.String("name", "count")).Len())
	assert.NotZero(t, logs.FilterMessage("bound builtin").Len(), "library loaded after the logger was configured")

	_, err := in.Eval(build.CallName("count", build.Int(10)))
	requireStopped(t, ray.StopRecursionLimit, err)
	warn := logs.FilterMessage("function call limit exceeded").All()
	require.Len(t, warn, 1)
	assert.Equal(t, zapcore.WarnLevel, warn[0].Level)
	stops := logs.FilterMessage("evaluation stopped").All()
	require.Len(t, stops, 1)
	assert.Equal(t, "count", stops[0].ContextMap()["function"])
}

func TestStackDump(t *testing.T) {
	var buf bytes.Buffer
	in := newInterpreter(t, ray.WithStackDump(true), ray.WithStderr(&buf), ray.WithFunctionCallLimit(2))
	countdown(t, in)
	_, err := in.Eval(build.CallName("count", build.Int(5)))
	requireStopped(t, ray.StopRecursionLimit, err)
	assert.Contains(t, buf.String(), "Stack Trace [3 frames -- entrypoint last]:")
	assert.Contains(t, buf.String(), "count [repeat 3]")
}

type recordingObserver struct {
	calls []string
	evals []time.Duration
	stops []ray.StopReason
}

func (o *recordingObserver) ObserveCall(name string, primitive bool) {
	o.calls = append(o.calls, fmt.Sprintf("%s/%t", name, primitive))
}

func (o *recordingObserver) ObserveEval(d time.Duration, err error) {
	o.evals = append(o.evals, d)
}

func (o *recordingObserver) ObserveStop(reason ray.StopReason) {
	o.stops = append(o.stops, reason)
}

func TestObserverAndClock(t *testing.T) {
	mock := clock.NewMock()
	obs := &recordingObserver{}
	in, err := ray.New(ray.WithClock(mock), ray.WithObserver(obs))
	require.NoError(t, err)
	require.NoError(t, in.BindBuiltin("tick", build.Prim("tick", build.PSpec(), func(args, rest []ray.Value) (ray.Value, error) {
		mock.Add(3 * time.Second)
		return ray.True, nil
	})))
	obs.calls, obs.evals = nil, nil

	assert.Equal(t, "true", evalString(t, in, build.Call(build.Fn(build.PSpec(), build.CallName("tick")))))
	assert.Equal(t, []string{"lambda/false", "tick/true"}, obs.calls)
	assert.Equal(t, []time.Duration{3 * time.Second}, obs.evals)

	in.Stop()
	_, err = in.Eval(build.Int(1))
	requireStopped(t, ray.StopRequested, err)
	assert.Equal(t, []ray.StopReason{ray.StopRequested}, obs.stops)

	_, err = ray.New(ray.WithObserver(nil))
	assert.Error(t, err)
}
