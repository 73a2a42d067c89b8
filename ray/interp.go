package ray

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/raulk/clock"
	"github.com/samber/lo"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Interpreter evaluates expressions.  It owns the active environment, the
// top-level and builtin namespaces, and the state used to stop runaway
// evaluation.  An Interpreter must not be used by more than one goroutine at
// a time, with the exception of SetStop and Stop which may be called
// concurrently with Eval.
type Interpreter struct {
	env      *Environment
	topLevel *Environment
	builtins *Environment

	stop       *atomic.Bool
	stopReason *atomic.Uint32

	callLimit   int
	lastClosure *Closure
	lastName    string
	callCount   int

	// Stack is the current function call stack.
	Stack *CallStack

	stackDump bool
	stderr    io.Writer
	log       *zap.Logger
	observer  Observer
	clock     clock.Clock
}

// New initializes and returns a new Interpreter with the provided
// configuration.  If any Config fails the error is returned with a nil
// Interpreter.
func New(config ...Config) (*Interpreter, error) {
	in := &Interpreter{
		env:        NewEnvironment(),
		topLevel:   NewEnvironment(),
		builtins:   NewEnvironment(),
		stop:       atomic.NewBool(false),
		stopReason: atomic.NewUint32(uint32(StopRequested)),
		callLimit:  DefaultFunctionCallLimit,
		Stack:      &CallStack{MaxHeight: DefaultMaxStackHeight},
		stderr:     os.Stderr,
		log:        zap.NewNop(),
		observer:   nopObserver{},
		clock:      clock.New(),
	}
	for _, fn := range config {
		err := fn(in)
		if err != nil {
			return nil, err
		}
	}
	return in, nil
}

// SetFunctionCallLimit changes the number of consecutive entries into one
// closure allowed before evaluation is stopped.  Values less than one are
// ignored.
func (in *Interpreter) SetFunctionCallLimit(n int) {
	if n < 1 {
		return
	}
	in.callLimit = n
}

// FunctionCallLimit returns the current function call limit.
func (in *Interpreter) FunctionCallLimit() int {
	return in.callLimit
}

// SetStop sets or clears the stop flag and returns its previous state.  When
// the flag is set the next step of evaluation fails with a StoppedError.
func (in *Interpreter) SetStop(stop bool) bool {
	if stop {
		in.stopReason.Store(uint32(StopRequested))
	}
	return in.stop.Swap(stop)
}

// Stop requests that the running evaluation stop.  Stop is safe to call from
// any goroutine.
func (in *Interpreter) Stop() {
	in.SetStop(true)
}

// Stopping returns true if a stop has been requested and not yet consumed.
func (in *Interpreter) Stopping() bool {
	return in.stop.Load()
}

func (in *Interpreter) requestStop(reason StopReason) {
	in.stopReason.Store(uint32(reason))
	in.stop.Store(true)
}

// SwapEnv makes env the active environment and returns the previously active
// environment.
func (in *Interpreter) SwapEnv(env *Environment) *Environment {
	old := in.env
	in.env = env
	return old
}

// Env returns the active environment.
func (in *Interpreter) Env() *Environment {
	return in.env
}

// Eval evaluates node and returns its value.  Eval fails with
// NotAnExpression if node is not an Expr.  If evaluation is stopped the
// returned error is a *StoppedError and the interpreter is reset so that the
// next call to Eval starts clean.
func (in *Interpreter) Eval(node Node) (Value, error) {
	expr, ok := node.(Expr)
	if !ok {
		return nil, evalErrorf(NotAnExpression, "", "cannot evaluate %s", kindOf(node))
	}
	start := in.clock.Now()
	v, err := in.run(func() (Value, error) { return in.interp(expr) })
	in.observer.ObserveEval(in.clock.Now().Sub(start), err)
	return v, err
}

// run is the entry point shared by Eval and Apply.  Call tracking starts
// fresh and a stop resets the interpreter before the error is returned.
func (in *Interpreter) run(fn func() (Value, error)) (Value, error) {
	in.resetCalls()
	v, err := fn()
	if err != nil {
		var stopped *StoppedError
		if errors.As(err, &stopped) {
			in.halt(stopped)
		}
		return nil, err
	}
	return v, nil
}

func kindOf(node Node) Kind {
	if node == nil {
		return KindInvalid
	}
	return node.Kind()
}

// halt resets the interpreter after a stop.  The stop request is consumed.
func (in *Interpreter) halt(stopped *StoppedError) {
	in.log.Info("evaluation stopped",
		zap.String("function", stopped.Function),
		zap.Stringer("reason", stopped.Reason),
		zap.Int("stack_height", stopped.Stack.Height()))
	in.observer.ObserveStop(stopped.Reason)
	if in.stackDump {
		stopped.Stack.DebugPrint(in.stderr)
	}
	in.stop.Store(false)
	in.env = NewEnvironment()
	in.Stack.Reset()
	in.resetCalls()
}

func (in *Interpreter) resetCalls() {
	in.lastClosure = nil
	in.lastName = ""
	in.callCount = 0
}

func (in *Interpreter) stopped() *StoppedError {
	return &StoppedError{
		Function: in.lastName,
		Reason:   StopReason(in.stopReason.Load()),
		Stack:    in.Stack.Copy(),
	}
}

// recordCall tracks consecutive entries into f and requests a stop once the
// function call limit is exceeded.
func (in *Interpreter) recordCall(f *Closure) {
	if in.lastClosure == f {
		in.callCount++
	} else {
		in.lastClosure = f
		in.callCount = 1
	}
	in.lastName = f.displayName()
	if in.callCount > in.callLimit {
		in.log.Warn("function call limit exceeded",
			zap.String("function", in.lastName),
			zap.Int("limit", in.callLimit))
		in.requestStop(StopRecursionLimit)
	}
}

func (f *Closure) displayName() string {
	if f.Name == "" {
		return "lambda"
	}
	return f.Name
}

func (in *Interpreter) interp(expr Expr) (Value, error) {
	if in.stop.Load() {
		return nil, in.stopped()
	}
	switch e := expr.(type) {
	case *PairExpr:
		car, err := in.interp(e.Car)
		if err != nil {
			return nil, err
		}
		cdr, err := in.interp(e.Cdr)
		if err != nil {
			return nil, err
		}
		return &Pair{Car: car, Cdr: cdr}, nil
	case *EmptyExpr:
		return &Empty{}, nil
	case *BoolExpr:
		return Bool(e.B), nil
	case *NumExpr:
		return &Num{N: e.N}, nil
	case *StrExpr:
		return &Str{S: e.S}, nil
	case *CharExpr:
		return &Char{C: e.C}, nil
	case *PrimitiveExpr:
		return in.interpPrimitive(e)
	case *LambdaExpr:
		return in.makeClosure(e, nil)
	case *NameExpr:
		return in.lookup(e.Name)
	case *IfExpr:
		return in.interpIf(e)
	case *CondExpr:
		return in.interpCond(e)
	case *AndExpr:
		return in.interpAnd(e)
	case *OrExpr:
		return in.interpOr(e)
	case *AppExpr:
		return in.interpApp(e)
	case *ArgumentsExpr:
		return in.interpArguments(e)
	case *ArgumentSpecExpr:
		return e.Value(), nil
	default:
		return nil, evalErrorf(InvalidEvalTarget, "", "cannot interpret %s", kindOf(expr))
	}
}

func (in *Interpreter) interpPrimitive(e *PrimitiveExpr) (Value, error) {
	if e.Spec == nil || e.Fn == nil {
		return nil, evalErrorf(MalformedExpr, e.Name, "primitive requires an argument spec and a function")
	}
	if len(e.Spec.Keyword) > 0 {
		return nil, evalErrorf(KeywordArgsUnsupportedInPrimitive, e.Name, "spec %s", Display(e.Spec))
	}
	return &Primitive{Spec: e.Spec.Value(), Fn: e.Fn, Name: e.Name}, nil
}

// makeClosure creates a closure capturing a copy of the active environment.
// When self is non-nil the closure's innermost frame binds self.name to the
// cell so the closure can refer to itself.
func (in *Interpreter) makeClosure(e *LambdaExpr, self *selfBinding) (*Closure, error) {
	if e.Spec == nil || e.Body == nil {
		return nil, evalErrorf(MalformedExpr, "", "lambda requires an argument spec and a body")
	}
	f := &Closure{
		Spec: e.Spec.Value(),
		Body: CloneExpr(e.Body),
		Env:  in.env.Clone(),
	}
	if self != nil {
		f.Name = self.name
		f.Env.ExtendCell(self.name, self.cell)
	}
	return f, nil
}

type selfBinding struct {
	name string
	cell *Cell
}

func (in *Interpreter) interpIf(e *IfExpr) (Value, error) {
	pred, err := in.interp(e.Pred)
	if err != nil {
		return nil, err
	}
	if IsTrue(pred) {
		return in.interp(e.Then)
	}
	return in.interp(e.Else)
}

func (in *Interpreter) interpCond(e *CondExpr) (Value, error) {
	if len(e.Clauses) == 0 && !e.Else.IsPresent() {
		return nil, evalErrorf(MalformedExpr, "", "cond requires at least one clause")
	}
	for _, clause := range e.Clauses {
		test, err := in.interp(clause.Test)
		if err != nil {
			return nil, err
		}
		if !IsFalse(test) {
			return in.interp(clause.Body)
		}
	}
	if body, ok := e.Else.Get(); ok {
		return in.interp(body)
	}
	return nil, evalErrorf(NoMatchingClause, "", "all %d clause tests were false", len(e.Clauses))
}

func (in *Interpreter) interpAnd(e *AndExpr) (Value, error) {
	var v Value = True
	for _, arg := range e.Args {
		var err error
		v, err = in.interp(arg)
		if err != nil {
			return nil, err
		}
		if IsFalse(v) {
			return v, nil
		}
	}
	return v, nil
}

func (in *Interpreter) interpOr(e *OrExpr) (Value, error) {
	for _, arg := range e.Args {
		v, err := in.interp(arg)
		if err != nil {
			return nil, err
		}
		if !IsFalse(v) {
			return v, nil
		}
	}
	return False, nil
}

func (in *Interpreter) interpArguments(e *ArgumentsExpr) (*Arguments, error) {
	args := &Arguments{Keyword: make(map[string]Value)}
	if e == nil {
		return args, nil
	}
	args.Positional = make([]Value, len(e.Positional))
	for i, x := range e.Positional {
		v, err := in.interp(x)
		if err != nil {
			return nil, err
		}
		args.Positional[i] = v
	}
	for _, kw := range e.Keywords() {
		v, err := in.interp(e.Keyword[kw])
		if err != nil {
			return nil, err
		}
		args.Keyword[kw] = v
	}
	return args, nil
}

func (in *Interpreter) interpApp(e *AppExpr) (Value, error) {
	fv, err := in.interp(e.Fn)
	if err != nil {
		return nil, err
	}
	switch f := fv.(type) {
	case *Closure:
		if !f.Spec.Accepts(e.Args) {
			return nil, arityError(f.displayName(), f.Spec, e.Args)
		}
	case *Primitive:
		if len(e.Args.Keywords()) > 0 {
			return nil, evalErrorf(KeywordArgsUnsupportedInPrimitive, f.Name, "called with %s", Display(e.Args))
		}
		if !f.Spec.Accepts(e.Args) {
			return nil, arityError(f.Name, f.Spec, e.Args)
		}
	default:
		return nil, evalErrorf(NotCallable, "", "%s is a %s", Display(fv), fv.Kind())
	}
	args, err := in.interpArguments(e.Args)
	if err != nil {
		return nil, err
	}
	return in.apply(fv, args)
}

func arityError(name string, spec *ArgumentSpec, args CallSite) error {
	kws := lo.Map(args.Keywords(), func(kw string, _ int) string { return "#:" + kw })
	return evalErrorf(ArityOrKeywordMismatch, name,
		"expected %s but got %d positional arguments and keywords %v",
		Display(spec), args.NumPositional(), kws)
}

// Apply calls the Closure or Primitive fn with args.  The arguments of a
// closure are bound in a new frame of the closure's environment, which is
// active while the body is evaluated.  The frame is removed and the caller's
// environment restored before Apply returns.  Like Eval, a stopped Apply
// resets the interpreter.
func (in *Interpreter) Apply(fn Value, args *Arguments) (Value, error) {
	return in.run(func() (Value, error) { return in.apply(fn, args) })
}

func (in *Interpreter) apply(fn Value, args *Arguments) (Value, error) {
	if in.stop.Load() {
		return nil, in.stopped()
	}
	switch f := fn.(type) {
	case *Closure:
		return in.applyClosure(f, args)
	case *Primitive:
		return in.applyPrimitive(f, args)
	default:
		return nil, evalErrorf(NotCallable, "", "%s is a %s", Display(fn), kindOf(fn))
	}
}

func (in *Interpreter) pushFrame(frame CallFrame) error {
	if in.Stack.Push(frame) {
		return nil
	}
	in.log.Warn("maximum stack height exceeded",
		zap.String("function", frame.FunName()),
		zap.Int("height", in.Stack.Height()))
	in.lastName = frame.FunName()
	in.requestStop(StopStackHeight)
	return in.stopped()
}

func (in *Interpreter) applyClosure(f *Closure, args *Arguments) (Value, error) {
	if !f.Spec.Accepts(args) {
		return nil, arityError(f.displayName(), f.Spec, args)
	}
	repeat := 1
	if in.lastClosure == f {
		repeat = in.callCount + 1
	}
	err := in.pushFrame(CallFrame{Name: f.Name, Repeat: repeat})
	if err != nil {
		return nil, err
	}
	defer in.Stack.Pop()

	saved := in.SwapEnv(f.Env)
	defer in.SwapEnv(saved)
	err = f.Spec.BindArguments(f.Env, args)
	if err != nil {
		return nil, err
	}
	defer f.Spec.UnbindArguments(f.Env)

	in.recordCall(f)
	in.observer.ObserveCall(f.displayName(), false)
	return in.interp(f.Body)
}

func (in *Interpreter) applyPrimitive(f *Primitive, args *Arguments) (Value, error) {
	if len(args.Keywords()) > 0 {
		return nil, evalErrorf(KeywordArgsUnsupportedInPrimitive, f.Name, "called with %s", Display(args))
	}
	if !f.Spec.Accepts(args) {
		return nil, arityError(f.Name, f.Spec, args)
	}
	err := in.pushFrame(CallFrame{Name: f.Name, Primitive: true})
	if err != nil {
		return nil, err
	}
	defer in.Stack.Pop()

	in.observer.ObserveCall(f.Name, true)
	n := len(f.Spec.Positional)
	v, err := f.Fn(args.Positional[:n:n], args.Positional[n:])
	if err != nil {
		var evalErr *EvalError
		if errors.As(err, &evalErr) || IsStopped(err) {
			return nil, err
		}
		return nil, &EvalError{Kind: PrimitiveFailure, Name: f.Name, Err: err}
	}
	if v == nil {
		return nil, evalErrorf(PrimitiveFailure, f.Name, "no value returned")
	}
	return v, nil
}

func (in *Interpreter) lookup(name string) (Value, error) {
	for _, env := range []*Environment{in.env, in.topLevel, in.builtins} {
		c, ok := env.LookupCell(name)
		if !ok {
			continue
		}
		v, ok := c.Get()
		if !ok {
			return nil, evalErrorf(UnboundIdentifier, name, "used before its definition is complete")
		}
		return v, nil
	}
	return nil, &EvalError{Kind: UnboundIdentifier, Name: name}
}

// Lookup returns the value bound to name in the active environment, the top
// level or the builtins, in that order.
func (in *Interpreter) Lookup(name string) (Value, bool) {
	v, err := in.lookup(name)
	return v, err == nil
}

// Bind evaluates expr and binds its value to name at the top level.  A
// closure bound by name can refer to itself through name.
func (in *Interpreter) Bind(name string, expr Expr) error {
	cell, err := in.bindCell(name, expr)
	if err != nil {
		return err
	}
	in.topLevel.ExtendCell(name, cell)
	in.log.Debug("bound top-level identifier", zap.String("name", name))
	return nil
}

// BindBuiltin evaluates expr and binds its value to name in the builtin
// namespace.  Builtins are write-once; binding a name twice fails with
// DuplicateBuiltin.
func (in *Interpreter) BindBuiltin(name string, expr Expr) error {
	if in.builtins.Top().Bound(name) {
		return &EvalError{Kind: DuplicateBuiltin, Name: name}
	}
	cell, err := in.bindCell(name, expr)
	if err != nil {
		return err
	}
	in.builtins.ExtendCell(name, cell)
	in.log.Debug("bound builtin", zap.String("name", name))
	return nil
}

// bindCell evaluates expr into a new cell.  Lambdas are given a forward
// reference to the cell before the closure exists.  Any other closure has
// the cell pushed onto its innermost frame after evaluation.
func (in *Interpreter) bindCell(name string, expr Expr) (*Cell, error) {
	if name == "" {
		return nil, evalErrorf(MalformedExpr, "", "empty binding name")
	}
	cell := &Cell{}
	if lambda, ok := expr.(*LambdaExpr); ok {
		f, err := in.makeClosure(lambda, &selfBinding{name: name, cell: cell})
		if err != nil {
			return nil, err
		}
		return cell, cell.Set(f)
	}
	v, err := in.Eval(expr)
	if err != nil {
		return nil, err
	}
	if f, ok := v.(*Closure); ok {
		top := f.Env.Top()
		if top != nil && top.Bound(name) {
			return nil, evalErrorf(RecursiveBindingConflict, name, "already bound in the closure's frame")
		}
		if f.Name == "" {
			f.Name = name
		}
		f.Env.ExtendCell(name, cell)
	}
	return cell, cell.Set(v)
}

// GetAllBoundIdentifiers returns the names bound at the top level and in the
// builtin namespace, sorted and without duplicates.
func (in *Interpreter) GetAllBoundIdentifiers() []string {
	names := lo.Uniq(append(in.topLevel.Names(), in.builtins.Names()...))
	sort.Strings(names)
	return names
}

// IsBuiltin returns true if name is bound in the builtin namespace.
func (in *Interpreter) IsBuiltin(name string) bool {
	return in.builtins.Top().Bound(name)
}

// String implements fmt.Stringer for debugging.
func (in *Interpreter) String() string {
	return fmt.Sprintf("ray.Interpreter{top-level: %d, builtins: %d, stack: %d}",
		len(in.topLevel.Names()), len(in.builtins.Names()), in.Stack.Height())
}
