package ray

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an EvalError.
type ErrorKind uint

// Possible ErrorKind values
const (
	ErrorUnknown ErrorKind = iota
	UnboundIdentifier
	NotCallable
	ArityOrKeywordMismatch
	NoMatchingClause
	DuplicateBuiltin
	KeywordArgsUnsupportedInPrimitive
	RecursiveBindingConflict
	NotAnExpression
	InvalidEvalTarget
	EmptyBinding
	MalformedExpr
	PrimitiveFailure
	numErrorKinds
)

var errorKindStrings = [numErrorKinds]string{
	ErrorUnknown:                      "unknown-error",
	UnboundIdentifier:                 "unbound identifier",
	NotCallable:                       "not callable",
	ArityOrKeywordMismatch:            "arity or keyword mismatch",
	NoMatchingClause:                  "no matching cond clause",
	DuplicateBuiltin:                  "duplicate builtin",
	KeywordArgsUnsupportedInPrimitive: "keyword arguments not supported for primitives",
	RecursiveBindingConflict:          "recursive binding conflict",
	NotAnExpression:                   "not an expression",
	InvalidEvalTarget:                 "invalid evaluation target",
	EmptyBinding:                      "empty binding",
	MalformedExpr:                     "malformed expression",
	PrimitiveFailure:                  "primitive failure",
}

func (k ErrorKind) String() string {
	if k >= numErrorKinds {
		return errorKindStrings[ErrorUnknown]
	}
	return errorKindStrings[k]
}

// Sentinel errors matching every EvalError of the corresponding kind with
// errors.Is.
var (
	ErrUnboundIdentifier                 = &EvalError{Kind: UnboundIdentifier}
	ErrNotCallable                       = &EvalError{Kind: NotCallable}
	ErrArityOrKeywordMismatch            = &EvalError{Kind: ArityOrKeywordMismatch}
	ErrNoMatchingClause                  = &EvalError{Kind: NoMatchingClause}
	ErrDuplicateBuiltin                  = &EvalError{Kind: DuplicateBuiltin}
	ErrKeywordArgsUnsupportedInPrimitive = &EvalError{Kind: KeywordArgsUnsupportedInPrimitive}
	ErrRecursiveBindingConflict          = &EvalError{Kind: RecursiveBindingConflict}
	ErrNotAnExpression                   = &EvalError{Kind: NotAnExpression}
	ErrInvalidEvalTarget                 = &EvalError{Kind: InvalidEvalTarget}
	ErrEmptyBinding                      = &EvalError{Kind: EmptyBinding}
	ErrMalformedExpr                     = &EvalError{Kind: MalformedExpr}
	ErrPrimitiveFailure                  = &EvalError{Kind: PrimitiveFailure}
)

// EvalError is an evaluation failure caused by the program being evaluated.
// Name is the identifier or function involved, when there is one.
type EvalError struct {
	Kind ErrorKind
	Name string
	Err  error
}

func evalErrorf(kind ErrorKind, name string, format string, v ...interface{}) *EvalError {
	return &EvalError{Kind: kind, Name: name, Err: fmt.Errorf(format, v...)}
}

func (e *EvalError) Error() string {
	msg := e.Kind.String()
	if e.Name != "" {
		msg += ": " + e.Name
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an EvalError of the same kind.
func (e *EvalError) Is(target error) bool {
	t, ok := target.(*EvalError)
	return ok && t.Kind == e.Kind
}

// StopReason explains why evaluation was stopped.
type StopReason uint

// Possible StopReason values
const (
	StopRequested StopReason = iota
	StopRecursionLimit
	StopStackHeight
)

func (r StopReason) String() string {
	switch r {
	case StopRecursionLimit:
		return "function call limit exceeded"
	case StopStackHeight:
		return "maximum stack height exceeded"
	default:
		return "stop requested"
	}
}

// ErrStopped matches every StoppedError with errors.Is.
var ErrStopped = errors.New("evaluation stopped")

// StoppedError is returned when evaluation is cancelled cooperatively, either
// at the request of the host or because a safety limit was reached.  It is
// not an EvalError: the program was not necessarily wrong.
type StoppedError struct {
	// Function is the name of the last function entered, if known.
	Function string
	Reason   StopReason
	// Stack is a copy of the call stack at the time evaluation stopped.
	Stack *CallStack
}

func (e *StoppedError) Error() string {
	if e.Function == "" {
		return fmt.Sprintf("%v: %v", ErrStopped, e.Reason)
	}
	return fmt.Sprintf("%v in %s: %v", ErrStopped, e.Function, e.Reason)
}

func (e *StoppedError) Is(target error) bool {
	return target == ErrStopped
}

// IsStopped returns true if err resulted from a cooperative stop.
func IsStopped(err error) bool {
	return errors.Is(err, ErrStopped)
}
