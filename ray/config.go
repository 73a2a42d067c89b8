package ray

import (
	"fmt"
	"io"

	"github.com/raulk/clock"
	"go.uber.org/zap"
)

// DefaultFunctionCallLimit is the default number of consecutive entries into
// the same closure allowed before evaluation is stopped.
const DefaultFunctionCallLimit = 100

// Config is a function that configures an Interpreter.
type Config func(in *Interpreter) error

// WithFunctionCallLimit returns a Config that stops evaluation when the same
// closure is entered more than n times without another closure being entered
// in between.
func WithFunctionCallLimit(n int) Config {
	return func(in *Interpreter) error {
		if n < 1 {
			return fmt.Errorf("invalid function call limit: %d", n)
		}
		in.callLimit = n
		return nil
	}
}

// WithMaximumStackHeight returns a Config that will prevent an interpreter
// from allowing its call stack height to exceed n.  Mutually recursive
// functions escape the function call limit and are stopped by this check.
func WithMaximumStackHeight(n int) Config {
	return func(in *Interpreter) error {
		if n < 1 {
			return fmt.Errorf("invalid maximum stack height: %d", n)
		}
		in.Stack.MaxHeight = n
		return nil
	}
}

// WithStderr returns a Config that makes the interpreter write debugging
// output to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(in *Interpreter) error {
		if w == nil {
			return fmt.Errorf("nil stderr")
		}
		in.stderr = w
		return nil
	}
}

// WithStackDump returns a Config that controls whether the call stack is
// printed to stderr when evaluation is stopped.
func WithStackDump(dump bool) Config {
	return func(in *Interpreter) error {
		in.stackDump = dump
		return nil
	}
}

// WithLogger returns a Config that makes the interpreter log to logger.  By
// default nothing is logged.
func WithLogger(logger *zap.Logger) Config {
	return func(in *Interpreter) error {
		if logger == nil {
			return fmt.Errorf("nil logger")
		}
		in.log = logger
		return nil
	}
}

// WithObserver returns a Config that reports function calls, evaluations and
// stops to obs.
func WithObserver(obs Observer) Config {
	return func(in *Interpreter) error {
		if obs == nil {
			return fmt.Errorf("nil observer")
		}
		in.observer = obs
		return nil
	}
}

// WithClock returns a Config that makes the interpreter time evaluations with
// c.
func WithClock(c clock.Clock) Config {
	return func(in *Interpreter) error {
		if c == nil {
			return fmt.Errorf("nil clock")
		}
		in.clock = c
		return nil
	}
}
