package raylib

import (
	"math"
	"math/big"

	"github.com/brownplt/BlockLang-sub000/ray"
)

func num(n ray.Number) ray.Value {
	return &ray.Num{N: n}
}

func builtinIntegerP(args []ray.Value, _ []ray.Value) (ray.Value, error) {
	n, ok := args[0].(*ray.Num)
	return ray.Bool(ok && n.N.IsInteger()), nil
}

func builtinAdd(_ []ray.Value, rest []ray.Value) (ray.Value, error) {
	ns, err := argNumbers(rest)
	if err != nil {
		return nil, err
	}
	sum := ray.Int(0)
	for _, n := range ns {
		sum = sum.Add(n)
	}
	return num(sum), nil
}

func builtinMul(_ []ray.Value, rest []ray.Value) (ray.Value, error) {
	ns, err := argNumbers(rest)
	if err != nil {
		return nil, err
	}
	prod := ray.Int(1)
	for _, n := range ns {
		prod = prod.Mul(n)
	}
	return num(prod), nil
}

// builtinSub negates a single argument and otherwise subtracts the remaining
// arguments from the first.
func builtinSub(args []ray.Value, rest []ray.Value) (ray.Value, error) {
	x, err := argNumber(args[0])
	if err != nil {
		return nil, err
	}
	ns, err := argNumbers(rest)
	if err != nil {
		return nil, err
	}
	if len(ns) == 0 {
		return num(x.Neg()), nil
	}
	for _, n := range ns {
		x = x.Sub(n)
	}
	return num(x), nil
}

// builtinDiv returns the reciprocal of a single argument and otherwise divides
// the first argument by the remaining arguments.
func builtinDiv(args []ray.Value, rest []ray.Value) (ray.Value, error) {
	x, err := argNumber(args[0])
	if err != nil {
		return nil, err
	}
	ns, err := argNumbers(rest)
	if err != nil {
		return nil, err
	}
	if len(ns) == 0 {
		ns, x = []ray.Number{x}, ray.Int(1)
	}
	for _, n := range ns {
		x, err = x.Div(n)
		if err != nil {
			return nil, err
		}
	}
	return num(x), nil
}

func numericComparison(test func(c int) bool) ray.PrimitiveFunc {
	return func(args []ray.Value, _ []ray.Value) (ray.Value, error) {
		ns, err := argNumbers(args)
		if err != nil {
			return nil, err
		}
		c, ok := ns[0].Cmp(ns[1])
		return ray.Bool(ok && test(c)), nil
	}
}

func numericBinop(op func(a, b ray.Number) (ray.Number, error)) ray.PrimitiveFunc {
	return func(args []ray.Value, _ []ray.Value) (ray.Value, error) {
		ns, err := argNumbers(args)
		if err != nil {
			return nil, err
		}
		z, err := op(ns[0], ns[1])
		if err != nil {
			return nil, err
		}
		return num(z), nil
	}
}

func numericUnary(op func(x ray.Number) ray.Number) ray.PrimitiveFunc {
	return func(args []ray.Value, _ []ray.Value) (ray.Value, error) {
		x, err := argNumber(args[0])
		if err != nil {
			return nil, err
		}
		return num(op(x)), nil
	}
}

// numericExtreme returns the greatest (sign 1) or least (sign -1) argument.
func numericExtreme(sign int) ray.PrimitiveFunc {
	return func(args []ray.Value, rest []ray.Value) (ray.Value, error) {
		ns, err := argNumbers(append(args, rest...))
		if err != nil {
			return nil, err
		}
		best := ns[0]
		for _, n := range ns[1:] {
			c, ok := n.Cmp(best)
			if !ok {
				return num(ray.Float(math.NaN())), nil
			}
			if c == sign {
				best = n
			}
		}
		return num(best), nil
	}
}

func sgn(x ray.Number) ray.Number {
	s := ray.Int(int64(x.Sign()))
	if !x.IsExact() {
		return ray.Float(s.Float64())
	}
	return s
}

// builtinSqrt returns an exact root for exact perfect squares.
func builtinSqrt(args []ray.Value, _ []ray.Value) (ray.Value, error) {
	x, err := argNumber(args[0])
	if err != nil {
		return nil, err
	}
	if r, ok := x.Rat(); ok && r.Sign() >= 0 {
		n, nok := exactSqrt(r.Num())
		d, dok := exactSqrt(r.Denom())
		if nok && dok {
			return num(ray.Exact(new(big.Rat).SetFrac(n, d))), nil
		}
	}
	return num(ray.Float(math.Sqrt(x.Float64()))), nil
}

func exactSqrt(i *big.Int) (*big.Int, bool) {
	root := new(big.Int).Sqrt(i)
	if new(big.Int).Mul(root, root).Cmp(i) != 0 {
		return nil, false
	}
	return root, true
}

func builtinExp(args []ray.Value, _ []ray.Value) (ray.Value, error) {
	x, err := argNumber(args[0])
	if err != nil {
		return nil, err
	}
	if x.IsExact() && x.Sign() == 0 {
		return num(ray.Int(1)), nil
	}
	return num(ray.Float(math.Exp(x.Float64()))), nil
}

func builtinLog(args []ray.Value, _ []ray.Value) (ray.Value, error) {
	x, err := argNumber(args[0])
	if err != nil {
		return nil, err
	}
	if x.IsExact() && x.Equal(ray.Int(1)) {
		return num(ray.Int(0)), nil
	}
	return num(ray.Float(math.Log(x.Float64()))), nil
}
