package raylib

import (
	"github.com/brownplt/BlockLang-sub000/ray"
)

func isKind(kind ray.Kind) ray.PrimitiveFunc {
	return func(args []ray.Value, _ []ray.Value) (ray.Value, error) {
		return ray.Bool(args[0].Kind() == kind), nil
	}
}

func builtinProcedureP(args []ray.Value, _ []ray.Value) (ray.Value, error) {
	switch args[0].(type) {
	case *ray.Closure, *ray.Primitive:
		return ray.True, nil
	default:
		return ray.False, nil
	}
}

func builtinNot(args []ray.Value, _ []ray.Value) (ray.Value, error) {
	return ray.Bool(ray.IsFalse(args[0])), nil
}

func builtinEqual(args []ray.Value, _ []ray.Value) (ray.Value, error) {
	return ray.Bool(ray.Equal(args[0], args[1])), nil
}

func builtinCons(args []ray.Value, _ []ray.Value) (ray.Value, error) {
	return &ray.Pair{Car: args[0], Cdr: args[1]}, nil
}

func builtinCar(args []ray.Value, _ []ray.Value) (ray.Value, error) {
	p, err := argPair(args[0])
	if err != nil {
		return nil, err
	}
	return p.Car, nil
}

func builtinCdr(args []ray.Value, _ []ray.Value) (ray.Value, error) {
	p, err := argPair(args[0])
	if err != nil {
		return nil, err
	}
	return p.Cdr, nil
}

func builtinList(_ []ray.Value, rest []ray.Value) (ray.Value, error) {
	return ray.List(rest...), nil
}

func builtinLength(args []ray.Value, _ []ray.Value) (ray.Value, error) {
	vs, ok := ray.ListSlice(args[0])
	if !ok {
		return nil, typeError("list", args[0])
	}
	return &ray.Num{N: ray.Int(int64(len(vs)))}, nil
}
