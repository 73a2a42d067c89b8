package raylib

import (
	"fmt"

	"github.com/brownplt/BlockLang-sub000/ray"
)

func typeError(want string, v ray.Value) error {
	return fmt.Errorf("expected %s but got %s", want, ray.Display(v))
}

func argNumber(v ray.Value) (ray.Number, error) {
	n, ok := v.(*ray.Num)
	if !ok {
		return ray.Number{}, typeError("number", v)
	}
	return n.N, nil
}

func argNumbers(vs []ray.Value) ([]ray.Number, error) {
	ns := make([]ray.Number, len(vs))
	for i, v := range vs {
		n, err := argNumber(v)
		if err != nil {
			return nil, err
		}
		ns[i] = n
	}
	return ns, nil
}

// argIndex returns v as a non-negative exact integer.
func argIndex(v ray.Value) (int, error) {
	n, err := argNumber(v)
	if err != nil {
		return 0, err
	}
	if !n.IsExact() {
		return 0, typeError("exact non-negative integer", v)
	}
	i, ok := n.Int64()
	if !ok || i < 0 || int64(int(i)) != i {
		return 0, typeError("exact non-negative integer", v)
	}
	return int(i), nil
}

func argString(v ray.Value) ([]rune, error) {
	s, ok := v.(*ray.Str)
	if !ok {
		return nil, typeError("string", v)
	}
	return []rune(s.S), nil
}

func argChar(v ray.Value) (rune, error) {
	c, ok := v.(*ray.Char)
	if !ok {
		return 0, typeError("char", v)
	}
	return c.C, nil
}

func argPair(v ray.Value) (*ray.Pair, error) {
	p, ok := v.(*ray.Pair)
	if !ok {
		return nil, typeError("pair", v)
	}
	return p, nil
}
