package raylib

import (
	"fmt"
	"strings"

	"github.com/brownplt/BlockLang-sub000/ray"
)

func str(s string) ray.Value {
	return &ray.Str{S: s}
}

func builtinMakeString(args []ray.Value, _ []ray.Value) (ray.Value, error) {
	k, err := argIndex(args[0])
	if err != nil {
		return nil, err
	}
	c, err := argChar(args[1])
	if err != nil {
		return nil, err
	}
	return str(strings.Repeat(string(c), k)), nil
}

func builtinString(_ []ray.Value, rest []ray.Value) (ray.Value, error) {
	var buf strings.Builder
	for _, v := range rest {
		c, err := argChar(v)
		if err != nil {
			return nil, err
		}
		buf.WriteRune(c)
	}
	return str(buf.String()), nil
}

func builtinStringLength(args []ray.Value, _ []ray.Value) (ray.Value, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	return num(ray.Int(int64(len(s)))), nil
}

func builtinStringRef(args []ray.Value, _ []ray.Value) (ray.Value, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	k, err := argIndex(args[1])
	if err != nil {
		return nil, err
	}
	if k >= len(s) {
		return nil, fmt.Errorf("index %d out of range for string of length %d", k, len(s))
	}
	return &ray.Char{C: s[k]}, nil
}

func builtinStringAppend(_ []ray.Value, rest []ray.Value) (ray.Value, error) {
	var buf strings.Builder
	for _, v := range rest {
		s, ok := v.(*ray.Str)
		if !ok {
			return nil, typeError("string", v)
		}
		buf.WriteString(s.S)
	}
	return str(buf.String()), nil
}

func builtinSubstring(args []ray.Value, _ []ray.Value) (ray.Value, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	start, err := argIndex(args[1])
	if err != nil {
		return nil, err
	}
	end, err := argIndex(args[2])
	if err != nil {
		return nil, err
	}
	if start > end || end > len(s) {
		return nil, fmt.Errorf("invalid indices [%d, %d) for string of length %d", start, end, len(s))
	}
	return str(string(s[start:end])), nil
}

func stringComparison(test func(c int) bool) ray.PrimitiveFunc {
	return func(args []ray.Value, _ []ray.Value) (ray.Value, error) {
		a, ok := args[0].(*ray.Str)
		if !ok {
			return nil, typeError("string", args[0])
		}
		b, ok := args[1].(*ray.Str)
		if !ok {
			return nil, typeError("string", args[1])
		}
		return ray.Bool(test(strings.Compare(a.S, b.S))), nil
	}
}
