package ray

import "github.com/samber/mo"

// Equal reports whether a and b are structurally equal.  Nodes with different
// tags are never equal.  Numbers are compared numerically.  Functions are not
// comparable: Primitives and Closures, and the PrimitiveExprs that create
// them, are never equal to anything, including themselves.
func Equal(a, b Node) bool {
	if a == nil || b == nil || a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Pair:
		y := b.(*Pair)
		return Equal(x.Car, y.Car) && Equal(x.Cdr, y.Cdr)
	case *PairExpr:
		y := b.(*PairExpr)
		return Equal(x.Car, y.Car) && Equal(x.Cdr, y.Cdr)
	case *Empty, *EmptyExpr:
		return true
	case *Boolean:
		return x.B == b.(*Boolean).B
	case *BoolExpr:
		return x.B == b.(*BoolExpr).B
	case *Num:
		return x.N.Equal(b.(*Num).N)
	case *NumExpr:
		return x.N.Equal(b.(*NumExpr).N)
	case *Str:
		return x.S == b.(*Str).S
	case *StrExpr:
		return x.S == b.(*StrExpr).S
	case *Char:
		return x.C == b.(*Char).C
	case *CharExpr:
		return x.C == b.(*CharExpr).C
	case *Primitive, *Closure, *PrimitiveExpr:
		return false
	case *LambdaExpr:
		y := b.(*LambdaExpr)
		return Equal(x.Spec, y.Spec) && Equal(x.Body, y.Body)
	case *NameExpr:
		return x.Name == b.(*NameExpr).Name
	case *IfExpr:
		y := b.(*IfExpr)
		return Equal(x.Pred, y.Pred) && Equal(x.Then, y.Then) && Equal(x.Else, y.Else)
	case *CondExpr:
		y := b.(*CondExpr)
		if len(x.Clauses) != len(y.Clauses) {
			return false
		}
		for i := range x.Clauses {
			if !Equal(x.Clauses[i].Test, y.Clauses[i].Test) || !Equal(x.Clauses[i].Body, y.Clauses[i].Body) {
				return false
			}
		}
		xe, xok := x.Else.Get()
		ye, yok := y.Else.Get()
		if xok != yok {
			return false
		}
		return !xok || Equal(xe, ye)
	case *AndExpr:
		return equalSlices(x.Args, b.(*AndExpr).Args)
	case *OrExpr:
		return equalSlices(x.Args, b.(*OrExpr).Args)
	case *AppExpr:
		y := b.(*AppExpr)
		return Equal(x.Fn, y.Fn) && equalArguments(x.Args, y.Args)
	case *ArgumentsExpr:
		return equalArguments(x, b.(*ArgumentsExpr))
	case *Arguments:
		y := b.(*Arguments)
		return equalSlices(x.Positional, y.Positional) && equalMaps(x.Keyword, y.Keyword)
	case *ArgumentSpecExpr:
		y := b.(*ArgumentSpecExpr)
		return equalSpec(x.Positional, x.Keyword, x.Rest, y.Positional, y.Keyword, y.Rest)
	case *ArgumentSpec:
		y := b.(*ArgumentSpec)
		return equalSpec(x.Positional, x.Keyword, x.Rest, y.Positional, y.Keyword, y.Rest)
	default:
		return false
	}
}

func equalSlices[T Node](xs, ys []T) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if !Equal(xs[i], ys[i]) {
			return false
		}
	}
	return true
}

func equalMaps[T Node](xs, ys map[string]T) bool {
	if len(xs) != len(ys) {
		return false
	}
	for k, x := range xs {
		y, ok := ys[k]
		if !ok || !Equal(x, y) {
			return false
		}
	}
	return true
}

func equalArguments(x, y *ArgumentsExpr) bool {
	if x == nil || y == nil {
		return x.NumPositional() == 0 && y.NumPositional() == 0 &&
			len(x.Keywords()) == 0 && len(y.Keywords()) == 0
	}
	return equalSlices(x.Positional, y.Positional) && equalMaps(x.Keyword, y.Keyword)
}

func equalSpec(xp []string, xk map[string]string, xr mo.Option[string], yp []string, yk map[string]string, yr mo.Option[string]) bool {
	xrest, xok := xr.Get()
	yrest, yok := yr.Get()
	if xok != yok || xrest != yrest || len(xp) != len(yp) || len(xk) != len(yk) {
		return false
	}
	for i := range xp {
		if xp[i] != yp[i] {
			return false
		}
	}
	for k, v := range xk {
		if w, ok := yk[k]; !ok || v != w {
			return false
		}
	}
	return true
}
