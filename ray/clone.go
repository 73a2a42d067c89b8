package ray

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Clone returns a deep structural copy of node.  A cloned Closure gets a copy
// of its environment; the values bound in that environment are shared.
// Primitive functions are shared.
func Clone(node Node) Node {
	switch n := node.(type) {
	case Expr:
		return CloneExpr(n)
	case Value:
		return CloneValue(n)
	default:
		return nil
	}
}

// CloneExpr returns a deep copy of e.
func CloneExpr(e Expr) Expr {
	switch e := e.(type) {
	case *PairExpr:
		return &PairExpr{Car: CloneExpr(e.Car), Cdr: CloneExpr(e.Cdr)}
	case *EmptyExpr:
		return &EmptyExpr{}
	case *BoolExpr:
		return &BoolExpr{B: e.B}
	case *NumExpr:
		return &NumExpr{N: e.N}
	case *StrExpr:
		return &StrExpr{S: e.S}
	case *CharExpr:
		return &CharExpr{C: e.C}
	case *PrimitiveExpr:
		return &PrimitiveExpr{Spec: cloneSpecExpr(e.Spec), Fn: e.Fn, Name: e.Name}
	case *LambdaExpr:
		return &LambdaExpr{Spec: cloneSpecExpr(e.Spec), Body: CloneExpr(e.Body)}
	case *NameExpr:
		return &NameExpr{Name: e.Name}
	case *IfExpr:
		return &IfExpr{Pred: CloneExpr(e.Pred), Then: CloneExpr(e.Then), Else: CloneExpr(e.Else)}
	case *CondExpr:
		c := &CondExpr{Else: e.Else}
		for _, clause := range e.Clauses {
			c.Clauses = append(c.Clauses, CondClause{Test: CloneExpr(clause.Test), Body: CloneExpr(clause.Body)})
		}
		if body, ok := e.Else.Get(); ok {
			c.Else = mo.Some(CloneExpr(body))
		}
		return c
	case *AndExpr:
		return &AndExpr{Args: cloneExprs(e.Args)}
	case *OrExpr:
		return &OrExpr{Args: cloneExprs(e.Args)}
	case *AppExpr:
		return &AppExpr{Fn: CloneExpr(e.Fn), Args: cloneArgsExpr(e.Args)}
	case *ArgumentsExpr:
		return cloneArgsExpr(e)
	case *ArgumentSpecExpr:
		return cloneSpecExpr(e)
	default:
		return e
	}
}

// CloneValue returns a deep copy of v.
func CloneValue(v Value) Value {
	switch v := v.(type) {
	case *Pair:
		return &Pair{Car: CloneValue(v.Car), Cdr: CloneValue(v.Cdr)}
	case *Empty:
		return &Empty{}
	case *Boolean:
		return &Boolean{B: v.B}
	case *Num:
		return &Num{N: v.N}
	case *Str:
		return &Str{S: v.S}
	case *Char:
		return &Char{C: v.C}
	case *Primitive:
		return &Primitive{Spec: cloneSpec(v.Spec), Fn: v.Fn, Name: v.Name}
	case *Closure:
		return &Closure{Spec: cloneSpec(v.Spec), Body: CloneExpr(v.Body), Env: v.Env.Clone(), Name: v.Name}
	case *ArgumentSpec:
		return cloneSpec(v)
	case *Arguments:
		return &Arguments{
			Positional: lo.Map(v.Positional, func(x Value, _ int) Value { return CloneValue(x) }),
			Keyword:    lo.MapValues(v.Keyword, func(x Value, _ string) Value { return CloneValue(x) }),
		}
	default:
		return v
	}
}

func cloneExprs(es []Expr) []Expr {
	if es == nil {
		return nil
	}
	return lo.Map(es, func(e Expr, _ int) Expr { return CloneExpr(e) })
}

func cloneArgsExpr(a *ArgumentsExpr) *ArgumentsExpr {
	if a == nil {
		return nil
	}
	return &ArgumentsExpr{
		Positional: cloneExprs(a.Positional),
		Keyword:    lo.MapValues(a.Keyword, func(e Expr, _ string) Expr { return CloneExpr(e) }),
	}
}

func cloneSpecExpr(s *ArgumentSpecExpr) *ArgumentSpecExpr {
	if s == nil {
		return nil
	}
	return &ArgumentSpecExpr{
		Positional: append([]string(nil), s.Positional...),
		Keyword:    cloneMap(s.Keyword),
		Rest:       s.Rest,
	}
}

func cloneSpec(s *ArgumentSpec) *ArgumentSpec {
	if s == nil {
		return nil
	}
	return &ArgumentSpec{
		Positional: append([]string(nil), s.Positional...),
		Keyword:    cloneMap(s.Keyword),
		Rest:       s.Rest,
	}
}
