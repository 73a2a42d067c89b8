package ray

import (
	"sort"

	"github.com/samber/lo"
)

// CallSite describes the shape of a call: how many positional arguments it
// passes and which keywords it supplies.  Both ArgumentsExpr and Arguments
// are call sites, so a call can be checked before its arguments are
// evaluated.
type CallSite interface {
	NumPositional() int
	Keywords() []string
}

var (
	_ CallSite = (*ArgumentsExpr)(nil)
	_ CallSite = (*Arguments)(nil)
)

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

// NumPositional implements CallSite.
func (a *ArgumentsExpr) NumPositional() int {
	if a == nil {
		return 0
	}
	return len(a.Positional)
}

// Keywords implements CallSite.
func (a *ArgumentsExpr) Keywords() []string {
	if a == nil {
		return nil
	}
	return sortedKeys(a.Keyword)
}

// NumPositional implements CallSite.
func (a *Arguments) NumPositional() int {
	if a == nil {
		return 0
	}
	return len(a.Positional)
}

// Keywords implements CallSite.
func (a *Arguments) Keywords() []string {
	if a == nil {
		return nil
	}
	return sortedKeys(a.Keyword)
}

// Value returns the ArgumentSpec declared by s.
func (s *ArgumentSpecExpr) Value() *ArgumentSpec {
	return &ArgumentSpec{
		Positional: append([]string(nil), s.Positional...),
		Keyword:    cloneMap(s.Keyword),
		Rest:       s.Rest,
	}
}

// Keywords returns the keyword names declared by s in sorted order.
func (s *ArgumentSpec) Keywords() []string {
	return sortedKeys(s.Keyword)
}

// HasRest returns true if s declares a rest parameter.
func (s *ArgumentSpec) HasRest() bool {
	return s.Rest.IsPresent()
}

// Accepts returns true if a call shaped like args can be bound to s.  The
// number of positional arguments must match exactly unless s has a rest
// parameter, in which case more positional arguments are allowed.  The set of
// keywords must match exactly.
func (s *ArgumentSpec) Accepts(args CallSite) bool {
	n := args.NumPositional()
	if n != len(s.Positional) && !(s.HasRest() && n > len(s.Positional)) {
		return false
	}
	missing, extra := lo.Difference(s.Keywords(), args.Keywords())
	return len(missing) == 0 && len(extra) == 0
}

// BindArguments pushes a new frame onto env binding the parameters of s to
// args.  Positional parameters are bound in order, the rest parameter is
// bound to a list of the remaining positional arguments and each keyword
// parameter is bound to the argument supplied for its keyword.
func (s *ArgumentSpec) BindArguments(env *Environment, args *Arguments) error {
	if !s.Accepts(args) {
		return evalErrorf(ArityOrKeywordMismatch, "", "%s cannot accept %s", Display(s), Display(args))
	}
	env.Push()
	for i, name := range s.Positional {
		env.Extend(name, args.Positional[i])
	}
	if rest, ok := s.Rest.Get(); ok {
		env.Extend(rest, List(args.Positional[len(s.Positional):]...))
	}
	for _, kw := range s.Keywords() {
		env.Extend(s.Keyword[kw], args.Keyword[kw])
	}
	return nil
}

// UnbindArguments pops the frame pushed by BindArguments.
func (s *ArgumentSpec) UnbindArguments(env *Environment) error {
	_, err := env.Pop()
	return err
}

func cloneMap[V any](m map[string]V) map[string]V {
	if m == nil {
		return nil
	}
	cp := make(map[string]V, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
