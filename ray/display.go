package ray

import (
	"io"
	"strconv"
	"strings"

	"github.com/brownplt/BlockLang-sub000/internal/lfmt"
	"github.com/samber/mo"
)

var charNames = map[rune]string{
	' ':    "space",
	'\n':   "newline",
	'\t':   "tab",
	'\r':   "return",
	0:      "nul",
	'\x7f': "delete",
}

// Display returns the s-expression text for node.  The text is meant for
// people and is not guaranteed to parse back into node.
func Display(node Node) string {
	var buf strings.Builder
	Format(&buf, node)
	return buf.String()
}

// Format writes the s-expression text for node to w.
func Format(w io.Writer, node Node) (int, error) {
	lw := lfmt.NewWriter(w)
	format(lw, node)
	return lw.Result()
}

func formatAll[T Node](w *lfmt.Writer, nodes []T) {
	lfmt.Join(w, nodes, " ", func(w io.Writer, node T) (int, error) {
		return Format(w, node)
	})
}

func format(w *lfmt.Writer, node Node) {
	switch n := node.(type) {
	case *PairExpr:
		formatList(w, n)
	case *Pair:
		formatList(w, n)
	case *EmptyExpr, *Empty:
		w.WriteString("()")
	case *BoolExpr:
		formatBool(w, n.B)
	case *Boolean:
		formatBool(w, n.B)
	case *NumExpr:
		w.WriteString(n.N.String())
	case *Num:
		w.WriteString(n.N.String())
	case *StrExpr:
		w.WriteString(strconv.Quote(n.S))
	case *Str:
		w.WriteString(strconv.Quote(n.S))
	case *CharExpr:
		formatChar(w, n.C)
	case *Char:
		formatChar(w, n.C)
	case *PrimitiveExpr:
		formatPrimitive(w, n.Spec)
	case *Primitive:
		formatPrimitive(w, n.Spec)
	case *LambdaExpr:
		formatLambda(w, n.Spec, n.Body)
	case *Closure:
		formatLambda(w, n.Spec, n.Body)
	case *NameExpr:
		w.WriteString(n.Name)
	case *IfExpr:
		w.WriteString("(if ")
		formatAll(w, []Expr{n.Pred, n.Then, n.Else})
		w.WriteString(")")
	case *CondExpr:
		w.WriteString("(cond")
		for _, c := range n.Clauses {
			w.WriteString(" [")
			formatAll(w, []Expr{c.Test, c.Body})
			w.WriteString("]")
		}
		if e, ok := n.Else.Get(); ok {
			w.WriteString(" [else ")
			format(w, e)
			w.WriteString("]")
		}
		w.WriteString(")")
	case *AndExpr:
		formatForm(w, "and", n.Args)
	case *OrExpr:
		formatForm(w, "or", n.Args)
	case *AppExpr:
		w.WriteString("(")
		format(w, n.Fn)
		if n.Args.NumPositional() > 0 || len(n.Args.Keywords()) > 0 {
			w.WriteString(" ")
			format(w, n.Args)
		}
		w.WriteString(")")
	case *ArgumentsExpr:
		if n == nil {
			return
		}
		formatArguments(w, n.Positional, n.Keyword)
	case *Arguments:
		formatArguments(w, n.Positional, n.Keyword)
	case *ArgumentSpecExpr:
		formatSpec(w, n.Positional, n.Keyword, n.Rest)
	case *ArgumentSpec:
		formatSpec(w, n.Positional, n.Keyword, n.Rest)
	default:
		w.WriteString("#<invalid>")
	}
}

func formatBool(w *lfmt.Writer, b bool) {
	if b {
		w.WriteString("true")
	} else {
		w.WriteString("false")
	}
}

func formatChar(w *lfmt.Writer, c rune) {
	w.WriteString(`#\`)
	if name, ok := charNames[c]; ok {
		w.WriteString(name)
		return
	}
	w.WriteString(string(c))
}

// formatList writes a chain of pairs.  A chain ending in the empty list is
// written as a proper list, anything else with a dot before the final cdr.
func formatList(w *lfmt.Writer, lis Node) {
	w.WriteString("(")
	first := true
	for {
		var car, cdr Node
		switch p := lis.(type) {
		case *Pair:
			car, cdr = p.Car, p.Cdr
		case *PairExpr:
			car, cdr = p.Car, p.Cdr
		}
		if !first {
			w.WriteString(" ")
		}
		first = false
		format(w, car)
		switch cdr.(type) {
		case *Pair, *PairExpr:
			lis = cdr
			continue
		case *Empty, *EmptyExpr:
		default:
			w.WriteString(" . ")
			format(w, cdr)
		}
		w.WriteString(")")
		return
	}
}

func formatPrimitive(w *lfmt.Writer, spec Node) {
	w.WriteString("(primitive ")
	format(w, spec)
	w.WriteString(" ...)")
}

func formatLambda(w *lfmt.Writer, spec Node, body Expr) {
	w.WriteString("(lambda ")
	format(w, spec)
	w.WriteString(" ")
	format(w, body)
	w.WriteString(")")
}

func formatForm(w *lfmt.Writer, name string, args []Expr) {
	w.WriteString("(")
	w.WriteString(name)
	for _, arg := range args {
		w.WriteString(" ")
		format(w, arg)
	}
	w.WriteString(")")
}

func formatArguments[T Node](w *lfmt.Writer, positional []T, keyword map[string]T) {
	formatAll(w, positional)
	for i, kw := range sortedKeys(keyword) {
		if i > 0 || len(positional) > 0 {
			w.WriteString(" ")
		}
		w.WriteString("#:" + kw + " ")
		format(w, keyword[kw])
	}
}

// formatSpec writes a parameter list.  A spec with only a rest parameter is
// written as the bare rest name.
func formatSpec(w *lfmt.Writer, positional []string, keyword map[string]string, rest mo.Option[string]) {
	restName, hasRest := rest.Get()
	if len(positional) == 0 && len(keyword) == 0 && hasRest {
		w.WriteString(restName)
		return
	}
	parts := append([]string(nil), positional...)
	for _, kw := range sortedKeys(keyword) {
		parts = append(parts, "#:"+kw+" "+keyword[kw])
	}
	if hasRest {
		parts = append(parts, ". "+restName)
	}
	w.WriteString("(" + strings.Join(parts, " ") + ")")
}
