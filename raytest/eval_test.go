package raytest

import (
	"testing"
)

func TestEval(t *testing.T) {
	tests := TestSuite{
		{"literals", TestSequence{
			{"3", "3"},
			{"2/4", "1/2"},
			{"1.5", "1.5"},
			{`"a string"`, `"a string"`},
			{`#\a`, `#\a`},
			{`#\newline`, `#\newline`},
			{"#t", "true"},
			{"false", "false"},
			{"empty", "()"},
			{"'()", "()"},
			{"'(1 (2 #\\b) . 3)", `(1 (2 #\b) . 3)`},
		}},
		{"identifiers", TestSequence{
			{"x", "unbound identifier: x"},
			{"(define x 3)", "x"},
			{"x", "3"},
			{"(define x 4)", "x"},
			{"x", "4"},
		}},
		{"function basics", TestSequence{
			{"(lambda (x) x)", "(lambda (x) x)"},
			{"((lambda (x) x) 9)", "9"},
			{"((lambda () (+ 1 1)))", "2"},
			{"((lambda xs xs) 1 2 3)", "(1 2 3)"},
			{"((lambda (a . xs) xs) 1)", "()"},
			{"((lambda (a #:by b) (* a b)) 3 #:by 4)", "12"},
			{"((lambda (a #:by b) (* a b)) 3)", "arity or keyword mismatch: lambda: expected (a #:by b) but got 1 positional arguments and keywords []"},
			{"((lambda (x) x))", "arity or keyword mismatch: lambda: expected (x) but got 0 positional arguments and keywords []"},
			{"(1 2)", "not callable: 1 is a number"},
		}},
		{"closures capture their environment", TestSequence{
			{"(define (adder n) (lambda (x) (+ x n)))", "adder"},
			{"(define add2 (adder 2))", "add2"},
			{"(add2 5)", "7"},
			{"((adder 10) 5)", "15"},
		}},
		{"conditionals", TestSequence{
			{"(if #t 8 9)", "8"},
			{"(if #f 8 9)", "9"},
			{"(if 0 8 9)", "9"},
			{"(if '() 8 9)", "9"},
			{"(if #t 1 undefined)", "1"},
			{"(cond [#f 1] [(= 1 1) 2])", "2"},
			{"(cond [#f 1] [else 3])", "3"},
			{"(cond [#f 1])", "no matching cond clause: all 1 clause tests were false"},
		}},
		{"and or", TestSequence{
			{"(and)", "true"},
			{"(or)", "false"},
			{"(and 1 2)", "2"},
			{"(and #f undefined)", "false"},
			{"(or #f 5)", "5"},
			{"(or 1 undefined)", "1"},
		}},
		{"recursion", TestSequence{
			{"(define (fact n) (if (= n 0) 1 (* n (fact (- n 1)))))", "fact"},
			{"(fact 10)", "3628800"},
			{"(define (even? n) (if (= n 0) #t (odd? (- n 1))))", "even?"},
			{"(define (odd? n) (if (= n 0) #f (even? (- n 1))))", "odd?"},
			{"(even? 10)", "true"},
		}},
		{"runaway recursion", TestSequence{
			{"(define (loop n) (loop n))", "loop"},
			{"(loop 1)", "evaluation stopped in loop: function call limit exceeded"},
			{"(+ 1 2)", "3"},
		}},
		{"lists", TestSequence{
			{"(list 1 2 3)", "(1 2 3)"},
			{"(cons 1 2)", "(1 . 2)"},
			{"(car (list 1 2))", "1"},
			{"(cdr (list 1 2))", "(2)"},
			{"(car empty)", "primitive failure: car: expected pair but got ()"},
			{"(length (list 1 2 3))", "3"},
			{"(list? (list 1 2))", "true"},
			{"(list? (cons 1 2))", "false"},
			{"(map (lambda (x) (* x x)) (list 1 2 3))", "(1 4 9)"},
			{"(equal? (list 1 2) '(1 2))", "true"},
		}},
		{"arithmetic", TestSequence{
			{"(+)", "0"},
			{"(+ 1 2 3)", "6"},
			{"(- 5)", "-5"},
			{"(/ 1 3)", "1/3"},
			{"(/ 2)", "1/2"},
			{"(/ 1 0)", "primitive failure: /: division by zero"},
			{"(* 1.5 2)", "3.0"},
			{"(< 1 2)", "true"},
			{"(quotient 7 2)", "3"},
			{"(modulo -7 2)", "1"},
			{"(sqrt 16)", "4"},
			{"(max 1 5 3)", "5"},
		}},
		{"strings", TestSequence{
			{`(string-append "ab" "cd")`, `"abcd"`},
			{`(string-length "hello")`, "5"},
			{`(string-ref "hello" 1)`, `#\e`},
			{`(substring "hello" 1 3)`, `"el"`},
			{`(string=? "a" "a")`, "true"},
		}},
		{"primitives reject keywords", TestSequence{
			{"(+ 1 #:x 2)", "keyword arguments not supported for primitives: +: called with 1 #:x 2"},
		}},
	}
	RunTestSuite(t, tests)
}

func TestFiles(t *testing.T) {
	(&Runner{}).RunTestDir(t, "testdata")
}

func BenchmarkFiles(b *testing.B) {
	r := &Runner{}
	b.Run("lists.ray", r.BenchmarkFile("testdata/lists.ray"))
}
