package ray

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ErrDivideByZero is returned when an exact number is divided by zero.
var ErrDivideByZero = errors.New("division by zero")

// Number is a numeric value.  A Number is either exact, an arbitrary
// precision rational, or inexact, a float64.  Operations on exact numbers
// produce exact results and any inexact operand makes the result inexact.
// The zero Number is exact zero.  Numbers are immutable.
type Number struct {
	inexact bool
	f       float64
	r       *big.Rat
}

// Int returns an exact integer.
func Int(x int64) Number {
	return Number{r: new(big.Rat).SetInt64(x)}
}

// Ratio returns the exact number a/b.  Ratio panics if b is zero.
func Ratio(a, b int64) Number {
	return Number{r: big.NewRat(a, b)}
}

// Float returns an inexact number.
func Float(x float64) Number {
	return Number{inexact: true, f: x}
}

// Exact returns an exact number with the value of r.  r is copied.
func Exact(r *big.Rat) Number {
	return Number{r: new(big.Rat).Set(r)}
}

// ParseNumber parses decimal integers ("-12"), ratios ("1/3") and floating
// point literals ("2.5", "1e3").  Integers and ratios are exact.
func ParseNumber(s string) (Number, error) {
	if strings.ContainsAny(s, ".eE") {
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Number{}, fmt.Errorf("invalid number literal: %v", s)
		}
		return Float(x), nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Number{}, fmt.Errorf("invalid number literal: %v", s)
	}
	return Number{r: r}, nil
}

func (n Number) rat() *big.Rat {
	if n.r == nil {
		return new(big.Rat)
	}
	return n.r
}

// Rat returns a copy of the exact value of n.  Rat returns false if n is
// inexact.
func (n Number) Rat() (*big.Rat, bool) {
	if n.inexact {
		return nil, false
	}
	return new(big.Rat).Set(n.rat()), true
}

// IsExact returns true if n is an exact rational.
func (n Number) IsExact() bool {
	return !n.inexact
}

// IsInteger returns true if n has no fractional part.
func (n Number) IsInteger() bool {
	if n.inexact {
		return !math.IsInf(n.f, 0) && n.f == math.Trunc(n.f)
	}
	return n.rat().IsInt()
}

// Float64 returns the nearest float64 to n.
func (n Number) Float64() float64 {
	if n.inexact {
		return n.f
	}
	f, _ := n.rat().Float64()
	return f
}

// Int64 returns n as an int64 if n is an integer that fits.
func (n Number) Int64() (int64, bool) {
	if !n.IsInteger() {
		return 0, false
	}
	if n.inexact {
		if n.f < math.MinInt64 || n.f >= math.MaxInt64 {
			return 0, false
		}
		return int64(n.f), true
	}
	num := n.rat().Num()
	if !num.IsInt64() {
		return 0, false
	}
	return num.Int64(), true
}

// Sign returns -1, 0 or 1.
func (n Number) Sign() int {
	if n.inexact {
		switch {
		case n.f < 0:
			return -1
		case n.f > 0:
			return 1
		default:
			return 0
		}
	}
	return n.rat().Sign()
}

func (n Number) String() string {
	if n.inexact {
		switch {
		case math.IsInf(n.f, 1):
			return "+inf.0"
		case math.IsInf(n.f, -1):
			return "-inf.0"
		case math.IsNaN(n.f):
			return "+nan.0"
		}
		s := strconv.FormatFloat(n.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".en") {
			s += ".0"
		}
		return s
	}
	r := n.rat()
	if r.IsInt() {
		return r.Num().String()
	}
	return r.String()
}

// Equal compares n and m numerically.  Exact and inexact numbers with the
// same value are equal.
func (n Number) Equal(m Number) bool {
	c, ok := n.Cmp(m)
	return ok && c == 0
}

// Cmp compares n and m, returning -1, 0 or 1.  Cmp returns false if either
// number is NaN.
func (n Number) Cmp(m Number) (int, bool) {
	if n.inexact && m.inexact {
		switch {
		case math.IsNaN(n.f) || math.IsNaN(m.f):
			return 0, false
		case n.f < m.f:
			return -1, true
		case n.f > m.f:
			return 1, true
		default:
			return 0, true
		}
	}
	if n.inexact || m.inexact {
		x, y := n, m
		if x.inexact {
			if math.IsNaN(x.f) {
				return 0, false
			}
			if math.IsInf(x.f, 0) {
				return int(math.Copysign(1, x.f)), true
			}
			x = Exact(new(big.Rat).SetFloat64(x.f))
		}
		if y.inexact {
			if math.IsNaN(y.f) {
				return 0, false
			}
			if math.IsInf(y.f, 0) {
				return -int(math.Copysign(1, y.f)), true
			}
			y = Exact(new(big.Rat).SetFloat64(y.f))
		}
		return x.rat().Cmp(y.rat()), true
	}
	return n.rat().Cmp(m.rat()), true
}

// Add returns n+m.
func (n Number) Add(m Number) Number {
	if n.inexact || m.inexact {
		return Float(n.Float64() + m.Float64())
	}
	return Number{r: new(big.Rat).Add(n.rat(), m.rat())}
}

// Sub returns n-m.
func (n Number) Sub(m Number) Number {
	if n.inexact || m.inexact {
		return Float(n.Float64() - m.Float64())
	}
	return Number{r: new(big.Rat).Sub(n.rat(), m.rat())}
}

// Mul returns n*m.
func (n Number) Mul(m Number) Number {
	if n.inexact || m.inexact {
		return Float(n.Float64() * m.Float64())
	}
	return Number{r: new(big.Rat).Mul(n.rat(), m.rat())}
}

// Div returns n/m.  Exact division by zero is an error.  Inexact division
// follows IEEE 754.
func (n Number) Div(m Number) (Number, error) {
	if n.inexact || m.inexact {
		return Float(n.Float64() / m.Float64()), nil
	}
	if m.rat().Sign() == 0 {
		return Number{}, ErrDivideByZero
	}
	return Number{r: new(big.Rat).Quo(n.rat(), m.rat())}, nil
}

// Neg returns -n.
func (n Number) Neg() Number {
	if n.inexact {
		return Float(-n.f)
	}
	return Number{r: new(big.Rat).Neg(n.rat())}
}

// Abs returns |n|.
func (n Number) Abs() Number {
	if n.Sign() < 0 {
		return n.Neg()
	}
	return n
}

// Floor returns the largest integer not greater than n.
func (n Number) Floor() Number {
	if n.inexact {
		return Float(math.Floor(n.f))
	}
	r := n.rat()
	q := new(big.Int)
	m := new(big.Int)
	// Euclidean division rounds toward negative infinity for a positive
	// denominator, which big.Rat guarantees.
	q.DivMod(r.Num(), r.Denom(), m)
	return Number{r: new(big.Rat).SetInt(q)}
}

// Ceiling returns the smallest integer not less than n.
func (n Number) Ceiling() Number {
	if n.inexact {
		return Float(math.Ceil(n.f))
	}
	return n.Neg().Floor().Neg()
}

// Round returns the integer nearest to n, rounding halves to even.
func (n Number) Round() Number {
	if n.inexact {
		return Float(math.RoundToEven(n.f))
	}
	fl := n.Floor()
	diff := n.Sub(fl).rat()
	switch diff.Cmp(big.NewRat(1, 2)) {
	case -1:
		return fl
	case 1:
		return fl.Add(Int(1))
	}
	if new(big.Int).And(fl.rat().Num(), big.NewInt(1)).Sign() == 0 {
		return fl
	}
	return fl.Add(Int(1))
}

// Truncate returns the integer part of n.
func (n Number) Truncate() Number {
	if n.Sign() < 0 {
		return n.Ceiling()
	}
	return n.Floor()
}

// Numerator returns the numerator of n in lowest terms.  Inexact numbers are
// converted to their exact value first and the result is inexact.
func (n Number) Numerator() Number {
	if n.inexact {
		r := new(big.Rat).SetFloat64(n.f)
		if r == nil {
			return n
		}
		f, _ := new(big.Float).SetInt(r.Num()).Float64()
		return Float(f)
	}
	return Number{r: new(big.Rat).SetInt(n.rat().Num())}
}

// Denominator returns the positive denominator of n in lowest terms.
func (n Number) Denominator() Number {
	if n.inexact {
		r := new(big.Rat).SetFloat64(n.f)
		if r == nil {
			return n
		}
		f, _ := new(big.Float).SetInt(r.Denom()).Float64()
		return Float(f)
	}
	return Number{r: new(big.Rat).SetInt(n.rat().Denom())}
}

// integerDivide applies op to the integers n and m.  Inexact operands give
// an inexact result.
func (n Number) integerDivide(m Number, op func(q, r, x, y *big.Int)) (q, r Number, err error) {
	if !n.IsInteger() || !m.IsInteger() {
		return Number{}, Number{}, fmt.Errorf("integer arguments required: %v, %v", n, m)
	}
	if m.Sign() == 0 {
		return Number{}, Number{}, ErrDivideByZero
	}
	var x, y *big.Int
	if n.inexact || m.inexact {
		x, _ = new(big.Float).SetFloat64(n.Float64()).Int(nil)
		y, _ = new(big.Float).SetFloat64(m.Float64()).Int(nil)
	} else {
		x, y = n.rat().Num(), m.rat().Num()
	}
	bq, br := new(big.Int), new(big.Int)
	op(bq, br, x, y)
	q = Number{r: new(big.Rat).SetInt(bq)}
	r = Number{r: new(big.Rat).SetInt(br)}
	if n.inexact || m.inexact {
		q = Float(q.Float64())
		r = Float(r.Float64())
	}
	return q, r, nil
}

// Quotient returns n/m truncated toward zero.  Both must be integers.
func (n Number) Quotient(m Number) (Number, error) {
	q, _, err := n.integerDivide(m, func(q, r, x, y *big.Int) { q.QuoRem(x, y, r) })
	return q, err
}

// Remainder returns the remainder of Quotient, which has the sign of n.
func (n Number) Remainder(m Number) (Number, error) {
	_, r, err := n.integerDivide(m, func(q, r, x, y *big.Int) { q.QuoRem(x, y, r) })
	return r, err
}

// Modulo returns n modulo m, which has the sign of m.
func (n Number) Modulo(m Number) (Number, error) {
	_, r, err := n.integerDivide(m, func(q, r, x, y *big.Int) {
		q.QuoRem(x, y, r)
		if r.Sign() != 0 && r.Sign() != y.Sign() {
			r.Add(r, y)
		}
	})
	return r, err
}
