package autodiff

import "math"

// Scalar is the arithmetic a function body may use. T is the implementing
// type itself.
type Scalar[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Neg() T
	Scale(float64) T
	Sin() T
	Cos() T
	Exp() T
	Sqrt() T
	Pow(p float64) T
	// Const lifts a constant into T with no derivative part.
	Const(float64) T
	// Value returns the primary numeric content.
	Value() float64
}

// Const returns c as a T without needing an existing T to call it on.
func Const[T Scalar[T]](c float64) T {
	var zero T
	return zero.Const(c)
}

// Real is a plain float64 scalar.
type Real float64

func (r Real) Add(o Real) Real      { return r + o }
func (r Real) Sub(o Real) Real      { return r - o }
func (r Real) Mul(o Real) Real      { return r * o }
func (r Real) Div(o Real) Real      { return r / o }
func (r Real) Neg() Real            { return -r }
func (r Real) Scale(f float64) Real { return Real(f * float64(r)) }
func (r Real) Sin() Real            { return Real(math.Sin(float64(r))) }
func (r Real) Cos() Real            { return Real(math.Cos(float64(r))) }
func (r Real) Exp() Real            { return Real(math.Exp(float64(r))) }
func (r Real) Sqrt() Real           { return Real(math.Sqrt(float64(r))) }
func (r Real) Pow(p float64) Real   { return Real(math.Pow(float64(r), p)) }
func (Real) Const(c float64) Real   { return Real(c) }
func (r Real) Value() float64       { return float64(r) }
