package autodiff

import "gonum.org/v1/gonum/num/dual"

// Dual carries a value and its derivative along one seeded direction.
type Dual struct {
	dual.Number
}

// NewDual returns a Dual with the given value and tangent.
func NewDual(value, tangent float64) Dual {
	return Dual{dual.Number{Real: value, Emag: tangent}}
}

func (d Dual) Add(o Dual) Dual {
	return NewDual(d.Real+o.Real, d.Emag+o.Emag)
}

func (d Dual) Sub(o Dual) Dual {
	return NewDual(d.Real-o.Real, d.Emag-o.Emag)
}

func (d Dual) Mul(o Dual) Dual      { return Dual{dual.Mul(d.Number, o.Number)} }
func (d Dual) Div(o Dual) Dual      { return Dual{dual.Mul(d.Number, dual.Inv(o.Number))} }
func (d Dual) Neg() Dual            { return NewDual(-d.Real, -d.Emag) }
func (d Dual) Scale(f float64) Dual { return Dual{dual.Scale(f, d.Number)} }
func (d Dual) Sin() Dual            { return Dual{dual.Sin(d.Number)} }
func (d Dual) Cos() Dual            { return Dual{dual.Cos(d.Number)} }
func (d Dual) Exp() Dual            { return Dual{dual.Exp(d.Number)} }
func (d Dual) Sqrt() Dual           { return Dual{dual.Sqrt(d.Number)} }
func (d Dual) Pow(p float64) Dual   { return Dual{dual.PowReal(d.Number, p)} }
func (Dual) Const(c float64) Dual   { return NewDual(c, 0) }
func (d Dual) Value() float64       { return d.Real }

// Tangent returns the derivative part.
func (d Dual) Tangent() float64 { return d.Emag }
