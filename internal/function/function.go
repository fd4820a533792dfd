// Package function defines evaluable input-vector to output-vector mappings
// tagged with their structural relation.
package function

import (
	"github.com/san-kum/dynblocks/internal/autodiff"
	"github.com/san-kum/dynblocks/internal/relation"
)

// Function is a pure mapping from an input vector to an output vector.
// Its relation tag is fixed when the function is built.
type Function interface {
	Eval(x []float64) []float64
	Relation() relation.Tag
}

// Differentiable functions can also be evaluated on derivative-carrying
// inputs.
type Differentiable interface {
	Function
	EvalDual(x []autodiff.Dual) []autodiff.Dual
}

// Body is a single evaluation routine, written once as a generic function
// and instantiated per scalar type.
type Body[T autodiff.Scalar[T]] func(x []T) []T

// Templated exposes one generic body through both evaluation forms.
type Templated struct {
	rel  relation.Tag
	real Body[autodiff.Real]
	dual Body[autodiff.Dual]
}

// New wraps two instantiations of the same generic body. The relation is
// DIFFERENTIABLE.
//
//	f := function.New(pendulum[autodiff.Real], pendulum[autodiff.Dual])
func New(real Body[autodiff.Real], dual Body[autodiff.Dual]) *Templated {
	return NewWithRelation(relation.Differentiable, real, dual)
}

// NewWithRelation is New for bodies known to have more structure than
// DIFFERENTIABLE.
func NewWithRelation(rel relation.Tag, real Body[autodiff.Real], dual Body[autodiff.Dual]) *Templated {
	return &Templated{rel: rel, real: real, dual: dual}
}

func (f *Templated) Relation() relation.Tag { return f.rel }

func (f *Templated) Eval(x []float64) []float64 {
	return autodiff.Values(f.real(autodiff.Reals(x)))
}

func (f *Templated) EvalDual(x []autodiff.Dual) []autodiff.Dual {
	return f.dual(x)
}

type plain struct {
	rel relation.Tag
	fn  func([]float64) []float64
}

// FromFunc tags an ordinary float64 mapping. The result has no derivative
// form.
func FromFunc(rel relation.Tag, fn func(x []float64) []float64) Function {
	return &plain{rel: rel, fn: fn}
}

func (p *plain) Eval(x []float64) []float64 { return p.fn(x) }
func (p *plain) Relation() relation.Tag     { return p.rel }
