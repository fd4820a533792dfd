package function

import (
	"github.com/san-kum/dynblocks/internal/autodiff"
	"github.com/san-kum/dynblocks/internal/relation"
)

func zeroBody[T autodiff.Scalar[T]](out int) Body[T] {
	return func(x []T) []T {
		y := make([]T, out)
		for i := range y {
			y[i] = autodiff.Const[T](0)
		}
		return y
	}
}

func constantBody[T autodiff.Scalar[T]](c []float64) Body[T] {
	return func(x []T) []T {
		y := make([]T, len(c))
		for i, v := range c {
			y[i] = autodiff.Const[T](v)
		}
		return y
	}
}

func affineBody[T autodiff.Scalar[T]](a [][]float64, b []float64) Body[T] {
	return func(x []T) []T {
		y := make([]T, len(a))
		for i, row := range a {
			acc := autodiff.Const[T](0)
			if i < len(b) {
				acc = autodiff.Const[T](b[i])
			}
			for j, aij := range row {
				if j < len(x) {
					acc = acc.Add(x[j].Scale(aij))
				}
			}
			y[i] = acc
		}
		return y
	}
}

// Zero maps every input to an all-zero vector of length out.
func Zero(out int) *Templated {
	return NewWithRelation(relation.Zero, zeroBody[autodiff.Real](out), zeroBody[autodiff.Dual](out))
}

// Constant ignores its input and returns c.
func Constant(c []float64) *Templated {
	c = append([]float64(nil), c...)
	return NewWithRelation(relation.Constant, constantBody[autodiff.Real](c), constantBody[autodiff.Dual](c))
}

// Linear returns y = A x.
func Linear(a [][]float64) *Templated {
	a = cloneMatrix(a)
	return NewWithRelation(relation.Linear, affineBody[autodiff.Real](a, nil), affineBody[autodiff.Dual](a, nil))
}

// Affine returns y = A x + b.
func Affine(a [][]float64, b []float64) *Templated {
	a = cloneMatrix(a)
	b = append([]float64(nil), b...)
	return NewWithRelation(relation.Affine, affineBody[autodiff.Real](a, b), affineBody[autodiff.Dual](a, b))
}

func cloneMatrix(a [][]float64) [][]float64 {
	out := make([][]float64, len(a))
	for i, row := range a {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
