package function

import "github.com/san-kum/dynblocks/internal/autodiff"

// Directional evaluates f at x and its derivative along v in one pass.
func Directional(f Differentiable, x, v []float64) (y, dy []float64) {
	out := f.EvalDual(autodiff.Seed(x, v))
	return autodiff.Values(out), autodiff.Tangents(out)
}

// Jacobian returns J[i][j] = ∂y_i/∂x_j at x, one forward pass per input.
func Jacobian(f Differentiable, x []float64) [][]float64 {
	var jac [][]float64
	for j := range x {
		col := autodiff.Tangents(f.EvalDual(autodiff.Unit(x, j)))
		if jac == nil {
			jac = make([][]float64, len(col))
			for i := range jac {
				jac[i] = make([]float64, len(x))
			}
		}
		for i, d := range col {
			if i < len(jac) {
				jac[i][j] = d
			}
		}
	}
	return jac
}
