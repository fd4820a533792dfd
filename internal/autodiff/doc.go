// Package autodiff provides the scalar types function bodies are written
// against.
//
// A body is a generic function over [Scalar]. Instantiated with [Real] it
// computes plain values; instantiated with [Dual] it also propagates one
// directional derivative alongside every value. Both instantiations come from
// the same source, so derivative code never drifts from value code.
//
//	func square[T autodiff.Scalar[T]](x []T) []T {
//		return []T{x[0].Mul(x[0])}
//	}
//
//	y := square(autodiff.Reals([]float64{3}))               // 9
//	d := square(autodiff.Seed([]float64{3}, []float64{1})) // 9, tangent 6
package autodiff
