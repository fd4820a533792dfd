package autodiff

// Reals converts plain values to Real scalars.
func Reals(x []float64) []Real {
	out := make([]Real, len(x))
	for i, v := range x {
		out[i] = Real(v)
	}
	return out
}

// Values extracts the primary content of any scalar vector.
func Values[T Scalar[T]](x []T) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v.Value()
	}
	return out
}

// Seed builds Dual inputs at x with tangent direction v. A nil or short v
// seeds the missing entries with zero.
func Seed(x, v []float64) []Dual {
	out := make([]Dual, len(x))
	for i, xi := range x {
		var vi float64
		if i < len(v) {
			vi = v[i]
		}
		out[i] = NewDual(xi, vi)
	}
	return out
}

// Unit seeds x along the i-th coordinate axis.
func Unit(x []float64, i int) []Dual {
	out := Seed(x, nil)
	if i >= 0 && i < len(out) {
		out[i].Emag = 1
	}
	return out
}

// Tangents extracts the derivative parts of y.
func Tangents(y []Dual) []float64 {
	out := make([]float64, len(y))
	for i, d := range y {
		out[i] = d.Emag
	}
	return out
}
