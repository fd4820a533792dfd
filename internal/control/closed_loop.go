package control

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dynblocks/internal/function"
	"github.com/san-kum/dynblocks/internal/models"
)

// ClosedLoop returns x ↦ f(x, fb(x)) for the model's dynamics f.
func ClosedLoop(m models.Model, fb *StateFeedback) (function.Differentiable, error) {
	if err := fb.Validate(); err != nil {
		return nil, err
	}
	n, inputs := len(m.StateNames()), len(m.InputNames())
	if fb.Inputs() != inputs || fb.States() != n {
		return nil, fmt.Errorf("feedback is %dx%d, %s needs %dx%d",
			fb.Inputs(), fb.States(), m.Pathname(), inputs, n)
	}

	identity := make([][]float64, n)
	for i := range identity {
		identity[i] = make([]float64, n)
		identity[i][i] = 1
	}
	augment, err := function.Stack(function.Linear(identity), fb.Function())
	if err != nil {
		return nil, err
	}
	return function.Compose(m.Function(), augment).(function.Differentiable), nil
}

// Poles returns the eigenvalues of a square Jacobian.
func Poles(jac [][]float64) ([]complex128, error) {
	n := len(jac)
	if n == 0 {
		return nil, errors.New("poles of an empty matrix")
	}
	data := make([]float64, 0, n*n)
	for i, row := range jac {
		if len(row) != n {
			return nil, fmt.Errorf("jacobian row %d has %d entries, want %d", i, len(row), n)
		}
		data = append(data, row...)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(mat.NewDense(n, n, data), mat.EigenNone); !ok {
		return nil, errors.New("eigen decomposition failed")
	}
	return eig.Values(nil), nil
}

// Stable reports whether every pole lies strictly in the left half plane.
func Stable(poles []complex128) bool {
	for _, p := range poles {
		if real(p) >= 0 {
			return false
		}
	}
	return true
}
