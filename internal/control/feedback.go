package control

import (
	"fmt"

	"github.com/san-kum/dynblocks/internal/function"
)

// StateFeedback computes u = U0 - K(x - Target). K has one row per input
// and one column per state entry; nil U0 or Target mean zero.
type StateFeedback struct {
	K      [][]float64
	Target []float64
	U0     []float64

	// states is the state width when K has no rows.
	states int
}

func NewLQR(k [][]float64, target []float64) *StateFeedback {
	return &StateFeedback{K: k, Target: target}
}

// NewNone returns feedback that always produces zero input.
func NewNone(inputs, states int) *StateFeedback {
	k := make([][]float64, inputs)
	for i := range k {
		k[i] = make([]float64, states)
	}
	return &StateFeedback{K: k, states: states}
}

func (f *StateFeedback) Inputs() int { return len(f.K) }

func (f *StateFeedback) States() int {
	if len(f.K) == 0 {
		if f.Target != nil {
			return len(f.Target)
		}
		return f.states
	}
	return len(f.K[0])
}

// Validate checks that K is rectangular and that Target and U0 match it.
func (f *StateFeedback) Validate() error {
	n := f.States()
	for i, row := range f.K {
		if len(row) != n {
			return fmt.Errorf("gain row %d has %d entries, want %d", i, len(row), n)
		}
	}
	if f.Target != nil && len(f.Target) != n {
		return fmt.Errorf("target has %d entries, want %d", len(f.Target), n)
	}
	if f.U0 != nil && len(f.U0) != len(f.K) {
		return fmt.Errorf("feedforward has %d entries, want %d", len(f.U0), len(f.K))
	}
	return nil
}

// Function returns the feedback law as a function of the state.
func (f *StateFeedback) Function() *function.Templated {
	m := len(f.K)
	if f.isZero() {
		return function.Zero(m)
	}

	negK := make([][]float64, m)
	offset := make([]float64, m)
	hasOffset := false
	for i, row := range f.K {
		negK[i] = make([]float64, len(row))
		if f.U0 != nil {
			offset[i] = f.U0[i]
		}
		for j, kij := range row {
			negK[i][j] = -kij
			if f.Target != nil {
				offset[i] += kij * f.Target[j]
			}
		}
		if offset[i] != 0 {
			hasOffset = true
		}
	}
	if !hasOffset {
		return function.Linear(negK)
	}
	return function.Affine(negK, offset)
}

// Compute evaluates the feedback law at x.
func (f *StateFeedback) Compute(x []float64) []float64 {
	return f.Function().Eval(x)
}

func (f *StateFeedback) isZero() bool {
	for _, row := range f.K {
		for _, v := range row {
			if v != 0 {
				return false
			}
		}
	}
	for _, v := range f.U0 {
		if v != 0 {
			return false
		}
	}
	return true
}
