package models

import (
	"fmt"

	"github.com/san-kum/dynblocks/internal/function"
	"github.com/san-kum/dynblocks/internal/systems"
)

// Gain scales each entry of its input vector. The input is held as the
// block's state so any width can be evaluated; the output port is
// auto-sized.
type Gain struct {
	*systems.LeafBlock
	K []float64

	fn *function.Templated
}

func NewGain(name string, k ...float64) *Gain {
	g := &Gain{K: append([]float64(nil), k...)}
	g.LeafBlock = systems.NewLeafBlock(g, name)
	g.DeclareStateDim(len(k))

	diag := make([][]float64, len(k))
	for i, ki := range k {
		diag[i] = make([]float64, len(k))
		diag[i][i] = ki
	}
	g.fn = function.Linear(diag)

	g.DeclareVectorOutputPort(systems.AutoSize, vectorAlloc("GainOutput", len(k)), calcFunction(g.fn, nil),
		systems.WithName("output"))
	g.DeclareAbstractOutputPort(linearizationAlloc, calcLinearization(g.fn, nil),
		systems.WithName("linearization"))
	return g
}

func (g *Gain) Function() function.Differentiable { return g.fn }

func (g *Gain) StateNames() []string {
	names := make([]string, len(g.K))
	for i := range names {
		names[i] = fmt.Sprintf("u%d", i)
	}
	return names
}

func (g *Gain) InputNames() []string { return nil }
