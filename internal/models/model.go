// Package models contains example blocks built on the systems and function
// packages. Each block describes its behavior with one generic body, so the
// same code serves plain evaluation and sensitivity analysis.
package models

import (
	"fmt"

	"github.com/san-kum/dynblocks/internal/function"
	"github.com/san-kum/dynblocks/internal/relation"
	"github.com/san-kum/dynblocks/internal/systems"
)

const (
	DefaultMass    = 1.0
	DefaultLength  = 1.0
	DefaultGravity = 9.81
)

// Model is a block the registry and CLI can drive.
type Model interface {
	systems.Block
	Name() string
	NumOutputPorts() int
	OutputPort(i int) *systems.OutputPort
	CreateDefaultContext() *systems.LeafContext

	// Function is the block's defining mapping. Its input is the state
	// followed by the named inputs.
	Function() function.Differentiable
	StateNames() []string
	InputNames() []string
}

// Linearization is the first-order sensitivity of a block's function at
// the context's operating point.
type Linearization struct {
	// A is ∂f/∂x over the state, B is ∂f/∂u over the inputs.
	A [][]float64
	B [][]float64

	// Relation is the tag of the underlying function. When it is at least
	// AFFINE the linearization is exact everywhere.
	Relation relation.Tag
}

// Exact reports whether the linearization holds globally.
func (l Linearization) Exact() bool {
	return relation.IsA(l.Relation, relation.Affine)
}

func leafContext(ctx systems.Context) (*systems.LeafContext, error) {
	lc, ok := ctx.(*systems.LeafContext)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a leaf context", systems.ErrContextIncompatible, ctx)
	}
	return lc, nil
}

// functionInput builds the argument vector of a block function: the state
// followed by each named input read from the context parameters.
func functionInput(lc *systems.LeafContext, inputs []string) []float64 {
	x := lc.State()
	for _, name := range inputs {
		x = append(x, lc.Param(name, 0))
	}
	return x
}

func vectorAlloc(typeName string, n int) systems.AllocFunc {
	return func() systems.Value { return systems.NewNamedVector(typeName, n) }
}

func calcState(ctx systems.Context, out systems.Value) error {
	lc, err := leafContext(ctx)
	if err != nil {
		return err
	}
	return out.(*systems.BasicVector).SetFrom(lc.State())
}

func calcFunction(f function.Function, inputs []string) systems.CalcFunc {
	return func(ctx systems.Context, out systems.Value) error {
		lc, err := leafContext(ctx)
		if err != nil {
			return err
		}
		return out.(*systems.BasicVector).SetFrom(f.Eval(functionInput(lc, inputs)))
	}
}

func calcScalar(fn func(x []float64) float64) systems.CalcFunc {
	return func(ctx systems.Context, out systems.Value) error {
		lc, err := leafContext(ctx)
		if err != nil {
			return err
		}
		out.(*systems.BasicVector).SetAt(0, fn(lc.State()))
		return nil
	}
}

func linearizationAlloc() systems.Value {
	return systems.NewAbstract(Linearization{})
}

func calcLinearization(f function.Differentiable, inputs []string) systems.CalcFunc {
	return func(ctx systems.Context, out systems.Value) error {
		lc, err := leafContext(ctx)
		if err != nil {
			return err
		}
		nx := len(lc.State())
		jac := function.Jacobian(f, functionInput(lc, inputs))

		lin := Linearization{Relation: f.Relation()}
		for _, row := range jac {
			lin.A = append(lin.A, row[:nx:nx])
			lin.B = append(lin.B, row[nx:])
		}
		out.(*systems.Abstract[Linearization]).V = lin
		return nil
	}
}

// declareStandardPorts declares the state, derivative and linearization
// ports shared by every dynamical model, in that order.
func declareStandardPorts(b *systems.LeafBlock, typePrefix string, f function.Differentiable, inputs []string) {
	n := b.StateDim()
	b.DeclareVectorOutputPort(n, vectorAlloc(typePrefix+"State", n), calcState,
		systems.WithName("state"))
	b.DeclareVectorOutputPort(n, vectorAlloc(typePrefix+"Derivative", n), calcFunction(f, inputs),
		systems.WithName("derivative"))
	b.DeclareAbstractOutputPort(linearizationAlloc, calcLinearization(f, inputs),
		systems.WithName("linearization"), systems.WithReferenceCache())
}
