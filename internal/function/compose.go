package function

import (
	"fmt"

	"github.com/san-kum/dynblocks/internal/autodiff"
	"github.com/san-kum/dynblocks/internal/relation"
)

type composed struct {
	g, f Function
	rel  relation.Tag
}

type composedDifferentiable struct {
	composed
}

// Compose returns g∘f. The relation is relation.ComposeWith of the parts,
// and the result is Differentiable when both parts are.
func Compose(g, f Function) Function {
	c := composed{g: g, f: f, rel: relation.ComposeWith(g.Relation(), f.Relation())}
	_, gd := g.(Differentiable)
	_, fd := f.(Differentiable)
	if gd && fd {
		return &composedDifferentiable{c}
	}
	return &c
}

func (c *composed) Eval(x []float64) []float64 { return c.g.Eval(c.f.Eval(x)) }
func (c *composed) Relation() relation.Tag     { return c.rel }

func (c *composedDifferentiable) EvalDual(x []autodiff.Dual) []autodiff.Dual {
	return c.g.(Differentiable).EvalDual(c.f.(Differentiable).EvalDual(x))
}

type stacked struct {
	parts []Function
	rel   relation.Tag
}

type stackedDifferentiable struct {
	stacked
}

// Stack concatenates the outputs of fs evaluated on the same input. It is
// exactly as structured as its least structured part.
func Stack(fs ...Function) (Function, error) {
	tags := make([]relation.Tag, len(fs))
	allDiff := true
	for i, f := range fs {
		tags[i] = f.Relation()
		if _, ok := f.(Differentiable); !ok {
			allDiff = false
		}
	}
	rel, err := relation.CombineAll(tags...)
	if err != nil {
		return nil, fmt.Errorf("stack: %w", err)
	}
	s := stacked{parts: append([]Function(nil), fs...), rel: rel}
	if allDiff {
		return &stackedDifferentiable{s}, nil
	}
	return &s, nil
}

func (s *stacked) Relation() relation.Tag { return s.rel }

func (s *stacked) Eval(x []float64) []float64 {
	var y []float64
	for _, f := range s.parts {
		y = append(y, f.Eval(x)...)
	}
	return y
}

func (s *stackedDifferentiable) EvalDual(x []autodiff.Dual) []autodiff.Dual {
	var y []autodiff.Dual
	for _, f := range s.parts {
		y = append(y, f.(Differentiable).EvalDual(x)...)
	}
	return y
}
