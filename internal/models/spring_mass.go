package models

import (
	"github.com/san-kum/dynblocks/internal/function"
	"github.com/san-kum/dynblocks/internal/systems"
)

const (
	DefaultStiffness = 10.0
	DefaultDamping   = 0.5
)

// SpringMass is a single mass on a linear spring and damper, driven by an
// external force. Its dynamics are LINEAR in (x, v, force).
//
// Ports: 0 state, 1 derivative, 2 linearization, 3 energy.
type SpringMass struct {
	*systems.LeafBlock
	Mass      float64
	Stiffness float64
	Damping   float64

	dynamics *function.Templated
}

func NewSpringMass(name string) *SpringMass {
	return NewSpringMassWith(name, DefaultMass, DefaultStiffness, DefaultDamping)
}

func NewSpringMassWith(name string, mass, stiffness, damping float64) *SpringMass {
	s := &SpringMass{Mass: mass, Stiffness: stiffness, Damping: damping}
	s.LeafBlock = systems.NewLeafBlock(s, name)
	s.DeclareStateDim(2)
	s.dynamics = function.Linear([][]float64{
		{0, 1, 0},
		{-stiffness / mass, -damping / mass, 1 / mass},
	})

	declareStandardPorts(s.LeafBlock, "SpringMass", s.dynamics, s.InputNames())
	s.DeclareVectorOutputPort(1, vectorAlloc("SpringMassEnergy", 1), calcScalar(s.Energy),
		systems.WithName("energy"))
	return s
}

func (s *SpringMass) Function() function.Differentiable { return s.dynamics }
func (s *SpringMass) StateNames() []string              { return []string{"pos", "vel"} }
func (s *SpringMass) InputNames() []string              { return []string{"force"} }

func (s *SpringMass) Energy(x []float64) float64 {
	pos, vel := x[0], x[1]
	return 0.5*s.Mass*vel*vel + 0.5*s.Stiffness*pos*pos
}
