package models

import (
	"math"

	"github.com/san-kum/dynblocks/internal/autodiff"
	"github.com/san-kum/dynblocks/internal/function"
	"github.com/san-kum/dynblocks/internal/systems"
)

// Pendulum is a damped, torque-driven pendulum with state (θ, ω).
//
// Ports: 0 state, 1 derivative, 2 linearization, 3 energy.
type Pendulum struct {
	*systems.LeafBlock
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64

	dynamics *function.Templated
}

func NewPendulum(name string) *Pendulum {
	p := &Pendulum{
		Mass:    DefaultMass,
		Length:  DefaultLength,
		Damping: 0.1,
		Gravity: DefaultGravity,
	}
	p.LeafBlock = systems.NewLeafBlock(p, name)
	p.DeclareStateDim(2)
	p.dynamics = function.New(pendulumBody[autodiff.Real](p), pendulumBody[autodiff.Dual](p))

	declareStandardPorts(p.LeafBlock, "Pendulum", p.dynamics, p.InputNames())
	p.DeclareVectorOutputPort(1, vectorAlloc("PendulumEnergy", 1), calcScalar(p.Energy),
		systems.WithName("energy"))
	return p
}

func pendulumBody[T autodiff.Scalar[T]](p *Pendulum) function.Body[T] {
	return func(x []T) []T {
		theta, omega, torque := x[0], x[1], x[2]
		inertia := p.Mass * p.Length * p.Length

		alpha := omega.Scale(-p.Damping).
			Sub(theta.Sin().Scale(p.Mass * p.Gravity * p.Length)).
			Add(torque).
			Scale(1 / inertia)

		return []T{omega, alpha}
	}
}

func (p *Pendulum) Function() function.Differentiable { return p.dynamics }
func (p *Pendulum) StateNames() []string              { return []string{"theta", "omega"} }
func (p *Pendulum) InputNames() []string              { return []string{"torque"} }

func (p *Pendulum) Energy(x []float64) float64 {
	theta, omega := x[0], x[1]
	ke := 0.5 * p.Mass * p.Length * p.Length * omega * omega
	pe := p.Mass * p.Gravity * p.Length * (1 - math.Cos(theta))
	return ke + pe
}
