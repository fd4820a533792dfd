package models

import (
	"github.com/san-kum/dynblocks/internal/autodiff"
	"github.com/san-kum/dynblocks/internal/function"
	"github.com/san-kum/dynblocks/internal/systems"
)

// Drone is a planar quadrotor with state (x, y, θ, vx, vy, ω) and
// per-rotor thrust inputs.
//
// Ports: 0 state, 1 derivative, 2 linearization, 3 energy.
type Drone struct {
	*systems.LeafBlock
	Mass, Inertia, ArmLength float64
	Gravity, DragCoeff       float64
	AngDrag                  float64

	dynamics *function.Templated
}

func NewDrone(name string) *Drone {
	d := &Drone{
		Mass:      DefaultMass,
		Inertia:   0.1,
		ArmLength: 0.25,
		Gravity:   DefaultGravity,
		DragCoeff: 0.1,
		AngDrag:   0.05,
	}
	d.LeafBlock = systems.NewLeafBlock(d, name)
	d.DeclareStateDim(6)
	d.dynamics = function.New(droneBody[autodiff.Real](d), droneBody[autodiff.Dual](d))

	declareStandardPorts(d.LeafBlock, "Drone", d.dynamics, d.InputNames())
	d.DeclareVectorOutputPort(1, vectorAlloc("DroneEnergy", 1), calcScalar(d.Energy),
		systems.WithName("energy"))
	return d
}

// Thrusts are taken as given; negative thrust is not clipped so the body
// stays differentiable.
func droneBody[T autodiff.Scalar[T]](d *Drone) function.Body[T] {
	return func(x []T) []T {
		theta, vx, vy, omega := x[2], x[3], x[4], x[5]
		thrustL, thrustR := x[6], x[7]

		total := thrustL.Add(thrustR)
		torque := thrustR.Sub(thrustL).Scale(d.ArmLength)

		fx := total.Mul(theta.Sin()).Neg().Sub(vx.Scale(d.DragCoeff))
		fy := total.Mul(theta.Cos()).Sub(vy.Scale(d.DragCoeff)).Sub(autodiff.Const[T](d.Mass * d.Gravity))

		ax := fx.Scale(1 / d.Mass)
		ay := fy.Scale(1 / d.Mass)
		alpha := torque.Sub(omega.Scale(d.AngDrag)).Scale(1 / d.Inertia)

		return []T{vx, vy, omega, ax, ay, alpha}
	}
}

func (d *Drone) Function() function.Differentiable { return d.dynamics }

func (d *Drone) StateNames() []string {
	return []string{"x", "y", "theta", "vx", "vy", "omega"}
}

func (d *Drone) InputNames() []string { return []string{"thrust_l", "thrust_r"} }

func (d *Drone) HoverThrust() float64 {
	return d.Mass * d.Gravity / 2.0
}

func (d *Drone) Energy(x []float64) float64 {
	y, vx, vy, omega := x[1], x[3], x[4], x[5]
	ke := 0.5 * d.Mass * (vx*vx + vy*vy)
	keRot := 0.5 * d.Inertia * omega * omega
	pe := d.Mass * d.Gravity * y
	return ke + keRot + pe
}
