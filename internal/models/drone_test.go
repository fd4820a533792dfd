package models

import (
	"math"
	"testing"
)

func TestDroneStateDim(t *testing.T) {
	d := NewDrone("drone")
	if d.StateDim() != 6 {
		t.Errorf("expected 6 states, got %d", d.StateDim())
	}
	if len(d.InputNames()) != 2 {
		t.Errorf("expected 2 inputs, got %d", len(d.InputNames()))
	}
}

func TestDroneHover(t *testing.T) {
	d := NewDrone("drone")
	ctx := d.CreateDefaultContext()
	if err := ctx.SetState([]float64{0, 5, 0, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	ctx.SetParam("thrust_l", d.HoverThrust())
	ctx.SetParam("thrust_r", d.HoverThrust())

	dx := evalVector(t, d, ctx, 1)

	if math.Abs(dx[4]) > 0.01 {
		t.Errorf("vertical acceleration should be ~0, got %f", dx[4])
	}
	if math.Abs(dx[3]) > 0.01 {
		t.Errorf("horizontal acceleration should be ~0, got %f", dx[3])
	}
	if math.Abs(dx[5]) > 0.01 {
		t.Errorf("angular acceleration should be ~0, got %f", dx[5])
	}
}

func TestDroneFreefall(t *testing.T) {
	d := NewDrone("drone")
	ctx := d.CreateDefaultContext()

	dx := evalVector(t, d, ctx, 1)
	if math.Abs(dx[4]+d.Gravity) > 1e-9 {
		t.Errorf("expected ay = %f, got %f", -d.Gravity, dx[4])
	}
}

func TestDroneThrustSensitivity(t *testing.T) {
	d := NewDrone("drone")
	ctx := d.CreateDefaultContext()
	lin := evalLinearization(t, d, ctx, 2)

	// at θ = 0 each rotor adds 1/m to vertical acceleration and ±L/I to
	// angular acceleration
	if math.Abs(lin.B[4][0]-1/d.Mass) > 1e-12 || math.Abs(lin.B[4][1]-1/d.Mass) > 1e-12 {
		t.Errorf("∂ay/∂thrust = %v, want %v", lin.B[4], 1/d.Mass)
	}
	want := d.ArmLength / d.Inertia
	if math.Abs(lin.B[5][0]+want) > 1e-12 || math.Abs(lin.B[5][1]-want) > 1e-12 {
		t.Errorf("∂alpha/∂thrust = %v, want ±%v", lin.B[5], want)
	}
}
