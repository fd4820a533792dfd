package control

import (
	"fmt"

	"github.com/san-kum/dynblocks/internal/models"
)

var (
	pendulumGains = [][]float64{{31.62, 10.0}}
	springGains   = [][]float64{{10.0, 6.32}}
	droneGains    = [][]float64{
		{0.0, -5.0, 10.0, 0.0, -3.5, 2.0},
		{0.0, -5.0, -10.0, 0.0, -3.5, -2.0},
	}
)

func NewPendulumLQR() *StateFeedback {
	return NewLQR(pendulumGains, []float64{0, 0})
}

func NewSpringMassLQR() *StateFeedback {
	return NewLQR(springGains, []float64{0, 0})
}

// NewDroneLQR holds altitude targetY, feeding forward the hover thrust
// on both rotors.
func NewDroneLQR(d *models.Drone, targetY float64) *StateFeedback {
	hover := d.HoverThrust()
	fb := NewLQR(droneGains, []float64{0, targetY, 0, 0, 0, 0})
	fb.U0 = []float64{hover, hover}
	return fb
}

// ForModel returns the tuned feedback for m's model kind.
func ForModel(m models.Model) (*StateFeedback, error) {
	switch b := m.(type) {
	case *models.Pendulum:
		return NewPendulumLQR(), nil
	case *models.SpringMass:
		return NewSpringMassLQR(), nil
	case *models.Drone:
		return NewDroneLQR(b, 5), nil
	default:
		return nil, fmt.Errorf("no tuned gains for %s", m.TypeName())
	}
}
