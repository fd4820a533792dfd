// Package experiment builds blocks by name and runs evaluations against
// them.
package experiment

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/dynblocks/internal/config"
	"github.com/san-kum/dynblocks/internal/function"
	"github.com/san-kum/dynblocks/internal/models"
	"github.com/san-kum/dynblocks/internal/systems"
)

// PortResult is the evaluated value of one output port.
type PortResult struct {
	Index int
	Name  string
	Value systems.Value
}

// Sample is one point of a sweep.
type Sample struct {
	Input  float64
	Output float64
	// Slope is ∂output/∂input from the block's linearization, when the
	// swept port is the derivative port.
	Slope float64
}

// Experiment is a block plus one context configured from a Config.
type Experiment struct {
	cfg    *config.Config
	model  models.Model
	ctx    *systems.LeafContext
	logger *slog.Logger
}

func New(reg *Registry, cfg *config.Config, logger *slog.Logger) (*Experiment, error) {
	m, err := reg.GetModel(cfg.Model, cfg.Name)
	if err != nil {
		return nil, err
	}
	if err := cfg.CheckRelation(m.Function().Relation()); err != nil {
		return nil, err
	}
	if logger != nil {
		if setter, ok := m.(interface{ SetLogger(*slog.Logger) }); ok {
			setter.SetLogger(logger)
		}
	} else {
		logger = m.Logger()
	}

	ctx := m.CreateDefaultContext()
	if err := cfg.Apply(ctx); err != nil {
		return nil, err
	}
	return &Experiment{cfg: cfg, model: m, ctx: ctx, logger: logger}, nil
}

func (e *Experiment) Model() models.Model           { return e.model }
func (e *Experiment) Context() *systems.LeafContext { return e.ctx }

// EvalAll evaluates every output port in declaration order.
func (e *Experiment) EvalAll() ([]PortResult, error) {
	n := e.model.NumOutputPorts()
	results := make([]PortResult, 0, n)
	for i := 0; i < n; i++ {
		p := e.model.OutputPort(i)
		v, err := p.Eval(e.ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, PortResult{Index: i, Name: p.Name(), Value: v})
	}
	e.logger.Info("evaluated ports", "block", e.model.Pathname(), "ports", n)
	return results, nil
}

// Jacobian returns the sensitivity of the block function at the current
// operating point.
func (e *Experiment) Jacobian() [][]float64 {
	return e.jacobianAt(e.ctx)
}

func (e *Experiment) jacobianAt(ctx *systems.LeafContext) [][]float64 {
	x := ctx.State()
	for _, name := range e.model.InputNames() {
		x = append(x, ctx.Param(name, 0))
	}
	return function.Jacobian(e.model.Function(), x)
}

// Sweep varies one state entry across the configured range and records one
// entry of a vector port. The context is restored afterwards.
func (e *Experiment) Sweep() ([]Sample, error) {
	port, err := e.sweepPort()
	if err != nil {
		return nil, err
	}
	x0 := e.ctx.State()
	defer func() { _ = e.ctx.SetState(x0) }()

	points := e.cfg.Sweep.Points()
	samples := make([]Sample, 0, len(points))
	for _, u := range points {
		sample, err := e.sampleAt(e.ctx, port, x0, u)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	e.logger.Debug("sweep complete", "block", e.model.Pathname(), "samples", len(samples))
	return samples, nil
}

func (e *Experiment) sweepPort() (*systems.OutputPort, error) {
	s := e.cfg.Sweep
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if n := len(e.ctx.State()); s.Input >= n {
		return nil, fmt.Errorf("sweep input %d out of range for %d states", s.Input, n)
	}
	port := e.model.OutputPort(s.Port)
	if port == nil {
		return nil, fmt.Errorf("sweep port %d does not exist on %s", s.Port, e.model.Pathname())
	}
	if port.DataType() != systems.VectorValued {
		return nil, fmt.Errorf("sweep port %d is not a vector port", s.Port)
	}
	return port, nil
}

// sampleAt sets entry Input of x0 to u in ctx and evaluates port.
func (e *Experiment) sampleAt(ctx *systems.LeafContext, port *systems.OutputPort, x0 []float64, u float64) (Sample, error) {
	s := e.cfg.Sweep
	x := append([]float64(nil), x0...)
	x[s.Input] = u
	if err := ctx.SetState(x); err != nil {
		return Sample{}, err
	}

	v, err := port.Eval(ctx)
	if err != nil {
		return Sample{}, err
	}
	vec, ok := v.(*systems.BasicVector)
	if !ok {
		return Sample{}, fmt.Errorf("sweep port %d produced %s", s.Port, v.TypeName())
	}
	if s.Output >= vec.Size() {
		return Sample{}, fmt.Errorf("sweep output %d out of range for port of size %d", s.Output, vec.Size())
	}

	sample := Sample{Input: u, Output: vec.At(s.Output)}
	if port.Name() == "derivative" {
		sample.Slope = e.jacobianAt(ctx)[s.Output][s.Input]
	}
	return sample, nil
}
