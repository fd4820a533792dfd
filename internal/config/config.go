package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dynblocks/internal/relation"
	"github.com/san-kum/dynblocks/internal/systems"
)

const (
	DefaultModel       = "pendulum"
	DefaultSweepSteps  = 60
	DefaultSweepOutput = 1
)

// Config describes one evaluation: which block, the operating point, and
// an optional sweep of one state entry.
type Config struct {
	Model  string             `yaml:"model"`
	Name   string             `yaml:"name,omitempty"`
	Time   float64            `yaml:"time"`
	State  []float64          `yaml:"state,omitempty"`
	Inputs map[string]float64 `yaml:"inputs,omitempty"`

	// RequireRelation, when set, rejects models whose function is less
	// structured than the given tag.
	RequireRelation *relation.Tag `yaml:"require_relation,omitempty"`

	Sweep SweepConfig `yaml:"sweep"`
}

type SweepConfig struct {
	Input  int     `yaml:"input"`
	Output int     `yaml:"output"`
	Port   int     `yaml:"port"`
	From   float64 `yaml:"from"`
	To     float64 `yaml:"to"`
	Steps  int     `yaml:"steps"`
}

func DefaultConfig() *Config {
	return &Config{
		Model: DefaultModel,
		Sweep: SweepConfig{
			Input:  0,
			Port:   1,
			Output: DefaultSweepOutput,
			From:   -math.Pi,
			To:     math.Pi,
			Steps:  DefaultSweepSteps,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Apply writes the operating point into ctx. A nil state leaves the
// context's state untouched.
func (c *Config) Apply(ctx *systems.LeafContext) error {
	if c.State != nil {
		if err := ctx.SetState(c.State); err != nil {
			return fmt.Errorf("config state: %w", err)
		}
	}
	for name, v := range c.Inputs {
		ctx.SetParam(name, v)
	}
	ctx.SetTime(c.Time)
	return nil
}

// CheckRelation verifies a model function tag against RequireRelation.
func (c *Config) CheckRelation(got relation.Tag) error {
	if c.RequireRelation == nil {
		return nil
	}
	if !relation.IsA(got, *c.RequireRelation) {
		return fmt.Errorf("model %s is %s, config requires %s", c.Model, got, *c.RequireRelation)
	}
	return nil
}

func (s SweepConfig) Validate() error {
	if s.Steps < 2 {
		return fmt.Errorf("sweep needs at least 2 steps, got %d", s.Steps)
	}
	if s.From >= s.To {
		return fmt.Errorf("sweep range [%g, %g] is empty", s.From, s.To)
	}
	if s.Input < 0 || s.Output < 0 || s.Port < 0 {
		return fmt.Errorf("sweep indices must be non-negative")
	}
	return nil
}

// Points returns Steps evenly spaced values from From to To inclusive.
func (s SweepConfig) Points() []float64 {
	pts := make([]float64, s.Steps)
	step := (s.To - s.From) / float64(s.Steps-1)
	for i := range pts {
		pts[i] = s.From + float64(i)*step
	}
	return pts
}
