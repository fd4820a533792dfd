package config

import (
	"math"
	"sort"
)

var Presets = map[string]map[string]*Config{
	"pendulum": {
		"small": {
			Model: "pendulum", State: []float64{0.2, 0},
			Sweep: SweepConfig{Input: 0, Port: 1, Output: 1, From: -0.5, To: 0.5, Steps: 40},
		},
		"large": {
			Model: "pendulum", State: []float64{2.5, 0},
			Sweep: SweepConfig{Input: 0, Port: 1, Output: 1, From: -math.Pi, To: math.Pi, Steps: 60},
		},
		"spinning": {
			Model: "pendulum", State: []float64{0.1, 8},
			Sweep: SweepConfig{Input: 1, Port: 3, Output: 0, From: 0, To: 10, Steps: 50},
		},
	},
	"spring_mass": {
		"displaced": {
			Model: "spring_mass", State: []float64{1, 0},
			Sweep: SweepConfig{Input: 0, Port: 1, Output: 1, From: -2, To: 2, Steps: 40},
		},
		"forced": {
			Model: "spring_mass", State: []float64{0, 0}, Inputs: map[string]float64{"force": 5},
			Sweep: SweepConfig{Input: 1, Port: 1, Output: 1, From: -3, To: 3, Steps: 40},
		},
	},
	"drone": {
		"hover": {
			Model: "drone", State: []float64{0, 5, 0, 0, 0, 0},
			Inputs: map[string]float64{"thrust_l": 4.905, "thrust_r": 4.905},
			Sweep:  SweepConfig{Input: 2, Port: 1, Output: 3, From: -0.5, To: 0.5, Steps: 40},
		},
		"tilt": {
			Model: "drone", State: []float64{0, 5, 0.3, 0, 0, 0},
			Inputs: map[string]float64{"thrust_l": 4.905, "thrust_r": 4.905},
			Sweep:  SweepConfig{Input: 2, Port: 1, Output: 4, From: -1, To: 1, Steps: 40},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
