package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/dynblocks/internal/models"
)

// Registry maps model names to block factories. The factory receives the
// block name so several instances can live in one composition.
type Registry struct {
	models map[string]func(name string) models.Model
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]func(string) models.Model),
	}

	r.models["pendulum"] = func(name string) models.Model { return models.NewPendulum(name) }
	r.models["spring_mass"] = func(name string) models.Model { return models.NewSpringMass(name) }
	r.models["drone"] = func(name string) models.Model { return models.NewDrone(name) }
	r.models["gain"] = func(name string) models.Model { return models.NewGain(name, 1, 2, 3) }

	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, fn func(name string) models.Model) {
	r.models[name] = fn
}

// GetModel builds a fresh block. An empty instance name defaults to the
// model name.
func (r *Registry) GetModel(model, name string) (models.Model, error) {
	fn, ok := r.models[model]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", model)
	}
	if name == "" {
		name = model
	}
	return fn(name), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
