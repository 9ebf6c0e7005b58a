package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/bhtree/internal/barneshut"
	"github.com/san-kum/bhtree/internal/direct"
	"github.com/san-kum/bhtree/internal/integrators"
	"github.com/san-kum/bhtree/internal/metrics"
	"github.com/san-kum/bhtree/internal/sim"
)

// Registry resolves solver and integrator names given on the command line.
type Registry struct {
	solvers     map[string]func(*barneshut.Solver) sim.Accelerator
	integrators map[string]func() sim.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		solvers:     make(map[string]func(*barneshut.Solver) sim.Accelerator),
		integrators: make(map[string]func() sim.Integrator),
	}

	r.solvers["barnes-hut"] = func(bh *barneshut.Solver) sim.Accelerator { return bh }
	r.solvers["direct"] = func(bh *barneshut.Solver) sim.Accelerator {
		return &direct.Solver{G: bh.Config.G, Workers: bh.Workers}
	}

	for _, name := range integrators.Names() {
		name := name
		r.integrators[name] = func() sim.Integrator {
			integ, _ := integrators.ByName(name)
			return integ
		}
	}

	return r
}

// GetSolver returns the named solver. The direct solver borrows G and the
// worker count from the tree solver.
func (r *Registry) GetSolver(name string, bh *barneshut.Solver) (sim.Accelerator, error) {
	fn, ok := r.solvers[name]
	if !ok {
		return nil, fmt.Errorf("unknown solver: %s", name)
	}
	return fn(bh), nil
}

func (r *Registry) GetIntegrator(name string) (sim.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListSolvers() []string {
	return sortedKeys(r.solvers)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

// DefaultMetrics are attached to every simulation. radius bounds the
// stability check.
func (r *Registry) DefaultMetrics(g, radius float64) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(g),
		metrics.NewEnergyDrift(g),
		metrics.NewMomentumDrift(),
		metrics.NewStability(radius),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
