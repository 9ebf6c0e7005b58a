package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/vec"
)

// Accelerator evaluates the acceleration of every body due to all others.
// Both the tree solver and the direct solver satisfy it.
type Accelerator interface {
	Name() string
	Accelerations(ctx context.Context, bodies []body.Body) ([]vec.Vec, error)
}

// Integrator advances a body set by one step of length dt. It returns new
// bodies and never modifies its input.
type Integrator interface {
	Name() string
	Step(ctx context.Context, acc Accelerator, bodies []body.Body, dt float64) ([]body.Body, error)
}

type Metric interface {
	Name() string
	Observe(bodies []body.Body, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, t float64, bodies []body.Body)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(step int, t float64, bodies []body.Body)

func (f ObserverFunc) OnStep(step int, t float64, bodies []body.Body) { f(step, t, bodies) }

type Config struct {
	Dt       float64
	Duration float64
	// G is used for the energy bookkeeping only; the accelerator carries
	// its own constant.
	G float64
	// SnapshotEvery keeps every n-th step in the result; 0 keeps only the
	// first and last.
	SnapshotEvery int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      1.0,
		G:             1.0,
		SnapshotEvery: 10,
		ValidateState: true,
	}
}

type Snapshot struct {
	Step   int
	Time   float64
	Bodies []body.Body
}

type Result struct {
	Solver      string
	Integrator  string
	Snapshots   []Snapshot
	StepsTaken  int
	Metrics     map[string]float64
	EnergyDrift float64
	Errors      []error
}

// Final returns the last recorded snapshot.
func (r *Result) Final() Snapshot {
	if len(r.Snapshots) == 0 {
		return Snapshot{}
	}
	return r.Snapshots[len(r.Snapshots)-1]
}

type SimError struct {
	Time    float64
	Step    int
	Message string
	Err     error
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error { return e.Err }
