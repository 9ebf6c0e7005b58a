package integrators

import (
	"context"
	"fmt"

	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/sim"
	"github.com/san-kum/bhtree/internal/vec"
)

// phase holds the positions and velocities of a body set, or their time
// derivatives, as separate vectors per body.
type phase struct {
	pos []vec.Vec
	vel []vec.Vec
}

func capture(bodies []body.Body) phase {
	p := phase{pos: make([]vec.Vec, len(bodies)), vel: make([]vec.Vec, len(bodies))}
	for i, b := range bodies {
		p.pos[i] = b.Position
		p.vel[i] = b.Velocity
	}
	return p
}

// plus returns p + h·k.
func (p phase) plus(k phase, h float64) phase {
	out := phase{pos: make([]vec.Vec, len(p.pos)), vel: make([]vec.Vec, len(p.vel))}
	for i := range p.pos {
		out.pos[i] = p.pos[i].Clone()
		out.pos[i].AddScaled(k.pos[i], h)
		out.vel[i] = p.vel[i].Clone()
		out.vel[i].AddScaled(k.vel[i], h)
	}
	return out
}

// apply moves each template body to the phase-space point p.
func (p phase) apply(template []body.Body) []body.Body {
	out := make([]body.Body, len(template))
	for i, b := range template {
		out[i] = b.With(p.pos[i], p.vel[i])
	}
	return out
}

// derive returns dp/dt: the velocities and the accelerations at p.
func derive(ctx context.Context, acc sim.Accelerator, template []body.Body, p phase) (phase, error) {
	a, err := accelerations(ctx, acc, p.apply(template))
	if err != nil {
		return phase{}, err
	}
	return phase{pos: p.vel, vel: a}, nil
}

func accelerations(ctx context.Context, acc sim.Accelerator, bodies []body.Body) ([]vec.Vec, error) {
	a, err := acc.Accelerations(ctx, bodies)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", acc.Name(), err)
	}
	if len(a) != len(bodies) {
		return nil, fmt.Errorf("%s: returned %d accelerations for %d bodies", acc.Name(), len(a), len(bodies))
	}
	return a, nil
}

// ByName returns the integrator registered under name.
func ByName(name string) (sim.Integrator, error) {
	switch name {
	case "euler":
		return NewEuler(), nil
	case "symplectic-euler", "semi-implicit-euler":
		return NewSemiImplicitEuler(), nil
	case "leapfrog", "verlet", "":
		return NewLeapfrog(), nil
	case "rk2", "midpoint":
		return NewRK2(), nil
	case "rk4":
		return NewRK4(), nil
	}
	return nil, fmt.Errorf("unknown integrator: %s", name)
}

// Names lists the canonical integrator names.
func Names() []string {
	return []string{"euler", "symplectic-euler", "leapfrog", "rk2", "rk4"}
}
