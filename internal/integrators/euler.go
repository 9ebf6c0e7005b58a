package integrators

import (
	"context"

	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/sim"
)

// Euler is the explicit first-order method. It steadily gains energy on
// bound orbits and is kept mostly as a reference.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(ctx context.Context, acc sim.Accelerator, bodies []body.Body, dt float64) ([]body.Body, error) {
	a, err := accelerations(ctx, acc, bodies)
	if err != nil {
		return nil, err
	}
	result := make([]body.Body, len(bodies))
	for i, b := range bodies {
		pos := b.Position.Clone()
		pos.AddScaled(b.Velocity, dt)
		vel := b.Velocity.Clone()
		vel.AddScaled(a[i], dt)
		result[i] = b.With(pos, vel)
	}
	return result, nil
}

// SemiImplicitEuler updates velocities first and moves bodies with the new
// velocity, which makes it symplectic.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Name() string { return "symplectic-euler" }

func (e *SemiImplicitEuler) Step(ctx context.Context, acc sim.Accelerator, bodies []body.Body, dt float64) ([]body.Body, error) {
	a, err := accelerations(ctx, acc, bodies)
	if err != nil {
		return nil, err
	}
	result := make([]body.Body, len(bodies))
	for i, b := range bodies {
		vel := b.Velocity.Clone()
		vel.AddScaled(a[i], dt)
		pos := b.Position.Clone()
		pos.AddScaled(vel, dt)
		result[i] = b.With(pos, vel)
	}
	return result, nil
}
