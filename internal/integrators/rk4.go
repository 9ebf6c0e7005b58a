package integrators

import (
	"context"

	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/sim"
)

// RK2 is the explicit midpoint method.
type RK2 struct{}

func NewRK2() *RK2 {
	return &RK2{}
}

func (r *RK2) Name() string { return "rk2" }

func (r *RK2) Step(ctx context.Context, acc sim.Accelerator, bodies []body.Body, dt float64) ([]body.Body, error) {
	x := capture(bodies)

	k1, err := derive(ctx, acc, bodies, x)
	if err != nil {
		return nil, err
	}
	k2, err := derive(ctx, acc, bodies, x.plus(k1, dt*0.5))
	if err != nil {
		return nil, err
	}
	return x.plus(k2, dt).apply(bodies), nil
}

// RK4 is the classical fourth-order Runge-Kutta method. It needs four
// acceleration evaluations per step.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(ctx context.Context, acc sim.Accelerator, bodies []body.Body, dt float64) ([]body.Body, error) {
	x := capture(bodies)

	k1, err := derive(ctx, acc, bodies, x)
	if err != nil {
		return nil, err
	}
	k2, err := derive(ctx, acc, bodies, x.plus(k1, dt*0.5))
	if err != nil {
		return nil, err
	}
	k3, err := derive(ctx, acc, bodies, x.plus(k2, dt*0.5))
	if err != nil {
		return nil, err
	}
	k4, err := derive(ctx, acc, bodies, x.plus(k3, dt))
	if err != nil {
		return nil, err
	}

	dt6 := dt / 6.0
	result := x.plus(k1, dt6).plus(k2, 2*dt6).plus(k3, 2*dt6).plus(k4, dt6)
	return result.apply(bodies), nil
}
