package direct

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/vec"
)

func TestTwoBodies(t *testing.T) {
	bodies := []body.Body{
		body.New(0, 1, vec.Vec{0, 0}, nil),
		body.New(1, 1, vec.Vec{1, 0}, nil),
	}
	s := New(1)

	a0 := s.Acceleration(bodies[0], bodies)
	a1 := s.Acceleration(bodies[1], bodies)

	if !a0.EqualWithEpsilon(vec.Vec{1, 0}, 1e-15) {
		t.Errorf("expected (1,0), got %v", a0)
	}
	if !a1.EqualWithEpsilon(vec.Vec{-1, 0}, 1e-15) {
		t.Errorf("expected (-1,0), got %v", a1)
	}
}

func TestAccelerationIgnoresQueryMass(t *testing.T) {
	light := body.New(0, 0.001, vec.Vec{0, 0, 0}, nil)
	heavy := body.New(0, 1000, vec.Vec{0, 0, 0}, nil)
	src := []body.Body{body.New(1, 4, vec.Vec{0, 0, 2}, nil)}
	s := New(1)

	if !s.Acceleration(light, src).Equal(s.Acceleration(heavy, src)) {
		t.Error("acceleration must not depend on the query mass")
	}
}

func TestNewtonThirdLaw(t *testing.T) {
	bodies := []body.Body{
		body.New(0, 1, vec.Vec{0, 0}, nil),
		body.New(1, 3, vec.Vec{2, 1}, nil),
		body.New(2, 0.5, vec.Vec{-1, 4}, nil),
		body.New(3, 2, vec.Vec{5, -3}, nil),
	}
	acc, err := New(2).Accelerations(context.Background(), bodies)
	if err != nil {
		t.Fatal(err)
	}

	// Σ m·a vanishes for internal forces
	net := vec.Zero(2)
	for i, b := range bodies {
		net.AddScaled(acc[i], b.Mass)
	}
	if net.Norm() > 1e-12 {
		t.Errorf("net internal force should vanish, got %v", net)
	}
}

func TestAccelerationsParallelMatchesSerial(t *testing.T) {
	bodies := make([]body.Body, 200)
	for i := range bodies {
		x := math.Cos(float64(i)) * float64(i%17)
		y := math.Sin(float64(i)*1.3) * float64(i%11)
		bodies[i] = body.New(i, 1+float64(i%5), vec.Vec{x, y}, nil)
	}

	serial := &Solver{G: 1, Workers: 1}
	par := &Solver{G: 1, Workers: 8}

	a, err := serial.Accelerations(context.Background(), bodies)
	if err != nil {
		t.Fatal(err)
	}
	b, err := par.Accelerations(context.Background(), bodies)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("body %d: serial %v != parallel %v", i, a[i], b[i])
		}
	}
}

func TestAccelerationsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bodies := []body.Body{body.New(0, 1, vec.Vec{0, 0}, nil)}
	if _, err := New(1).Accelerations(ctx, bodies); err == nil {
		t.Error("expected cancellation error")
	}
}

func BenchmarkDirect1000(b *testing.B) {
	bodies := make([]body.Body, 1000)
	for i := range bodies {
		bodies[i] = body.New(i, 1, vec.Vec{math.Cos(float64(i)), math.Sin(float64(i) * 0.7)}, nil)
	}
	s := &Solver{G: 1, Workers: 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Accelerations(context.Background(), bodies)
	}
}
