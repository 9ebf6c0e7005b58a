package optim

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch([]string{"x", "y"}, [][]float64{{-1, 0, 1, 2}, {0, 3, 5}})
	if g.Size() != 12 {
		t.Fatalf("expected 12 points, got %d", g.Size())
	}

	calls := 0
	params, best, err := g.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		calls++
		return (p["x"]-1)*(p["x"]-1) + (p["y"]-3)*(p["y"]-3), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 12 {
		t.Errorf("expected 12 evaluations, got %d", calls)
	}
	if best != 0 || params["x"] != 1 || params["y"] != 3 {
		t.Errorf("expected (1,3) with 0, got %v with %v", params, best)
	}
}

func TestGridSearchSkipsInfeasible(t *testing.T) {
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})
	params, best, err := g.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		if p["x"] < 3 {
			return math.Inf(1), nil
		}
		return p["x"], nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if params["x"] != 3 || best != 3 {
		t.Errorf("expected x=3, got %v", params)
	}

	_, _, err = g.Search(context.Background(), func(context.Context, map[string]float64) (float64, error) {
		return math.Inf(1), nil
	})
	if !errors.Is(err, ErrNoCandidate) {
		t.Errorf("expected ErrNoCandidate, got %v", err)
	}
}

func TestGridSearchStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})

	calls := 0
	_, _, err := g.Search(context.Background(), func(context.Context, map[string]float64) (float64, error) {
		calls++
		return 0, boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Errorf("expected to stop after first error, got %v after %d calls", err, calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Search(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
