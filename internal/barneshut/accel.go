package barneshut

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/parallel"
	"github.com/san-kum/bhtree/internal/vec"
)

// Acceleration returns the gravitational acceleration on p due to every
// other body in the subtree. It is an acceleration, not a force: the result
// is never divided by p.Mass. p need not be one of the tree's bodies but must
// have the tree's dimension.
func (n *Node) Acceleration(p body.Body) vec.Vec {
	acc := vec.Zero(len(p.Position))
	n.accumulate(acc, p)
	return acc
}

func (n *Node) accumulate(acc vec.Vec, p body.Body) {
	if n.leaf {
		for _, q := range n.bodies {
			body.Pull(acc, p, q, n.cfg.G)
		}
		return
	}

	m := n.Mass()
	if m == 0 {
		return
	}

	com := n.centerOfMass()
	r2 := 0.0
	for i, x := range p.Position {
		d := x - com[i]
		r2 += d * d
	}
	r := math.Sqrt(r2)

	// r == 0 would divide by zero below; open the cell instead.
	if r > 0 && n.Size()/r < n.cfg.Theta {
		n.farField(acc, p.Position.Sub(com), r, m)
		return
	}

	for _, c := range n.children {
		c.accumulate(acc, p)
	}
}

// farField adds the multipole expansion of the cell about its center of mass
// at offset y = p - com, |y| = r:
//
//	monopole:   -G·M·y / r³
//	quadrupole:  G·(Q·y / r⁵ − (5/2)·(yᵗ·Q·y)·y / r⁷)
//
// The quadrupole term carries +G. With the traceless Q of Quadrupole that is
// the sign of the gradient of the potential −G·yᵗ·Q·y / (2·r⁵); a −G
// correction would push the result away from direct summation.
func (n *Node) farField(acc, y vec.Vec, r, m float64) {
	g := n.cfg.G
	r3 := r * r * r
	acc.AddScaled(y, -g*m/r3)

	if n.cfg.Order == Monopole {
		return
	}

	q := n.quadrupole()
	qy := q.MulVec(y)
	yqy := y.Dot(qy)
	r5 := r3 * r * r
	r7 := r5 * r * r
	acc.AddScaled(qy, g/r5)
	acc.AddScaled(y, -2.5*g*yqy/r7)
}

// AccelerateAll evaluates Acceleration for every query on up to workers
// goroutines (0 means one per CPU). Aggregates are precomputed first, so the
// workers only read the tree. Results are in query order and do not depend
// on the worker count.
func (n *Node) AccelerateAll(ctx context.Context, queries []body.Body, workers int) ([]vec.Vec, error) {
	dim := n.region.Dim()
	for i, q := range queries {
		if q.Dim() != dim {
			return nil, bodyError("query", i, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, q.Dim(), dim))
		}
	}
	start := time.Now()
	n.Precompute()

	out := make([]vec.Vec, len(queries))
	err := parallel.For(ctx, len(queries), workers, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = n.Acceleration(queries[i])
		}
	})
	if err != nil {
		return nil, err
	}
	instrumentQueries(n, len(queries), start)
	return out, nil
}
