package barneshut

import (
	"github.com/san-kum/bhtree/internal/vec"
)

// Aggregates are computed on first access and memoized for the lifetime of
// the node. Internal nodes derive them from their children's cached values
// and never revisit bodies. sync.Once makes concurrent first access safe.

// Mass returns the total mass of the subtree.
func (n *Node) Mass() float64 {
	n.massOnce.Do(func() {
		m := 0.0
		if n.leaf {
			for _, b := range n.bodies {
				m += b.Mass
			}
		} else {
			for _, c := range n.children {
				m += c.Mass()
			}
		}
		n.mass = m
	})
	return n.mass
}

// CenterOfMass returns the mass-weighted mean position of the subtree, or
// the zero vector for an empty node.
func (n *Node) CenterOfMass() vec.Vec {
	return n.centerOfMass().Clone()
}

func (n *Node) centerOfMass() vec.Vec {
	n.comOnce.Do(func() {
		com := vec.Zero(n.region.Dim())
		m := n.Mass()
		if m == 0 {
			n.com = com
			return
		}
		if n.leaf {
			for _, b := range n.bodies {
				com.AddScaled(b.Position, b.Mass)
			}
		} else {
			for _, c := range n.children {
				com.AddScaled(c.centerOfMass(), c.Mass())
			}
		}
		for i := range com {
			com[i] /= m
		}
		n.com = com
	})
	return n.com
}

// Size is half the length of the cell diagonal. It depends only on the
// region and is the numerator of the opening-angle ratio.
func (n *Node) Size() float64 {
	n.sizeOnce.Do(func() {
		n.size = 0.5 * n.region.Diagonal()
	})
	return n.size
}

// Quadrupole returns Σ m·(3·r·rᵗ − |r|²·I) over every body of the subtree,
// with r measured from the node's center of mass.
//
// This is the full tensor of the subtree's bodies. It is not the coarser
// tensor obtained by treating each child as a point mass at its center of
// mass; the two differ by the children's own tensors, so values for internal
// nodes are larger in magnitude than that approximation would give.
func (n *Node) Quadrupole() vec.Tensor {
	return n.quadrupole().Clone()
}

// For internal nodes each child contributes its own tensor shifted to this
// node's center of mass. The shift is exact because a child's first moment
// about its own center of mass vanishes.
func (n *Node) quadrupole() vec.Tensor {
	n.quadOnce.Do(func() {
		dim := n.region.Dim()
		q := vec.NewTensor(dim)
		if n.Mass() == 0 {
			n.quad = q
			return
		}

		com := n.centerOfMass()
		r := vec.Zero(dim)
		if n.leaf {
			for _, b := range n.bodies {
				r.SubInto(b.Position, com)
				q.AddMoment(b.Mass, r)
			}
		} else {
			for _, c := range n.children {
				r.SubInto(c.centerOfMass(), com)
				q.AddMoment(c.Mass(), r)
				q.AddTensor(c.quadrupole())
			}
		}
		n.quad = q
	})
	return n.quad
}

// Precompute forces every aggregate of the subtree, children first, so that
// later concurrent readers only ever see cached values.
func (n *Node) Precompute() {
	for _, c := range n.children {
		c.Precompute()
	}
	n.Mass()
	n.centerOfMass()
	n.Size()
	n.quadrupole()
}
