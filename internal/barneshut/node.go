package barneshut

import (
	"fmt"
	"math"
	"sync"

	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/vec"
)

// Node is one cell of the tree. A leaf owns its bodies; an internal node owns
// one child per non-empty orthant, in ascending orthant order. The tree is
// immutable once Build returns.
type Node struct {
	region   body.Region
	depth    int
	leaf     bool
	bodies   []body.Body
	children []*Node
	cfg      *Config

	massOnce sync.Once
	mass     float64
	comOnce  sync.Once
	com      vec.Vec
	sizeOnce sync.Once
	size     float64
	quadOnce sync.Once
	quad     vec.Tensor
}

// Build validates its inputs and returns the root of a fully subdivided tree
// over bodies. The bodies slice is copied; the bodies themselves are never
// modified.
func Build(region body.Region, bodies []body.Body, cfg Config) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateRegion(region); err != nil {
		return nil, err
	}
	if err := validateBodies(region, bodies); err != nil {
		return nil, err
	}

	owned := make([]body.Body, len(bodies))
	copy(owned, bodies)

	root := newNode(region, 0, &cfg)
	root.subdivide(owned)
	return root, nil
}

func newNode(region body.Region, depth int, cfg *Config) *Node {
	return &Node{region: region, depth: depth, cfg: cfg}
}

func validateRegion(region body.Region) error {
	dim := region.Dim()
	if dim < 1 || dim > MaxDim || len(region.Max) != dim {
		return fieldError("region", fmt.Errorf("%w: %d", ErrInvalidDimension, dim))
	}
	if !region.Min.IsValid() || !region.Max.IsValid() {
		return fieldError("region", ErrNonFinite)
	}
	for i := range region.Min {
		if region.Min[i] > region.Max[i] {
			return fieldError("region", fmt.Errorf("min corner above max corner on axis %d", i))
		}
	}
	return nil
}

func validateBodies(region body.Region, bodies []body.Body) error {
	dim := region.Dim()
	for i, b := range bodies {
		if b.Dim() != dim {
			return bodyError("position", i, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, b.Dim(), dim))
		}
		if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
			return bodyError("mass", i, fmt.Errorf("%w: %v", ErrInvalidMass, b.Mass))
		}
		if !b.Position.IsValid() {
			return bodyError("position", i, ErrNonFinite)
		}
		if !region.Contains(b.Position) {
			return bodyError("position", i, fmt.Errorf("%w: %v", ErrOutsideRegion, b.Position))
		}
	}
	return nil
}

func (n *Node) subdivide(bodies []body.Body) {
	if n.stop(len(bodies)) {
		n.leaf = true
		n.bodies = bodies
		return
	}

	center := n.region.Center()
	buckets := make([][]body.Body, 1<<n.region.Dim())
	for _, b := range bodies {
		idx := body.Orthant(b.Position, center)
		buckets[idx] = append(buckets[idx], b)
	}

	for idx, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		child := newNode(n.region.Child(idx), n.depth+1, n.cfg)
		child.subdivide(bucket)
		n.children = append(n.children, child)
	}
}

func (n *Node) stop(count int) bool {
	if count == 0 || n.depth >= MaxDepth {
		return true
	}
	if n.cfg.Stop == StopByDepth {
		return n.depth >= n.cfg.Limit
	}
	return count <= n.cfg.Limit
}

func (n *Node) Region() body.Region { return n.region }
func (n *Node) Depth() int          { return n.depth }
func (n *Node) IsLeaf() bool        { return n.leaf }
func (n *Node) Config() Config      { return *n.cfg }

// Bodies returns the bodies held by a leaf; internal nodes hold none.
func (n *Node) Bodies() []body.Body {
	out := make([]body.Body, len(n.bodies))
	copy(out, n.bodies)
	return out
}

// Children returns the child nodes of an internal node.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}
