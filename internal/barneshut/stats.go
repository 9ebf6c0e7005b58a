package barneshut

import "github.com/san-kum/bhtree/internal/body"

// Stats summarises the shape of a tree.
type Stats struct {
	Nodes         int
	Leaves        int
	Bodies        int
	MaxDepth      int
	MaxLeafBodies int
}

// Walk visits the subtree in depth-first pre-order. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

func (n *Node) Stats() Stats {
	var s Stats
	n.Walk(func(node *Node) bool {
		s.Nodes++
		if node.depth > s.MaxDepth {
			s.MaxDepth = node.depth
		}
		if node.leaf {
			s.Leaves++
			s.Bodies += len(node.bodies)
			if len(node.bodies) > s.MaxLeafBodies {
				s.MaxLeafBodies = len(node.bodies)
			}
		}
		return true
	})
	return s
}

// AllBodies collects the bodies of every leaf in traversal order.
func (n *Node) AllBodies() []body.Body {
	var out []body.Body
	n.Walk(func(node *Node) bool {
		out = append(out, node.bodies...)
		return true
	})
	return out
}
