// Package barneshut implements the Barnes-Hut approximation of Newtonian
// gravity for point masses in d dimensions.
//
// A body set is split once, top down, into a sparse 2^d-ary tree ([Build]).
// Each node lazily caches its total mass, center of mass, size and
// quadrupole tensor. A force query ([Node.Acceleration]) walks the tree and,
// at every internal node, applies the opening-angle test
//
//	size / |p - com| < theta
//
// to decide between treating the whole cell as one multipole source and
// descending into its children.
//
// # Example
//
//	region, _ := body.NewRegion(vec.Vec{-10, -10}, vec.Vec{10, 10})
//	root, err := barneshut.Build(region, bodies, barneshut.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	acc := root.Acceleration(bodies[0])
//
// # Stop rules
//
// [StopByCount] (the default) ends subdivision once a node holds at most
// Limit bodies; [StopByDepth] ends it once the node depth reaches Limit.
//
// # Thread Safety
//
// A built tree is never mutated. Queries may run concurrently; aggregates
// are guarded by sync.Once, and [Node.AccelerateAll] precomputes them before
// fanning queries out to worker goroutines.
package barneshut
