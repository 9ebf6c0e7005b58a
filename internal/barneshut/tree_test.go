package barneshut_test

import (
	"context"
	"math"
	"math/rand"
	"sort"

	g "github.com/onsi/ginkgo/v2"
	o "github.com/onsi/gomega"

	"github.com/san-kum/bhtree/internal/barneshut"
	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/direct"
	"github.com/san-kum/bhtree/internal/vec"
)

func region(lo, hi vec.Vec) body.Region {
	return body.Region{Min: lo, Max: hi}
}

func square(half float64) body.Region {
	return region(vec.Vec{-half, -half}, vec.Vec{half, half})
}

func randomBodies(seed int64, n, dim int, extent float64) []body.Body {
	rng := rand.New(rand.NewSource(seed))
	bodies := make([]body.Body, n)
	for i := range bodies {
		pos := make(vec.Vec, dim)
		for k := range pos {
			pos[k] = rng.Float64() * extent
		}
		bodies[i] = body.New(i, 1+rng.Float64()*10, pos, nil)
	}
	return bodies
}

func cube(dim int, extent float64) body.Region {
	hi := make(vec.Vec, dim)
	for i := range hi {
		hi[i] = extent
	}
	return region(vec.Zero(dim), hi)
}

func build(r body.Region, bodies []body.Body, cfg barneshut.Config) *barneshut.Node {
	root, err := barneshut.Build(r, bodies, cfg)
	o.Expect(err).NotTo(o.HaveOccurred())
	return root
}

func exact(bodies []body.Body, gc float64) []vec.Vec {
	out := make([]vec.Vec, len(bodies))
	s := direct.New(gc)
	for i, b := range bodies {
		out[i] = s.Acceleration(b, bodies)
	}
	return out
}

func meanDeviation(got, want []vec.Vec) float64 {
	sum := 0.0
	for i := range got {
		sum += got[i].Sub(want[i]).Norm() / want[i].Norm()
	}
	return sum / float64(len(got))
}

func ids(bodies []body.Body) []int {
	out := make([]int, len(bodies))
	for i, b := range bodies {
		out[i] = b.ID
	}
	sort.Ints(out)
	return out
}

var _ = g.Describe("Build", func() {
	g.It("keeps every body exactly once", func() {
		bodies := randomBodies(1, 300, 3, 100)
		root := build(cube(3, 100), bodies, barneshut.DefaultConfig())

		o.Expect(ids(root.AllBodies())).To(o.Equal(ids(bodies)))
		o.Expect(root.Stats().Bodies).To(o.Equal(len(bodies)))

		total := 0.0
		for _, b := range bodies {
			total += b.Mass
		}
		o.Expect(root.Mass()).To(o.BeNumerically("~", total, 1e-9*total))
	})

	g.It("places every body inside its leaf's region", func() {
		bodies := randomBodies(2, 200, 2, 10)
		root := build(cube(2, 10), bodies, barneshut.Config{G: 1, Theta: 0.5, Limit: 2})

		root.Walk(func(n *barneshut.Node) bool {
			for _, b := range n.Bodies() {
				o.Expect(n.Region().Contains(b.Position)).To(o.BeTrue())
			}
			return true
		})
	})

	g.It("does not modify the caller's slice", func() {
		bodies := randomBodies(3, 50, 2, 1)
		before := make([]body.Body, len(bodies))
		copy(before, bodies)

		build(cube(2, 1), bodies, barneshut.Config{G: 1, Theta: 0.5, Limit: 1})
		o.Expect(ids(bodies)).To(o.Equal(ids(before)))
		for i := range bodies {
			o.Expect(bodies[i].ID).To(o.Equal(before[i].ID))
		}
	})

	g.It("returns an empty leaf for no bodies", func() {
		root := build(square(1), nil, barneshut.DefaultConfig())

		o.Expect(root.IsLeaf()).To(o.BeTrue())
		o.Expect(root.Mass()).To(o.BeZero())
		o.Expect(root.CenterOfMass()).To(o.Equal(vec.Vec{0, 0}))
		o.Expect(root.Quadrupole().IsZero()).To(o.BeTrue())

		acc := root.Acceleration(body.New(0, 1, vec.Vec{0.5, 0.5}, nil))
		o.Expect(acc).To(o.Equal(vec.Vec{0, 0}))
	})

	g.It("builds a single leaf when the count limit covers every body", func() {
		bodies := randomBodies(4, 20, 2, 1)
		root := build(cube(2, 1), bodies, barneshut.Config{G: 1, Theta: 0.5, Limit: 21, Stop: barneshut.StopByCount})

		o.Expect(root.IsLeaf()).To(o.BeTrue())
		o.Expect(root.Bodies()).To(o.HaveLen(20))
	})

	g.Context("with the count stop rule", func() {
		g.It("leaves hold at most limit bodies and internal nodes more", func() {
			const limit = 4
			bodies := randomBodies(5, 500, 2, 50)
			root := build(cube(2, 50), bodies, barneshut.Config{G: 1, Theta: 0.5, Limit: limit})

			root.Walk(func(n *barneshut.Node) bool {
				if n.IsLeaf() {
					o.Expect(len(n.Bodies())).To(o.BeNumerically("<=", limit))
				} else {
					o.Expect(len(n.AllBodies())).To(o.BeNumerically(">", limit))
					o.Expect(n.Children()).NotTo(o.BeEmpty())
				}
				return true
			})
		})

		g.It("caps coincident bodies at MaxDepth", func() {
			bodies := make([]body.Body, 10)
			for i := range bodies {
				bodies[i] = body.New(i, 1, vec.Vec{0.3, 0.3}, nil)
			}
			root := build(cube(2, 1), bodies, barneshut.Config{G: 1, Theta: 0.5, Limit: 1})

			st := root.Stats()
			o.Expect(st.MaxDepth).To(o.Equal(barneshut.MaxDepth))
			o.Expect(st.MaxLeafBodies).To(o.Equal(10))

			acc := root.Acceleration(bodies[0])
			o.Expect(acc).To(o.Equal(vec.Vec{0, 0}))
		})
	})

	g.Context("with the depth stop rule", func() {
		g.It("puts every leaf at exactly the limit depth", func() {
			bodies := randomBodies(6, 300, 3, 1)
			root := build(cube(3, 1), bodies, barneshut.Config{G: 1, Theta: 0.5, Limit: 3, Stop: barneshut.StopByDepth})

			root.Walk(func(n *barneshut.Node) bool {
				if n.IsLeaf() {
					o.Expect(n.Depth()).To(o.Equal(3))
					o.Expect(n.Bodies()).NotTo(o.BeEmpty())
				}
				return true
			})
		})

		g.It("descends a lone body down to the limit depth", func() {
			bodies := []body.Body{body.New(0, 1, vec.Vec{0.1, 0.1}, nil)}
			root := build(cube(2, 1), bodies, barneshut.Config{G: 1, Theta: 0.5, Limit: 2, Stop: barneshut.StopByDepth})

			// one body still descends until the depth limit
			o.Expect(root.Stats().MaxDepth).To(o.Equal(2))
			o.Expect(root.Stats().Nodes).To(o.Equal(3))
		})
	})

	g.It("orders children by orthant index", func() {
		bodies := []body.Body{
			body.New(0, 1, vec.Vec{1, 1}, nil),
			body.New(1, 1, vec.Vec{-1, -1}, nil),
			body.New(2, 1, vec.Vec{1, -1}, nil),
		}
		root := build(square(2), bodies, barneshut.Config{G: 1, Theta: 0.5, Limit: 1})

		children := root.Children()
		o.Expect(children).To(o.HaveLen(3))
		o.Expect(children[0].Bodies()[0].ID).To(o.Equal(1))
		o.Expect(children[1].Bodies()[0].ID).To(o.Equal(2))
		o.Expect(children[2].Bodies()[0].ID).To(o.Equal(0))
	})

	g.DescribeTable("rejects invalid input",
		func(r body.Region, bodies []body.Body, cfg barneshut.Config, want error, index int) {
			_, err := barneshut.Build(r, bodies, cfg)
			o.Expect(err).To(o.MatchError(want))

			var cerr *barneshut.ConfigError
			o.Expect(err).To(o.BeAssignableToTypeOf(cerr))
			o.Expect(err.(*barneshut.ConfigError).Index).To(o.Equal(index))
		},
		g.Entry("zero limit", square(1), nil,
			barneshut.Config{G: 1, Theta: 0.5, Limit: 0}, barneshut.ErrInvalidLimit, -1),
		g.Entry("depth limit above cap", square(1), nil,
			barneshut.Config{G: 1, Theta: 0.5, Limit: barneshut.MaxDepth + 1, Stop: barneshut.StopByDepth}, barneshut.ErrInvalidLimit, -1),
		g.Entry("negative theta", square(1), nil,
			barneshut.Config{G: 1, Theta: -0.1, Limit: 1}, barneshut.ErrInvalidTheta, -1),
		g.Entry("NaN theta", square(1), nil,
			barneshut.Config{G: 1, Theta: math.NaN(), Limit: 1}, barneshut.ErrInvalidTheta, -1),
		g.Entry("zero G", square(1), nil,
			barneshut.Config{G: 0, Theta: 0.5, Limit: 1}, barneshut.ErrInvalidG, -1),
		g.Entry("unknown stop rule", square(1), nil,
			barneshut.Config{G: 1, Theta: 0.5, Limit: 1, Stop: barneshut.StopRule(7)}, barneshut.ErrUnknownRule, -1),
		g.Entry("body outside", square(1),
			[]body.Body{body.New(0, 1, vec.Vec{0, 0}, nil), body.New(1, 1, vec.Vec{3, 0}, nil)},
			barneshut.DefaultConfig(), barneshut.ErrOutsideRegion, 1),
		g.Entry("zero mass", square(1),
			[]body.Body{body.New(0, 0, vec.Vec{0, 0}, nil)},
			barneshut.DefaultConfig(), barneshut.ErrInvalidMass, 0),
		g.Entry("NaN position", square(1),
			[]body.Body{body.New(0, 1, vec.Vec{math.NaN(), 0}, nil)},
			barneshut.DefaultConfig(), barneshut.ErrNonFinite, 0),
		g.Entry("dimension mismatch", square(1),
			[]body.Body{body.New(0, 1, vec.Vec{0, 0, 0}, nil)},
			barneshut.DefaultConfig(), barneshut.ErrDimensionMismatch, 0),
		g.Entry("zero-dimensional region", body.Region{Min: vec.Vec{}, Max: vec.Vec{}}, nil,
			barneshut.DefaultConfig(), barneshut.ErrInvalidDimension, -1),
	)
})

var _ = g.Describe("Aggregates", func() {
	g.It("matches the quadrupole summed directly over bodies", func() {
		bodies := randomBodies(7, 120, 3, 10)
		root := build(cube(3, 10), bodies, barneshut.Config{G: 1, Theta: 0.5, Limit: 2})

		com := root.CenterOfMass()
		want := vec.NewTensor(3)
		for _, b := range bodies {
			want.AddMoment(b.Mass, b.Position.Sub(com))
		}

		got := root.Quadrupole()
		scale := math.Abs(want.At(0, 0)) + math.Abs(want.At(1, 1)) + math.Abs(want.At(2, 2))
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				o.Expect(got.At(i, j)).To(o.BeNumerically("~", want.At(i, j), 1e-9*scale))
			}
		}
		o.Expect(got.Trace()).To(o.BeNumerically("~", 0, 1e-9*scale))
	})

	g.It("keeps each child's own tensor rather than a point-mass view", func() {
		bodies := []body.Body{
			body.New(0, 1, vec.Vec{-1.5, -1.5}, nil),
			body.New(1, 2, vec.Vec{-0.5, -1}, nil),
			body.New(2, 3, vec.Vec{1, 1}, nil),
		}
		root := build(square(2), bodies, barneshut.Config{G: 1, Theta: 0.5, Limit: 2})
		o.Expect(root.IsLeaf()).To(o.BeFalse())

		com := root.CenterOfMass()
		full := vec.NewTensor(2)
		for _, b := range bodies {
			full.AddMoment(b.Mass, b.Position.Sub(com))
		}
		coarse := vec.NewTensor(2)
		for _, c := range root.Children() {
			coarse.AddMoment(c.Mass(), c.CenterOfMass().Sub(com))
		}

		got := root.Quadrupole()
		o.Expect(got.At(0, 0)).To(o.BeNumerically("~", full.At(0, 0), 1e-12))
		o.Expect(got.At(0, 1)).To(o.BeNumerically("~", full.At(0, 1), 1e-12))
		o.Expect(got.At(0, 0)).NotTo(o.BeNumerically("~", coarse.At(0, 0), 1e-6))
	})

		g.It("computes center of mass from children", func() {
		bodies := []body.Body{
			body.New(0, 1, vec.Vec{-1, 0}, nil),
			body.New(1, 3, vec.Vec{1, 0}, nil),
		}
		root := build(square(2), bodies, barneshut.Config{G: 1, Theta: 0.5, Limit: 1})

		o.Expect(root.IsLeaf()).To(o.BeFalse())
		o.Expect(root.Mass()).To(o.Equal(4.0))
		o.Expect(root.CenterOfMass().EqualWithEpsilon(vec.Vec{0.5, 0}, 1e-15)).To(o.BeTrue())
		o.Expect(root.Size()).To(o.BeNumerically("~", 2*math.Sqrt2, 1e-12))
	})

	g.It("hands out copies of cached values", func() {
		bodies := randomBodies(8, 10, 2, 1)
		root := build(cube(2, 1), bodies, barneshut.DefaultConfig())

		com := root.CenterOfMass()
		com[0] = 99
		o.Expect(root.CenterOfMass()[0]).NotTo(o.Equal(99.0))

		q := root.Quadrupole()
		q.Set(0, 0, 99)
		o.Expect(root.Quadrupole().At(0, 0)).NotTo(o.Equal(99.0))
	})
})

var _ = g.Describe("Acceleration", func() {
	g.It("reproduces the two-body result", func() {
		bodies := []body.Body{
			body.New(0, 1, vec.Vec{0, 0}, nil),
			body.New(1, 1, vec.Vec{1, 0}, nil),
		}
		r := region(vec.Vec{-1, -1}, vec.Vec{2, 2})
		root := build(r, bodies, barneshut.Config{G: 1, Theta: 0.5, Limit: 1})

		o.Expect(root.Acceleration(bodies[0]).EqualWithEpsilon(vec.Vec{1, 0}, 1e-15)).To(o.BeTrue())
		o.Expect(root.Acceleration(bodies[1]).EqualWithEpsilon(vec.Vec{-1, 0}, 1e-15)).To(o.BeTrue())
	})

	g.It("excludes the query body itself", func() {
		b := body.New(0, 5, vec.Vec{0.2, 0.7}, nil)
		root := build(cube(2, 1), []body.Body{b}, barneshut.DefaultConfig())

		o.Expect(root.Acceleration(b)).To(o.Equal(vec.Vec{0, 0}))
	})

	g.It("cancels for a symmetric configuration", func() {
		bodies := []body.Body{
			body.New(0, 1, vec.Vec{1, 0}, nil),
			body.New(1, 1, vec.Vec{-1, 0}, nil),
			body.New(2, 1, vec.Vec{0, 1}, nil),
			body.New(3, 1, vec.Vec{0, -1}, nil),
			body.New(4, 1, vec.Vec{0, 0}, nil),
		}
		root := build(square(2), bodies, barneshut.Config{G: 1, Theta: 0.5, Limit: 1})

		acc := root.Acceleration(bodies[4])
		o.Expect(acc.Norm()).To(o.BeNumerically("<", 1e-12))
	})

	g.It("cancels at the center of four equal masses with theta zero", func() {
		bodies := []body.Body{
			body.New(0, 1, vec.Vec{1, 0}, nil),
			body.New(1, 1, vec.Vec{-1, 0}, nil),
			body.New(2, 1, vec.Vec{0, 1}, nil),
			body.New(3, 1, vec.Vec{0, -1}, nil),
		}
		root := build(square(2), bodies, barneshut.Config{G: 1, Theta: 0, Limit: 1})

		acc := root.Acceleration(body.New(-1, 1, vec.Vec{0, 0}, nil))
		o.Expect(acc.Norm()).To(o.BeNumerically("<", 1e-15))
	})

	g.It("cancels at the center of six equal masses in three dimensions", func() {
		bodies := []body.Body{
			body.New(0, 1, vec.Vec{1, 0, 0}, nil),
			body.New(1, 1, vec.Vec{-1, 0, 0}, nil),
			body.New(2, 1, vec.Vec{0, 1, 0}, nil),
			body.New(3, 1, vec.Vec{0, -1, 0}, nil),
			body.New(4, 1, vec.Vec{0, 0, 1}, nil),
			body.New(5, 1, vec.Vec{0, 0, -1}, nil),
		}
		r := region(vec.Vec{-2, -2, -2}, vec.Vec{2, 2, 2})
		root := build(r, bodies, barneshut.Config{G: 1, Theta: 0, Limit: 1})

		acc := root.Acceleration(body.New(-1, 1, vec.Vec{0, 0, 0}, nil))
		o.Expect(acc).To(o.HaveLen(3))
		o.Expect(acc.Norm()).To(o.BeNumerically("<", 1e-15))
	})

	g.It("is independent of the query mass", func() {
		bodies := randomBodies(9, 100, 2, 1)
		root := build(cube(2, 1), bodies, barneshut.DefaultConfig())

		light := body.New(-1, 1e-6, vec.Vec{0.5, 0.5}, nil)
		heavy := body.New(-1, 1e6, vec.Vec{0.5, 0.5}, nil)
		o.Expect(root.Acceleration(light)).To(o.Equal(root.Acceleration(heavy)))
	})

	g.It("matches direct summation when theta is zero", func() {
		bodies := randomBodies(10, 250, 3, 1)
		root := build(cube(3, 1), bodies, barneshut.Config{G: 1, Theta: 0, Limit: 3})
		want := exact(bodies, 1)

		for i, b := range bodies {
			got := root.Acceleration(b)
			o.Expect(got.Sub(want[i]).Norm()).To(o.BeNumerically("<=", 1e-12*want[i].Norm()))
		}
	})

	g.It("matches direct summation bit for bit in a single leaf", func() {
		bodies := randomBodies(11, 30, 2, 1)
		root := build(cube(2, 1), bodies, barneshut.Config{G: 2.5, Theta: 0.5, Limit: 100})
		want := exact(bodies, 2.5)

		o.Expect(root.IsLeaf()).To(o.BeTrue())
		for i, b := range bodies {
			o.Expect(root.Acceleration(b)).To(o.Equal(want[i]))
		}
	})

	g.It("gets more accurate as theta shrinks", func() {
		bodies := randomBodies(12, 400, 2, 1000)
		want := exact(bodies, 1)

		prev := math.Inf(1)
		for _, theta := range []float64{0.9, 0.5, 0.1, 0.01} {
			root := build(cube(2, 1000), bodies, barneshut.Config{G: 1, Theta: theta, Limit: 8})
			got := make([]vec.Vec, len(bodies))
			for i, b := range bodies {
				got[i] = root.Acceleration(b)
			}
			dev := meanDeviation(got, want)
			o.Expect(dev).To(o.BeNumerically("<=", prev+1e-15), "theta %v", theta)
			if theta == 0.5 {
				o.Expect(dev).To(o.BeNumerically("<", 1e-2))
			}
			prev = dev
		}
	})

	g.It("improves on the monopole with the quadrupole term", func() {
		bodies := []body.Body{
			body.New(0, 1, vec.Vec{-1, 0}, nil),
			body.New(1, 1, vec.Vec{1, 0}, nil),
		}
		far := body.New(-1, 1, vec.Vec{10, 0}, nil)
		want := exact(append(bodies, far), 1)[2]

		quad := build(square(2), bodies, barneshut.Config{G: 1, Theta: 0.5, Limit: 1})
		mono := build(square(2), bodies, barneshut.Config{G: 1, Theta: 0.5, Limit: 1, Order: barneshut.Monopole})

		qa := quad.Acceleration(far)
		ma := mono.Acceleration(far)
		o.Expect(ma[0]).To(o.BeNumerically("~", -0.02, 1e-15))
		o.Expect(qa.Sub(want).Norm()).To(o.BeNumerically("<", ma.Sub(want).Norm()/10))
	})

	g.It("opens a cell whose center of mass coincides with the query", func() {
		bodies := []body.Body{
			body.New(0, 1, vec.Vec{-1, 0}, nil),
			body.New(1, 1, vec.Vec{1, 0}, nil),
		}
		root := build(square(2), bodies, barneshut.Config{G: 1, Theta: math.Inf(1), Limit: 1})

		acc := root.Acceleration(body.New(-1, 1, vec.Vec{0, 0}, nil))
		o.Expect(acc.IsValid()).To(o.BeTrue())
		o.Expect(acc.Norm()).To(o.BeNumerically("<", 1e-15))
	})

	g.It("is deterministic across builds", func() {
		bodies := randomBodies(13, 200, 3, 1)
		cfg := barneshut.DefaultConfig()
		a := build(cube(3, 1), bodies, cfg)
		b := build(cube(3, 1), bodies, cfg)

		for _, q := range bodies {
			o.Expect(a.Acceleration(q)).To(o.Equal(b.Acceleration(q)))
		}
	})
})

var _ = g.Describe("AccelerateAll", func() {
	g.It("gives the same answer for any worker count", func() {
		bodies := randomBodies(14, 500, 2, 1)
		root := build(cube(2, 1), bodies, barneshut.DefaultConfig())

		serial, err := root.AccelerateAll(context.Background(), bodies, 1)
		o.Expect(err).NotTo(o.HaveOccurred())
		par, err := root.AccelerateAll(context.Background(), bodies, 8)
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(par).To(o.Equal(serial))
	})

	g.It("rejects queries of the wrong dimension", func() {
		root := build(square(1), nil, barneshut.DefaultConfig())
		_, err := root.AccelerateAll(context.Background(), []body.Body{body.New(0, 1, vec.Vec{0}, nil)}, 1)
		o.Expect(err).To(o.MatchError(barneshut.ErrDimensionMismatch))
	})

	g.It("stops on cancellation", func() {
		bodies := randomBodies(15, 100, 2, 1)
		root := build(cube(2, 1), bodies, barneshut.DefaultConfig())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := root.AccelerateAll(ctx, bodies, 4)
		o.Expect(err).To(o.MatchError(context.Canceled))
	})
})

var _ = g.Describe("Solver", func() {
	g.It("encloses the bodies automatically", func() {
		bodies := randomBodies(16, 300, 2, 100)
		s := barneshut.NewSolver(barneshut.DefaultConfig())

		got, err := s.Accelerations(context.Background(), bodies)
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(meanDeviation(got, exact(bodies, 1))).To(o.BeNumerically("<", 1e-2))
	})

	g.It("uses a fixed region when given", func() {
		r := square(1)
		s := barneshut.NewSolver(barneshut.DefaultConfig())
		s.Region = &r

		_, err := s.Accelerations(context.Background(), []body.Body{body.New(0, 1, vec.Vec{5, 5}, nil)})
		o.Expect(err).To(o.MatchError(barneshut.ErrOutsideRegion))
	})

	g.It("returns nothing for no bodies", func() {
		got, err := barneshut.NewSolver(barneshut.DefaultConfig()).Accelerations(context.Background(), nil)
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(got).To(o.BeEmpty())
	})

	g.It("validates its configuration", func() {
		s := barneshut.NewSolver(barneshut.Config{G: 1, Theta: 0.5})
		_, err := s.Accelerations(context.Background(), randomBodies(17, 3, 2, 1))
		o.Expect(err).To(o.MatchError(barneshut.ErrInvalidLimit))
	})
})

var _ = g.Describe("Config", func() {
	g.DescribeTable("parses names",
		func(stop, order string, wantStop barneshut.StopRule, wantOrder barneshut.Order) {
			s, err := barneshut.ParseStopRule(stop)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(s).To(o.Equal(wantStop))
			ord, err := barneshut.ParseOrder(order)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(ord).To(o.Equal(wantOrder))
		},
		g.Entry("defaults", "", "", barneshut.StopByCount, barneshut.Quadrupole),
		g.Entry("explicit", "depth", "monopole", barneshut.StopByDepth, barneshut.Monopole),
	)

	g.It("rejects unknown names", func() {
		_, err := barneshut.ParseStopRule("mass")
		o.Expect(err).To(o.MatchError(barneshut.ErrUnknownRule))
		_, err = barneshut.ParseOrder("octupole")
		o.Expect(err).To(o.MatchError(barneshut.ErrUnknownRule))
	})

	g.It("allows an infinite opening angle", func() {
		cfg := barneshut.DefaultConfig()
		cfg.Theta = math.Inf(1)
		o.Expect(cfg.Validate()).To(o.Succeed())
	})
})
