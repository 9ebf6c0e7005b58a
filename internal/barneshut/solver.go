package barneshut

import (
	"context"
	"time"

	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/vec"
)

// DefaultPadding grows an automatically chosen root region on every face.
const DefaultPadding = 0.01

// Solver evaluates all accelerations of a body set by building a fresh tree
// for every call. Nothing is carried over between calls.
type Solver struct {
	Config Config
	// Region fixes the root cell. When nil, each call encloses the bodies
	// in a padded cube.
	Region  *body.Region
	Padding float64
	Workers int
}

func NewSolver(cfg Config) *Solver {
	return &Solver{Config: cfg, Padding: DefaultPadding}
}

func (s *Solver) Name() string { return "barnes-hut" }

func (s *Solver) Accelerations(ctx context.Context, bodies []body.Body) ([]vec.Vec, error) {
	if len(bodies) == 0 {
		return []vec.Vec{}, ctx.Err()
	}
	root, err := s.Tree(bodies)
	if err != nil {
		return nil, err
	}
	return root.AccelerateAll(ctx, bodies, s.Workers)
}

// Tree builds the tree Accelerations would use for bodies.
func (s *Solver) Tree(bodies []body.Body) (*Node, error) {
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}
	var region body.Region
	if s.Region != nil {
		region = *s.Region
	} else {
		r, err := body.Enclose(bodies, s.Padding)
		if err != nil {
			return nil, fieldError("region", err)
		}
		region = r
	}
	start := time.Now()
	root, err := Build(region, bodies, s.Config)
	if err != nil {
		return nil, err
	}
	instrumentBuild(root, start)
	return root, nil
}
