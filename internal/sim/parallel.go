package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/bhtree/internal/body"
)

// Ensemble runs several simulators over the same initial bodies at once,
// typically one per solver so their trajectories can be compared.
type Ensemble struct {
	members []*Simulator
}

func NewEnsemble(members ...*Simulator) *Ensemble {
	return &Ensemble{members: members}
}

// Run returns one result per member, in member order. The first error
// cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, bodies []body.Body, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.members))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range e.members {
		i, s := i, s
		g.Go(func() error {
			res, err := s.Run(gctx, bodies, cfg)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
