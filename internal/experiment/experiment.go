package experiment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/bhtree/internal/barneshut"
	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/direct"
	"github.com/san-kum/bhtree/internal/metrics"
	"github.com/san-kum/bhtree/internal/vec"
)

type Config struct {
	G       float64
	Region  *body.Region
	Padding float64
	Workers int
	Logger  *zap.Logger
}

// Experiment measures tree configurations against exact accelerations of a
// fixed body set. The reference is computed once by New.
type Experiment struct {
	cfg       Config
	bodies    []body.Body
	reference []vec.Vec
	refTime   time.Duration
	log       *zap.Logger
}

// Measurement is the outcome of one tree configuration.
type Measurement struct {
	Config    barneshut.Config
	Deviation metrics.Deviation
	Build     time.Duration
	Query     time.Duration
	Stats     barneshut.Stats
}

// Total is the build plus query time.
func (m Measurement) Total() time.Duration { return m.Build + m.Query }

func New(ctx context.Context, bodies []body.Body, cfg Config) (*Experiment, error) {
	if len(bodies) == 0 {
		return nil, fmt.Errorf("experiment needs at least one body")
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	solver := &direct.Solver{G: cfg.G, Workers: cfg.Workers}
	start := time.Now()
	ref, err := solver.Accelerations(ctx, bodies)
	if err != nil {
		return nil, fmt.Errorf("reference accelerations: %w", err)
	}
	refTime := time.Since(start)

	log.Debug("reference computed",
		zap.Int("bodies", len(bodies)),
		zap.Duration("elapsed", refTime),
	)

	return &Experiment{
		cfg:       cfg,
		bodies:    bodies,
		reference: ref,
		refTime:   refTime,
		log:       log,
	}, nil
}

func (e *Experiment) Bodies() []body.Body        { return e.bodies }
func (e *Experiment) Reference() []vec.Vec        { return e.reference }
func (e *Experiment) ReferenceTime() time.Duration { return e.refTime }

// Measure builds a tree with cfg, evaluates every body and compares the
// result with the reference. cfg.G is overridden by the experiment's G.
func (e *Experiment) Measure(ctx context.Context, cfg barneshut.Config) (Measurement, error) {
	cfg.G = e.cfg.G
	solver := barneshut.NewSolver(cfg)
	solver.Region = e.cfg.Region
	solver.Padding = e.cfg.Padding
	solver.Workers = e.cfg.Workers

	start := time.Now()
	root, err := solver.Tree(e.bodies)
	if err != nil {
		return Measurement{}, err
	}
	root.Precompute()
	build := time.Since(start)

	start = time.Now()
	acc, err := root.AccelerateAll(ctx, e.bodies, e.cfg.Workers)
	if err != nil {
		return Measurement{}, err
	}
	query := time.Since(start)

	dev, err := metrics.RelativeDeviation(acc, e.reference)
	if err != nil {
		return Measurement{}, err
	}

	m := Measurement{
		Config:    cfg,
		Deviation: dev,
		Build:     build,
		Query:     query,
		Stats:     root.Stats(),
	}
	e.log.Debug("measured",
		zap.Float64("theta", cfg.Theta),
		zap.Int("limit", cfg.Limit),
		zap.Stringer("stop", cfg.Stop),
		zap.Float64("mean_dev", dev.Mean),
		zap.Duration("build", build),
		zap.Duration("query", query),
	)
	return m, nil
}
