// Package sweep runs accuracy and timing sweeps of the tree over the opening
// angle and the leaf limit, and searches for the fastest configuration that
// stays within an error budget.
package sweep

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/bhtree/internal/barneshut"
	"github.com/san-kum/bhtree/internal/experiment"
	"github.com/san-kum/bhtree/internal/optim"
	"github.com/san-kum/bhtree/internal/storage"
)

var (
	DefaultThetas = []float64{0.01, 0.1, 0.2, 0.3, 0.5, 0.7, 1.0}
	DefaultLimits = []int{1, 2, 4, 8, 16, 32, 64}
)

// Row is one measured configuration.
type Row struct {
	Theta         float64
	Limit         int
	MeanDev       float64
	MaxDev        float64
	Build         time.Duration
	Query         time.Duration
	Speedup       float64
	Nodes         int
	MaxDepth      int
	MaxLeafBodies int
}

// Progress is called after every measured configuration.
type Progress func(done, total int, row Row)

type Sweeper struct {
	exp      *experiment.Experiment
	base     barneshut.Config
	log      *zap.Logger
	progress Progress
}

func New(exp *experiment.Experiment, base barneshut.Config, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{exp: exp, base: base, log: log}
}

func (s *Sweeper) OnProgress(p Progress) { s.progress = p }

// Thetas measures the base configuration at every opening angle.
func (s *Sweeper) Thetas(ctx context.Context, thetas []float64) ([]Row, error) {
	configs := make([]barneshut.Config, len(thetas))
	for i, theta := range thetas {
		cfg := s.base
		cfg.Theta = theta
		configs[i] = cfg
	}
	return s.run(ctx, "theta", configs)
}

// Limits measures the base configuration at every leaf limit, interpreted
// under the base stop rule.
func (s *Sweeper) Limits(ctx context.Context, limits []int) ([]Row, error) {
	configs := make([]barneshut.Config, len(limits))
	for i, limit := range limits {
		cfg := s.base
		cfg.Limit = limit
		configs[i] = cfg
	}
	return s.run(ctx, "limit", configs)
}

func (s *Sweeper) run(ctx context.Context, param string, configs []barneshut.Config) ([]Row, error) {
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	s.log.Info("sweep started",
		zap.String("param", param),
		zap.Int("points", len(configs)),
		zap.Int("bodies", len(s.exp.Bodies())),
	)

	rows := make([]Row, 0, len(configs))
	for i, cfg := range configs {
		m, err := s.exp.Measure(ctx, cfg)
		if err != nil {
			return rows, fmt.Errorf("%s sweep at point %d: %w", param, i, err)
		}
		row := s.row(m)
		rows = append(rows, row)
		if s.progress != nil {
			s.progress(i+1, len(configs), row)
		}
	}

	s.log.Info("sweep finished", zap.String("param", param))
	return rows, nil
}

func (s *Sweeper) row(m experiment.Measurement) Row {
	speedup := math.Inf(1)
	if total := m.Total(); total > 0 {
		speedup = float64(s.exp.ReferenceTime()) / float64(total)
	}
	return Row{
		Theta:         m.Config.Theta,
		Limit:         m.Config.Limit,
		MeanDev:       m.Deviation.Mean,
		MaxDev:        m.Deviation.Max,
		Build:         m.Build,
		Query:         m.Query,
		Speedup:       speedup,
		Nodes:         m.Stats.Nodes,
		MaxDepth:      m.Stats.MaxDepth,
		MaxLeafBodies: m.Stats.MaxLeafBodies,
	}
}

// TuneResult is the fastest configuration found within the budget.
type TuneResult struct {
	Config      barneshut.Config
	Measurement experiment.Measurement
	Evaluated   int
}

// Tune grid-searches θ × limit for the lowest build+query time whose mean
// relative deviation does not exceed budget.
func (s *Sweeper) Tune(ctx context.Context, thetas []float64, limits []int, budget float64) (TuneResult, error) {
	limitVals := make([]float64, len(limits))
	for i, l := range limits {
		limitVals[i] = float64(l)
	}
	grid := optim.NewGridSearch([]string{"theta", "limit"}, [][]float64{thetas, limitVals})

	var res TuneResult
	done, total := 0, grid.Size()
	objective := func(ctx context.Context, p map[string]float64) (float64, error) {
		cfg := s.base
		cfg.Theta = p["theta"]
		cfg.Limit = int(p["limit"])
		if err := cfg.Validate(); err != nil {
			return 0, err
		}

		m, err := s.exp.Measure(ctx, cfg)
		if err != nil {
			return 0, err
		}
		done++
		res.Evaluated++
		if s.progress != nil {
			s.progress(done, total, s.row(m))
		}

		if m.Deviation.Mean > budget {
			return math.Inf(1), nil
		}
		score := float64(m.Total())
		if res.Measurement.Config.Limit == 0 || score < float64(res.Measurement.Total()) {
			res.Measurement = m
		}
		return score, nil
	}

	best, _, err := grid.Search(ctx, objective)
	if err != nil {
		return res, err
	}

	res.Config = res.Measurement.Config
	s.log.Info("tuned",
		zap.Float64("theta", best["theta"]),
		zap.Float64("limit", best["limit"]),
		zap.Float64("mean_dev", res.Measurement.Deviation.Mean),
		zap.Duration("total", res.Measurement.Total()),
	)
	return res, nil
}

// Columns names the fields Table writes, in order.
var Columns = []string{
	"theta", "limit", "mean_dev", "max_dev", "build_ms", "query_ms",
	"speedup", "nodes", "max_depth", "max_leaf_bodies",
}

// Table converts rows for the run store.
func Table(rows []Row) storage.Table {
	t := storage.Table{Columns: Columns, Rows: make([][]float64, len(rows))}
	for i, r := range rows {
		t.Rows[i] = []float64{
			r.Theta, float64(r.Limit), r.MeanDev, r.MaxDev,
			ms(r.Build), ms(r.Query), r.Speedup,
			float64(r.Nodes), float64(r.MaxDepth), float64(r.MaxLeafBodies),
		}
	}
	return t
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
