package automation

import (
	"context"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/bhtree/internal/barneshut"
	"github.com/san-kum/bhtree/internal/config"
	"github.com/san-kum/bhtree/internal/experiment"
	"github.com/san-kum/bhtree/internal/metrics"
	"github.com/san-kum/bhtree/internal/sim"
)

// Scenario is a scripted sequence of simulations sharing a base
// configuration.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides the base configuration for one run. Sections left
// out keep the base values.
type ScenarioStep struct {
	Name       string                   `yaml:"name"`
	Preset     string                   `yaml:"preset"`
	Solver     string                   `yaml:"solver"`
	Tree       *config.TreeConfig       `yaml:"tree"`
	Bodies     *config.BodiesConfig     `yaml:"bodies"`
	Simulation *config.SimulationConfig `yaml:"simulation"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Resolve layers the step over base and validates the result.
func (s ScenarioStep) Resolve(base *config.Config) (*config.Config, error) {
	cfg := *base
	if s.Preset != "" {
		p, ok := config.Presets[s.Preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
		cfg.Tree = p
	}
	if s.Tree != nil {
		cfg.Tree = *s.Tree
	}
	if s.Bodies != nil {
		cfg.Bodies = *s.Bodies
	}
	if s.Simulation != nil {
		cfg.Simulation = *s.Simulation
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// StepResult pairs a step with its run.
type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *sim.Result
}

// RunScenario executes every step in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, registry *experiment.Registry, log *zap.Logger) ([]StepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("running step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("name", step.Name),
		)

		res, cfg, err := runStep(ctx, step, base, registry, log)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
		}
		results = append(results, StepResult{Step: step, Config: cfg, Result: res})
	}

	return results, nil
}

func runStep(ctx context.Context, step ScenarioStep, base *config.Config, registry *experiment.Registry, log *zap.Logger) (*sim.Result, *config.Config, error) {
	cfg, err := step.Resolve(base)
	if err != nil {
		return nil, nil, err
	}
	bodies, err := cfg.Bodies.Load()
	if err != nil {
		return nil, nil, err
	}
	bh, err := cfg.Solver()
	if err != nil {
		return nil, nil, err
	}

	solver := step.Solver
	if solver == "" {
		solver = bh.Name()
	}
	acc, err := registry.GetSolver(solver, bh)
	if err != nil {
		return nil, nil, err
	}
	integ, err := registry.GetIntegrator(cfg.Simulation.Integrator)
	if err != nil {
		return nil, nil, err
	}

	s := sim.New(acc, integ, log)
	s.AddMetric(metrics.NewEnergyDrift(cfg.Tree.G))
	s.AddMetric(metrics.NewMomentumDrift())

	res, err := s.Run(ctx, bodies, cfg.Simulation.Sim(cfg.Tree.G))
	if err != nil {
		return nil, nil, err
	}
	return res, cfg, nil
}

// MonteCarloConfig repeats one tree measurement over independently seeded
// body sets.
type MonteCarloConfig struct {
	Trials  int
	Bodies  config.BodiesConfig
	Tree    barneshut.Config
	Padding float64
	Workers int
}

// MonteCarloResult is one trial.
type MonteCarloResult struct {
	TrialID   int
	Seed      int64
	Deviation metrics.Deviation
}

// RunMonteCarlo measures the tree against direct summation for Trials body
// sets seeded Bodies.Seed, Bodies.Seed+1, and so on.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, log *zap.Logger) ([]MonteCarloResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Trials < 1 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.Trials)
	}
	if cfg.Bodies.Path != "" {
		return nil, fmt.Errorf("monte carlo trials need generated bodies, not %s", cfg.Bodies.Path)
	}
	if err := cfg.Tree.Validate(); err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, 0, cfg.Trials)
	for trial := 0; trial < cfg.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		gen := cfg.Bodies
		gen.Seed = cfg.Bodies.Seed + int64(trial)
		bodies, err := gen.Load()
		if err != nil {
			return results, err
		}

		exp, err := experiment.New(ctx, bodies, experiment.Config{
			G:       cfg.Tree.G,
			Padding: cfg.Padding,
			Workers: cfg.Workers,
			Logger:  log,
		})
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}
		m, err := exp.Measure(ctx, cfg.Tree)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		results = append(results, MonteCarloResult{
			TrialID:   trial,
			Seed:      gen.Seed,
			Deviation: m.Deviation,
		})

		if (trial+1)%10 == 0 {
			log.Info("monte carlo progress", zap.Int("done", trial+1), zap.Int("trials", cfg.Trials))
		}
	}

	return results, nil
}

// MonteCarloSummary aggregates trial deviations.
type MonteCarloSummary struct {
	Trials int
	// MeanOfMeans averages the per-trial mean deviation.
	MeanOfMeans float64
	StdOfMeans  float64
	// WorstMax is the largest single-query deviation over all trials.
	WorstMax  float64
	WorstSeed int64
}

func MonteCarloStats(results []MonteCarloResult) MonteCarloSummary {
	s := MonteCarloSummary{Trials: len(results)}
	if len(results) == 0 {
		return s
	}
	for _, r := range results {
		s.MeanOfMeans += r.Deviation.Mean
		if r.Deviation.Max > s.WorstMax {
			s.WorstMax = r.Deviation.Max
			s.WorstSeed = r.Seed
		}
	}
	s.MeanOfMeans /= float64(len(results))

	for _, r := range results {
		d := r.Deviation.Mean - s.MeanOfMeans
		s.StdOfMeans += d * d
	}
	s.StdOfMeans = math.Sqrt(s.StdOfMeans / float64(len(results)))
	return s
}
