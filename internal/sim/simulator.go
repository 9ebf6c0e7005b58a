package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/metrics"
)

type Simulator struct {
	acc        Accelerator
	integrator Integrator
	metrics    []Metric
	observers  []Observer
	log        *zap.Logger
}

func New(acc Accelerator, integrator Integrator, log *zap.Logger) *Simulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulator{
		acc:        acc,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		log:        log,
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, bodies []body.Body, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg, bodies); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Solver:     s.acc.Name(),
		Integrator: s.integrator.Name(),
		Metrics:    make(map[string]float64),
		Errors:     make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := bodies
	t := 0.0
	result.Snapshots = append(result.Snapshots, Snapshot{Step: 0, Time: t, Bodies: x})

	initialEnergy := metrics.TotalEnergy(x, cfg.G)
	start := time.Now()
	s.log.Debug("simulation started",
		zap.String("solver", result.Solver),
		zap.String("integrator", result.Integrator),
		zap.Int("bodies", len(bodies)),
		zap.Int("steps", steps),
	)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(i, t, x)
		}

		next, err := s.integrator.Step(ctx, s.acc, x, cfg.Dt)
		if err != nil {
			return result, SimError{Time: t, Step: i, Message: err.Error(), Err: err}
		}

		if cfg.ValidateState && !valid(next) {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			s.log.Warn("simulation stopped", zap.Error(err))
			break
		}

		x = next
		t += cfg.Dt
		result.StepsTaken++

		if cfg.SnapshotEvery > 0 && result.StepsTaken%cfg.SnapshotEvery == 0 {
			result.Snapshots = append(result.Snapshots, Snapshot{Step: result.StepsTaken, Time: t, Bodies: x})
		}
	}

	if last := result.Final(); last.Step != result.StepsTaken {
		result.Snapshots = append(result.Snapshots, Snapshot{Step: result.StepsTaken, Time: t, Bodies: x})
	}

	finalEnergy := metrics.TotalEnergy(x, cfg.G)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.Debug("simulation finished",
		zap.Int("steps_taken", result.StepsTaken),
		zap.Float64("energy_drift", result.EnergyDrift),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config, bodies []body.Body) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.G <= 0 {
		return fmt.Errorf("g must be positive, got %f", cfg.G)
	}
	if cfg.SnapshotEvery < 0 {
		return fmt.Errorf("snapshot interval must be non-negative, got %d", cfg.SnapshotEvery)
	}
	if len(bodies) == 0 {
		return fmt.Errorf("no bodies to simulate")
	}
	return nil
}

func valid(bodies []body.Body) bool {
	for _, b := range bodies {
		if !b.IsValid() {
			return false
		}
	}
	return true
}
