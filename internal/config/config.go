package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/bhtree/internal/barneshut"
	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/generate"
	"github.com/san-kum/bhtree/internal/sim"
	"github.com/san-kum/bhtree/internal/storage"
	"github.com/san-kum/bhtree/internal/vec"
)

const (
	DefaultDt            = 0.01
	DefaultSteps         = 100
	DefaultSnapshotEvery = 10
	DefaultIntegrator    = "leapfrog"
)

type Config struct {
	Tree       TreeConfig       `yaml:"tree"`
	Region     RegionConfig     `yaml:"region"`
	Bodies     BodiesConfig     `yaml:"bodies"`
	Simulation SimulationConfig `yaml:"simulation"`
}

type TreeConfig struct {
	G        float64 `yaml:"g"`
	Theta    float64 `yaml:"theta"`
	Limit    int     `yaml:"limit"`
	StopRule string  `yaml:"stop_rule"`
	Order    string  `yaml:"order"`
	Workers  int     `yaml:"workers"`
}

// RegionConfig fixes the root cell. Leaving Min and Max empty encloses the
// bodies automatically, grown by Padding on every face.
type RegionConfig struct {
	Min     []float64 `yaml:"min,omitempty"`
	Max     []float64 `yaml:"max,omitempty"`
	Padding float64   `yaml:"padding"`
}

// BodiesConfig either names a body file or describes a generated set.
type BodiesConfig struct {
	Path         string  `yaml:"path,omitempty"`
	Dim          int     `yaml:"dim"`
	Count        int     `yaml:"count"`
	Seed         int64   `yaml:"seed"`
	Distribution string  `yaml:"distribution"`
	Extent       float64 `yaml:"extent"`
	MassMin      float64 `yaml:"mass_min"`
	MassMax      float64 `yaml:"mass_max"`
}

type SimulationConfig struct {
	Integrator    string  `yaml:"integrator"`
	Dt            float64 `yaml:"dt"`
	Steps         int     `yaml:"steps"`
	SnapshotEvery int     `yaml:"snapshot_every"`
}

func DefaultConfig() *Config {
	gen := generate.DefaultOptions()
	return &Config{
		Tree: TreeConfig{
			G:        barneshut.DefaultG,
			Theta:    barneshut.DefaultTheta,
			Limit:    barneshut.DefaultLimit,
			StopRule: barneshut.StopByCount.String(),
			Order:    barneshut.Quadrupole.String(),
		},
		Region: RegionConfig{
			Padding: barneshut.DefaultPadding,
		},
		Bodies: BodiesConfig{
			Dim:          gen.Dim,
			Count:        gen.N,
			Seed:         gen.Seed,
			Distribution: gen.Distribution,
			Extent:       gen.Extent,
			MassMin:      gen.MassMin,
			MassMax:      gen.MassMax,
		},
		Simulation: SimulationConfig{
			Integrator:    DefaultIntegrator,
			Dt:            DefaultDt,
			Steps:         DefaultSteps,
			SnapshotEvery: DefaultSnapshotEvery,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Barneshut converts the tree section, resolving rule and order names.
func (t TreeConfig) Barneshut() (barneshut.Config, error) {
	stop, err := barneshut.ParseStopRule(t.StopRule)
	if err != nil {
		return barneshut.Config{}, err
	}
	order, err := barneshut.ParseOrder(t.Order)
	if err != nil {
		return barneshut.Config{}, err
	}
	cfg := barneshut.Config{
		G:     t.G,
		Theta: t.Theta,
		Limit: t.Limit,
		Stop:  stop,
		Order: order,
	}
	if err := cfg.Validate(); err != nil {
		return barneshut.Config{}, err
	}
	return cfg, nil
}

// Solver builds a tree solver from the tree and region sections.
func (c *Config) Solver() (*barneshut.Solver, error) {
	bh, err := c.Tree.Barneshut()
	if err != nil {
		return nil, err
	}
	region, err := c.Region.Resolve()
	if err != nil {
		return nil, err
	}
	s := barneshut.NewSolver(bh)
	s.Region = region
	s.Padding = c.Region.Padding
	s.Workers = c.Tree.Workers
	return s, nil
}

// Resolve returns the fixed root region, or nil when none is configured.
func (r RegionConfig) Resolve() (*body.Region, error) {
	if len(r.Min) == 0 && len(r.Max) == 0 {
		return nil, nil
	}
	region, err := body.NewRegion(vec.Vec(r.Min), vec.Vec(r.Max))
	if err != nil {
		return nil, fmt.Errorf("region: %w", err)
	}
	return &region, nil
}

func (b BodiesConfig) Generator() generate.Options {
	return generate.Options{
		N:            b.Count,
		Dim:          b.Dim,
		Seed:         b.Seed,
		Distribution: b.Distribution,
		Extent:       b.Extent,
		MassMin:      b.MassMin,
		MassMax:      b.MassMax,
	}
}

// Load reads the body file when Path is set and generates a set otherwise.
func (b BodiesConfig) Load() ([]body.Body, error) {
	if b.Path != "" {
		return storage.LoadBodies(b.Path, b.Dim)
	}
	return generate.ByName(b.Generator())
}

// Sim converts the simulation section. Duration is derived from the step
// count so that exactly Steps steps are taken.
func (s SimulationConfig) Sim(g float64) sim.Config {
	return sim.Config{
		Dt:            s.Dt,
		Duration:      s.Dt * float64(s.Steps),
		G:             g,
		SnapshotEvery: s.SnapshotEvery,
		ValidateState: true,
	}
}

// Validate checks everything that can be checked without reading bodies.
func (c *Config) Validate() error {
	if _, err := c.Tree.Barneshut(); err != nil {
		return err
	}
	if c.Tree.Workers < 0 {
		return fmt.Errorf("tree.workers must be non-negative, got %d", c.Tree.Workers)
	}
	region, err := c.Region.Resolve()
	if err != nil {
		return err
	}
	if region != nil && region.Dim() != c.Bodies.Dim {
		return fmt.Errorf("region has dimension %d but bodies.dim is %d", region.Dim(), c.Bodies.Dim)
	}
	if c.Region.Padding < 0 {
		return fmt.Errorf("region.padding must be non-negative, got %v", c.Region.Padding)
	}
	if c.Bodies.Dim < 1 || c.Bodies.Dim > barneshut.MaxDim {
		return fmt.Errorf("bodies.dim must be in [1, %d], got %d", barneshut.MaxDim, c.Bodies.Dim)
	}
	if c.Simulation.Dt <= 0 {
		return fmt.Errorf("simulation.dt must be positive, got %v", c.Simulation.Dt)
	}
	if c.Simulation.Steps < 0 {
		return fmt.Errorf("simulation.steps must be non-negative, got %d", c.Simulation.Steps)
	}
	return nil
}
