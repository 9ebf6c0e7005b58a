package main

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/bhtree/internal/analysis"
	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/experiment"
	"github.com/san-kum/bhtree/internal/export"
	"github.com/san-kum/bhtree/internal/metrics"
	"github.com/san-kum/bhtree/internal/sim"
	"github.com/san-kum/bhtree/internal/storage"
	"github.com/san-kum/bhtree/internal/tui"
)

var (
	simSolver     string
	simIntegrator string
	simDt         float64
	simSteps      int
	simCompare    bool
	simLive       bool
	simFPS        int
	simJSON       string
	simSVG        string
	simSave       bool
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "integrate the body set in time",
		RunE:  runSimulate,
	}
	cmd.Flags().StringVar(&simSolver, "solver", "barnes-hut", "acceleration solver (barnes-hut|direct)")
	cmd.Flags().StringVar(&simIntegrator, "integrator", "", "integrator (default from config)")
	cmd.Flags().Float64Var(&simDt, "dt", 0, "timestep (default from config)")
	cmd.Flags().IntVar(&simSteps, "steps", 0, "number of steps (default from config)")
	cmd.Flags().BoolVar(&simCompare, "compare", false, "run the tree and direct solvers side by side")
	cmd.Flags().BoolVar(&simLive, "live", false, "draw bodies while running")
	cmd.Flags().IntVar(&simFPS, "fps", 30, "frame rate for --live")
	cmd.Flags().StringVar(&simJSON, "json", "", "export snapshots as JSON")
	cmd.Flags().StringVar(&simSVG, "svg", "", "draw trajectories as SVG")
	cmd.Flags().BoolVar(&simSave, "save", false, "store the run")
	return cmd
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Simulation.Integrator = simIntegrator
	}
	if cmd.Flags().Changed("dt") {
		cfg.Simulation.Dt = simDt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Simulation.Steps = simSteps
	}

	bodies, err := loadBodies(cfg)
	if err != nil {
		return err
	}
	if len(bodies) == 0 {
		return fmt.Errorf("no bodies to simulate")
	}
	bh, err := cfg.Solver()
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	solvers := []string{simSolver}
	if simCompare {
		solvers = []string{"barnes-hut", "direct"}
	}

	radius := 10 * spread(bodies)
	members := make([]*sim.Simulator, len(solvers))
	for i, name := range solvers {
		acc, err := registry.GetSolver(name, bh)
		if err != nil {
			return err
		}
		integ, err := registry.GetIntegrator(cfg.Simulation.Integrator)
		if err != nil {
			return err
		}
		s := sim.New(acc, integ, logger.With(zap.String("solver", name)))
		for _, m := range registry.DefaultMetrics(cfg.Tree.G, radius) {
			s.AddMetric(m)
		}
		members[i] = s
	}

	if simLive {
		live := tui.NewLiveRenderer(os.Stdout, solvers[0], cfg.Tree.G, simFPS)
		live.Start()
		defer live.Stop()
		members[0].AddObserver(live)
	}

	simCfg := cfg.Simulation.Sim(cfg.Tree.G)
	fmt.Printf("simulating %d bodies for %d steps (%s, %s)...\n",
		len(bodies), cfg.Simulation.Steps, cfg.Simulation.Integrator, solvers)

	results, err := sim.NewEnsemble(members...).Run(cmd.Context(), bodies, simCfg)
	if err != nil {
		return err
	}

	for _, res := range results {
		fmt.Println()
		fmt.Println(title(res.Solver, res.Integrator))
		printKV("steps", res.StepsTaken, "snapshots", len(res.Snapshots))
		printMetrics(res.Metrics)
		for _, e := range res.Errors {
			fmt.Printf("  %s\n", tui.Hint.Render(e.Error()))
		}
	}
	if len(results) == 2 {
		div, err := analysis.Divergence(results[0].Snapshots, results[1].Snapshots)
		if err != nil {
			return err
		}
		fmt.Println()
		printKV(
			"separation", fmt.Sprintf("%.3e", div.Final()),
			"growth rate", fmt.Sprintf("%.4g", div.Rate),
		)
	}

	primary := results[0]
	if simJSON != "" {
		f, err := os.Create(simJSON)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := storage.ExportJSON(f, primary); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", simJSON)
	}
	if simSVG != "" {
		svg, err := export.TrajectorySVG(primary.Snapshots, 800, 800)
		if err != nil {
			return err
		}
		if err := os.WriteFile(simSVG, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", simSVG)
	}
	if simSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		params := treeParams(cfg.Tree)
		params["integrator"] = cfg.Simulation.Integrator
		params["dt"] = fmt.Sprint(cfg.Simulation.Dt)
		runID, err := st.Save(storage.RunMetadata{
			Kind:    "simulate",
			Bodies:  len(bodies),
			Dim:     bodies[0].Dim(),
			Seed:    cfg.Bodies.Seed,
			Solver:  primary.Solver,
			Params:  params,
			Metrics: primary.Metrics,
		}, energyTable(primary, cfg.Tree.G))
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printKV(name, fmt.Sprintf("%.6g", m[name]))
	}
}

// energyTable records the energy budget at every snapshot.
func energyTable(res *sim.Result, g float64) storage.Table {
	t := storage.Table{Columns: []string{"step", "time", "kinetic", "potential", "energy"}}
	for _, s := range res.Snapshots {
		k := metrics.Kinetic(s.Bodies)
		p := metrics.Potential(s.Bodies, g)
		t.Rows = append(t.Rows, []float64{float64(s.Step), s.Time, k, p, k + p})
	}
	return t
}

// spread is the largest distance of any body from the first, or 1 for
// degenerate sets.
func spread(bodies []body.Body) float64 {
	r := 0.0
	for _, b := range bodies[1:] {
		r = math.Max(r, b.Position.Sub(bodies[0].Position).Norm())
	}
	if r == 0 {
		return 1
	}
	return r
}
