package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/bhtree/internal/config"
	"github.com/san-kum/bhtree/internal/experiment"
	"github.com/san-kum/bhtree/internal/storage"
	"github.com/san-kum/bhtree/internal/sweep"
	"github.com/san-kum/bhtree/internal/tui"
)

var (
	sweepThetas []float64
	sweepLimits []int
	sweepTUI    bool
	sweepSave   bool
	sweepPlot   bool

	tuneBudget float64
	tuneWrite  string
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "sweep [theta|limit]",
		Short:     "measure accuracy and time across tree settings",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"theta", "limit"},
		RunE:      runSweep,
	}
	cmd.Flags().Float64SliceVar(&sweepThetas, "thetas", sweep.DefaultThetas, "opening angles to sweep")
	cmd.Flags().IntSliceVar(&sweepLimits, "limits", sweep.DefaultLimits, "limits to sweep")
	cmd.Flags().BoolVar(&sweepTUI, "tui", false, "show a live progress view")
	cmd.Flags().BoolVar(&sweepSave, "save", false, "store the sweep as a run")
	cmd.Flags().BoolVar(&sweepPlot, "plot", true, "plot mean deviation")
	return cmd
}

func newTuneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "find the fastest tree settings within a deviation budget",
		RunE:  runTune,
	}
	cmd.Flags().Float64SliceVar(&sweepThetas, "thetas", sweep.DefaultThetas, "opening angles to try")
	cmd.Flags().IntSliceVar(&sweepLimits, "limits", sweep.DefaultLimits, "limits to try")
	cmd.Flags().Float64Var(&tuneBudget, "budget", 1e-3, "maximum mean relative deviation")
	cmd.Flags().BoolVar(&sweepTUI, "tui", false, "show a live progress view")
	cmd.Flags().StringVar(&tuneWrite, "write", "", "write the tuned configuration to a yaml file")
	return cmd
}

func newSweeper(ctx context.Context, cfg *config.Config) (*sweep.Sweeper, *experiment.Experiment, error) {
	bodies, err := loadBodies(cfg)
	if err != nil {
		return nil, nil, err
	}
	base, err := cfg.Tree.Barneshut()
	if err != nil {
		return nil, nil, err
	}
	region, err := cfg.Region.Resolve()
	if err != nil {
		return nil, nil, err
	}

	fmt.Printf("computing direct reference for %d bodies...\n", len(bodies))
	exp, err := experiment.New(ctx, bodies, experiment.Config{
		G:       cfg.Tree.G,
		Region:  region,
		Padding: cfg.Region.Padding,
		Workers: cfg.Tree.Workers,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return sweep.New(exp, base, logger), exp, nil
}

// measure runs fn either plainly or behind the progress view.
func measure(ctx context.Context, heading string, total int, sw *sweep.Sweeper, fn func(context.Context) ([]sweep.Row, error)) ([]sweep.Row, error) {
	if sweepTUI {
		return tui.RunSweep(ctx, heading, total, func(ctx context.Context, p sweep.Progress) ([]sweep.Row, error) {
			sw.OnProgress(p)
			return fn(ctx)
		}, tea.WithContext(ctx))
	}
	return fn(ctx)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	sw, exp, err := newSweeper(ctx, cfg)
	if err != nil {
		return err
	}

	param := args[0]
	var rows []sweep.Row
	switch param {
	case "theta":
		rows, err = measure(ctx, "sweeping theta", len(sweepThetas), sw, func(ctx context.Context) ([]sweep.Row, error) {
			return sw.Thetas(ctx, sweepThetas)
		})
	case "limit":
		rows, err = measure(ctx, "sweeping limit", len(sweepLimits), sw, func(ctx context.Context) ([]sweep.Row, error) {
			return sw.Limits(ctx, sweepLimits)
		})
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(title("sweep", param, fmt.Sprintf("n=%d", len(exp.Bodies()))))
	fmt.Printf("direct reference: %v\n\n", exp.ReferenceTime())
	if err := printRows(rows); err != nil {
		return err
	}

	if sweepPlot && len(rows) > 1 {
		logDev := make([]float64, len(rows))
		for i, r := range rows {
			logDev[i] = math.Log10(math.Max(r.MeanDev, 1e-17))
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(logDev,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("log10 mean deviation vs %s", param)),
		))
	}

	if sweepSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		first := exp.Bodies()[0]
		runID, err := st.Save(storage.RunMetadata{
			Kind:   "sweep_" + param,
			Bodies: len(exp.Bodies()),
			Dim:    first.Dim(),
			Seed:   cfg.Bodies.Seed,
			Solver: "barnes-hut",
			Params: treeParams(cfg.Tree),
			Metrics: map[string]float64{
				"reference_ms": float64(exp.ReferenceTime()) / float64(time.Millisecond),
			},
		}, sweep.Table(rows))
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}
	return nil
}

func printRows(rows []sweep.Row) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "THETA\tLIMIT\tMEAN DEV\tMAX DEV\tBUILD\tQUERY\tSPEEDUP\tNODES\tDEPTH\t")
	for _, r := range rows {
		fmt.Fprintf(w, "%.3f\t%d\t%.3e\t%.3e\t%v\t%v\t%.1fx\t%d\t%d\t\n",
			r.Theta, r.Limit, r.MeanDev, r.MaxDev,
			r.Build.Round(time.Microsecond), r.Query.Round(time.Microsecond),
			r.Speedup, r.Nodes, r.MaxDepth,
		)
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	sw, exp, err := newSweeper(ctx, cfg)
	if err != nil {
		return err
	}

	var res sweep.TuneResult
	total := len(sweepThetas) * len(sweepLimits)
	_, err = measure(ctx, "tuning", total, sw, func(ctx context.Context) ([]sweep.Row, error) {
		var err error
		res, err = sw.Tune(ctx, sweepThetas, sweepLimits, tuneBudget)
		return nil, err
	})
	if err != nil {
		return err
	}

	m := res.Measurement
	fmt.Println()
	fmt.Println(title("tuned", fmt.Sprintf("n=%d", len(exp.Bodies())), fmt.Sprintf("budget=%.1e", tuneBudget)))
	printKV(
		"theta", res.Config.Theta,
		"limit", res.Config.Limit,
		"mean dev", fmt.Sprintf("%.3e", m.Deviation.Mean),
		"max dev", fmt.Sprintf("%.3e", m.Deviation.Max),
		"total", m.Total(),
		"direct", exp.ReferenceTime(),
		"evaluated", res.Evaluated,
	)

	if tuneWrite != "" {
		cfg.Tree.Theta = res.Config.Theta
		cfg.Tree.Limit = res.Config.Limit
		if err := config.Save(tuneWrite, cfg); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", tuneWrite)
	}
	return nil
}
