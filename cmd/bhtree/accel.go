package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/bhtree/internal/direct"
	"github.com/san-kum/bhtree/internal/metrics"
	"github.com/san-kum/bhtree/internal/storage"
	"github.com/san-kum/bhtree/internal/vec"
)

var (
	accelCompare bool
	accelOut     string
)

func newAccelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accel",
		Short: "evaluate accelerations with the tree",
		RunE:  runAccel,
	}
	cmd.Flags().BoolVar(&accelCompare, "compare", false, "compare against direct summation")
	cmd.Flags().StringVarP(&accelOut, "out", "o", "", "write positions and accelerations to CSV")
	return cmd
}

func runAccel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	bodies, err := loadBodies(cfg)
	if err != nil {
		return err
	}
	solver, err := cfg.Solver()
	if err != nil {
		return err
	}
	if len(bodies) == 0 {
		return fmt.Errorf("no bodies to evaluate")
	}
	ctx := cmd.Context()

	start := time.Now()
	root, err := solver.Tree(bodies)
	if err != nil {
		return err
	}
	root.Precompute()
	build := time.Since(start)

	start = time.Now()
	accs, err := root.AccelerateAll(ctx, bodies, solver.Workers)
	if err != nil {
		return err
	}
	query := time.Since(start)

	stats := root.Stats()
	logger.Debug("accelerations computed",
		zap.Int("bodies", len(bodies)),
		zap.Int("nodes", stats.Nodes),
		zap.Duration("build", build),
		zap.Duration("query", query),
	)

	fmt.Println(title("barnes-hut", fmt.Sprintf("n=%d", len(bodies)), fmt.Sprintf("d=%d", root.Region().Dim())))
	printKV(
		"theta", cfg.Tree.Theta,
		"limit", fmt.Sprintf("%d (%s)", cfg.Tree.Limit, cfg.Tree.StopRule),
		"order", cfg.Tree.Order,
		"nodes", stats.Nodes,
		"leaves", stats.Leaves,
		"max depth", stats.MaxDepth,
		"max leaf", stats.MaxLeafBodies,
		"build", build,
		"query", query,
	)

	if accelCompare {
		ref := direct.New(cfg.Tree.G)
		ref.Workers = solver.Workers
		start = time.Now()
		exact, err := ref.Accelerations(ctx, bodies)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		dev, err := metrics.RelativeDeviation(accs, exact)
		if err != nil {
			return err
		}
		printKV(
			"direct", elapsed,
			"speedup", fmt.Sprintf("%.1fx", float64(elapsed)/float64(build+query)),
			"mean dev", fmt.Sprintf("%.3e", dev.Mean),
			"max dev", fmt.Sprintf("%.3e (body %d)", dev.Max, bodies[dev.Worst].ID),
			"rms dev", fmt.Sprintf("%.3e", dev.RMS),
		)
	}

	if accelOut != "" {
		positions := make([]vec.Vec, len(bodies))
		for i, b := range bodies {
			positions[i] = b.Position
		}
		if err := storage.ExportAccelerations(accelOut, positions, accs); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", accelOut)
	}
	return nil
}
