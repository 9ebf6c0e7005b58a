package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/bhtree/internal/barneshut"
	"github.com/san-kum/bhtree/internal/body"
	"github.com/san-kum/bhtree/internal/config"
	"github.com/san-kum/bhtree/internal/generate"
	"github.com/san-kum/bhtree/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool
	metricsOut string

	// tree overrides
	theta    float64
	limit    int
	stopRule string
	order    string
	workers  int

	// body set overrides
	bodiesFile   string
	numBodies    int
	dim          int
	seed         int64
	distribution string

	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "bhtree",
		Short:         "Barnes-Hut gravity tree lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = newLogger(verbose)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logger != nil {
				_ = logger.Sync()
			}
			if metricsOut != "" {
				return prometheus.WriteToTextfile(metricsOut, prometheus.DefaultGatherer)
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".bhtree", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset tree configuration")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&metricsOut, "metrics-out", "", "write prometheus metrics to a textfile on exit")
	pf.Float64Var(&theta, "theta", barneshut.DefaultTheta, "opening angle")
	pf.IntVar(&limit, "limit", barneshut.DefaultLimit, "leaf body count or depth limit")
	pf.StringVar(&stopRule, "stop", "count", "stop rule (count|depth)")
	pf.StringVar(&order, "order", "quadrupole", "expansion order (monopole|quadrupole)")
	pf.IntVar(&workers, "workers", 0, "query workers (0 = GOMAXPROCS)")
	pf.StringVar(&bodiesFile, "bodies", "", "body file (id mass pos.. [vel..])")
	pf.IntVarP(&numBodies, "count", "n", 1000, "generated body count")
	pf.IntVar(&dim, "dim", 2, "dimension")
	pf.Int64Var(&seed, "seed", 42, "random seed")
	pf.StringVar(&distribution, "dist", generate.DistUniform, "generated distribution (uniform|gaussian|ring)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list tree presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(
		newAccelCmd(),
		newSweepCmd(),
		newTuneCmd(),
		newSimulateCmd(),
		newListCmd(),
		newPlotCmd(),
		newSVGCmd(),
		newBatchCmd(),
		newMonteCarloCmd(),
		presetsCmd,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// loadConfig layers defaults, the preset, the config file and finally any
// flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if preset != "" {
			loaded.Tree = cfg.Tree
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("theta") {
		cfg.Tree.Theta = theta
	}
	if flags.Changed("limit") {
		cfg.Tree.Limit = limit
	}
	if flags.Changed("stop") {
		cfg.Tree.StopRule = stopRule
	}
	if flags.Changed("order") {
		cfg.Tree.Order = order
	}
	if flags.Changed("workers") {
		cfg.Tree.Workers = workers
	}
	if flags.Changed("bodies") {
		cfg.Bodies.Path = bodiesFile
	}
	if flags.Changed("count") {
		cfg.Bodies.Count = numBodies
	}
	if flags.Changed("dim") {
		cfg.Bodies.Dim = dim
	}
	if flags.Changed("seed") {
		cfg.Bodies.Seed = seed
	}
	if flags.Changed("dist") {
		cfg.Bodies.Distribution = distribution
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadBodies(cfg *config.Config) ([]body.Body, error) {
	bodies, err := cfg.Bodies.Load()
	if err != nil {
		return nil, err
	}
	logger.Debug("bodies ready",
		zap.String("path", cfg.Bodies.Path),
		zap.String("distribution", cfg.Bodies.Distribution),
		zap.Int("count", len(bodies)),
	)
	return bodies, nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tTHETA\tLIMIT\tSTOP\tORDER")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%.2f\t%d\t%s\t%s\n", name, p.Theta, p.Limit, p.StopRule, p.Order)
	}
	return w.Flush()
}

func printKV(pairs ...any) {
	for i := 0; i+1 < len(pairs); i += 2 {
		label := fmt.Sprintf("%-14s", fmt.Sprint(pairs[i])+":")
		fmt.Printf("  %s %s\n", tui.Label.Render(label), tui.Value.Render(fmt.Sprint(pairs[i+1])))
	}
}

func treeParams(t config.TreeConfig) map[string]string {
	return map[string]string{
		"theta": fmt.Sprint(t.Theta),
		"limit": fmt.Sprint(t.Limit),
		"stop":  t.StopRule,
		"order": t.Order,
	}
}

func title(parts ...string) string {
	return tui.Title.Render(strings.Join(parts, " "))
}
