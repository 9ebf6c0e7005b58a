package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/bhtree/internal/analysis"
	"github.com/san-kum/bhtree/internal/export"
	"github.com/san-kum/bhtree/internal/storage"
)

var (
	plotColumns  []string
	plotJSON     bool
	plotSpectrum bool

	svgOut    string
	svgWidth  int
	svgHeight int
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored run columns",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	cmd.Flags().StringSliceVarP(&plotColumns, "column", "c", nil, "columns to plot (default depends on run kind)")
	cmd.Flags().BoolVar(&plotJSON, "meta", false, "print run metadata as JSON instead")
	cmd.Flags().BoolVar(&plotSpectrum, "spectrum", false, "plot the power spectrum of each column")
	return cmd
}

func newSVGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "svg",
		Short: "draw the cells of a 2-D tree as SVG",
		RunE:  writeTreeSVG,
	}
	cmd.Flags().StringVarP(&svgOut, "out", "o", "tree.svg", "output file")
	cmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	cmd.Flags().IntVar(&svgHeight, "height", 800, "image height")
	return cmd
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tBODIES\tDIM\tSOLVER\tTHETA\tLIMIT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Dim,
			run.Solver,
			run.Params["theta"],
			run.Params["limit"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	if plotJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}

	table, err := st.LoadTable(runID)
	if err != nil {
		return err
	}
	if len(table.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	columns := plotColumns
	if len(columns) == 0 {
		columns = defaultColumns(meta.Kind)
	}
	if len(columns) == 0 && len(table.Columns) > 0 {
		columns = table.Columns[min(1, len(table.Columns)-1):]
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("kind: %s\n", meta.Kind)
	fmt.Printf("rows: %d\n\n", len(table.Rows))

	for _, name := range columns {
		data, ok := table.Column(name)
		if !ok {
			return fmt.Errorf("run %s has no column %q (have %v)", runID, name, table.Columns)
		}
		caption := name
		if plotSpectrum {
			ps, err := analysis.Spectrum(data, sampleInterval(table))
			if err != nil {
				return err
			}
			data = ps.Power[1:]
			caption = fmt.Sprintf("power spectrum of %s (dominant %.4g)", name, ps.Dominant())
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if len(meta.Metrics) > 0 {
		fmt.Println("metrics:")
		printMetrics(meta.Metrics)
	}
	return nil
}

// sampleInterval is the spacing of the time column, or 1 when the run has
// none.
func sampleInterval(t storage.Table) float64 {
	times, ok := t.Column("time")
	if !ok || len(times) < 2 || times[1] <= times[0] {
		return 1
	}
	return times[1] - times[0]
}

func defaultColumns(kind string) []string {
	switch kind {
	case "sweep_theta", "sweep_limit":
		return []string{"mean_dev", "speedup"}
	case "simulate":
		return []string{"energy"}
	}
	return nil
}

func writeTreeSVG(cmd *cobra.Command, args []string) error {
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
	root, err := solver.Tree(bodies)
	if err != nil {
		return err
	}

	svg, err := export.TreeSVG(root, svgWidth, svgHeight)
	if err != nil {
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}

	stats := root.Stats()
	fmt.Printf("wrote %s (%d cells, depth %d)\n", svgOut, stats.Nodes, stats.MaxDepth)
	return nil
}
