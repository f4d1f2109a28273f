package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rigid2d/internal/analysis"
	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/export"
	"github.com/san-kum/rigid2d/internal/observability"
	"github.com/san-kum/rigid2d/internal/sim"
	"github.com/san-kum/rigid2d/internal/storage"
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/world"
)

// settleSpeed is the |vy| below which analyze treats a body as at rest.
const settleSpeed = 0.5

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(app.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tITER\tSTEPS\tBODIES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Iterations,
			run.Steps,
			run.Bodies,
		)
	}
	return w.Flush()
}

// loadSeries resolves a run id (newest run when args is empty) and the
// body to inspect (first moving body when --body is negative).
func loadSeries(args []string) (*storage.RunMetadata, storage.Series, error) {
	st := storage.New(app.DataDir)
	runID := ""
	if len(args) > 0 {
		runID = args[0]
	} else {
		latest, err := st.Latest()
		if err != nil {
			return nil, storage.Series{}, err
		}
		runID = latest
	}

	meta, err := st.Load(runID)
	if err != nil {
		return nil, storage.Series{}, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, storage.Series{}, err
	}

	id := bodyIndex
	if id < 0 {
		id = storage.FirstDynamic(samples)
	}
	series := storage.BodySeries(samples, id)
	if len(series.Times) == 0 {
		return nil, storage.Series{}, fmt.Errorf("run %s has no samples for body %d", runID, id)
	}
	return meta, series, nil
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body's position and velocity",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	cmd.Flags().IntVar(&bodyIndex, "body", -1, "body index (default: first moving body)")
	return cmd
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadSeries(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "scene: %s\n", meta.Scene)
	fmt.Fprintf(out, "body: %d (%s)\n", series.Body, series.Shape)
	fmt.Fprintf(out, "samples: %d\n\n", len(series.Times))
	if len(series.Times) < 2 {
		return fmt.Errorf("not enough samples to plot")
	}

	columns := []struct {
		caption string
		pick    func(i int) float64
	}{
		{"x", func(i int) float64 { return series.Positions[i].X }},
		{"y (down)", func(i int) float64 { return series.Positions[i].Y }},
		{"vx", func(i int) float64 { return series.Velocities[i].X }},
		{"vy", func(i int) float64 { return series.Velocities[i].Y }},
	}
	for _, c := range columns {
		data := make([]float64, len(series.Times))
		for i := range data {
			data[i] = c.pick(i)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(c.caption+" vs time"),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	return nil
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounce and frequency analysis of a body",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	cmd.Flags().IntVar(&bodyIndex, "body", -1, "body index (default: first moving body)")
	return cmd
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadSeries(args)
	if err != nil {
		return err
	}
	if len(series.Times) < 2 {
		return fmt.Errorf("not enough samples to analyze")
	}
	step := series.Times[1] - series.Times[0]

	y := make([]float64, len(series.Times))
	vy := make([]float64, len(series.Times))
	for i := range series.Times {
		y[i] = series.Positions[i].Y
		vy[i] = series.Velocities[i].Y
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "analysis: %s\n", meta.ID)
	fmt.Fprintf(out, "scene: %s, body %d (%s)\n\n", meta.Scene, series.Body, series.Shape)

	if ps, err := analysis.PowerSpectrum(y); err == nil {
		plotData := ps[:max(len(ps)/4, 2)]
		fmt.Fprintln(out, asciigraph.Plot(plotData,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (y)"),
		))
		fmt.Fprintln(out)
	}

	freq, err := analysis.DominantFrequency(y, step)
	switch {
	case err != nil:
		fmt.Fprintf(out, "dominant frequency: n/a (%v)\n", err)
	default:
		fmt.Fprintf(out, "dominant frequency: %.3f hz\n", freq)
		if freq > 0 {
			fmt.Fprintf(out, "period: %.3f s\n", 1.0/freq)
		}
	}

	stats := analysis.Bounces(vy, step, settleSpeed)
	fmt.Fprintf(out, "bounces: %d\n", stats.Count)
	if stats.Count > 0 {
		fmt.Fprintf(out, "mean restitution: %.3f\n", stats.Restitution)
	}
	if stats.SettleTime >= 0 {
		fmt.Fprintf(out, "settled at: %.2f s\n", stats.SettleTime)
	} else {
		fmt.Fprintln(out, "settled at: never")
	}
	return nil
}

// output returns --out as a file, or the command's stdout.
func output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func newExportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run's frames as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	return cmd
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(app.DataDir)
	runID := ""
	if len(args) > 0 {
		runID = args[0]
	} else {
		latest, err := st.Latest()
		if err != nil {
			return err
		}
		runID = latest
	}

	w, closeFn, err := output(cmd)
	if err != nil {
		return err
	}
	if err := st.CopyFrames(runID, w); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

// simulate runs a scene headless with the standard metrics.
func simulate(cmd *cobra.Command, sc *config.Scene, every int) (*sim.Result, error) {
	s, err := newSimulator(sc, observability.GetLogger(), false)
	if err != nil {
		return nil, err
	}
	return s.Run(cmd.Context(), sim.Config{Duration: sc.Duration, Steps: intFlag(cmd, "steps"), SampleEvery: every})
}

func newExportJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-json [preset]",
		Short: "run a scene and export every sampled frame as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	addSceneFlags(cmd)
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps (overrides --time)")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", 6, "keep every Nth frame")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	return cmd
}

func exportJSON(cmd *cobra.Command, args []string) error {
	sc, err := resolveScene(cmd, args)
	if err != nil {
		return err
	}
	result, err := simulate(cmd, sc, intFlag(cmd, "sample-every"))
	if err != nil {
		return err
	}

	w, closeFn, err := output(cmd)
	if err != nil {
		return err
	}
	info := storage.RunInfo{Scene: sc.Name, Dt: sc.Dt, Iterations: sc.Iterations, Duration: sc.Duration, Seed: sc.Seed}
	if err := storage.ExportJSON(w, info, result); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func newExportSVGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-svg [preset]",
		Short: "run a scene and draw its last frame with trails as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	addSceneFlags(cmd)
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps (overrides --time)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	return cmd
}

func exportSVG(cmd *cobra.Command, args []string) error {
	sc, err := resolveScene(cmd, args)
	if err != nil {
		return err
	}
	result, err := simulate(cmd, sc, 4)
	if err != nil {
		return err
	}

	last := result.Frames[len(result.Frames)-1]
	var trails [][]vec.Vec2
	for i, b := range last.Bodies {
		if !b.IsStatic() {
			trails = append(trails, result.Trajectory(world.BodyID(i)))
		}
	}

	w, closeFn, err := output(cmd)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, export.FrameToSVG(last.Bodies, trails, export.DefaultOptions())); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME	BODIES	SPAWNED	ARENA	CONTROLLER	DURATION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				ctrl := p.Controller.Type
				if ctrl == "" {
					ctrl = config.ControllerNone
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%s\t%gs\n",
					name, len(p.Bodies), p.Spawn.Count, p.Arena.Enabled, ctrl, p.Duration)
			}
			return w.Flush()
		},
	}
}
