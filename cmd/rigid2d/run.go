package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/san-kum/rigid2d/internal/automation"
	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/control"
	"github.com/san-kum/rigid2d/internal/metrics"
	"github.com/san-kum/rigid2d/internal/observability"
	"github.com/san-kum/rigid2d/internal/optim"
	"github.com/san-kum/rigid2d/internal/scene"
	"github.com/san-kum/rigid2d/internal/server"
	"github.com/san-kum/rigid2d/internal/sim"
	"github.com/san-kum/rigid2d/internal/storage"
	"github.com/san-kum/rigid2d/internal/viz"
	"github.com/san-kum/rigid2d/internal/world"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene headless and save the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSceneFlags(cmd)
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps (overrides --time)")
	cmd.Flags().StringVar(&scriptFile, "script", "", "scripted events file (yaml)")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", 1, "keep every Nth frame")
	cmd.Flags().BoolVar(&check, "check", false, "stop at the first NaN or Inf body")
	return cmd
}

// newSimulator builds the world, the scene's controller and the standard
// metrics for sc.
func newSimulator(sc *config.Scene, logger *zap.Logger, checks bool) (*sim.Simulator, error) {
	w, err := scene.Build(sc, world.WithLogger(logger), world.WithInvariantChecks(checks))
	if err != nil {
		return nil, err
	}
	ctrl, err := control.FromConfig(sc.Controller, scene.FirstListedBody(sc))
	if err != nil {
		return nil, err
	}
	s := sim.New(w, ctrl)
	for _, m := range metrics.Standard() {
		s.AddMetric(m)
	}
	return s, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger()
	sc, err := resolveScene(cmd, args)
	if err != nil {
		return err
	}

	s, err := newSimulator(sc, logger, check)
	if err != nil {
		return err
	}
	if scriptFile != "" {
		script, err := automation.LoadScript(scriptFile)
		if err != nil {
			return fmt.Errorf("failed to load script: %w", err)
		}
		s.AddController(automation.NewPlayer(script))
		logger.Info("script loaded", zap.String("name", script.Name), zap.Int("events", len(script.Events)))
	}

	st := storage.New(app.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "running %s...\n", sc.Name)
	start := time.Now()

	result, err := s.Run(cmd.Context(), sim.Config{
		Duration:      sc.Duration,
		Steps:         intFlag(cmd, "steps"),
		SampleEvery:   intFlag(cmd, "sample-every"),
		ValidateState: check,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		var stepErr *world.StepError
		if errors.As(err, &stepErr) {
			logger.Error("invalid body state",
				zap.Int("step", stepErr.Step),
				zap.Int("body", int(stepErr.Body)),
				zap.Error(stepErr.Wrapped))
		}
		if result == nil {
			return err
		}
	}
	elapsed := time.Since(start)

	info := storage.RunInfo{
		Scene:      sc.Name,
		Dt:         sc.Dt,
		Iterations: sc.Iterations,
		Duration:   sc.Duration,
		Seed:       sc.Seed,
	}
	runID, saveErr := st.Save(info, result)
	if saveErr != nil {
		return saveErr
	}
	logger.Info("run saved",
		zap.String("run_id", runID),
		zap.Int("steps", result.StepsTaken),
		zap.Duration("elapsed", elapsed))

	fmt.Fprintf(out, "completed in %v\n", elapsed)
	fmt.Fprintf(out, "run id: %s\n", runID)
	fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "controller errors: %d (first: %v)\n", len(result.Errors), result.Errors[0])
	}
	fmt.Fprintln(out, "\nmetrics:")
	printMetrics(out, result.Metrics)
	return err
}

func printMetrics(out io.Writer, m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, m[name])
	}
}

func newLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(cmd)
	cmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, fmt.Sprintf("colour theme %v", viz.ThemeNames()))
	return cmd
}

func runLive(cmd *cobra.Command, args []string) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("live needs an interactive terminal; use run instead")
	}
	sc, err := resolveScene(cmd, args)
	if err != nil {
		return err
	}

	opts := viz.Options{
		Scene:     sc,
		Theme:     theme,
		MaxBodies: app.Server.MaxBodies,
		Seed:      sc.Seed,
		Logger:    observability.GetLogger(),
	}
	if w, h, err := term.GetSize(fd); err == nil {
		opts.Width, opts.Height = server.CanvasSize(w, h)
	}

	m, err := viz.NewModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [preset]",
		Short: "serve the terminal viewer over ssh",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	addSceneFlags(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&hostKey, "host-key", "", "host key path (default from config)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger()
	sc, err := resolveScene(cmd, args)
	if err != nil {
		return err
	}

	cfg := app.Server
	if cmd.Flags().Changed("addr") {
		cfg.Addr = addr
	}
	if cmd.Flags().Changed("host-key") {
		cfg.HostKeyPath = hostKey
	}

	srv, err := server.New(cfg, sc, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	fmt.Fprintf(cmd.OutOrStdout(), "serving %s on ssh://%s\n", sc.Name, cfg.Addr)

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "measure steps per second for several solver iteration counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	addSceneFlags(cmd)
	cmd.Flags().IntVar(&steps, "steps", 600, "steps per measurement")
	return cmd
}

func benchScene(cmd *cobra.Command, args []string) error {
	sc, err := resolveScene(cmd, args)
	if err != nil {
		return err
	}

	n := intFlag(cmd, "steps")
	if n < 1 {
		return fmt.Errorf("--steps must be at least 1, got %d", n)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "benchmarking %s\n\n", sc.Name)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITERATIONS\tBODIES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, iters := range []uint{1, 5, 10, 20, 40} {
		cfg := sc.Clone()
		cfg.Iterations = iters
		wd, err := scene.Build(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		for range n {
			wd.Step()
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n",
			iters, wd.Len(), n, elapsed, float64(n)/elapsed.Seconds())
	}
	return w.Flush()
}

func newEnsembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ensemble [preset]",
		Short: "run seeded copies of a scene concurrently",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addSceneFlags(cmd)
	cmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")
	return cmd
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger()
	sc, err := resolveScene(cmd, args)
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", numRuns)
	}

	ens := sim.NewEnsemble(func(seed int64) (*sim.Simulator, error) {
		cfg := sc.Clone()
		cfg.Seed = seed
		return newSimulator(cfg, logger, false)
	}, numRuns, sc.Seed)

	start := time.Now()
	results, err := ens.Run(cmd.Context(), sim.Config{Duration: sc.Duration, SampleEvery: 1 << 30})
	if err != nil {
		return err
	}
	logger.Info("ensemble finished", zap.Int("runs", numRuns), zap.Duration("elapsed", time.Since(start)))

	names := make([]string, 0)
	for name := range results[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "SEED\tSTEPS")
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d", sc.Seed+int64(i), r.StepsTaken)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4f", r.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "rerun a scene over a range of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSceneFlags(cmd)
	cmd.Flags().StringVar(&sweepParam, "param", "restitution", "parameter: restitution, gravity or iterations")
	cmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	cmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	cmd.Flags().IntVar(&sweepN, "n", 5, "number of values")
	cmd.Flags().IntVar(&steps, "steps", 0, "steps per run (overrides --time)")
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	sc, err := resolveScene(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), sc, automation.ParameterSweep{
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepN,
		Steps:    intFlag(cmd, "steps"),
	}, observability.GetLogger())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tENERGY\tDRIFT\tMAX PEN\tSTABLE\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.3f\t%.4f\t%.4f\t%v\n",
			r.ParamValue, r.FinalEnergy, r.EnergyDrift, r.MaxPenetration, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	stable, unstable := automation.StableCount(results)
	fmt.Fprintf(cmd.OutOrStdout(), "\nstable: %d, unstable: %d\n", stable, unstable)
	return nil
}

func newTuneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid search the PID gains that hold the controlled body on target",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	addSceneFlags(cmd)
	cmd.Flags().Float64Var(&kpMin, "kp-min", 10, "smallest proportional gain")
	cmd.Flags().Float64Var(&kpMax, "kp-max", 80, "largest proportional gain")
	cmd.Flags().Float64Var(&kdMin, "kd-min", 2, "smallest derivative gain")
	cmd.Flags().Float64Var(&kdMax, "kd-max", 20, "largest derivative gain")
	cmd.Flags().IntVar(&gridN, "n", 4, "values per gain")
	cmd.Flags().IntVar(&steps, "steps", 0, "steps per run (overrides --time)")
	return cmd
}

func runTune(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger()
	if len(args) == 0 {
		args = []string{"hover"}
	}
	sc, err := resolveScene(cmd, args)
	if err != nil {
		return err
	}
	if sc.Controller.Type != config.ControllerPID {
		return fmt.Errorf("scene %q has no pid controller to tune", sc.Name)
	}
	if gridN < 1 {
		return fmt.Errorf("--n must be at least 1, got %d", gridN)
	}

	g, err := optim.NewGridSearch(
		[]string{"kp", "kd"},
		[][]float64{optim.Linspace(kpMin, kpMax, gridN), optim.Linspace(kdMin, kdMax, gridN)},
	)
	if err != nil {
		return err
	}

	target := scene.FirstListedBody(sc) + world.BodyID(sc.Controller.Body)
	build := func(params map[string]float64) (*sim.Simulator, error) {
		cfg := sc.Clone()
		cfg.Controller.Kp = params["kp"]
		cfg.Controller.Kd = params["kd"]
		s, err := newSimulator(cfg, logger, false)
		if err != nil {
			return nil, err
		}
		s.AddMetric(metrics.NewTrackingError(target, cfg.Controller.Target))
		return s, nil
	}

	start := time.Now()
	best, score, err := g.Search(cmd.Context(), build, sim.Config{
		Duration:    sc.Duration,
		Steps:       intFlag(cmd, "steps"),
		SampleEvery: 1 << 30,
	}, "tracking_error")
	if err != nil {
		return err
	}
	logger.Info("tuning finished",
		zap.Int("candidates", g.Candidates()),
		zap.Duration("elapsed", time.Since(start)))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "searched %d gain pairs for %s\n", g.Candidates(), sc.Name)
	fmt.Fprintf(out, "kp: %.3f\nkd: %.3f\ntracking error: %.4f\n", best["kp"], best["kd"], score)
	return nil
}
