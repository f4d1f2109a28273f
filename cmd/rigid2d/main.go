package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/observability"
)

var (
	cfgFile     string
	dataDir     string
	logLevel    string
	dt          float64
	iterations  uint
	duration    float64
	steps       int
	seed        int64
	sceneFile   string
	scriptFile  string
	sampleEvery int
	check       bool
	bodyIndex   int
	theme       string
	addr        string
	hostKey     string
	numRuns     int
	outFile     string
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepN      int
	kpMin       float64
	kpMax       float64
	kdMin       float64
	kdMax       float64
	gridN       int

	// app is filled by the root command's PersistentPreRunE.
	app *config.AppConfig
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "rigid2d",
		Short:         "2d rigid body physics sandbox",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeConfig(v); err != nil {
				return err
			}
			cfg, err := config.NewAppConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "rigid2d"})
				return err
			}
			app = cfg
			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("config loaded",
				zap.String("data_dir", cfg.DataDir),
				zap.String("config", v.ConfigFileUsed()))
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./rigid2d.yaml)")
	pf.StringVar(&dataDir, "data", "", "run storage directory")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	_ = v.BindPFlag("data_dir", pf.Lookup("data"))
	_ = v.BindPFlag("logger.level", pf.Lookup("log-level"))

	rootCmd.AddCommand(
		newRunCmd(),
		newLiveCmd(),
		newServeCmd(),
		newListCmd(),
		newPlotCmd(),
		newAnalyzeCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newExportSVGCmd(),
		newPresetsCmd(),
		newBenchCmd(),
		newEnsembleCmd(),
		newSweepCmd(),
		newTuneCmd(),
	)
	return rootCmd
}

// initializeConfig layers defaults, an optional config file and RIGID2D_*
// environment variables. Bound flags win over all three.
func initializeConfig(v *viper.Viper) error {
	config.SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("rigid2d")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// addSceneFlags registers the flags that override a scene's settings.
func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().UintVar(&iterations, "iterations", config.DefaultIterations, "solver iterations per step")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for spawned bodies")
	cmd.Flags().StringVar(&sceneFile, "scene", "", "scene file path (yaml)")
}

// resolveScene applies preset < scene file < explicitly set flags.
func resolveScene(cmd *cobra.Command, args []string) (*config.Scene, error) {
	sc := config.DefaultScene()
	if len(args) > 0 {
		sc = config.GetPreset(args[0])
		if sc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	}

	if sceneFile != "" {
		loaded, err := config.Load(sceneFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load scene: %w", err)
		}
		sc = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		sc.Dt = dt
	}
	if flags.Changed("iterations") {
		sc.Iterations = iterations
	}
	if flags.Changed("time") {
		sc.Duration = duration
	}
	if flags.Changed("seed") {
		sc.Seed = seed
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// intFlag reads an int flag from cmd itself. Several commands share one
// variable with different defaults, so the variable cannot be trusted.
func intFlag(cmd *cobra.Command, name string) int {
	n, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0
	}
	return n
}
