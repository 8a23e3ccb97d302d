package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	sim "github.com/intersection-sim/intersection-sim/sim"
	"github.com/intersection-sim/intersection-sim/sim/trace"
	"github.com/intersection-sim/intersection-sim/viz"
)

var (
	// CLI flags for light timings
	green      float64 // Green phase duration (seconds)
	yellow     float64 // Yellow phase duration (seconds)
	red        float64 // Red phase duration (seconds)
	startPhase string  // Phase the light starts in

	// CLI flags for vehicle kinematics
	maxSpeed float64 // Global speed limit (m/s), scaled per kind
	accel    float64 // Acceleration rate (m/s^2)
	decel    float64 // Comfortable deceleration rate (m/s^2)

	// CLI flags for spawning
	rate         float64 // Expected vehicle arrivals per second
	initialSpeed float64 // Speed vehicles enter the lane with (m/s)

	// CLI flags for lane geometry
	laneLength float64 // Spawn origin to departure edge (metres)
	stopLine   float64 // Stop line position from the origin (metres)
	minGap     float64 // Minimum bumper-to-bumper following gap (metres)

	// CLI flags for the loop
	step       float64 // Fixed simulation timestep (seconds)
	horizon    float64 // Simulated seconds to run in headless mode
	seed       int64   // Master seed for all randomness
	realtime   bool    // Pace ticks against the wall clock
	listenAddr string  // Address for the viz/command server; empty disables it
	logLevel   string  // Log verbosity level

	scenarioPath string // Optional YAML scenario overlay
	traceLevel   string // Event trace level (none, events)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "intersection-sim",
	Short: "Fixed-timestep simulator for a signalized intersection approach",
}

// buildConfig layers defaults, the scenario file, and explicitly set CLI
// flags, in that order. A flag left at its default never stomps a scenario
// value.
func buildConfig(cmd *cobra.Command) (sim.Config, error) {
	cfg := sim.DefaultConfig()

	if scenarioPath != "" {
		spec, err := sim.LoadScenario(scenarioPath)
		if err != nil {
			return cfg, err
		}
		if cfg, err = spec.Apply(cfg); err != nil {
			return cfg, err
		}
		if spec.Name != "" {
			logrus.Infof("Loaded scenario %q from %s", spec.Name, scenarioPath)
		}
	}

	f := cmd.Flags()
	if f.Changed("green") {
		cfg.Light.Green = green
	}
	if f.Changed("yellow") {
		cfg.Light.Yellow = yellow
	}
	if f.Changed("red") {
		cfg.Light.Red = red
	}
	if f.Changed("start-phase") {
		p, ok := sim.ParsePhase(startPhase)
		if !ok {
			return cfg, fmt.Errorf("unknown start phase %q; valid: green, yellow, red", startPhase)
		}
		cfg.Light.Start = p
	}
	if f.Changed("max-speed") {
		cfg.Kinematics.MaxSpeed = maxSpeed
	}
	if f.Changed("accel") {
		cfg.Kinematics.Accel = accel
	}
	if f.Changed("decel") {
		cfg.Kinematics.Decel = decel
	}
	if f.Changed("rate") {
		cfg.Spawn.Rate = rate
	}
	if f.Changed("initial-speed") {
		cfg.Spawn.InitialSpeed = initialSpeed
	}
	if f.Changed("lane-length") {
		cfg.Lane.Length = laneLength
	}
	if f.Changed("stop-line") {
		cfg.Lane.StopLine = stopLine
	}
	if f.Changed("min-gap") {
		cfg.Lane.MinGap = minGap
	}
	if f.Changed("dt") {
		cfg.Loop.Step = step
	}
	if f.Changed("horizon") {
		cfg.Loop.Horizon = horizon
	}
	if f.Changed("seed") {
		cfg.Loop.Seed = seed
	}
	cfg.Loop.Realtime = realtime
	return cfg, nil
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the intersection simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s (valid: none, events)", traceLevel)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		loop, err := sim.NewSimulationLoop(cfg)
		if err != nil {
			logrus.Fatalf("Unable to build simulation: %v", err)
		}

		var tracer *trace.SimulationTrace
		if trace.TraceLevel(traceLevel) == trace.TraceLevelEvents {
			tracer = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelEvents})
			loop.SetTracer(tracer)
			logrus.Infof("Event tracing enabled, run %s", tracer.RunID)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		startTime := time.Now()

		var g errgroup.Group
		if listenAddr != "" {
			server := viz.NewServer(loop.Inputs())
			loop.SetRenderer(server)
			g.Go(func() error {
				return server.Run(runCtx, listenAddr)
			})
		}
		g.Go(func() error {
			defer cancel()
			return loop.Run(runCtx)
		})

		if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		loop.Metrics().Print(loop.Clock())
		if tracer != nil {
			summary := trace.Summarize(tracer)
			fmt.Println("=== Trace Summary ===")
			fmt.Printf("Run ID               : %s\n", tracer.RunID)
			fmt.Printf("Phase Changes        : %d\n", summary.PhaseChanges)
			fmt.Printf("Mean Travel Time     : %.2f s\n", summary.MeanTravelTime)
			fmt.Printf("Max Wait Time        : %.2f s\n", summary.MaxWaitTime)
			fmt.Printf("Kind Distribution    : %v\n", summary.KindDistribution)
		}
		logrus.Infof("Simulation complete in %v (wall clock).", time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Float64Var(&green, "green", 6, "Green phase duration in seconds")
	runCmd.Flags().Float64Var(&yellow, "yellow", 2, "Yellow phase duration in seconds")
	runCmd.Flags().Float64Var(&red, "red", 6, "Red phase duration in seconds")
	runCmd.Flags().StringVar(&startPhase, "start-phase", "green", "Phase the light starts in (green, yellow, red)")

	runCmd.Flags().Float64Var(&maxSpeed, "max-speed", 14, "Global speed limit in m/s")
	runCmd.Flags().Float64Var(&accel, "accel", 2.5, "Acceleration rate in m/s^2")
	runCmd.Flags().Float64Var(&decel, "decel", 4.5, "Deceleration rate in m/s^2")

	runCmd.Flags().Float64Var(&rate, "rate", 0.3, "Expected vehicle arrivals per second")
	runCmd.Flags().Float64Var(&initialSpeed, "initial-speed", 8, "Spawn speed in m/s, capped by the kind's limit")

	runCmd.Flags().Float64Var(&laneLength, "lane-length", 120, "Lane length from origin to departure edge in metres")
	runCmd.Flags().Float64Var(&stopLine, "stop-line", 80, "Stop line position from the origin in metres")
	runCmd.Flags().Float64Var(&minGap, "min-gap", 2, "Minimum following gap in metres")

	runCmd.Flags().Float64Var(&step, "dt", 1.0/60.0, "Fixed simulation timestep in seconds")
	runCmd.Flags().Float64Var(&horizon, "horizon", 120, "Simulated seconds to run (headless mode; 0 = unbounded)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for all randomness")
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "Pace ticks against the wall clock and run until told to stop")
	runCmd.Flags().StringVar(&listenAddr, "listen", "", "Address for the viz/command server (e.g. :8080); empty disables it")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario overlay")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Event trace level (none, events)")

	rootCmd.AddCommand(runCmd)
}
