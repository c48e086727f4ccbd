package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/ballsim/ballsim/internal/registry"
	"github.com/ballsim/ballsim/internal/scenarios"
	"github.com/ballsim/ballsim/internal/sim"
	"github.com/ballsim/ballsim/internal/storage"
)

// Samples of the stopped count are taken every curveEvery ticks.
const curveEvery = 10

var (
	flagMaxTicks int
	flagHalt     bool
	flagPaced    bool
	flagGraph    bool
	flagNoSave   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario>",
	Short: "Run a scenario without a UI",
	Long: `Run the specified scenario headless and print the outcome.

The run ends when --max-ticks is reached, when every ball has stopped and
halting is enabled (--halt or the scenario's own policy), or on Ctrl+C.
Runs are recorded in the history database unless --no-save is given.

Examples:
  ballsim simulate settle
  ballsim simulate stairs --halt --graph
  ballsim simulate gale --max-ticks 5000 --seed 3
  ballsim simulate drop --paced --log-level debug`,
	Args: cobra.ExactArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 20000, "Stop after this many ticks (0 = no limit)")
	simulateCmd.Flags().BoolVar(&flagHalt, "halt", false, "Halt as soon as every ball has stopped")
	simulateCmd.Flags().BoolVar(&flagPaced, "paced", false, "Wait the configured tick interval between ticks")
	simulateCmd.Flags().BoolVar(&flagGraph, "graph", false, "Plot stopped balls over time")
	simulateCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
}

// simulateOptions controls a headless run.
type simulateOptions struct {
	MaxTicks int
	Interval time.Duration
}

// simulateResult is the outcome of a headless run.
type simulateResult struct {
	Stats   sim.Stats
	Settled bool
	Curve   []float64 // Stopped balls every curveEvery ticks
	Elapsed time.Duration
}

// simulate drives s until it halts, reaches opts.MaxTicks or ctx is done.
// Cancellation is not an error, the partial result is returned.
func simulate(ctx context.Context, s *sim.Simulation, opts simulateOptions, lg *log.Logger) (simulateResult, error) {
	var (
		res         simulateResult
		allStopped  bool
		start       = time.Now()
		lastStopped int
	)

	onTick := func(tr sim.TickResult) {
		for _, ev := range tr.Events {
			if ev.Event.Stopped {
				lg.Debug("ball stopped", "tick", tr.Stats.Ticks, "ball", ev.Index)
			}
		}
		if tr.Stats.Ticks%curveEvery == 0 {
			res.Curve = append(res.Curve, float64(tr.Stats.Stopped))
		}
		if tr.Stats.Stopped != lastStopped && tr.Stats.Stopped%10 == 0 {
			lg.Info("progress", "tick", tr.Stats.Ticks, "stopped", tr.Stats.Stopped, "total", tr.Stats.Total)
		}
		lastStopped = tr.Stats.Stopped
		if !allStopped && tr.Stats.AllStopped() {
			allStopped = true
			lg.Info("all balls stopped", "tick", tr.Stats.Ticks)
		}
		if opts.MaxTicks > 0 && tr.Stats.Ticks >= opts.MaxTicks {
			s.Stop()
		}
	}

	err := s.Run(ctx, opts.Interval, onTick)
	res.Stats = s.Stats()
	res.Settled = res.Stats.AllStopped()
	res.Elapsed = time.Since(start)

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		lg.Warn("run interrupted", "tick", res.Stats.Ticks)
		return res, nil
	}
	if err != nil {
		return res, err
	}
	if s.ShouldHalt() {
		lg.Info("halted", "tick", res.Stats.Ticks)
	}
	return res, nil
}

func runSimulate(_ *cobra.Command, args []string) {
	scenarioID := args[0]

	if !registry.Exists(scenarioID) {
		logger.Error("unknown scenario", "scenario", scenarioID)
		logger.Print("Run 'ballsim list' to see available scenarios.")
		os.Exit(1)
	}

	base, err := loadBaseConfig(flagConfig, flagPreset)
	if err != nil {
		logger.Fatal("could not load config", "error", err)
	}

	cfg, err := scenarios.Configure(scenarioID, base, flagSeed)
	if err != nil {
		logger.Fatal("could not configure scenario", "scenario", scenarioID, "error", err)
	}
	if flagHalt {
		cfg.Run.HaltWhenStopped = true
	}

	s, err := sim.New(cfg)
	if err != nil {
		logger.Fatal("invalid configuration", "scenario", scenarioID, "error", err)
	}

	logger.Info("starting",
		"scenario", scenarioID,
		"seed", cfg.Run.Seed,
		"balls", cfg.Balls.Count,
		"platforms", cfg.Terrain.Platforms,
		"gravity", cfg.Physics.Gravity,
		"hysteresis", cfg.Physics.Hysteresis,
		"wind", cfg.Physics.Wind,
		"halt", cfg.Run.HaltWhenStopped,
	)

	opts := simulateOptions{MaxTicks: flagMaxTicks}
	if flagPaced {
		opts.Interval = s.TickInterval()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, runErr := simulate(ctx, s, opts, logger)
	if res.Stats.Ticks > 0 && !flagNoSave {
		saveResult(scenarioID, s, res)
	}
	if runErr != nil {
		logger.Error("simulation failed", "scenario", scenarioID, "error", runErr)
		stop()
		os.Exit(1)
	}

	printResult(scenarioID, res)
}

// saveResult records a headless run, logging failures.
func saveResult(scenarioID string, s *sim.Simulation, res simulateResult) {
	store := openStore()
	if store == nil {
		return
	}
	defer store.Close()

	cfg := s.Config()
	id, err := store.SaveRun(storage.RunRecord{
		Scenario:   scenarioID,
		Seed:       cfg.Run.Seed,
		Balls:      res.Stats.Total,
		Ticks:      res.Stats.Ticks,
		Stopped:    res.Stats.Stopped,
		OffScreen:  res.Stats.OffScreen,
		Settled:    res.Settled,
		Hysteresis: cfg.Physics.Hysteresis,
	})
	if err != nil {
		logger.Warn("could not record run", "error", err)
		return
	}
	logger.Debug("run recorded", "id", id)
}

func printResult(scenarioID string, res simulateResult) {
	st := res.Stats
	fmt.Printf("Scenario:    %s\n", scenarioID)
	fmt.Printf("Ticks:       %d\n", st.Ticks)
	fmt.Printf("Stopped:     %d / %d\n", st.Stopped, st.Total)
	fmt.Printf("On screen:   %d\n", st.OnScreen)
	fmt.Printf("Off screen:  %d\n", st.OffScreen)
	fmt.Printf("Settled:     %t\n", res.Settled)
	fmt.Printf("Wall time:   %s\n", res.Elapsed.Round(time.Millisecond))

	if flagGraph && len(res.Curve) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(res.Curve,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("stopped balls, sampled every %d ticks", curveEvery)),
		))
	}
}
