package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ballsim/ballsim/internal/platform/tui"
	"github.com/ballsim/ballsim/internal/registry"
	"github.com/ballsim/ballsim/internal/scenarios"
)

var runCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Watch a scenario",
	Long: `Start the specified scenario in the terminal.

Controls:
  Space/P    - Run/pause
  N          - Step one tick while paused
  R          - Reset balls and terrain
  +/-        - Double/halve the speed
  Ctrl+S     - Save a screenshot
  Q/Ctrl+C   - Quit

Examples:
  ballsim run stairs
  ballsim run gale --seed 7
  ballsim run flat --preset elastic
  ballsim run cascade --config ./my-ballsim.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func runRun(_ *cobra.Command, args []string) {
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

	s, err := scenarios.Build(scenarioID, base, flagSeed)
	if err != nil {
		logger.Fatal("could not build scenario", "scenario", scenarioID, "error", err)
	}

	store := openStore()

	runErr := tui.Run(s, scenarioID, store, runtimeConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		logger.Error("simulation failed", "scenario", scenarioID, "error", runErr)
		os.Exit(1)
	}
}
