package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ballsim/ballsim/internal/platform/tui"
	"github.com/ballsim/ballsim/internal/scenarios"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the simulator with a scenario picker menu",
	Long: `Start the simulator in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to start a scenario.
When a run ends you return to the menu to pick another.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Start scenario
  Tab/H        - Run history
  Q            - Quit

Examples:
  ballsim menu
  ballsim menu --fps 30
  ballsim menu --preset damped --db ./runs.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	base, err := loadBaseConfig(flagConfig, flagPreset)
	if err != nil {
		logger.Fatal("could not load config", "error", err)
	}

	store := openStore()
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := runtimeConfig()

	for {
		result, err := tui.RunMenu(cfg)
		if err != nil {
			logger.Error("menu failed", "error", err)
			break
		}

		// Keep any size changes
		cfg = result.Config

		if result.Quit {
			break
		}

		if result.WantsHistory {
			goBack, histErr := tui.RunHistory(store, "", cfg.ScreenW, cfg.ScreenH)
			if histErr != nil {
				logger.Error("history failed", "error", histErr)
			}
			if goBack {
				continue
			}
			break
		}

		s, err := scenarios.Build(result.ScenarioID, base, flagSeed)
		if err != nil {
			logger.Error("could not build scenario", "scenario", result.ScenarioID, "error", err)
			continue
		}

		if err := tui.Run(s, result.ScenarioID, store, cfg); err != nil {
			logger.Error("simulation failed", "scenario", result.ScenarioID, "error", err)
			if store != nil {
				store.Close()
			}
			os.Exit(1)
		}
	}
}
