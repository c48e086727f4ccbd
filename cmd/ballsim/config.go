package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ballsim/ballsim/internal/config"
	"github.com/ballsim/ballsim/internal/scenarios"
)

var configCmd = &cobra.Command{
	Use:   "config [scenario]",
	Short: "Print the effective simulation config",
	Long: `Print the configuration a run would use, as YAML.

The config file, --preset and the scenario are applied in that order.
The output is a valid config file for --config.

Examples:
  ballsim config
  ballsim config gale
  ballsim config --preset damped > ~/.ballsim/configs/ballsim.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runConfig,
}

func runConfig(_ *cobra.Command, args []string) {
	cfg, err := loadBaseConfig(flagConfig, flagPreset)
	if err != nil {
		logger.Fatal("could not load config", "error", err)
	}

	if len(args) == 1 {
		cfg, err = scenarios.Configure(args[0], cfg, flagSeed)
		if err != nil {
			logger.Fatal("could not configure scenario", "scenario", args[0], "error", err)
		}
	} else if flagSeed != 0 {
		cfg.Run.Seed = flagSeed
	}

	if err := cfg.Validate(); err != nil {
		logger.Warn("config will not build a simulation", "error", err)
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		logger.Fatal("could not encode config", "error", err)
	}
	if _, err := os.Stdout.Write(data); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
