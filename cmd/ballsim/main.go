// ballsim is a terminal ball physics simulator: balls fall under gravity,
// bounce off stepped platforms, roll to rest and wrap around the edges.
//
// Usage:
//
//	ballsim list                  - List available scenarios
//	ballsim run <scenario>        - Watch a scenario in the terminal
//	ballsim simulate <scenario>   - Run a scenario headless and print results
//	ballsim menu                  - Pick scenarios interactively
//	ballsim history [scenario]    - Show recorded runs
//	ballsim serve                 - Start SSH server for remote viewing
//	ballsim config [scenario]     - Print the effective config as YAML
//
// Global flags:
//
//	--fps <rate>        - Cap redraws per second (default: 60)
//	--seed <value>      - Override the configured RNG seed
//	--db <path>         - Set database path (default: ~/.ballsim/runs.db)
//	--config <path>     - Load a custom simulation config YAML
//	--preset <name>     - Physics preset: elastic, damped, dead, windy
//	--log-level <level> - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import scenarios to register them
	_ "github.com/ballsim/ballsim/internal/scenarios"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPreset   string
	flagLogLevel string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "ballsim",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ballsim",
	Short: "Ball physics simulator for the terminal",
	Long: `ballsim drops balls onto a staircase of platforms and watches them
bounce, roll and settle. Balls leaving the right edge wrap around to the left.

Available commands:
  list      - Show all available scenarios
  run       - Watch a scenario directly
  simulate  - Run a scenario without a UI
  menu      - Interactive scenario picker
  history   - View recorded runs
  serve     - Start SSH server for remote viewing
  config    - Print the effective config

Examples:
  ballsim list
  ballsim run stairs
  ballsim simulate settle --graph
  ballsim menu --preset windy
  ballsim serve --ssh :2222`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Maximum redraws per second")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = use the configured seed)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.ballsim/runs.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom simulation config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Physics preset: elastic, damped, dead, windy")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
