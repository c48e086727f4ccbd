package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ballsim/ballsim/internal/platform/tui"
	"github.com/ballsim/ballsim/internal/registry"
	"github.com/ballsim/ballsim/internal/storage"
)

var (
	flagPlain   bool
	flagFastest bool
	flagLimit   int
	flagClear   bool
)

var historyCmd = &cobra.Command{
	Use:   "history [scenario]",
	Short: "Show recorded runs",
	Long: `Browse the run history, optionally starting at one scenario.

With --plain the runs are printed instead of opening the browser.

Examples:
  ballsim history
  ballsim history settle
  ballsim history settle --plain --fastest
  ballsim history drop --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print runs instead of opening the browser")
	historyCmd.Flags().BoolVar(&flagFastest, "fastest", false, "List fastest settled runs instead of recent ones")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Maximum number of runs to print")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded runs (all scenarios if none given)")
}

func runHistory(_ *cobra.Command, args []string) {
	scenarioID := ""
	if len(args) == 1 {
		scenarioID = args[0]
		if !registry.Exists(scenarioID) {
			logger.Error("unknown scenario", "scenario", scenarioID)
			logger.Print("Run 'ballsim list' to see available scenarios.")
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Fatal("could not open run database", "path", flagDBPath, "error", err)
	}
	defer store.Close()

	switch {
	case flagClear:
		if err := store.ClearRuns(scenarioID); err != nil {
			logger.Error("could not clear runs", "error", err)
			return
		}
		logger.Info("runs deleted", "scenario", scenarioID)

	case flagPlain:
		if err := printHistory(store, scenarioID); err != nil {
			logger.Error("could not read runs", "error", err)
		}

	default:
		cfg := runtimeConfig()
		if _, err := tui.RunHistory(store, scenarioID, cfg.ScreenW, cfg.ScreenH); err != nil {
			logger.Error("history failed", "error", err)
		}
	}
}

func printHistory(store *storage.Store, scenarioID string) error {
	var (
		runs []storage.RunRecord
		err  error
	)
	if flagFastest {
		runs, err = store.TopRuns(scenarioID, flagLimit)
	} else {
		runs, err = store.RecentRuns(scenarioID, flagLimit)
	}
	if err != nil {
		return err
	}

	title := "all scenarios"
	if scenarioID != "" {
		title = scenarioID
	}
	fmt.Printf("Runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-8s  %-9s  %-5s  %-20s  %s\n", "#", "Scenario", "Ticks", "Stopped", "Off", "Seed", "Date")
	fmt.Printf("  %-4s  %-10s  %-8s  %-9s  %-5s  %-20s  %s\n", "-", "--------", "-----", "-------", "---", "----", "----")
	for i, r := range runs {
		stopped := fmt.Sprintf("%d/%d", r.Stopped, r.Balls)
		if r.Settled {
			stopped += "*"
		}
		fmt.Printf("  %-4d  %-10s  %-8d  %-9s  %-5d  %-20d  %s\n",
			i+1, r.Scenario, r.Ticks, stopped, r.OffScreen, r.Seed, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	summary, err := store.RunStats(scenarioID)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("%d runs, %d settled", summary.Runs, summary.SettledRuns)
	if summary.FastestTicks > 0 {
		fmt.Printf(", fastest %d ticks, average %.0f ticks", summary.FastestTicks, summary.AverageTicks)
	}
	fmt.Println()
	return nil
}
