package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ballsim/ballsim/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagSSHFPS      int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulator SSH server",
	Long: `Start an SSH server that lets users connect and watch simulations.

Each SSH connection gets its own session with a scenario menu and its own
seed. Runs are stored per-server (all users share the same history).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.ballsim/host_key

Examples:
  ballsim serve                           # Listen on :23235 with auto-generated key
  ballsim serve --ssh :2222               # Listen on port 2222
  ballsim serve --host-key ./my_host_key  # Use specific host key
  ballsim serve --db ./runs.db            # Use specific database

Users can connect with:
  ssh localhost -p 23235`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23235", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().IntVar(&flagSSHFPS, "session-fps", 30, "Maximum redraws per second for each session")
}

func runServe(_ *cobra.Command, _ []string) {
	base, err := loadBaseConfig(flagConfig, flagPreset)
	if err != nil {
		logger.Fatal("could not load config", "error", err)
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagSSHFPS
	cfg.Sim = base
	cfg.Logger = logger.WithPrefix("ballsim-ssh")

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		logger.Fatal("could not create server", "error", err)
	}

	logger.Info("connect with ssh", "address", server.Addr())
	logger.Info("press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("server error", "error", err)
	}
}
