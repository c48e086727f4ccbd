package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/ballsim/ballsim/internal/config"
	"github.com/ballsim/ballsim/internal/core"
	"github.com/ballsim/ballsim/internal/storage"
)

// loadBaseConfig loads the simulation config and applies the preset flag.
func loadBaseConfig(path, preset string) (config.SimConfig, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if preset != "" {
		p, ok := config.ParsePreset(preset)
		if !ok {
			return cfg, fmt.Errorf("unknown preset %q (want one of %v)", preset, config.Presets())
		}
		config.ApplyPreset(&cfg, p)
		cfg.Clamp()
	}
	return cfg, nil
}

// runtimeConfig builds the viewport config from the terminal size.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the run history. Failures are logged and yield nil, the
// simulation works without history.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
