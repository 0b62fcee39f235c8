package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"tokensniff/internal/config"
	"tokensniff/internal/logging"
)

// loadConfig resolves the configuration for the working directory and
// applies the persistent flags on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Resolve(cwd, explicit)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	return cfg, nil
}

// withLogger builds the run logger and stores it in the command context.
func withLogger(cmd *cobra.Command, cfg *config.Config) (context.Context, logr.Logger, error) {
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cmd.ErrOrStderr()})
	if err != nil {
		return nil, logr.Discard(), err
	}
	log, _ = logging.WithRun(log)
	log.V(1).Info("configuration loaded", "config", cfg.Path, "standard", cfg.Standard.Name)
	return logr.NewContext(cmd.Context(), log), log, nil
}
