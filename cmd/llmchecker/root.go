package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hoanghai1803/llmchecker/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "v0.1.0"

var (
	configPath string

	cfg        *config.Config
	closeLogFn func() error
)

var rootCmd = &cobra.Command{
	Use:          "llmchecker",
	Short:        "Discovers newly published open-weight LLMs and serves them to dashboards.",
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env file is normal outside development.
		if err := godotenv.Load(); err != nil {
			slog.Debug("no .env file loaded", "error", err)
		}

		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		closeLogFn, err = setupLogger(cfg.Log, os.Stderr)
		if err != nil {
			return fmt.Errorf("setting up logger: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeLogFn != nil {
			return closeLogFn()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to config file")
	rootCmd.DisableAutoGenTag = true

	rootCmd.AddCommand(
		serveCmd,
		checkCmd,
	)
}
