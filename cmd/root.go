package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/agentic-research/trackedit/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string

	cfg    *config.Config
	logger *slog.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (.hcl, .yaml, .json or .toml)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the document database (overrides config)")
}

var rootCmd = &cobra.Command{
	Use:           "trackedit",
	Short:         "trackedit: undoable editing of GPS track documents",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database = dbPath
		}
		logger, err = cfg.NewLogger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		logger.Debug("config loaded", "path", configPath, "database", cfg.Database)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
