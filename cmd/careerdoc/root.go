package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/erathia/careerdoc/config"
	"github.com/erathia/careerdoc/logging"
)

var (
	cfg       *config.Config
	logger    *slog.Logger
	closeLogs func() error
)

var rootCmd = &cobra.Command{
	Use:   "careerdoc",
	Short: "Scan, classify, and chunk career documents into a local database",
	Long: "careerdoc walks a directory of career documents (resumes, job descriptions,\n" +
		"cover letters), extracts their text, classifies each document, splits it into\n" +
		"size-bounded chunks, and stores everything in a local SQLite database.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger, closeLogs, err = logging.Setup(cfg.LogLevel, cfg.LogFile)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLogs != nil {
			_ = closeLogs()
		}
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(clearCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
