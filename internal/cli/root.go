package cli

import (
	"log/slog"

	"github.com/me/rota/internal/config"
	"github.com/me/rota/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagDB        string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	cfg    config.Config
	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the rota CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rota",
		Short: "rota - round-by-round job allocation",
		Long:  "rota assigns a roster of workers to a list of jobs, one round at a time, keeping every worker busy.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("db") {
				c.DBPath = flagDB
			}
			if flags.Changed("log-level") {
				c.LogLevel = flagLogLevel
			}
			if flags.Changed("log-format") {
				c.LogFormat = flagLogFormat
			}
			if flagDebug {
				c.LogLevel = "debug"
			}
			cfg = c
			logger = logging.NewWithWriter(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}, cmd.ErrOrStderr())
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (or ROTA_DB env, default ~/.rota/rota.db)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newAllocateCmd(),
		newRoundCmd(),
		newValidateCmd(),
		newImportCmd(),
		newExportCmd(),
		newHistoryCmd(),
		newServeCmd(),
	)

	return root
}
