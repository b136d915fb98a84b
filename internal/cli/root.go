// Package cli is the cms command line: the server and admin account tools.
package cli

import (
	"SchoolCMS/internal/bootstrap"
	"SchoolCMS/internal/config"
	"SchoolCMS/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel string
}

// NewRootCommand creates the root command for the cms binary.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cms",
		Short: "School CMS admin console",
		Long:  "Serves the admin console for notices, the principal's message and achievements.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			bootstrap.Loadenv()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error), overrides LOG_LEVEL")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewCreateAdminCommand(opts))

	return cmd
}

// loadConfig reads the environment and builds the logger.
func loadConfig(opts *RootOptions) (config.AppConfig, *zap.Logger) {
	cfg := config.Load()
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	return cfg, logger.New(cfg.LogLevel)
}
