// Package cmd implements horsetab's CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"horsetab/config/daemonconfig"
	"horsetab/logging"
)

// Version information set at build time.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// Global flags.
var (
	globalConfigPath string
	globalSettings   string
	globalLogFile    string
	globalDebug      bool
)

var settings daemonconfig.Settings

// rootCmd is the base command for horsetab.
var rootCmd = &cobra.Command{
	Use:   "horsetab",
	Short: "Bind shell commands to Morse-like mouse click sequences",
	Long: `horsetab runs a background daemon that recognizes sequences of
dot/dash mouse clicks and dispatches the shell command bound to each
one, and a CLI to inspect, edit, and exercise that daemon.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := daemonconfig.Load(globalSettings)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		settings = loaded

		if globalConfigPath != "" {
			settings.ConfigPath = globalConfigPath
		}
		if globalLogFile != "" {
			settings.LogFile = globalLogFile
		}
		setupLogging()
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetContext returns a context that cancels on SIGINT/SIGTERM.
func GetContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalConfigPath, "config", "", "path to the horsetab command-configuration file (default: ~/.horsetab.conf)")
	rootCmd.PersistentFlags().StringVar(&globalSettings, "settings", "", "path to a YAML file with daemon settings")
	rootCmd.PersistentFlags().StringVar(&globalLogFile, "log-file", "", "rotate logs into this file in addition to stderr")
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "enable debug logging")
}

func setupLogging() {
	level := logging.ParseLevel(settings.LogLevel)
	if globalDebug {
		level = logging.ParseLevel("debug")
	}
	logger := logging.NewLogger(logging.Config{
		Level:  level,
		Format: settings.LogFormat,
		File:   settings.LogFile,
	})
	logging.SetDefault(logger)
}
