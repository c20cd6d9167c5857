// Package commands provides the CLI commands for boatbus.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/telnet2/go-practice/go-boatbus/internal/config"
	"github.com/telnet2/go-practice/go-boatbus/internal/logging"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	printLogs bool
	logLevel  string
	directory string
)

var rootCmd = &cobra.Command{
	Use:   "boatbus",
	Short: "boatbus - boat rental page with a shared event bus",
	Long: `boatbus hosts a boat rental page whose widgets coordinate through an
in-process event bus, and exposes the bus over HTTP, SSE and WebSocket.

Run 'boatbus serve' to start the server, or 'boatbus watch' to follow
the events of a running one.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&printLogs, "print-logs", false, "Print logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().StringVar(&directory, "directory", "", "Project directory holding boatbus.json")

	rootCmd.SetVersionTemplate(fmt.Sprintf("boatbus %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(boatsCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(watchCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initLogging configures the global logger. Logs are discarded unless
// --print-logs is set, so command output stays clean.
func initLogging(cmd *cobra.Command, args []string) error {
	cfg := logging.DefaultConfig()
	cfg.Pretty = true
	if !printLogs {
		cfg.Output = io.Discard
	}
	if logLevel != "" {
		cfg.Level = logging.ParseLevel(logLevel)
	}
	logging.Init(cfg)
	return nil
}

// GetWorkDir returns the working directory from flag or current directory.
func GetWorkDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return os.Getwd()
}

// loadConfig loads and resolves the configuration for the project directory.
// A log level from the config file applies when --log-level is not given.
func loadConfig() (*types.Config, error) {
	workDir, err := GetWorkDir(directory)
	if err != nil {
		return nil, err
	}

	appConfig, err := config.Load(workDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	config.Resolve(appConfig)

	if logLevel == "" && appConfig.LogLevel != "" {
		logging.Logger = logging.Logger.Level(logging.ParseLevel(appConfig.LogLevel))
	}
	return appConfig, nil
}
