package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"symbol-world/internal/engineconfig"
	"symbol-world/internal/env"
	"symbol-world/internal/logger"
)

var (
	configPath string
	logPath    string
	verbose    bool
)

// The window and every raylib call stay on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "symworld",
		Short:         "Browse a file's symbol tree as boxes hanging in a 3D world",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", engineconfig.ConfigPath, "viewer config file")
	root.PersistentFlags().StringVar(&logPath, "log", logger.LogFilePath, "log file; empty keeps the log in memory")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug entries")
	root.AddCommand(newViewCmd(), newLayoutCmd(), newServeCmd())
	return root
}

// loadConfig reads .env, the config file and the SYMWORLD_* overrides, in that order.
func loadConfig(log *logger.Logger) engineconfig.Config {
	if err := env.Load(".env"); err != nil {
		log.Warnf("load .env: %v", err)
	}
	cfg, err := engineconfig.LoadFrom(configPath)
	if err != nil {
		log.Warnf("using default config: %v", err)
	}
	cfg.ApplyEnv()
	return cfg
}

func openLog() (*logger.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	log, err := logger.New(logPath, level)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return log, nil
}
