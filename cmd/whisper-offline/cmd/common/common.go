// Package common holds the flags and bootstrap shared by all subcommands.
package common

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whisper-offline/internal/app/logging"
	"whisper-offline/internal/config"
)

// Options are the persistent root flags.
type Options struct {
	ConfigPath string
	Verbose    bool
	LogLevel   string
}

var Opts Options

// BindFlags registers the persistent flags on root.
func BindFlags(root *cobra.Command) {
	root.PersistentFlags().StringVarP(&Opts.ConfigPath, "config", "c", "",
		"config file (default is $WHISPER_OFFLINE_CONFIG or ~/.whisper-offline/config.yaml)")
	root.PersistentFlags().BoolVarP(&Opts.Verbose, "verbose", "V", false, "verbose output")
	root.PersistentFlags().StringVar(&Opts.LogLevel, "log-level", "", "log level: debug, info, warn or error")
}

// Setup loads the configuration and builds the logger.
func Setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(Opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Log.Level
	if Opts.LogLevel != "" {
		level = Opts.LogLevel
	}
	if Opts.Verbose {
		level = "debug"
	}

	logger, err := logging.NewLogger(cfg.Log.Development || Opts.Verbose, level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}
