package main

import (
	"fmt"

	"github.com/sebuszqo/FinanceTracker/internal/config"
	"github.com/sebuszqo/FinanceTracker/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var envFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "financetracker",
	Short: "Personal finance tracker API",
	Long: `FinanceTracker serves the personal finance API: registration and login,
transaction recording, filtered listings, summaries and CSV export.

Examples:
  financetracker serve
  financetracker serve --backend memory --port 9000
  financetracker migrate up`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", ".env file to load (default .env when present)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")

	viper.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("LOG_FORMAT", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// initConfig loads the .env file and registers the configuration keys.
func initConfig() {
	bootstrap := logrus.New()
	if envFile != "" {
		config.LoadDotEnv(bootstrap, envFile)
	} else {
		config.LoadDotEnv(bootstrap)
	}
	config.SetDefaults(viper.GetViper())
}

// loadConfig reads and validates the configuration and builds the logger.
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg := config.Load(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}
