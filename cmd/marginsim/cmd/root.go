package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/marginsim/pkg/logger"
)

var (
	logLevel  string
	logPretty bool
)

var rootCmd = &cobra.Command{
	Use:   "marginsim",
	Short: "A leveraged dividend-portfolio backtest and margin simulator",
	Long: `Marginsim replays a core/satellite dividend portfolio over historical
daily bars and tracks what a margin loan does to it.

It provides tools for:
  - Backtesting the monthly rotation strategy, levered and unlevered
  - Simulating maintenance margin, forced deleveraging and loan interest
  - Screening candidate tickers by momentum and dividend yield
  - Fetching daily bars and dividends from Yahoo Finance
  - Journaling runs to CSV or SQLite for later comparison

Complete documentation is available at https://github.com/rustyeddy/marginsim`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetGlobalLogger(logger.New(logger.Config{
			Level:  logLevel,
			Pretty: logPretty,
		}))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "pretty", true, "human-readable log output")
}
